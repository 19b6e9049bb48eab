package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newUploadingSession(fileSize int64) *UploadSession {
	ownerID := uuid.New()
	return ReconstructUploadSession(
		uuid.New(), ownerID, "match_20260830.mp4", fileSize, 0,
		UploadSessionStatusUploading,
		nil, "https://upload.video-hub.example.com/u/abc123", nil, nil,
		time.Now().Add(24*time.Hour), time.Now(), time.Now(),
	)
}

func newExpiredUploadingSession() *UploadSession {
	s := newUploadingSession(1000)
	s.CreatedAt = time.Now().Add(-48 * time.Hour)
	s.UpdatedAt = time.Now().Add(-48 * time.Hour)
	s.ExpiresAt = time.Now().Add(-24 * time.Hour)
	return s
}

// NewUploadSession tests

func TestNewUploadSession_InitialStatusIsUploading(t *testing.T) {
	session := NewUploadSession(uuid.New(), "a.mp4", 1000, "https://example.com/u/1", time.Now().Add(time.Hour), nil)

	if session.Status != UploadSessionStatusUploading {
		t.Errorf("expected status uploading, got %s", session.Status)
	}
}

func TestNewUploadSession_UploadedBytesStartsAtZero(t *testing.T) {
	session := NewUploadSession(uuid.New(), "a.mp4", 1000, "https://example.com/u/1", time.Now().Add(time.Hour), nil)

	if session.UploadedBytes != 0 {
		t.Errorf("expected UploadedBytes 0, got %d", session.UploadedBytes)
	}
}

func TestNewUploadSession_ExternalVideoIDIsAbsent(t *testing.T) {
	session := NewUploadSession(uuid.New(), "a.mp4", 1000, "https://example.com/u/1", time.Now().Add(time.Hour), nil)

	if session.ExternalVideoID != nil {
		t.Error("new session should not carry an external video ID")
	}
}

// RecordProgress tests

func TestRecordProgress_PartialBytes_StatusStaysUploading(t *testing.T) {
	session := newUploadingSession(1000)

	if err := session.RecordProgress(500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != UploadSessionStatusUploading {
		t.Errorf("expected status uploading, got %s", session.Status)
	}
	if session.UploadedBytes != 500 {
		t.Errorf("expected UploadedBytes 500, got %d", session.UploadedBytes)
	}
}

func TestRecordProgress_AllBytes_TransitionsToProcessing(t *testing.T) {
	session := newUploadingSession(1000)

	if err := session.RecordProgress(1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != UploadSessionStatusProcessing {
		t.Errorf("expected status processing, got %s", session.Status)
	}
}

func TestRecordProgress_MoreThanFileSize_TransitionsToProcessing(t *testing.T) {
	session := newUploadingSession(1000)

	if err := session.RecordProgress(1200); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != UploadSessionStatusProcessing {
		t.Errorf("expected status processing, got %s", session.Status)
	}
	// 保存値はクランプしない
	if session.UploadedBytes != 1200 {
		t.Errorf("expected UploadedBytes 1200, got %d", session.UploadedBytes)
	}
}

func TestRecordProgress_StaleLowerValue_KeepsStoredBytes(t *testing.T) {
	session := newUploadingSession(1000)

	if err := session.RecordProgress(600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := session.RecordProgress(400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UploadedBytes != 600 {
		t.Errorf("expected UploadedBytes to stay 600, got %d", session.UploadedBytes)
	}
}

func TestRecordProgress_NegativeBytes_ReturnsError(t *testing.T) {
	session := newUploadingSession(1000)

	if err := session.RecordProgress(-1); err != ErrNegativeUploadedBytes {
		t.Errorf("expected ErrNegativeUploadedBytes, got %v", err)
	}
	if session.UploadedBytes != 0 {
		t.Errorf("rejected report must not mutate, got %d", session.UploadedBytes)
	}
}

func TestRecordProgress_CompletedSession_ReturnsError(t *testing.T) {
	session := newUploadingSession(1000)
	_ = session.RecordProgress(1000)
	if err := session.Complete("vid_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := session.RecordProgress(1000); err != ErrUploadSessionCompleted {
		t.Errorf("expected ErrUploadSessionCompleted, got %v", err)
	}
}

func TestRecordProgress_FailedSession_ReturnsError(t *testing.T) {
	session := newUploadingSession(1000)
	_ = session.Fail("quota exceeded")

	if err := session.RecordProgress(100); err != ErrUploadSessionFailed {
		t.Errorf("expected ErrUploadSessionFailed, got %v", err)
	}
}

// Complete tests

func TestComplete_SetsVideoIDAndStatus(t *testing.T) {
	session := newUploadingSession(1000)
	_ = session.RecordProgress(1000)

	if err := session.Complete("vid_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != UploadSessionStatusCompleted {
		t.Errorf("expected status completed, got %s", session.Status)
	}
	if session.ExternalVideoID == nil || *session.ExternalVideoID != "vid_123" {
		t.Error("expected ExternalVideoID to be vid_123")
	}
}

func TestComplete_AlreadyCompleted_ReturnsError(t *testing.T) {
	session := newUploadingSession(1000)
	_ = session.Complete("vid_123")

	if err := session.Complete("vid_456"); err != ErrUploadSessionCompleted {
		t.Errorf("expected ErrUploadSessionCompleted, got %v", err)
	}
}

func TestComplete_ExpiredSession_ReturnsError(t *testing.T) {
	session := newExpiredUploadingSession()

	if err := session.Complete("vid_123"); err != ErrUploadSessionExpired {
		t.Errorf("expected ErrUploadSessionExpired, got %v", err)
	}
}

// Fail / Expire tests

func TestFail_SetsStatusAndMessage(t *testing.T) {
	session := newUploadingSession(1000)

	if err := session.Fail("provider rejected upload"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != UploadSessionStatusFailed {
		t.Errorf("expected status failed, got %s", session.Status)
	}
	if session.ErrorMessage == nil || *session.ErrorMessage != "provider rejected upload" {
		t.Error("expected error message to be set")
	}
}

func TestExpire_SetsFixedMessage(t *testing.T) {
	session := newExpiredUploadingSession()

	if err := session.Expire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ErrorMessage == nil || *session.ErrorMessage != SessionExpiredMessage {
		t.Errorf("expected %q, got %v", SessionExpiredMessage, session.ErrorMessage)
	}
	if !session.IsExpiredFailure() {
		t.Error("expected IsExpiredFailure to be true")
	}
}

func TestExpire_AlreadyFailed_IsIdempotentError(t *testing.T) {
	session := newExpiredUploadingSession()
	_ = session.Expire()
	before := session.UpdatedAt

	// 2回目の期限切れ検出は状態を変更しない
	if err := session.Expire(); err != ErrUploadSessionFailed {
		t.Errorf("expected ErrUploadSessionFailed, got %v", err)
	}
	if !session.UpdatedAt.Equal(before) {
		t.Error("second expire must not mutate the session")
	}
}

// ProgressPercentage tests

func TestProgressPercentage_HalfUploaded(t *testing.T) {
	session := newUploadingSession(1000)
	_ = session.RecordProgress(500)

	if got := session.ProgressPercentage(); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
}

func TestProgressPercentage_Rounds(t *testing.T) {
	session := newUploadingSession(3)
	_ = session.RecordProgress(1)

	// round(100/3) = 33
	if got := session.ProgressPercentage(); got != 33 {
		t.Errorf("expected 33, got %d", got)
	}

	_ = session.RecordProgress(2)

	// round(200/3) = 67
	if got := session.ProgressPercentage(); got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestProgressPercentage_ZeroFileSize_ReturnsZero(t *testing.T) {
	session := newUploadingSession(0)

	if got := session.ProgressPercentage(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestProgressPercentage_OverUpload_ClampsTo100(t *testing.T) {
	session := newUploadingSession(1000)
	_ = session.RecordProgress(1500)

	if got := session.ProgressPercentage(); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

// MatchesFile tests

func TestMatchesFile_SameNameAndSize_ReturnsTrue(t *testing.T) {
	session := newUploadingSession(1000)

	if !session.MatchesFile("match_20260830.mp4", 1000) {
		t.Error("expected match")
	}
}

func TestMatchesFile_DifferentSize_ReturnsFalse(t *testing.T) {
	session := newUploadingSession(1000)

	if session.MatchesFile("match_20260830.mp4", 999) {
		t.Error("expected mismatch on size")
	}
}

func TestMatchesFile_DifferentName_ReturnsFalse(t *testing.T) {
	session := newUploadingSession(1000)

	if session.MatchesFile("other.mp4", 1000) {
		t.Error("expected mismatch on name")
	}
}

// IsExpired / IsTerminal tests

func TestIsExpired_PastDeadline_ReturnsTrue(t *testing.T) {
	session := newExpiredUploadingSession()

	if !session.IsExpired() {
		t.Error("expected expired")
	}
}

func TestIsTerminal_CompletedAndFailed(t *testing.T) {
	completed := newUploadingSession(1000)
	_ = completed.Complete("vid_1")
	failed := newUploadingSession(1000)
	_ = failed.Fail("boom")

	if !completed.IsTerminal() || !failed.IsTerminal() {
		t.Error("completed and failed must be terminal")
	}
	if newUploadingSession(1000).IsTerminal() {
		t.Error("uploading must not be terminal")
	}
}

func TestIsOwnedBy(t *testing.T) {
	session := newUploadingSession(1000)

	if !session.IsOwnedBy(session.OwnerID) {
		t.Error("expected owner to match")
	}
	if session.IsOwnedBy(uuid.New()) {
		t.Error("expected different user not to match")
	}
}
