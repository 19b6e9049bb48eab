package videohost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
)

// Client は動画ホスティングプロバイダのHTTP APIクライアントです
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewClient は新しいClientを作成します
func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ service.VideoProvider = (*Client)(nil)

type createUploadRequest struct {
	FileName string            `json:"file_name"`
	FileSize int64             `json:"file_size"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type createUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type uploadStatusResponse struct {
	Status  string `json:"status"` // uploading / processing / done
	VideoID string `json:"video_id,omitempty"`
}

type videoResponse struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Duration    int64      `json:"duration_seconds"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type authStatusResponse struct {
	Valid          bool  `json:"valid"`
	QuotaRemaining int64 `json:"quota_remaining"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateUpload はプロバイダ側にアップロードセッションを作成し、
// 再開可能アップロード用のURLを取得します
func (c *Client) CreateUpload(ctx context.Context, req service.CreateUploadRequest) (*service.UploadGrant, error) {
	body := createUploadRequest{
		FileName: req.FileName,
		FileSize: req.FileSize,
		Metadata: req.Metadata,
	}

	var resp createUploadResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/v1/uploads", body, &resp); err != nil {
		return nil, err
	}

	return &service.UploadGrant{
		UploadURL: resp.UploadURL,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// QueryUpload はアップロードURLの処理状態をプロバイダに照会します
func (c *Client) QueryUpload(ctx context.Context, uploadURL string) (*service.UploadOutcome, error) {
	endpoint := c.baseURL + "/v1/uploads/status?upload_url=" + url.QueryEscape(uploadURL)

	var resp uploadStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	return &service.UploadOutcome{
		Done:    resp.Status == "done",
		VideoID: resp.VideoID,
	}, nil
}

// GetVideo は公開済み動画の情報を取得します。
// 動画が存在しない場合は (nil, nil) を返します。
func (c *Client) GetVideo(ctx context.Context, videoID string) (*service.VideoInfo, error) {
	endpoint := c.baseURL + "/v1/videos/" + url.PathEscape(videoID)

	var resp videoResponse
	err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp)
	if err != nil {
		var perr *service.ProviderError
		if errors.As(err, &perr) && perr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &service.VideoInfo{
		VideoID:     resp.VideoID,
		Title:       resp.Title,
		Status:      resp.Status,
		Duration:    time.Duration(resp.Duration) * time.Second,
		PublishedAt: resp.PublishedAt,
	}, nil
}

// CheckAuth はAPIトークンの有効性と残りクォータを確認します
func (c *Client) CheckAuth(ctx context.Context) (*service.AuthStatus, error) {
	var resp authStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/v1/auth/status", nil, &resp); err != nil {
		return nil, err
	}

	return &service.AuthStatus{
		Valid:          resp.Valid,
		QuotaRemaining: resp.QuotaRemaining,
	}, nil
}

// doJSON はJSONリクエストを送信し、レスポンスをデコードします
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// ネットワークエラーは一時的な障害として扱う
		return &service.ProviderError{
			Code:      "NETWORK_ERROR",
			Message:   err.Error(),
			Permanent: false,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorFromResponse はHTTPエラーレスポンスをProviderErrorに変換します。
// 認証・認可エラーは恒久的な失敗、それ以外は再試行可能として扱います。
func (c *Client) errorFromResponse(resp *http.Response) error {
	var errResp errorResponse
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, &errResp)

	if errResp.Message == "" {
		errResp.Message = fmt.Sprintf("provider returned status %d", resp.StatusCode)
	}

	permanent := false
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		permanent = true
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		permanent = true
	}

	return &service.ProviderError{
		StatusCode: resp.StatusCode,
		Code:       errResp.Code,
		Message:    errResp.Message,
		Permanent:  permanent,
	}
}
