package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/database"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

const uploadSessionColumns = `
	id, owner_id, file_name, file_size, uploaded_bytes, status,
	external_video_id, external_upload_url, metadata, error_message,
	expires_at, created_at, updated_at`

// UploadSessionRepository はアップロードセッションリポジトリの実装です
type UploadSessionRepository struct {
	*database.BaseRepository
}

// NewUploadSessionRepository は新しいUploadSessionRepositoryを作成します
func NewUploadSessionRepository(txManager *database.TxManager) *UploadSessionRepository {
	return &UploadSessionRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create はアップロードセッションを作成します
func (r *UploadSessionRepository) Create(ctx context.Context, session *entity.UploadSession) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO upload_sessions (`+uploadSessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		session.ID,
		session.OwnerID,
		session.FileName,
		session.FileSize,
		session.UploadedBytes,
		string(session.Status),
		session.ExternalVideoID,
		session.ExternalUploadURL,
		session.Metadata,
		session.ErrorMessage,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)

	return r.HandleError(err)
}

// FindByOwner はIDと所有者でアップロードセッションを検索します
// 他人のセッションは存在しないセッションと同一のNotFoundになります
func (r *UploadSessionRepository) FindByOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error) {
	return r.findByOwner(ctx, id, ownerID, false)
}

// FindByOwnerForUpdate は行ロック付きでアップロードセッションを検索します
func (r *UploadSessionRepository) FindByOwnerForUpdate(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error) {
	return r.findByOwner(ctx, id, ownerID, true)
}

func (r *UploadSessionRepository) findByOwner(ctx context.Context, id, ownerID uuid.UUID, forUpdate bool) (*entity.UploadSession, error) {
	querier := r.Querier(ctx)

	query := `
		SELECT ` + uploadSessionColumns + `
		FROM upload_sessions
		WHERE id = $1 AND owner_id = $2`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	row := querier.QueryRow(ctx, query, id, ownerID)

	session, err := r.scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("upload session")
		}
		return nil, r.HandleError(err)
	}

	return session, nil
}

// Update はアップロードセッションの可変フィールドを更新します
// 書き込みは (id, owner_id) でスコープされ、対象が無ければNotFoundを返します
func (r *UploadSessionRepository) Update(ctx context.Context, session *entity.UploadSession) error {
	querier := r.Querier(ctx)

	tag, err := querier.Exec(ctx, `
		UPDATE upload_sessions
		SET uploaded_bytes = $3,
		    status = $4,
		    external_video_id = $5,
		    error_message = $6,
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2`,
		session.ID,
		session.OwnerID,
		session.UploadedBytes,
		string(session.Status),
		session.ExternalVideoID,
		session.ErrorMessage,
	)
	if err != nil {
		return r.HandleError(err)
	}

	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("upload session")
	}

	return nil
}

// FindExpired は期限切れかつ非終端のセッションを検索します
func (r *UploadSessionRepository) FindExpired(ctx context.Context, limit int) ([]*entity.UploadSession, error) {
	querier := r.Querier(ctx)

	rows, err := querier.Query(ctx, `
		SELECT `+uploadSessionColumns+`
		FROM upload_sessions
		WHERE expires_at < now()
		  AND status NOT IN ('completed', 'failed')
		ORDER BY expires_at
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	var sessions []*entity.UploadSession
	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return sessions, nil
}

// scanSession は1行をentity.UploadSessionに変換します
func (r *UploadSessionRepository) scanSession(row pgx.Row) (*entity.UploadSession, error) {
	var (
		id                uuid.UUID
		ownerID           uuid.UUID
		fileName          string
		fileSize          int64
		uploadedBytes     int64
		status            string
		externalVideoID   *string
		externalUploadURL string
		metadata          map[string]string
		errorMessage      *string
		expiresAt         time.Time
		createdAt         time.Time
		updatedAt         time.Time
	)

	if err := row.Scan(
		&id, &ownerID, &fileName, &fileSize, &uploadedBytes, &status,
		&externalVideoID, &externalUploadURL, &metadata, &errorMessage,
		&expiresAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return entity.ReconstructUploadSession(
		id, ownerID, fileName, fileSize, uploadedBytes,
		entity.UploadSessionStatus(status),
		externalVideoID, externalUploadURL, metadata, errorMessage,
		expiresAt, createdAt, updatedAt,
	), nil
}

// インターフェースの実装を保証
var _ repository.UploadSessionRepository = (*UploadSessionRepository)(nil)
