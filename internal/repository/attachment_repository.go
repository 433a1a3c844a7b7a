package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/models"
)

// AttachmentRepository отвечает за фотоматериалы обращений.
type AttachmentRepository struct {
	db *sqlx.DB
}

var ErrAttachmentNotFound = errors.New("attachment not found")

// NewAttachmentRepository создаёт новый экземпляр.
func NewAttachmentRepository(db *sqlx.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Insert сохраняет метаданные файла и возвращает идентификатор.
func (r *AttachmentRepository) Insert(ctx context.Context, attachment *models.Attachment) (int64, error) {
	query := `
		INSERT INTO request_attachments (request_id, file_path, file_size, mime_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	if err := r.db.GetContext(ctx, &id, query,
		attachment.RequestID, attachment.FilePath, attachment.FileSize, attachment.MimeType, attachment.CreatedAt); err != nil {
		return 0, fmt.Errorf("attachment repository: insert %w", err)
	}
	return id, nil
}

// GetByID возвращает метаданные файла.
func (r *AttachmentRepository) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	var attachment models.Attachment
	query := `SELECT id, request_id, file_path, file_size, mime_type, created_at FROM request_attachments WHERE id = $1`
	if err := r.db.GetContext(ctx, &attachment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("attachment repository: get by id %w", err)
	}
	return &attachment, nil
}

// ListByRequest возвращает файлы обращения.
func (r *AttachmentRepository) ListByRequest(ctx context.Context, requestID int64) ([]models.Attachment, error) {
	var attachments []models.Attachment
	query := `SELECT id, request_id, file_path, file_size, mime_type, created_at FROM request_attachments WHERE request_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &attachments, query, requestID); err != nil {
		return nil, fmt.Errorf("attachment repository: list by request %w", err)
	}
	return attachments, nil
}

// Delete удаляет метаданные файла.
func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM request_attachments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("attachment repository: delete %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}
