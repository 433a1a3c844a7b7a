package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/models"
)

// AuditRepository отвечает за журнал аудита. Таблица append-only:
// репозиторий умышленно не предоставляет UPDATE и DELETE.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository создаёт новый экземпляр.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert добавляет запись в журнал.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	query := `
		INSERT INTO audit_log (action, entity_type, entity_id, old_values, new_values, user_id, request_id, created_at)
		VALUES (:action, :entity_type, :entity_id, :old_values, :new_values, :user_id, :request_id, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("audit repository: insert %w", err)
	}
	return nil
}

// ListByRequest возвращает историю обращения в хронологическом порядке.
func (r *AuditRepository) ListByRequest(ctx context.Context, requestID int64) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	query := `
		SELECT id, action, entity_type, entity_id, old_values, new_values, user_id, request_id, created_at
		FROM audit_log
		WHERE request_id = $1
		ORDER BY created_at, id
	`
	if err := r.db.SelectContext(ctx, &entries, query, requestID); err != nil {
		return nil, fmt.Errorf("audit repository: list by request %w", err)
	}
	return entries, nil
}

// ListRecent возвращает последние записи журнала.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.AuditEntry
	query := `
		SELECT id, action, entity_type, entity_id, old_values, new_values, user_id, request_id, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("audit repository: list recent %w", err)
	}
	return entries, nil
}
