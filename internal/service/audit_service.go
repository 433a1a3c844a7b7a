package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Artixsss/MVDProject/internal/goroutine"
	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
)

// AuditStore описывает хранилище журнала аудита.
type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
	ListByRequest(ctx context.Context, requestID int64) ([]models.AuditEntry, error)
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// AuditService ведёт журнал действий над обращениями. Журнал только
// пополняется: сервис не предоставляет операций изменения и удаления.
type AuditService struct {
	store AuditStore
}

// NewAuditService создаёт сервис аудита.
func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

// LogAction записывает действие. oldValues и newValues сериализуются в JSON,
// nil означает отсутствие снимка.
func (s *AuditService) LogAction(ctx context.Context, action string, entityID int64, oldValues, newValues any, userID, requestID *int64) error {
	entry := &models.AuditEntry{
		Action:     action,
		EntityType: models.EntityCitizenRequest,
		EntityID:   entityID,
		UserID:     userID,
		RequestID:  requestID,
		CreatedAt:  time.Now().UTC(),
	}

	var err error
	if entry.OldValues, err = marshalSnapshot(oldValues); err != nil {
		return fmt.Errorf("audit service: old values %w", err)
	}
	if entry.NewValues, err = marshalSnapshot(newValues); err != nil {
		return fmt.Errorf("audit service: new values %w", err)
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		return fmt.Errorf("audit service: %w", err)
	}
	return nil
}

// LogStatusChange записывает смену статуса обращения.
func (s *AuditService) LogStatusChange(ctx context.Context, requestID int64, oldStatus, newStatus string, userID *int64) error {
	return s.LogAction(ctx, models.AuditActionUpdateStatus, requestID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": newStatus},
		userID, &requestID)
}

// LogActionAsync записывает действие в фоне. Неудача записи логируется
// и не влияет на вызвавшую операцию.
func (s *AuditService) LogActionAsync(action string, entityID int64, oldValues, newValues any, userID, requestID *int64) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.LogAction(ctx, action, entityID, oldValues, newValues, userID, requestID); err != nil {
			logger.Log.WithField("error", err.Error()).WithField("action", action).Error("audit: не удалось записать действие")
		}
	})
}

// History возвращает журнал обращения в хронологическом порядке.
func (s *AuditService) History(ctx context.Context, requestID int64) ([]models.AuditEntry, error) {
	return s.store.ListByRequest(ctx, requestID)
}

// Recent возвращает последние записи журнала.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return s.store.ListRecent(ctx, limit)
}

// marshalSnapshot сериализует снимок значений в JSON-строку.
func marshalSnapshot(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}
