package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Artixsss/MVDProject/internal/ai"
	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
)

// EmployeeStore описывает доступ к сотрудникам из сервиса обращений.
type EmployeeStore interface {
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
}

// RequestService управляет жизненным циклом принятого обращения:
// статусы, исполнители, корректировка категории, повторный анализ.
type RequestService struct {
	requests  RequestStore
	refs      ReferenceStore
	employees EmployeeStore
	audit     *AuditService
	analyzer  Analyzer
	hub       Notifier
}

// NewRequestService создаёт сервис обращений.
func NewRequestService(requests RequestStore, refs ReferenceStore, employees EmployeeStore, audit *AuditService, analyzer Analyzer) *RequestService {
	return &RequestService{
		requests:  requests,
		refs:      refs,
		employees: employees,
		audit:     audit,
		analyzer:  analyzer,
	}
}

// SetHub устанавливает WebSocket hub для отправки уведомлений.
func (s *RequestService) SetHub(hub Notifier) {
	s.hub = hub
}

// canTransition единственная точка решения о допустимости перехода.
// Сейчас сотрудник может перевести обращение в любой статус, включая
// выход из терминального.
func canTransition(from, to string) bool {
	return true
}

// GetByID возвращает обращение.
func (s *RequestService) GetByID(ctx context.Context, id int64) (*models.CitizenRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, apperror.ErrRequestNotFound
		}
		return nil, fmt.Errorf("request service: %w", err)
	}
	return req, nil
}

// GetByNumber возвращает обращение по публичному трек-номеру.
func (s *RequestService) GetByNumber(ctx context.Context, number string) (*models.CitizenRequest, error) {
	req, err := s.requests.GetByRequestNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, apperror.ErrRequestNotFound
		}
		return nil, fmt.Errorf("request service: %w", err)
	}
	return req, nil
}

// List возвращает обращения с фильтрами.
func (s *RequestService) List(ctx context.Context, filter repository.ListFilter) ([]models.CitizenRequest, error) {
	return s.requests.List(ctx, filter)
}

// ListByCitizen возвращает обращения заявителя.
func (s *RequestService) ListByCitizen(ctx context.Context, citizenID int64) ([]models.CitizenRequest, error) {
	return s.requests.ListByCitizen(ctx, citizenID)
}

// History возвращает журнал аудита обращения.
func (s *RequestService) History(ctx context.Context, requestID int64) ([]models.AuditEntry, error) {
	if _, err := s.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.audit.History(ctx, requestID)
}

// RecentAudit возвращает последние записи журнала по всем обращениям.
func (s *RequestService) RecentAudit(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return s.audit.Recent(ctx, limit)
}

// ChangeStatus переводит обращение в новый статус.
func (s *RequestService) ChangeStatus(ctx context.Context, id, statusID int64, userID int64) (*models.CitizenRequest, error) {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus, err := s.refs.GetStatusByID(ctx, req.RequestStatusID)
	if err != nil {
		return nil, fmt.Errorf("request service: текущий статус %w", err)
	}
	newStatus, err := s.refs.GetStatusByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, repository.ErrStatusNotFound) {
			return nil, apperror.ErrStatusNotFound
		}
		return nil, fmt.Errorf("request service: новый статус %w", err)
	}

	if !canTransition(oldStatus.Name, newStatus.Name) {
		return nil, apperror.New(apperror.ErrCodeConflict,
			fmt.Sprintf("переход из статуса %q в %q недопустим", oldStatus.Name, newStatus.Name))
	}

	req.RequestStatusID = newStatus.ID
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("request service: %w", err)
	}

	if err := s.audit.LogStatusChange(ctx, id, oldStatus.Name, newStatus.Name, &userID); err != nil {
		logger.Log.WithField("error", err.Error()).Error("request: не удалось записать аудит смены статуса")
	}

	s.notify("status_changed", map[string]interface{}{
		"request_id": id,
		"old_status": oldStatus.Name,
		"new_status": newStatus.Name,
	})

	return req, nil
}

// AssignExecutor закрепляет обращение за исполнителем. Обращение в
// статусе "Новое" при этом переходит в "В работе".
func (s *RequestService) AssignExecutor(ctx context.Context, id, employeeID int64, userID int64) (*models.CitizenRequest, error) {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, apperror.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("request service: %w", err)
	}

	var oldAssigned interface{}
	if req.AssignedToID != nil {
		oldAssigned = *req.AssignedToID
	}

	req.AssignedToID = &employee.ID

	status, err := s.refs.GetStatusByID(ctx, req.RequestStatusID)
	if err != nil {
		return nil, fmt.Errorf("request service: статус %w", err)
	}
	if status.Name == models.StatusNew {
		inProgress, err := s.refs.GetStatusByName(ctx, models.StatusInProgress)
		if err != nil {
			return nil, fmt.Errorf("request service: статус %w", err)
		}
		req.RequestStatusID = inProgress.ID
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("request service: %w", err)
	}

	if err := s.audit.LogAction(ctx, models.AuditActionAssignExecutor, id,
		map[string]interface{}{"assigned_to": oldAssigned},
		map[string]interface{}{"assigned_to": employee.ID, "assigned_name": employee.FullName()},
		&userID, &id); err != nil {
		logger.Log.WithField("error", err.Error()).Error("request: не удалось записать аудит назначения")
	}

	s.notify("executor_assigned", map[string]interface{}{
		"request_id":  id,
		"employee_id": employee.ID,
	})

	return req, nil
}

// CorrectCategory ручная корректировка категории сотрудником. Итоговая
// категория перекрывает вердикт, AI-поля остаются как есть.
func (s *RequestService) CorrectCategory(ctx context.Context, id, categoryID int64, userID int64) (*models.CitizenRequest, error) {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category, err := s.refs.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperror.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("request service: %w", err)
	}

	var oldCategory interface{}
	if req.FinalCategory != nil {
		oldCategory = *req.FinalCategory
	} else if req.AICategory != nil {
		oldCategory = *req.AICategory
	}

	req.CategoryID = category.ID
	req.FinalCategory = &category.Name
	req.IsAICorrected = true

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("request service: %w", err)
	}

	// Корректировка — частая операция, запись в журнал не должна её
	// задерживать.
	s.audit.LogActionAsync(models.AuditActionAICorrection, id,
		map[string]interface{}{"category": oldCategory},
		map[string]interface{}{"category": category.Name},
		&userID, &id)

	return req, nil
}

// Reclassify повторно запускает анализ. Перезаписывается только AI-бандл:
// итоговая категория и флаг корректировки не меняются, сколько бы раз
// анализ ни выполнялся.
func (s *RequestService) Reclassify(ctx context.Context, id int64) (*models.CitizenRequest, error) {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	verdict := s.analyzer.AnalyzeRequest(ctx, req.Description)
	applyAIBundle(req, verdict)

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("request service: %w", err)
	}

	s.notify("ai_analysis_ready", map[string]interface{}{
		"request_id":  id,
		"ai_category": verdict.Category,
		"ai_priority": verdict.Priority,
	})

	return req, nil
}

// Delete удаляет обращение, предварительно сняв снимок для журнала.
func (s *RequestService) Delete(ctx context.Context, id int64, userID int64) error {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	snapshot := map[string]interface{}{
		"id":                req.ID,
		"request_number":    req.RequestNumber,
		"description":       req.Description,
		"incident_location": req.IncidentLocation,
		"created_at":        req.CreatedAt,
	}
	if status, err := s.refs.GetStatusByID(ctx, req.RequestStatusID); err == nil {
		snapshot["status"] = status.Name
	}
	if category, err := s.refs.GetCategoryByID(ctx, req.CategoryID); err == nil {
		snapshot["category"] = category.Name
	}
	if req.DistrictID != nil {
		if district, err := s.refs.GetDistrictByID(ctx, *req.DistrictID); err == nil {
			snapshot["district"] = district.Name
		}
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		return fmt.Errorf("request service: %w", err)
	}

	// request_id не заполняется: строка обращения уже удалена.
	if err := s.audit.LogAction(ctx, models.AuditActionDelete, id, snapshot, nil, &userID, nil); err != nil {
		logger.Log.WithField("error", err.Error()).Error("request: не удалось записать аудит удаления")
	}

	logger.Log.WithField("request_id", id).WithField("user_id", userID).Info("request: обращение удалено")
	return nil
}

// GenerateReply формирует проект официального ответа гражданину.
func (s *RequestService) GenerateReply(ctx context.Context, id int64) (string, error) {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.analyzer.GenerateCitizenResponse(ctx, req.Description), nil
}

// applyAIBundle перезаписывает AI-поля обращения вердиктом.
func applyAIBundle(req *models.CitizenRequest, verdict *ai.Verdict) {
	now := time.Now().UTC()
	req.AICategory = &verdict.Category
	req.AIPriority = &verdict.Priority
	req.AISummary = &verdict.Summary
	req.AISuggestedAction = &verdict.SuggestedAction
	req.AISentiment = &verdict.Sentiment
	req.AIAnalyzedAt = &now
}

// notify отправляет событие в hub, если тот подключён.
func (s *RequestService) notify(event string, payload map[string]interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, payload)
	}
}
