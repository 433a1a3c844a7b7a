package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Artixsss/MVDProject/internal/ai"
	"github.com/Artixsss/MVDProject/internal/dto"
	"github.com/Artixsss/MVDProject/internal/goroutine"
	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
	"github.com/Artixsss/MVDProject/internal/validation"
)

// RequestStore описывает хранилище обращений.
type RequestStore interface {
	Create(ctx context.Context, req *models.CitizenRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.CitizenRequest, error)
	GetByRequestNumber(ctx context.Context, number string) (*models.CitizenRequest, error)
	ListByCitizen(ctx context.Context, citizenID int64) ([]models.CitizenRequest, error)
	List(ctx context.Context, filter repository.ListFilter) ([]models.CitizenRequest, error)
	Update(ctx context.Context, req *models.CitizenRequest) error
	Delete(ctx context.Context, id int64) error
	CountActiveByEmployee(ctx context.Context, employeeID int64) (int, error)
}

// CitizenStore описывает хранилище заявителей.
type CitizenStore interface {
	GetByID(ctx context.Context, id int64) (*models.Citizen, error)
	FindByName(ctx context.Context, lastName, firstName string) (*models.Citizen, error)
	FindByNameAndPhone(ctx context.Context, lastName, firstName, phone string) (*models.Citizen, error)
	Create(ctx context.Context, citizen *models.Citizen) (int64, error)
}

// ReferenceStore описывает справочники, нужные приёму обращений.
type ReferenceStore interface {
	GetStatusByName(ctx context.Context, name string) (*models.RequestStatus, error)
	GetStatusByID(ctx context.Context, id int64) (*models.RequestStatus, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetTypeByName(ctx context.Context, name string) (*models.RequestType, error)
	GetDistrictByID(ctx context.Context, id int64) (*models.District, error)
}

// Analyzer описывает движок классификации обращений.
type Analyzer interface {
	AnalyzeRequest(ctx context.Context, description string) *ai.Verdict
	GenerateCitizenResponse(ctx context.Context, requestText string) string
}

// LocationResolver описывает разрешение адреса в координаты и район.
type LocationResolver interface {
	Resolve(ctx context.Context, address string) *ResolvedLocation
}

// Notifier рассылает события сотрудникам через WebSocket.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

// IntakeService принимает обращения: публичный путь гражданина и
// операторский путь.
type IntakeService struct {
	requests RequestStore
	citizens CitizenStore
	refs     ReferenceStore
	audit    *AuditService
	analyzer Analyzer
	location LocationResolver
	policy   AssignmentPolicy
	hub      Notifier

	enrichTimeout time.Duration
}

// NewIntakeService создаёт сервис приёма обращений.
func NewIntakeService(
	requests RequestStore,
	citizens CitizenStore,
	refs ReferenceStore,
	audit *AuditService,
	analyzer Analyzer,
	location LocationResolver,
	policy AssignmentPolicy,
) *IntakeService {
	return &IntakeService{
		requests:      requests,
		citizens:      citizens,
		refs:          refs,
		audit:         audit,
		analyzer:      analyzer,
		location:      location,
		policy:        policy,
		enrichTimeout: 2 * time.Minute,
	}
}

// SetHub устанавливает WebSocket hub для отправки уведомлений.
func (s *IntakeService) SetHub(hub Notifier) {
	s.hub = hub
}

// SubmitByCitizen принимает обращение гражданина. Адрес разрешается
// синхронно, классификация идёт в фоне и не задерживает ответ.
func (s *IntakeService) SubmitByCitizen(ctx context.Context, in dto.SubmitRequest) (*models.CitizenRequest, error) {
	if err := validateIntake(in.LastName, in.FirstName, in.Phone, in.Description, in.IncidentLocation); err != nil {
		return nil, err
	}

	citizen, err := s.findOrCreateCitizen(ctx, in.LastName, in.FirstName, in.Patronymic, in.Phone, "")
	if err != nil {
		return nil, err
	}

	req, err := s.buildNewRequest(ctx, citizen.ID, in.Description, in.IncidentTime, in.IncidentLocation, in.CitizenLocation, "Заявление")
	if err != nil {
		return nil, err
	}
	s.applyLocation(ctx, req, in.Latitude, in.Longitude)

	id, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("intake service: %w", err)
	}
	req.ID = id

	if err := s.audit.LogAction(ctx, models.AuditActionCreate, id, nil, createSnapshot(req), nil, &id); err != nil {
		logger.Log.WithField("error", err.Error()).Error("intake: не удалось записать аудит создания")
	}

	s.notify("request_created", map[string]interface{}{
		"request_id":     id,
		"request_number": req.RequestNumber,
	})

	// Классификация не задерживает ответ гражданину: фоновая горутина
	// перечитывает обращение по id и работает со свежей копией.
	goroutine.SafeGo(func() {
		s.enrich(id)
	})

	logger.Log.WithField("request_id", id).WithField("request_number", req.RequestNumber).Info("intake: обращение принято")
	return req, nil
}

// SubmitByOperator принимает обращение через оператора. Анализ и
// определение района выполняются синхронно: оператор видит итог сразу.
func (s *IntakeService) SubmitByOperator(ctx context.Context, in dto.CreateRequestByOperator, operatorUserID, operatorEmployeeID int64) (*models.CitizenRequest, error) {
	if err := validateIntake(in.LastName, in.FirstName, in.Phone, in.Description, in.IncidentLocation); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Phone) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "номер телефона обязателен")
	}

	citizen, err := s.findOrCreateCitizen(ctx, in.LastName, in.FirstName, in.Patronymic, in.Phone, in.Phone)
	if err != nil {
		return nil, err
	}

	contactMethod := in.ContactMethod
	if contactMethod == "" {
		contactMethod = models.ContactMethodPhone
	}

	req, err := s.buildNewRequest(ctx, citizen.ID, in.Description, in.IncidentTime, in.IncidentLocation, in.CitizenLocation, contactMethod)
	if err != nil {
		return nil, err
	}
	req.AcceptedByID = operatorEmployeeID
	req.AssignedToID = &operatorEmployeeID

	if in.CategoryID != nil {
		category, err := s.refs.GetCategoryByID(ctx, *in.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, apperror.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("intake service: %w", err)
		}
		req.CategoryID = category.ID
	}

	s.applyLocation(ctx, req, in.Latitude, in.Longitude)

	verdict := s.analyzer.AnalyzeRequest(ctx, in.Description)
	s.applyVerdict(ctx, req, verdict, in.CategoryID == nil)

	id, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("intake service: %w", err)
	}
	req.ID = id

	if err := s.audit.LogAction(ctx, models.AuditActionCreateByOperator, id, nil, createSnapshot(req), &operatorUserID, &id); err != nil {
		logger.Log.WithField("error", err.Error()).Error("intake: не удалось записать аудит создания оператором")
	}

	s.notify("request_created", map[string]interface{}{
		"request_id":     id,
		"request_number": req.RequestNumber,
	})

	logger.Log.WithField("request_id", id).WithField("operator_id", operatorUserID).Info("intake: обращение принято оператором")
	return req, nil
}

// applyLocation синхронно разрешает адрес происшествия. Явные координаты
// от вызывающего имеют приоритет над геокодером, но район всё равно
// определяется по тексту адреса.
func (s *IntakeService) applyLocation(ctx context.Context, req *models.CitizenRequest, lat, lon *float64) {
	resolved := s.location.Resolve(ctx, req.IncidentLocation)
	req.Latitude = resolved.Latitude
	req.Longitude = resolved.Longitude
	req.DistrictID = resolved.DistrictID
	if lat != nil && lon != nil {
		req.Latitude = lat
		req.Longitude = lon
	}
}

// enrich фоновая классификация: AI-вердикт вливается в свежую копию
// обращения. Работает на собственном контексте: запрос-инициатор уже
// завершён.
func (s *IntakeService) enrich(requestID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.enrichTimeout)
	defer cancel()

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		// Фоновые сбои не означают провала приёма, поэтому не Error.
		logger.Log.WithField("request_id", requestID).WithField("error", err.Error()).Warn("enrich: обращение не найдено")
		return
	}

	verdict := s.analyzer.AnalyzeRequest(ctx, req.Description)
	s.applyVerdict(ctx, req, verdict, true)

	if err := s.requests.Update(ctx, req); err != nil {
		logger.Log.WithField("request_id", requestID).WithField("error", err.Error()).Warn("enrich: не удалось сохранить итог")
		return
	}

	s.notify("ai_analysis_ready", map[string]interface{}{
		"request_id":  requestID,
		"ai_category": verdict.Category,
		"ai_priority": verdict.Priority,
	})

	logger.Log.WithField("request_id", requestID).WithField("category", verdict.Category).Info("enrich: обращение обогащено")
}

// applyVerdict переносит вердикт в обращение. upgradeCategory разрешает
// заменить категорию обращения на распознанную, если та есть в справочнике.
func (s *IntakeService) applyVerdict(ctx context.Context, req *models.CitizenRequest, verdict *ai.Verdict, upgradeCategory bool) {
	now := time.Now().UTC()
	req.AICategory = &verdict.Category
	req.AIPriority = &verdict.Priority
	req.AISummary = &verdict.Summary
	req.AISuggestedAction = &verdict.SuggestedAction
	req.AISentiment = &verdict.Sentiment
	req.AIAnalyzedAt = &now
	// Корректировка сотрудника имеет приоритет над вердиктом.
	if !req.IsAICorrected {
		req.FinalCategory = &verdict.Category
	}

	if !upgradeCategory || req.IsAICorrected {
		return
	}
	category, err := s.refs.GetCategoryByName(ctx, verdict.Category)
	if err != nil {
		if !errors.Is(err, repository.ErrCategoryNotFound) {
			logger.Log.WithField("error", err.Error()).Error("intake: поиск категории вердикта")
		}
		return
	}
	req.CategoryID = category.ID
}

// findOrCreateCitizen дедуплицирует заявителя. Операторский путь передаёт
// phone и ищет по ФИ+телефону, публичный — только по ФИ.
func (s *IntakeService) findOrCreateCitizen(ctx context.Context, lastName, firstName, patronymic, phone, dedupePhone string) (*models.Citizen, error) {
	lastName = strings.TrimSpace(lastName)
	firstName = strings.TrimSpace(firstName)

	var citizen *models.Citizen
	var err error
	if dedupePhone != "" {
		citizen, err = s.citizens.FindByNameAndPhone(ctx, lastName, firstName, strings.TrimSpace(dedupePhone))
	} else {
		citizen, err = s.citizens.FindByName(ctx, lastName, firstName)
	}
	if err == nil {
		return citizen, nil
	}
	if !errors.Is(err, repository.ErrCitizenNotFound) {
		return nil, fmt.Errorf("intake service: поиск заявителя %w", err)
	}

	created := &models.Citizen{
		LastName:   lastName,
		FirstName:  firstName,
		Patronymic: strings.TrimSpace(patronymic),
		Phone:      strings.TrimSpace(phone),
	}
	id, err := s.citizens.Create(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("intake service: создание заявителя %w", err)
	}
	created.ID = id
	return created, nil
}

// buildNewRequest собирает обращение в статусе "Новое" с категорией-заглушкой.
func (s *IntakeService) buildNewRequest(ctx context.Context, citizenID int64, description string, incidentTime *string, incidentLocation, citizenLocation, typeName string) (*models.CitizenRequest, error) {
	status, err := s.refs.GetStatusByName(ctx, models.StatusNew)
	if err != nil {
		return nil, fmt.Errorf("intake service: статус %w", err)
	}
	category, err := s.refs.GetCategoryByName(ctx, models.CategoryOther)
	if err != nil {
		return nil, fmt.Errorf("intake service: категория %w", err)
	}
	reqType, err := s.refs.GetTypeByName(ctx, typeName)
	if err != nil {
		if !errors.Is(err, repository.ErrTypeNotFound) {
			return nil, fmt.Errorf("intake service: тип обращения %w", err)
		}
		reqType, err = s.refs.GetTypeByName(ctx, "Заявление")
		if err != nil {
			return nil, fmt.Errorf("intake service: тип обращения %w", err)
		}
	}

	acceptor, err := s.policy.PickAcceptor(ctx)
	if err != nil {
		return nil, fmt.Errorf("intake service: выбор сотрудника %w", err)
	}

	when := time.Now().UTC()
	if incidentTime != nil && *incidentTime != "" {
		parsed, err := time.Parse(time.RFC3339, *incidentTime)
		if err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, "время происшествия должно быть в формате RFC3339")
		}
		when = parsed.UTC()
	}

	if strings.TrimSpace(citizenLocation) == "" {
		citizenLocation = models.CitizenLocationUnknown
	}

	// Принявший сотрудник сразу же становится исполнителем.
	return &models.CitizenRequest{
		CitizenID:        citizenID,
		RequestTypeID:    reqType.ID,
		CategoryID:       category.ID,
		Description:      strings.TrimSpace(description),
		AcceptedByID:     acceptor.ID,
		AssignedToID:     &acceptor.ID,
		IncidentTime:     when,
		IncidentLocation: strings.TrimSpace(incidentLocation),
		CitizenLocation:  strings.TrimSpace(citizenLocation),
		RequestNumber:    models.NewRequestNumber(),
		RequestStatusID:  status.ID,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// validateIntake общая валидация обоих путей приёма.
func validateIntake(lastName, firstName, phone, description, incidentLocation string) error {
	if err := validation.ValidateName("фамилия", lastName); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateName("имя", firstName); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePhone(phone); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDescription(description); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLocation(incidentLocation); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// createSnapshot снимок обращения для журнала аудита.
func createSnapshot(req *models.CitizenRequest) map[string]interface{} {
	return map[string]interface{}{
		"request_number":    req.RequestNumber,
		"description":       req.Description,
		"incident_location": req.IncidentLocation,
		"citizen_id":        req.CitizenID,
		"category_id":       req.CategoryID,
		"status_id":         req.RequestStatusID,
		"created_at":        req.CreatedAt,
	}
}

// notify отправляет событие в hub, если тот подключён.
func (s *IntakeService) notify(event string, payload map[string]interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, payload)
	}
}
