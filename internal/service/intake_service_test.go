package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Artixsss/MVDProject/internal/ai"
	"github.com/Artixsss/MVDProject/internal/dto"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
)

var requestNumberRe = regexp.MustCompile(`^[0-9A-F]{10}$`)

func TestNewRequestNumber_Format(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		number := models.NewRequestNumber()
		assert.Regexp(t, requestNumberRe, number)
		seen[number] = struct{}{}
	}
	// Столкновение на тысяче номеров из 16^10 вариантов крайне маловероятно.
	assert.Len(t, seen, 1000)
}

type intakeFixture struct {
	requests *mockRequestStore
	citizens *mockCitizenStore
	refs     *mockReferenceStore
	audit    *mockAuditStore
	analyzer *mockAnalyzer
	location *mockLocationResolver
	policy   *mockEmployeePicker
	svc      *IntakeService
}

func newIntakeFixture() *intakeFixture {
	f := &intakeFixture{
		requests: new(mockRequestStore),
		citizens: new(mockCitizenStore),
		refs:     new(mockReferenceStore),
		audit:    new(mockAuditStore),
		analyzer: new(mockAnalyzer),
		location: new(mockLocationResolver),
		policy:   new(mockEmployeePicker),
	}
	f.svc = NewIntakeService(
		f.requests, f.citizens, f.refs,
		NewAuditService(f.audit),
		f.analyzer, f.location, NewFirstEmployeePolicy(f.policy),
	)
	return f
}

// stubReferences регистрирует стандартные справочные ответы.
func (f *intakeFixture) stubReferences() {
	f.refs.On("GetStatusByName", mock.Anything, models.StatusNew).Return(&models.RequestStatus{ID: 1, Name: models.StatusNew}, nil)
	f.refs.On("GetCategoryByName", mock.Anything, models.CategoryOther).Return(&models.Category{ID: 10, Name: models.CategoryOther}, nil)
	f.refs.On("GetTypeByName", mock.Anything, "Заявление").Return(&models.RequestType{ID: 1, Name: "Заявление"}, nil)
	f.policy.On("First", mock.Anything).Return(&models.Employee{ID: 5, LastName: "Иванов", FirstName: "Иван"}, nil)
}

func TestSubmitByCitizen_ReturnsBeforeEnrichment(t *testing.T) {
	f := newIntakeFixture()
	f.stubReferences()

	f.citizens.On("FindByName", mock.Anything, "Петров", "Пётр").Return(nil, repository.ErrCitizenNotFound)
	f.citizens.On("Create", mock.Anything, mock.Anything).Return(int64(7), nil)
	f.requests.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	f.audit.On("Insert", mock.Anything, mock.Anything).Return(nil)

	// Адрес разрешается синхронно, вердикт приходит из фона.
	enriched := make(chan struct{})
	verdict := &ai.Verdict{
		Category:        "Имущественные преступления",
		Summary:         "Кража из квартиры",
		Sentiment:       models.SentimentNegative,
		Priority:        models.PriorityHigh,
		SuggestedAction: "Направить следственную группу",
	}
	stored := &models.CitizenRequest{ID: 42, Description: "Меня ограбили, из квартиры вынесли технику", IncidentLocation: "ул. Ленина, 10", CategoryID: 10, RequestStatusID: 1}
	f.requests.On("GetByID", mock.Anything, int64(42)).Return(stored, nil)
	districtID := int64(1)
	f.location.On("Resolve", mock.Anything, "ул. Ленина, 10").Return(&ResolvedLocation{DistrictID: &districtID})
	f.analyzer.On("AnalyzeRequest", mock.Anything, stored.Description).Return(verdict)
	f.refs.On("GetCategoryByName", mock.Anything, "Имущественные преступления").Return(&models.Category{ID: 1, Name: "Имущественные преступления"}, nil)
	f.requests.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		close(enriched)
	}).Return(nil)

	req, err := f.svc.SubmitByCitizen(context.Background(), dto.SubmitRequest{
		LastName:         "Петров",
		FirstName:        "Пётр",
		Description:      "Меня ограбили, из квартиры вынесли технику",
		IncidentLocation: "ул. Ленина, 10",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), req.ID)
	assert.Regexp(t, requestNumberRe, req.RequestNumber)
	assert.Equal(t, int64(1), req.RequestStatusID)
	// Дежурный сотрудник и принял обращение, и назначен исполнителем.
	assert.Equal(t, int64(5), req.AcceptedByID)
	require.NotNil(t, req.AssignedToID)
	assert.Equal(t, int64(5), *req.AssignedToID)
	// Район определён синхронно, AI-поля в момент ответа ещё пусты.
	require.NotNil(t, req.DistrictID)
	assert.Equal(t, int64(1), *req.DistrictID)
	assert.Nil(t, req.AICategory)
	assert.Nil(t, req.FinalCategory)
	assert.Equal(t, models.CitizenLocationUnknown, req.CitizenLocation)

	select {
	case <-enriched:
	case <-time.After(3 * time.Second):
		t.Fatal("фоновая классификация не завершилась")
	}

	// Свежая копия обогащена вердиктом.
	require.NotNil(t, stored.AICategory)
	assert.Equal(t, "Имущественные преступления", *stored.AICategory)
	require.NotNil(t, stored.FinalCategory)
	assert.Equal(t, "Имущественные преступления", *stored.FinalCategory)
	assert.Equal(t, int64(1), stored.CategoryID)
}

func TestSubmitByCitizen_CallerCoordinatesWin(t *testing.T) {
	f := newIntakeFixture()
	f.stubReferences()

	f.citizens.On("FindByName", mock.Anything, "Петров", "Пётр").Return(&models.Citizen{ID: 3}, nil)
	f.requests.On("Create", mock.Anything, mock.Anything).Return(int64(43), nil)
	f.audit.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("GetByID", mock.Anything, int64(43)).Return(nil, repository.ErrRequestNotFound).Maybe()

	geoLat, geoLon := 55.01, 82.93
	districtID := int64(2)
	f.location.On("Resolve", mock.Anything, "ул. Ленина, 10").Return(&ResolvedLocation{
		Latitude:   &geoLat,
		Longitude:  &geoLon,
		DistrictID: &districtID,
	})

	lat, lon := 55.04, 82.97
	req, err := f.svc.SubmitByCitizen(context.Background(), dto.SubmitRequest{
		LastName:         "Петров",
		FirstName:        "Пётр",
		Description:      "Во дворе дома неизвестные вскрыли автомобиль",
		IncidentLocation: "ул. Ленина, 10",
		Latitude:         &lat,
		Longitude:        &lon,
	})

	require.NoError(t, err)
	// Явные координаты гражданина точнее геокодера, район — из адреса.
	require.NotNil(t, req.Latitude)
	assert.Equal(t, lat, *req.Latitude)
	assert.Equal(t, lon, *req.Longitude)
	require.NotNil(t, req.DistrictID)
	assert.Equal(t, districtID, *req.DistrictID)
}

func TestSubmitByCitizen_DeduplicatesCitizen(t *testing.T) {
	f := newIntakeFixture()
	f.stubReferences()

	existing := &models.Citizen{ID: 3, LastName: "Сидорова", FirstName: "Анна"}
	f.citizens.On("FindByName", mock.Anything, "Сидорова", "Анна").Return(existing, nil)
	f.requests.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CitizenRequest) bool {
		return req.CitizenID == 3
	})).Return(int64(11), nil)
	f.audit.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.location.On("Resolve", mock.Anything, "").Return(&ResolvedLocation{})

	// Фоновая часть не проверяется в этом тесте.
	f.requests.On("GetByID", mock.Anything, int64(11)).Return(nil, repository.ErrRequestNotFound).Maybe()

	_, err := f.svc.SubmitByCitizen(context.Background(), dto.SubmitRequest{
		LastName:    "Сидорова",
		FirstName:   "Анна",
		Description: "Соседи шумят каждую ночь, невозможно спать",
	})

	require.NoError(t, err)
	f.citizens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitByCitizen_ShortDescriptionRejected(t *testing.T) {
	f := newIntakeFixture()

	_, err := f.svc.SubmitByCitizen(context.Background(), dto.SubmitRequest{
		LastName:    "Петров",
		FirstName:   "Пётр",
		Description: "кратко",
	})

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitByCitizen_WritesCreateAudit(t *testing.T) {
	f := newIntakeFixture()
	f.stubReferences()

	f.citizens.On("FindByName", mock.Anything, "Петров", "Пётр").Return(&models.Citizen{ID: 3}, nil)
	f.requests.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	f.location.On("Resolve", mock.Anything, "").Return(&ResolvedLocation{})
	f.requests.On("GetByID", mock.Anything, int64(42)).Return(nil, repository.ErrRequestNotFound).Maybe()

	var entry *models.AuditEntry
	f.audit.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entry = args.Get(1).(*models.AuditEntry)
	}).Return(nil)

	_, err := f.svc.SubmitByCitizen(context.Background(), dto.SubmitRequest{
		LastName:    "Петров",
		FirstName:   "Пётр",
		Description: "Во дворе дома разбили витрину магазина и скрылись",
	})

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, models.AuditActionCreate, entry.Action)
	assert.Equal(t, models.EntityCitizenRequest, entry.EntityType)
	assert.Equal(t, int64(42), entry.EntityID)
	require.NotNil(t, entry.RequestID)
	assert.Equal(t, int64(42), *entry.RequestID)
	assert.Nil(t, entry.UserID)
	assert.Nil(t, entry.OldValues)
	require.NotNil(t, entry.NewValues)
}

func TestSubmitByOperator_SyncVerdictAndCategoryUpgrade(t *testing.T) {
	f := newIntakeFixture()
	f.refs.On("GetStatusByName", mock.Anything, models.StatusNew).Return(&models.RequestStatus{ID: 1, Name: models.StatusNew}, nil)
	f.refs.On("GetCategoryByName", mock.Anything, models.CategoryOther).Return(&models.Category{ID: 10, Name: models.CategoryOther}, nil)
	f.refs.On("GetTypeByName", mock.Anything, models.ContactMethodPhone).Return(&models.RequestType{ID: 2, Name: models.ContactMethodPhone}, nil)
	f.policy.On("First", mock.Anything).Return(&models.Employee{ID: 5}, nil)

	f.citizens.On("FindByNameAndPhone", mock.Anything, "Кузнецов", "Олег", "+79130000000").Return(nil, repository.ErrCitizenNotFound)
	f.citizens.On("Create", mock.Anything, mock.Anything).Return(int64(8), nil)

	f.location.On("Resolve", mock.Anything, "перекрёсток Ленина и Советской").Return(&ResolvedLocation{})
	f.analyzer.On("AnalyzeRequest", mock.Anything, mock.Anything).Return(&ai.Verdict{
		Category:        "Транспорт и ПДД",
		Summary:         "ДТП без пострадавших",
		Sentiment:       models.SentimentNeutral,
		Priority:        models.PriorityMedium,
		SuggestedAction: "Оформить протокол",
	})
	f.refs.On("GetCategoryByName", mock.Anything, "Транспорт и ПДД").Return(&models.Category{ID: 2, Name: "Транспорт и ПДД"}, nil)
	f.requests.On("Create", mock.Anything, mock.Anything).Return(int64(77), nil)
	f.audit.On("Insert", mock.Anything, mock.Anything).Return(nil)

	req, err := f.svc.SubmitByOperator(context.Background(), dto.CreateRequestByOperator{
		LastName:         "Кузнецов",
		FirstName:        "Олег",
		Phone:            "+79130000000",
		Description:      "Произошло ДТП, два автомобиля столкнулись на перекрёстке",
		ContactMethod:    models.ContactMethodPhone,
		IncidentLocation: "перекрёсток Ленина и Советской",
	}, 100, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(77), req.ID)
	assert.Equal(t, int64(5), req.AcceptedByID)
	require.NotNil(t, req.AssignedToID)
	assert.Equal(t, int64(5), *req.AssignedToID)
	// Категория поднята из вердикта, AI-поля заполнены синхронно.
	assert.Equal(t, int64(2), req.CategoryID)
	require.NotNil(t, req.AICategory)
	assert.Equal(t, "Транспорт и ПДД", *req.AICategory)
	require.NotNil(t, req.FinalCategory)
	assert.Equal(t, "Транспорт и ПДД", *req.FinalCategory)
	require.NotNil(t, req.AIAnalyzedAt)
}

func TestSubmitByOperator_ExplicitCategoryNotUpgraded(t *testing.T) {
	f := newIntakeFixture()
	f.refs.On("GetStatusByName", mock.Anything, models.StatusNew).Return(&models.RequestStatus{ID: 1, Name: models.StatusNew}, nil)
	f.refs.On("GetCategoryByName", mock.Anything, models.CategoryOther).Return(&models.Category{ID: 10, Name: models.CategoryOther}, nil)
	f.refs.On("GetTypeByName", mock.Anything, models.ContactMethodVisit).Return(&models.RequestType{ID: 3, Name: models.ContactMethodVisit}, nil)
	f.policy.On("First", mock.Anything).Return(&models.Employee{ID: 5}, nil)

	f.citizens.On("FindByNameAndPhone", mock.Anything, "Кузнецов", "Олег", "+79130000000").Return(&models.Citizen{ID: 8}, nil)
	explicit := int64(4)
	f.refs.On("GetCategoryByID", mock.Anything, explicit).Return(&models.Category{ID: 4, Name: "Бытовые конфликты"}, nil)

	f.location.On("Resolve", mock.Anything, "").Return(&ResolvedLocation{})
	f.analyzer.On("AnalyzeRequest", mock.Anything, mock.Anything).Return(&ai.Verdict{
		Category:  "Угрозы и безопасность",
		Summary:   "Конфликт с соседом",
		Sentiment: models.SentimentNegative,
		Priority:  models.PriorityMedium,
	})
	f.requests.On("Create", mock.Anything, mock.Anything).Return(int64(78), nil)
	f.audit.On("Insert", mock.Anything, mock.Anything).Return(nil)

	req, err := f.svc.SubmitByOperator(context.Background(), dto.CreateRequestByOperator{
		LastName:      "Кузнецов",
		FirstName:     "Олег",
		Phone:         "+79130000000",
		Description:   "Сосед угрожает расправой во время бытовой ссоры",
		ContactMethod: models.ContactMethodVisit,
		CategoryID:    &explicit,
	}, 100, 5)

	require.NoError(t, err)
	// Выбор оператора сохраняется, вердикт его не перекрывает.
	assert.Equal(t, int64(4), req.CategoryID)
	require.NotNil(t, req.FinalCategory)
	assert.Equal(t, "Угрозы и безопасность", *req.FinalCategory)
}

func TestSubmitByOperator_PhoneRequired(t *testing.T) {
	f := newIntakeFixture()

	_, err := f.svc.SubmitByOperator(context.Background(), dto.CreateRequestByOperator{
		LastName:    "Кузнецов",
		FirstName:   "Олег",
		Description: "Достаточно длинное описание происшествия для валидации",
	}, 100, 5)

	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
