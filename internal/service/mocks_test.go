package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Artixsss/MVDProject/internal/ai"
	"github.com/Artixsss/MVDProject/internal/geo"
	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/repository"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

type mockRequestStore struct {
	mock.Mock
}

func (m *mockRequestStore) Create(ctx context.Context, req *models.CitizenRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRequestStore) GetByID(ctx context.Context, id int64) (*models.CitizenRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CitizenRequest), args.Error(1)
}

func (m *mockRequestStore) GetByRequestNumber(ctx context.Context, number string) (*models.CitizenRequest, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CitizenRequest), args.Error(1)
}

func (m *mockRequestStore) ListByCitizen(ctx context.Context, citizenID int64) ([]models.CitizenRequest, error) {
	args := m.Called(ctx, citizenID)
	return args.Get(0).([]models.CitizenRequest), args.Error(1)
}

func (m *mockRequestStore) List(ctx context.Context, filter repository.ListFilter) ([]models.CitizenRequest, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.CitizenRequest), args.Error(1)
}

func (m *mockRequestStore) Update(ctx context.Context, req *models.CitizenRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockRequestStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRequestStore) CountActiveByEmployee(ctx context.Context, employeeID int64) (int, error) {
	args := m.Called(ctx, employeeID)
	return args.Int(0), args.Error(1)
}

type mockCitizenStore struct {
	mock.Mock
}

func (m *mockCitizenStore) GetByID(ctx context.Context, id int64) (*models.Citizen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Citizen), args.Error(1)
}

func (m *mockCitizenStore) FindByName(ctx context.Context, lastName, firstName string) (*models.Citizen, error) {
	args := m.Called(ctx, lastName, firstName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Citizen), args.Error(1)
}

func (m *mockCitizenStore) FindByNameAndPhone(ctx context.Context, lastName, firstName, phone string) (*models.Citizen, error) {
	args := m.Called(ctx, lastName, firstName, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Citizen), args.Error(1)
}

func (m *mockCitizenStore) Create(ctx context.Context, citizen *models.Citizen) (int64, error) {
	args := m.Called(ctx, citizen)
	return args.Get(0).(int64), args.Error(1)
}

type mockReferenceStore struct {
	mock.Mock
}

func (m *mockReferenceStore) GetStatusByName(ctx context.Context, name string) (*models.RequestStatus, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestStatus), args.Error(1)
}

func (m *mockReferenceStore) GetStatusByID(ctx context.Context, id int64) (*models.RequestStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestStatus), args.Error(1)
}

func (m *mockReferenceStore) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockReferenceStore) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockReferenceStore) GetTypeByName(ctx context.Context, name string) (*models.RequestType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestType), args.Error(1)
}

func (m *mockReferenceStore) GetDistrictByID(ctx context.Context, id int64) (*models.District, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.District), args.Error(1)
}

type mockAuditStore struct {
	mock.Mock
}

func (m *mockAuditStore) Insert(ctx context.Context, entry *models.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditStore) ListByRequest(ctx context.Context, requestID int64) ([]models.AuditEntry, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

func (m *mockAuditStore) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeRequest(ctx context.Context, description string) *ai.Verdict {
	args := m.Called(ctx, description)
	return args.Get(0).(*ai.Verdict)
}

func (m *mockAnalyzer) GenerateCitizenResponse(ctx context.Context, requestText string) string {
	args := m.Called(ctx, requestText)
	return args.String(0)
}

type mockLocationResolver struct {
	mock.Mock
}

func (m *mockLocationResolver) Resolve(ctx context.Context, address string) *ResolvedLocation {
	args := m.Called(ctx, address)
	return args.Get(0).(*ResolvedLocation)
}

type mockEmployeePicker struct {
	mock.Mock
}

func (m *mockEmployeePicker) First(ctx context.Context) (*models.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

type mockEmployeeStore struct {
	mock.Mock
}

func (m *mockEmployeeStore) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*geo.Location, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geo.Location), args.Error(1)
}

type mockDistrictDetector struct {
	mock.Mock
}

func (m *mockDistrictDetector) DetectDistrict(ctx context.Context, address string) string {
	args := m.Called(ctx, address)
	return args.String(0)
}

type mockDistrictStore struct {
	mock.Mock
}

func (m *mockDistrictStore) GetDistrictByName(ctx context.Context, name string) (*models.District, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.District), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Broadcast(event string, payload interface{}) {
	m.Called(event, payload)
}

type mockEmployeeAdminStore struct {
	mock.Mock
}

func (m *mockEmployeeAdminStore) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *mockEmployeeAdminStore) List(ctx context.Context) ([]models.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Employee), args.Error(1)
}

func (m *mockEmployeeAdminStore) SearchByLastName(ctx context.Context, lastName string) ([]models.Employee, error) {
	args := m.Called(ctx, lastName)
	return args.Get(0).([]models.Employee), args.Error(1)
}

func (m *mockEmployeeAdminStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockEmployeeAdminStore) Create(ctx context.Context, employee *models.Employee) (int64, error) {
	args := m.Called(ctx, employee)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEmployeeAdminStore) Update(ctx context.Context, employee *models.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *mockEmployeeAdminStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserAdminStore struct {
	mock.Mock
}

func (m *mockUserAdminStore) Create(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserAdminStore) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	args := m.Called(ctx, employeeID)
	return args.Error(0)
}

type mockWorkloadCounter struct {
	mock.Mock
}

func (m *mockWorkloadCounter) CountActiveByEmployee(ctx context.Context, employeeID int64) (int, error) {
	args := m.Called(ctx, employeeID)
	return args.Int(0), args.Error(1)
}

func (m *mockWorkloadCounter) Totals(ctx context.Context) (*repository.RequestTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.RequestTotals), args.Error(1)
}

type mockCitizenCounter struct {
	mock.Mock
}

func (m *mockCitizenCounter) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
