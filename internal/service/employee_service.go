package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Artixsss/MVDProject/internal/dto"
	"github.com/Artixsss/MVDProject/internal/logger"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
	"github.com/Artixsss/MVDProject/internal/validation"
)

// EmployeeAdminStore описывает полный доступ к сотрудникам.
type EmployeeAdminStore interface {
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	SearchByLastName(ctx context.Context, lastName string) ([]models.Employee, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, employee *models.Employee) (int64, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id int64) error
}

// UserAdminStore описывает учётные записи при администрировании сотрудников.
type UserAdminStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	DeleteByEmployee(ctx context.Context, employeeID int64) error
}

// ActiveRequestCounter считает обращения: нагрузку сотрудника и общие итоги.
type ActiveRequestCounter interface {
	CountActiveByEmployee(ctx context.Context, employeeID int64) (int, error)
	Totals(ctx context.Context) (*repository.RequestTotals, error)
}

// CitizenCounter считает заявителей.
type CitizenCounter interface {
	Count(ctx context.Context) (int, error)
}

// EmployeeService администрирование сотрудников.
type EmployeeService struct {
	employees EmployeeAdminStore
	users     UserAdminStore
	requests  ActiveRequestCounter
	citizens  CitizenCounter
}

// NewEmployeeService создаёт сервис сотрудников.
func NewEmployeeService(employees EmployeeAdminStore, users UserAdminStore, requests ActiveRequestCounter, citizens CitizenCounter) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		users:     users,
		requests:  requests,
		citizens:  citizens,
	}
}

// GetByID возвращает сотрудника.
func (s *EmployeeService) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, apperror.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("employee service: %w", err)
	}
	return employee, nil
}

// List возвращает сотрудников, при непустом search — отфильтрованных по фамилии.
func (s *EmployeeService) List(ctx context.Context, search string) ([]models.Employee, error) {
	search = strings.TrimSpace(search)
	if search != "" {
		return s.employees.SearchByLastName(ctx, search)
	}
	return s.employees.List(ctx)
}

// Stats возвращает сотрудника с числом незавершённых обращений.
func (s *EmployeeService) Stats(ctx context.Context, id int64) (*dto.EmployeeStatsResponse, error) {
	employee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active, err := s.requests.CountActiveByEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("employee service: %w", err)
	}
	return &dto.EmployeeStatsResponse{Employee: employee, ActiveRequests: active}, nil
}

// SystemStats возвращает сводку по системе для панели администратора.
func (s *EmployeeService) SystemStats(ctx context.Context) (*dto.SystemStatsResponse, error) {
	employees, err := s.employees.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee service: %w", err)
	}
	citizens, err := s.citizens.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee service: %w", err)
	}
	totals, err := s.requests.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("employee service: %w", err)
	}
	return &dto.SystemStatsResponse{
		Employees:         employees,
		Citizens:          citizens,
		RequestsTotal:     totals.Total,
		RequestsActive:    totals.Active,
		RequestsCompleted: totals.Completed,
	}, nil
}

// Create заводит сотрудника.
func (s *EmployeeService) Create(ctx context.Context, in dto.EmployeeRequest) (*models.Employee, error) {
	if err := validateEmployee(in); err != nil {
		return nil, err
	}

	employee := &models.Employee{
		LastName:   strings.TrimSpace(in.LastName),
		FirstName:  strings.TrimSpace(in.FirstName),
		Patronymic: strings.TrimSpace(in.Patronymic),
		Phone:      in.Phone,
	}
	id, err := s.employees.Create(ctx, employee)
	if err != nil {
		return nil, fmt.Errorf("employee service: %w", err)
	}
	employee.ID = id
	return employee, nil
}

// CreateWithAccount заводит сотрудника вместе с учётной записью.
func (s *EmployeeService) CreateWithAccount(ctx context.Context, in dto.EmployeeRequest, username, password string, roleID int64) (*models.Employee, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	employee, err := s.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("employee service: хеширование пароля %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		EmployeeID:   employee.ID,
		RoleID:       roleID,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("employee service: учётная запись %w", err)
	}

	return employee, nil
}

// Update обновляет данные сотрудника.
func (s *EmployeeService) Update(ctx context.Context, id int64, in dto.EmployeeRequest) (*models.Employee, error) {
	if err := validateEmployee(in); err != nil {
		return nil, err
	}

	employee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	employee.LastName = strings.TrimSpace(in.LastName)
	employee.FirstName = strings.TrimSpace(in.FirstName)
	employee.Patronymic = strings.TrimSpace(in.Patronymic)
	employee.Phone = in.Phone

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("employee service: %w", err)
	}
	return employee, nil
}

// Delete удаляет сотрудника. Сотрудник с незавершёнными обращениями
// не удаляется.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.requests.CountActiveByEmployee(ctx, id)
	if err != nil {
		return fmt.Errorf("employee service: %w", err)
	}
	if active > 0 {
		return apperror.New(apperror.ErrCodeConflict,
			fmt.Sprintf("за сотрудником закреплено незавершённых обращений: %d", active))
	}

	if err := s.users.DeleteByEmployee(ctx, id); err != nil {
		return fmt.Errorf("employee service: %w", err)
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return fmt.Errorf("employee service: %w", err)
	}

	logger.Log.WithField("employee_id", id).Info("employee: сотрудник удалён")
	return nil
}

// validateEmployee проверяет форму сотрудника.
func validateEmployee(in dto.EmployeeRequest) error {
	if err := validation.ValidateName("фамилия", in.LastName); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateName("имя", in.FirstName); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.Phone != nil {
		if err := validation.ValidatePhone(*in.Phone); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	return nil
}
