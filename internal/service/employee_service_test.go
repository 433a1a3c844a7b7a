package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/pkg/apperror"
	"github.com/Artixsss/MVDProject/internal/repository"
)

type employeeFixture struct {
	employees *mockEmployeeAdminStore
	users     *mockUserAdminStore
	requests  *mockWorkloadCounter
	citizens  *mockCitizenCounter
	svc       *EmployeeService
}

func newEmployeeFixture() *employeeFixture {
	f := &employeeFixture{
		employees: new(mockEmployeeAdminStore),
		users:     new(mockUserAdminStore),
		requests:  new(mockWorkloadCounter),
		citizens:  new(mockCitizenCounter),
	}
	f.svc = NewEmployeeService(f.employees, f.users, f.requests, f.citizens)
	return f
}

func TestEmployeeService_DeleteBlockedByActiveRequests(t *testing.T) {
	f := newEmployeeFixture()
	ctx := context.Background()

	f.employees.On("GetByID", ctx, int64(4)).Return(&models.Employee{ID: 4, LastName: "Сидоров", FirstName: "Семён"}, nil)
	// Сотрудник принял обращения, но не закреплён за ними исполнителем:
	// счётчик всё равно их видит, и удаление блокируется.
	f.requests.On("CountActiveByEmployee", ctx, int64(4)).Return(2, nil)

	err := f.svc.Delete(ctx, 4)

	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	f.users.AssertNotCalled(t, "DeleteByEmployee")
	f.employees.AssertNotCalled(t, "Delete")
}

func TestEmployeeService_DeleteRemovesAccountFirst(t *testing.T) {
	f := newEmployeeFixture()
	ctx := context.Background()

	f.employees.On("GetByID", ctx, int64(4)).Return(&models.Employee{ID: 4, LastName: "Сидоров", FirstName: "Семён"}, nil)
	f.requests.On("CountActiveByEmployee", ctx, int64(4)).Return(0, nil)
	f.users.On("DeleteByEmployee", ctx, int64(4)).Return(nil)
	f.employees.On("Delete", ctx, int64(4)).Return(nil)

	err := f.svc.Delete(ctx, 4)

	require.NoError(t, err)
	f.users.AssertCalled(t, "DeleteByEmployee", ctx, int64(4))
	f.employees.AssertCalled(t, "Delete", ctx, int64(4))
}

func TestEmployeeService_DeleteUnknownEmployee(t *testing.T) {
	f := newEmployeeFixture()
	ctx := context.Background()

	f.employees.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrEmployeeNotFound)

	err := f.svc.Delete(ctx, 99)

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestEmployeeService_SystemStats(t *testing.T) {
	f := newEmployeeFixture()
	ctx := context.Background()

	f.employees.On("Count", ctx).Return(12, nil)
	f.citizens.On("Count", ctx).Return(340, nil)
	f.requests.On("Totals", ctx).Return(&repository.RequestTotals{Total: 500, Active: 80, Completed: 390}, nil)

	stats, err := f.svc.SystemStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 12, stats.Employees)
	assert.Equal(t, 340, stats.Citizens)
	assert.Equal(t, 500, stats.RequestsTotal)
	assert.Equal(t, 80, stats.RequestsActive)
	assert.Equal(t, 390, stats.RequestsCompleted)
}
