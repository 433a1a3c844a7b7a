package service

import (
	"context"

	"github.com/Artixsss/MVDProject/internal/models"
)

// EmployeePicker описывает выбор сотрудника из хранилища.
type EmployeePicker interface {
	First(ctx context.Context) (*models.Employee, error)
}

// AssignmentPolicy выбирает сотрудника, принимающего новое обращение.
// Единственная точка замены, когда появится балансировка нагрузки.
type AssignmentPolicy interface {
	PickAcceptor(ctx context.Context) (*models.Employee, error)
}

// FirstEmployeePolicy назначает первого сотрудника из списка.
type FirstEmployeePolicy struct {
	employees EmployeePicker
}

// NewFirstEmployeePolicy создаёт политику назначения.
func NewFirstEmployeePolicy(employees EmployeePicker) *FirstEmployeePolicy {
	return &FirstEmployeePolicy{employees: employees}
}

// PickAcceptor возвращает сотрудника с минимальным идентификатором.
func (p *FirstEmployeePolicy) PickAcceptor(ctx context.Context) (*models.Employee, error) {
	return p.employees.First(ctx)
}
