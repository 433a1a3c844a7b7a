package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/models"
)

// EmployeeRepository отвечает за работу с сотрудниками.
type EmployeeRepository struct {
	db *sqlx.DB
}

var ErrEmployeeNotFound = errors.New("employee not found")

// NewEmployeeRepository создаёт новый экземпляр.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// GetByID возвращает сотрудника по идентификатору.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	var employee models.Employee
	query := `SELECT id, last_name, first_name, patronymic, phone FROM employees WHERE id = $1`
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("employee repository: get by id %w", err)
	}
	return &employee, nil
}

// First возвращает сотрудника с минимальным идентификатором.
func (r *EmployeeRepository) First(ctx context.Context) (*models.Employee, error) {
	var employee models.Employee
	query := `SELECT id, last_name, first_name, patronymic, phone FROM employees ORDER BY id LIMIT 1`
	if err := r.db.GetContext(ctx, &employee, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("employee repository: first %w", err)
	}
	return &employee, nil
}

// List возвращает всех сотрудников.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	query := `SELECT id, last_name, first_name, patronymic, phone FROM employees ORDER BY last_name, first_name`
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, fmt.Errorf("employee repository: list %w", err)
	}
	return employees, nil
}

// Count возвращает число сотрудников.
func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM employees`); err != nil {
		return 0, fmt.Errorf("employee repository: count %w", err)
	}
	return count, nil
}

// SearchByLastName ищет сотрудников по подстроке фамилии без учёта регистра.
func (r *EmployeeRepository) SearchByLastName(ctx context.Context, lastName string) ([]models.Employee, error) {
	var employees []models.Employee
	query := `SELECT id, last_name, first_name, patronymic, phone FROM employees WHERE last_name ILIKE $1 ORDER BY last_name, first_name`
	if err := r.db.SelectContext(ctx, &employees, query, "%"+lastName+"%"); err != nil {
		return nil, fmt.Errorf("employee repository: search by last name %w", err)
	}
	return employees, nil
}

// Create сохраняет сотрудника и возвращает идентификатор.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) (int64, error) {
	query := `
		INSERT INTO employees (last_name, first_name, patronymic, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.db.GetContext(ctx, &id, query, employee.LastName, employee.FirstName, employee.Patronymic, employee.Phone); err != nil {
		return 0, fmt.Errorf("employee repository: create %w", err)
	}
	return id, nil
}

// Update обновляет данные сотрудника.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees SET last_name = $1, first_name = $2, patronymic = $3, phone = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, employee.LastName, employee.FirstName, employee.Patronymic, employee.Phone, employee.ID)
	if err != nil {
		return fmt.Errorf("employee repository: update %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// Delete удаляет сотрудника.
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("employee repository: delete %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
