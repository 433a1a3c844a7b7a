package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/models"
)

// UserRepository отвечает за учётные записи сотрудников.
type UserRepository struct {
	db *sqlx.DB
}

var ErrUserNotFound = errors.New("user not found")

// NewUserRepository создаёт новый экземпляр.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID возвращает учётную запись по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, employee_id, role_id FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}
	return &user, nil
}

// GetByUsername возвращает учётную запись по логину.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, employee_id, role_id FROM users WHERE username = $1`
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by username %w", err)
	}
	return &user, nil
}

// Create сохраняет учётную запись и возвращает идентификатор.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (username, password_hash, employee_id, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.db.GetContext(ctx, &id, query, user.Username, user.PasswordHash, user.EmployeeID, user.RoleID); err != nil {
		return 0, fmt.Errorf("user repository: create %w", err)
	}
	return id, nil
}

// DeleteByEmployee удаляет учётные записи сотрудника.
func (r *UserRepository) DeleteByEmployee(ctx context.Context, employeeID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("user repository: delete by employee %w", err)
	}
	return nil
}
