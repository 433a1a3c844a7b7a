package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/models"
)

// CitizenRepository отвечает за работу с заявителями.
type CitizenRepository struct {
	db *sqlx.DB
}

var ErrCitizenNotFound = errors.New("citizen not found")

// NewCitizenRepository создаёт новый экземпляр.
func NewCitizenRepository(db *sqlx.DB) *CitizenRepository {
	return &CitizenRepository{db: db}
}

// GetByID возвращает заявителя по идентификатору.
func (r *CitizenRepository) GetByID(ctx context.Context, id int64) (*models.Citizen, error) {
	var citizen models.Citizen
	query := `SELECT id, last_name, first_name, patronymic, phone FROM citizens WHERE id = $1`
	if err := r.db.GetContext(ctx, &citizen, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCitizenNotFound
		}
		return nil, fmt.Errorf("citizen repository: get by id %w", err)
	}
	return &citizen, nil
}

// Count возвращает число заявителей.
func (r *CitizenRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM citizens`); err != nil {
		return 0, fmt.Errorf("citizen repository: count %w", err)
	}
	return count, nil
}

// FindByName ищет заявителя по точному совпадению фамилии и имени.
func (r *CitizenRepository) FindByName(ctx context.Context, lastName, firstName string) (*models.Citizen, error) {
	var citizen models.Citizen
	query := `SELECT id, last_name, first_name, patronymic, phone FROM citizens WHERE last_name = $1 AND first_name = $2 LIMIT 1`
	if err := r.db.GetContext(ctx, &citizen, query, lastName, firstName); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCitizenNotFound
		}
		return nil, fmt.Errorf("citizen repository: find by name %w", err)
	}
	return &citizen, nil
}

// FindByNameAndPhone ищет заявителя по ФИ и телефону (операторский путь).
func (r *CitizenRepository) FindByNameAndPhone(ctx context.Context, lastName, firstName, phone string) (*models.Citizen, error) {
	var citizen models.Citizen
	query := `SELECT id, last_name, first_name, patronymic, phone FROM citizens WHERE last_name = $1 AND first_name = $2 AND phone = $3 LIMIT 1`
	if err := r.db.GetContext(ctx, &citizen, query, lastName, firstName, phone); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCitizenNotFound
		}
		return nil, fmt.Errorf("citizen repository: find by name and phone %w", err)
	}
	return &citizen, nil
}

// Create сохраняет заявителя и возвращает идентификатор.
func (r *CitizenRepository) Create(ctx context.Context, citizen *models.Citizen) (int64, error) {
	query := `
		INSERT INTO citizens (last_name, first_name, patronymic, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.db.GetContext(ctx, &id, query, citizen.LastName, citizen.FirstName, citizen.Patronymic, citizen.Phone); err != nil {
		return 0, fmt.Errorf("citizen repository: create %w", err)
	}
	return id, nil
}
