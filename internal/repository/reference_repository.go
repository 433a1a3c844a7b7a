package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/models"
)

// ReferenceRepository отвечает за справочники: районы, категории,
// статусы, типы обращений и роли.
type ReferenceRepository struct {
	db *sqlx.DB
}

// Ошибки уровня репозитория.
var (
	ErrDistrictNotFound = errors.New("district not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrStatusNotFound   = errors.New("request status not found")
	ErrTypeNotFound     = errors.New("request type not found")
	ErrRoleNotFound     = errors.New("role not found")
)

// NewReferenceRepository создаёт новый экземпляр.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// --- Районы ---

// ListDistricts возвращает все районы.
func (r *ReferenceRepository) ListDistricts(ctx context.Context) ([]models.District, error) {
	var districts []models.District
	if err := r.db.SelectContext(ctx, &districts, `SELECT id, name, description FROM districts ORDER BY name`); err != nil {
		return nil, fmt.Errorf("reference repository: list districts %w", err)
	}
	return districts, nil
}

// GetDistrictByID возвращает район по идентификатору.
func (r *ReferenceRepository) GetDistrictByID(ctx context.Context, id int64) (*models.District, error) {
	var district models.District
	if err := r.db.GetContext(ctx, &district, `SELECT id, name, description FROM districts WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDistrictNotFound
		}
		return nil, fmt.Errorf("reference repository: get district by id %w", err)
	}
	return &district, nil
}

// GetDistrictByName возвращает район по точному имени.
func (r *ReferenceRepository) GetDistrictByName(ctx context.Context, name string) (*models.District, error) {
	var district models.District
	if err := r.db.GetContext(ctx, &district, `SELECT id, name, description FROM districts WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDistrictNotFound
		}
		return nil, fmt.Errorf("reference repository: get district by name %w", err)
	}
	return &district, nil
}

// CreateDistrict сохраняет район и возвращает идентификатор.
func (r *ReferenceRepository) CreateDistrict(ctx context.Context, district *models.District) (int64, error) {
	var id int64
	query := `INSERT INTO districts (name, description) VALUES ($1, $2) RETURNING id`
	if err := r.db.GetContext(ctx, &id, query, district.Name, district.Description); err != nil {
		return 0, fmt.Errorf("reference repository: create district %w", err)
	}
	return id, nil
}

// UpdateDistrict обновляет район.
func (r *ReferenceRepository) UpdateDistrict(ctx context.Context, district *models.District) error {
	result, err := r.db.ExecContext(ctx, `UPDATE districts SET name = $1, description = $2 WHERE id = $3`,
		district.Name, district.Description, district.ID)
	if err != nil {
		return fmt.Errorf("reference repository: update district %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrDistrictNotFound
	}
	return nil
}

// DeleteDistrict удаляет район.
func (r *ReferenceRepository) DeleteDistrict(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM districts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("reference repository: delete district %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrDistrictNotFound
	}
	return nil
}

// --- Категории ---

// ListCategories возвращает все категории.
func (r *ReferenceRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name, description FROM categories ORDER BY id`); err != nil {
		return nil, fmt.Errorf("reference repository: list categories %w", err)
	}
	return categories, nil
}

// GetCategoryByID возвращает категорию по идентификатору.
func (r *ReferenceRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.GetContext(ctx, &category, `SELECT id, name, description FROM categories WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("reference repository: get category by id %w", err)
	}
	return &category, nil
}

// GetCategoryByName возвращает категорию по имени без учёта регистра.
func (r *ReferenceRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.GetContext(ctx, &category, `SELECT id, name, description FROM categories WHERE LOWER(name) = LOWER($1)`, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("reference repository: get category by name %w", err)
	}
	return &category, nil
}

// --- Статусы ---

// ListStatuses возвращает все статусы.
func (r *ReferenceRepository) ListStatuses(ctx context.Context) ([]models.RequestStatus, error) {
	var statuses []models.RequestStatus
	if err := r.db.SelectContext(ctx, &statuses, `SELECT id, name FROM request_statuses ORDER BY id`); err != nil {
		return nil, fmt.Errorf("reference repository: list statuses %w", err)
	}
	return statuses, nil
}

// GetStatusByID возвращает статус по идентификатору.
func (r *ReferenceRepository) GetStatusByID(ctx context.Context, id int64) (*models.RequestStatus, error) {
	var status models.RequestStatus
	if err := r.db.GetContext(ctx, &status, `SELECT id, name FROM request_statuses WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("reference repository: get status by id %w", err)
	}
	return &status, nil
}

// GetStatusByName возвращает статус по точному имени.
func (r *ReferenceRepository) GetStatusByName(ctx context.Context, name string) (*models.RequestStatus, error) {
	var status models.RequestStatus
	if err := r.db.GetContext(ctx, &status, `SELECT id, name FROM request_statuses WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStatusNotFound
		}
		return nil, fmt.Errorf("reference repository: get status by name %w", err)
	}
	return &status, nil
}

// --- Типы обращений ---

// ListTypes возвращает все типы обращений.
func (r *ReferenceRepository) ListTypes(ctx context.Context) ([]models.RequestType, error) {
	var types []models.RequestType
	if err := r.db.SelectContext(ctx, &types, `SELECT id, name FROM request_types ORDER BY id`); err != nil {
		return nil, fmt.Errorf("reference repository: list types %w", err)
	}
	return types, nil
}

// GetTypeByName возвращает тип обращения по точному имени.
func (r *ReferenceRepository) GetTypeByName(ctx context.Context, name string) (*models.RequestType, error) {
	var typ models.RequestType
	if err := r.db.GetContext(ctx, &typ, `SELECT id, name FROM request_types WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTypeNotFound
		}
		return nil, fmt.Errorf("reference repository: get type by name %w", err)
	}
	return &typ, nil
}

// --- Роли ---

// GetRoleByID возвращает роль по идентификатору.
func (r *ReferenceRepository) GetRoleByID(ctx context.Context, id int64) (*models.Role, error) {
	var role models.Role
	if err := r.db.GetContext(ctx, &role, `SELECT id, name FROM roles WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("reference repository: get role by id %w", err)
	}
	return &role, nil
}

// ListRoles возвращает все роли.
func (r *ReferenceRepository) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, `SELECT id, name FROM roles ORDER BY id`); err != nil {
		return nil, fmt.Errorf("reference repository: list roles %w", err)
	}
	return roles, nil
}

// GetRoleByName возвращает роль по точному имени.
func (r *ReferenceRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.GetContext(ctx, &role, `SELECT id, name FROM roles WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("reference repository: get role by name %w", err)
	}
	return &role, nil
}
