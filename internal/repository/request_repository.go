package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Artixsss/MVDProject/internal/models"
)

// RequestRepository отвечает за работу с обращениями граждан.
type RequestRepository struct {
	db *sqlx.DB
}

// Ошибки уровня репозитория.
var (
	ErrRequestNotFound = errors.New("citizen request not found")
)

// NewRequestRepository создаёт новый экземпляр.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `
	id, citizen_id, request_type_id, category_id, description, accepted_by_id, assigned_to_id,
	incident_time, incident_location, citizen_location, request_number, request_status_id,
	district_id, latitude, longitude,
	ai_category, ai_priority, ai_summary, ai_suggested_action, ai_sentiment, ai_analyzed_at,
	is_ai_corrected, final_category, created_at, updated_at
`

// Create сохраняет обращение и возвращает присвоенный идентификатор.
func (r *RequestRepository) Create(ctx context.Context, req *models.CitizenRequest) (int64, error) {
	query := `
		INSERT INTO citizen_requests (
			citizen_id, request_type_id, category_id, description, accepted_by_id, assigned_to_id,
			incident_time, incident_location, citizen_location, request_number, request_status_id,
			district_id, latitude, longitude, is_ai_corrected, final_category, created_at
		) VALUES (
			:citizen_id, :request_type_id, :category_id, :description, :accepted_by_id, :assigned_to_id,
			:incident_time, :incident_location, :citizen_location, :request_number, :request_status_id,
			:district_id, :latitude, :longitude, :is_ai_corrected, :final_category, :created_at
		)
		RETURNING id
	`
	rows, err := r.db.NamedQueryContext(ctx, query, req)
	if err != nil {
		return 0, fmt.Errorf("request repository: create %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, fmt.Errorf("request repository: create: id не возвращён")
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("request repository: create scan %w", err)
	}
	return id, nil
}

// GetByID возвращает обращение по идентификатору.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.CitizenRequest, error) {
	var req models.CitizenRequest
	query := `SELECT ` + requestColumns + ` FROM citizen_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("request repository: get by id %w", err)
	}
	return &req, nil
}

// GetByRequestNumber возвращает обращение по публичному трек-номеру.
func (r *RequestRepository) GetByRequestNumber(ctx context.Context, number string) (*models.CitizenRequest, error) {
	var req models.CitizenRequest
	query := `SELECT ` + requestColumns + ` FROM citizen_requests WHERE request_number = $1`
	if err := r.db.GetContext(ctx, &req, query, number); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("request repository: get by number %w", err)
	}
	return &req, nil
}

// ListByCitizen возвращает обращения заявителя, новые первыми.
func (r *RequestRepository) ListByCitizen(ctx context.Context, citizenID int64) ([]models.CitizenRequest, error) {
	var requests []models.CitizenRequest
	query := `SELECT ` + requestColumns + ` FROM citizen_requests WHERE citizen_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &requests, query, citizenID); err != nil {
		return nil, fmt.Errorf("request repository: list by citizen %w", err)
	}
	return requests, nil
}

// ListFilter необязательные фильтры списка обращений.
type ListFilter struct {
	CategoryID *int64
	DistrictID *int64
	StatusID   *int64
}

// List возвращает обращения с необязательными фильтрами, новые первыми.
func (r *RequestRepository) List(ctx context.Context, filter ListFilter) ([]models.CitizenRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM citizen_requests WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argNum)
		args = append(args, *filter.CategoryID)
		argNum++
	}
	if filter.DistrictID != nil {
		query += fmt.Sprintf(" AND district_id = $%d", argNum)
		args = append(args, *filter.DistrictID)
		argNum++
	}
	if filter.StatusID != nil {
		query += fmt.Sprintf(" AND request_status_id = $%d", argNum)
		args = append(args, *filter.StatusID)
		argNum++
	}

	query += " ORDER BY created_at DESC"

	var requests []models.CitizenRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("request repository: list %w", err)
	}
	return requests, nil
}

// Update перезаписывает изменяемые поля обращения.
func (r *RequestRepository) Update(ctx context.Context, req *models.CitizenRequest) error {
	query := `
		UPDATE citizen_requests SET
			category_id = :category_id,
			description = :description,
			assigned_to_id = :assigned_to_id,
			incident_time = :incident_time,
			incident_location = :incident_location,
			citizen_location = :citizen_location,
			request_status_id = :request_status_id,
			district_id = :district_id,
			latitude = :latitude,
			longitude = :longitude,
			ai_category = :ai_category,
			ai_priority = :ai_priority,
			ai_summary = :ai_summary,
			ai_suggested_action = :ai_suggested_action,
			ai_sentiment = :ai_sentiment,
			ai_analyzed_at = :ai_analyzed_at,
			is_ai_corrected = :is_ai_corrected,
			final_category = :final_category,
			updated_at = NOW()
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, req)
	if err != nil {
		return fmt.Errorf("request repository: update %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Delete удаляет обращение.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM citizen_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("request repository: delete %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// RequestTotals агрегированные счётчики обращений.
type RequestTotals struct {
	Total     int `db:"total"`
	Active    int `db:"active"`
	Completed int `db:"completed"`
}

// Totals возвращает счётчики обращений одним запросом.
func (r *RequestRepository) Totals(ctx context.Context) (*RequestTotals, error) {
	var totals RequestTotals
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE rs.name NOT IN ($1, $2)) AS active,
			COUNT(*) FILTER (WHERE rs.name = $1) AS completed
		FROM citizen_requests cr
		JOIN request_statuses rs ON rs.id = cr.request_status_id
	`
	if err := r.db.GetContext(ctx, &totals, query, models.StatusCompleted, models.StatusRejected); err != nil {
		return nil, fmt.Errorf("request repository: totals %w", err)
	}
	return &totals, nil
}

// CountActiveByEmployee считает незавершённые обращения сотрудника,
// как принятые им, так и закреплённые за ним.
func (r *RequestRepository) CountActiveByEmployee(ctx context.Context, employeeID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM citizen_requests cr
		JOIN request_statuses rs ON rs.id = cr.request_status_id
		WHERE (cr.accepted_by_id = $1 OR cr.assigned_to_id = $1) AND rs.name NOT IN ($2, $3)
	`
	if err := r.db.GetContext(ctx, &count, query, employeeID, models.StatusCompleted, models.StatusRejected); err != nil {
		return 0, fmt.Errorf("request repository: count active by employee %w", err)
	}
	return count, nil
}
