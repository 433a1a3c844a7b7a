package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CitizenRequest обращение гражданина — центральная сущность системы.
// AI-поля заполняются только движком классификации или корректировкой,
// путь создания их не трогает.
type CitizenRequest struct {
	ID                int64      `db:"id" json:"id"`
	CitizenID         int64      `db:"citizen_id" json:"citizen_id"`
	RequestTypeID     int64      `db:"request_type_id" json:"request_type_id"`
	CategoryID        int64      `db:"category_id" json:"category_id"`
	Description       string     `db:"description" json:"description"`
	AcceptedByID      int64      `db:"accepted_by_id" json:"accepted_by_id"`
	AssignedToID      *int64     `db:"assigned_to_id" json:"assigned_to_id,omitempty"`
	IncidentTime      time.Time  `db:"incident_time" json:"incident_time"`
	IncidentLocation  string     `db:"incident_location" json:"incident_location"`
	CitizenLocation   string     `db:"citizen_location" json:"citizen_location"`
	RequestNumber     string     `db:"request_number" json:"request_number"`
	RequestStatusID   int64      `db:"request_status_id" json:"request_status_id"`
	DistrictID        *int64     `db:"district_id" json:"district_id,omitempty"`
	Latitude          *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64   `db:"longitude" json:"longitude,omitempty"`
	AICategory        *string    `db:"ai_category" json:"ai_category,omitempty"`
	AIPriority        *string    `db:"ai_priority" json:"ai_priority,omitempty"`
	AISummary         *string    `db:"ai_summary" json:"ai_summary,omitempty"`
	AISuggestedAction *string    `db:"ai_suggested_action" json:"ai_suggested_action,omitempty"`
	AISentiment       *string    `db:"ai_sentiment" json:"ai_sentiment,omitempty"`
	AIAnalyzedAt      *time.Time `db:"ai_analyzed_at" json:"ai_analyzed_at,omitempty"`
	IsAICorrected     bool       `db:"is_ai_corrected" json:"is_ai_corrected"`
	FinalCategory     *string    `db:"final_category" json:"final_category,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// NewRequestNumber генерирует публичный трек-номер обращения:
// первые 10 символов UUID без дефисов в верхнем регистре.
func NewRequestNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:10])
}
