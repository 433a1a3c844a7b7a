package dto

import (
	"github.com/Artixsss/MVDProject/internal/models"
)

// SubmitResponse is returned immediately after intake, before enrichment
type SubmitResponse struct {
	ID            int64  `json:"id"`
	RequestNumber string `json:"request_number"`
	Status        string `json:"status"`
}

// RequestResponse represents a request with resolved reference names
type RequestResponse struct {
	*models.CitizenRequest
	StatusName   string  `json:"status_name"`
	CategoryName string  `json:"category_name"`
	DistrictName *string `json:"district_name,omitempty"`
	CitizenName  string  `json:"citizen_name,omitempty"`
	AssignedName *string `json:"assigned_name,omitempty"`
}

// StatusCheckResponse is the public tracking view: no personal data
type StatusCheckResponse struct {
	RequestNumber string `json:"request_number"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// AuthResponse represents a successful login or refresh
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Role         string `json:"role"`
	EmployeeID   int64  `json:"employee_id"`
}

// EmployeeStatsResponse represents an employee with workload info
type EmployeeStatsResponse struct {
	*models.Employee
	ActiveRequests int `json:"active_requests"`
}

// SystemStatsResponse is the admin dashboard summary
type SystemStatsResponse struct {
	Employees         int `json:"employees"`
	Citizens          int `json:"citizens"`
	RequestsTotal     int `json:"requests_total"`
	RequestsActive    int `json:"requests_active"`
	RequestsCompleted int `json:"requests_completed"`
}

// GeneratedReplyResponse wraps an AI-drafted citizen reply
type GeneratedReplyResponse struct {
	RequestID int64  `json:"request_id"`
	Reply     string `json:"reply"`
}
