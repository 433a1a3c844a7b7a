package dto

// SubmitRequest represents the public citizen intake form
type SubmitRequest struct {
	LastName         string   `json:"last_name" binding:"required"`
	FirstName        string   `json:"first_name" binding:"required"`
	Patronymic       string   `json:"patronymic"`
	Phone            string   `json:"phone"`
	Description      string   `json:"description" binding:"required"`
	IncidentTime     *string  `json:"incident_time"`
	IncidentLocation string   `json:"incident_location"`
	CitizenLocation  string   `json:"citizen_location"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// CreateRequestByOperator represents the operator intake form
type CreateRequestByOperator struct {
	LastName         string   `json:"last_name" binding:"required"`
	FirstName        string   `json:"first_name" binding:"required"`
	Patronymic       string   `json:"patronymic"`
	Phone            string   `json:"phone" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	ContactMethod    string   `json:"contact_method"`
	CategoryID       *int64   `json:"category_id"`
	IncidentTime     *string  `json:"incident_time"`
	IncidentLocation string   `json:"incident_location"`
	CitizenLocation  string   `json:"citizen_location"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// UpdateStatusRequest represents the request to change a request status
type UpdateStatusRequest struct {
	StatusID int64 `json:"status_id" binding:"required"`
}

// AssignExecutorRequest represents the request to assign an executor
type AssignExecutorRequest struct {
	EmployeeID int64 `json:"employee_id" binding:"required"`
}

// CorrectCategoryRequest represents an operator category correction
type CorrectCategoryRequest struct {
	CategoryID int64 `json:"category_id" binding:"required"`
}

// LoginRequest represents staff credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// EmployeeRequest represents the create/update employee form
type EmployeeRequest struct {
	LastName   string  `json:"last_name" binding:"required"`
	FirstName  string  `json:"first_name" binding:"required"`
	Patronymic string  `json:"patronymic"`
	Phone      *string `json:"phone"`
}

// DistrictRequest represents the create/update district form
type DistrictRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
