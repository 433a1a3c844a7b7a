package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artixsss/MVDProject/internal/dto"
	"github.com/Artixsss/MVDProject/internal/http/handlers/common"
	"github.com/Artixsss/MVDProject/internal/service"
)

// EmployeeHandler администрирование сотрудников.
type EmployeeHandler struct {
	employees *service.EmployeeService
}

// NewEmployeeHandler создаёт хэндлер.
func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List обрабатывает GET /api/employees, параметр search фильтрует по фамилии.
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, employees)
}

// Get обрабатывает GET /api/employees/:id.
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.employees.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, employee)
}

// Stats обрабатывает GET /api/employees/:id/stats.
func (h *EmployeeHandler) Stats(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.employees.Stats(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, stats)
}

// SystemStats обрабатывает GET /api/admin/stats.
func (h *EmployeeHandler) SystemStats(c *gin.Context) {
	stats, err := h.employees.SystemStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, stats)
}

// Create обрабатывает POST /api/employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req struct {
		dto.EmployeeRequest
		Username string `json:"username"`
		Password string `json:"password"`
		RoleID   *int64 `json:"role_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var employee interface{}
	var err error
	if req.Username != "" {
		// 3 = employee, порядок фиксируется сидом ролей
		roleID := int64(3)
		if req.RoleID != nil {
			roleID = *req.RoleID
		}
		employee, err = h.employees.CreateWithAccount(c.Request.Context(), req.EmployeeRequest, req.Username, req.Password, roleID)
	} else {
		employee, err = h.employees.Create(c.Request.Context(), req.EmployeeRequest)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, employee)
}

// Update обрабатывает PUT /api/employees/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	employee, err := h.employees.Update(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, employee)
}

// Delete обрабатывает DELETE /api/employees/:id.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.employees.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
