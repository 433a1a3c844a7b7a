package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Artixsss/MVDProject/internal/dto"
	"github.com/Artixsss/MVDProject/internal/http/handlers/common"
	"github.com/Artixsss/MVDProject/internal/repository"
	"github.com/Artixsss/MVDProject/internal/service"
)

// OperatorHandler операции сотрудников над обращениями.
type OperatorHandler struct {
	intake   *service.IntakeService
	requests *service.RequestService
	users    service.UserStore
}

// NewOperatorHandler создаёт хэндлер.
func NewOperatorHandler(intake *service.IntakeService, requests *service.RequestService, users service.UserStore) *OperatorHandler {
	return &OperatorHandler{intake: intake, requests: requests, users: users}
}

// Create обрабатывает POST /api/operator/requests.
func (h *OperatorHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	var req dto.CreateRequestByOperator
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	created, err := h.intake.SubmitByOperator(c.Request.Context(), req, userID, user.EmployeeID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, created)
}

// List обрабатывает GET /api/operator/requests с фильтрами
// category_id, district_id, status_id.
func (h *OperatorHandler) List(c *gin.Context) {
	var filter repository.ListFilter
	var err error

	if filter.CategoryID, err = common.ParseOptionalIDQuery(c, "category_id"); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if filter.DistrictID, err = common.ParseOptionalIDQuery(c, "district_id"); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if filter.StatusID, err = common.ParseOptionalIDQuery(c, "status_id"); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, requests)
}

// ListByCitizen обрабатывает GET /api/operator/citizens/:id/requests.
func (h *OperatorHandler) ListByCitizen(c *gin.Context) {
	citizenID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := h.requests.ListByCitizen(c.Request.Context(), citizenID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, requests)
}

// Get обрабатывает GET /api/operator/requests/:id.
func (h *OperatorHandler) Get(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.requests.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, req)
}

// History обрабатывает GET /api/operator/requests/:id/history.
func (h *OperatorHandler) History(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.requests.History(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, entries)
}

// UpdateStatus обрабатывает PUT /api/operator/requests/:id/status.
func (h *OperatorHandler) UpdateStatus(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.requests.ChangeStatus(c.Request.Context(), id, req.StatusID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, updated)
}

// Assign обрабатывает PUT /api/operator/requests/:id/assign.
func (h *OperatorHandler) Assign(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	var req dto.AssignExecutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.requests.AssignExecutor(c.Request.Context(), id, req.EmployeeID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, updated)
}

// CorrectCategory обрабатывает PUT /api/operator/requests/:id/category.
func (h *OperatorHandler) CorrectCategory(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	var req dto.CorrectCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.requests.CorrectCategory(c.Request.Context(), id, req.CategoryID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, updated)
}

// Reclassify обрабатывает POST /api/operator/requests/:id/reanalyze.
func (h *OperatorHandler) Reclassify(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.requests.Reclassify(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, updated)
}

// GenerateReply обрабатывает POST /api/operator/requests/:id/reply.
func (h *OperatorHandler) GenerateReply(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.requests.GenerateReply(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.GeneratedReplyResponse{RequestID: id, Reply: reply})
}

// RecentAudit обрабатывает GET /api/operator/audit?limit=N.
func (h *OperatorHandler) RecentAudit(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondError(c, http.StatusBadRequest, "параметр limit должен быть положительным числом")
			return
		}
		limit = parsed
	}

	entries, err := h.requests.RecentAudit(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, entries)
}

// Delete обрабатывает DELETE /api/operator/requests/:id.
func (h *OperatorHandler) Delete(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "требуется авторизация")
		return
	}

	if err := h.requests.Delete(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
