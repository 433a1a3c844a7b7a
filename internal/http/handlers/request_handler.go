package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Artixsss/MVDProject/internal/dto"
	"github.com/Artixsss/MVDProject/internal/http/handlers/common"
	"github.com/Artixsss/MVDProject/internal/service"
)

// RequestHandler публичный HTTP слой: приём обращений и проверка статуса
// по трек-номеру. Авторизация не требуется.
type RequestHandler struct {
	intake   *service.IntakeService
	requests *service.RequestService
	refs     service.ReferenceStore
}

// NewRequestHandler создаёт хэндлер.
func NewRequestHandler(intake *service.IntakeService, requests *service.RequestService, refs service.ReferenceStore) *RequestHandler {
	return &RequestHandler{intake: intake, requests: requests, refs: refs}
}

// Submit обрабатывает POST /api/requests.
func (h *RequestHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.intake.SubmitByCitizen(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := statusName(c, h.refs, created.RequestStatusID)
	common.RespondJSON(c, http.StatusCreated, dto.SubmitResponse{
		ID:            created.ID,
		RequestNumber: created.RequestNumber,
		Status:        status,
	})
}

// CheckStatus обрабатывает GET /api/requests/status/:number.
// Публичный ответ не содержит персональных данных.
func (h *RequestHandler) CheckStatus(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		common.RespondError(c, http.StatusBadRequest, "трек-номер обязателен")
		return
	}

	req, err := h.requests.GetByNumber(c.Request.Context(), number)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.StatusCheckResponse{
		RequestNumber: req.RequestNumber,
		Status:        statusName(c, h.refs, req.RequestStatusID),
		CreatedAt:     req.CreatedAt.Format(time.RFC3339),
	})
}

// statusName разворачивает id статуса в имя, пустая строка при ошибке.
func statusName(c *gin.Context, refs service.ReferenceStore, statusID int64) string {
	status, err := refs.GetStatusByID(c.Request.Context(), statusID)
	if err != nil {
		return ""
	}
	return status.Name
}
