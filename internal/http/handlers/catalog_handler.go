package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Artixsss/MVDProject/internal/dto"
	"github.com/Artixsss/MVDProject/internal/http/handlers/common"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/repository"
)

// CatalogHandler отдаёт справочники и администрирует районы.
type CatalogHandler struct {
	refs *repository.ReferenceRepository
}

// NewCatalogHandler создаёт хэндлер.
func NewCatalogHandler(refs *repository.ReferenceRepository) *CatalogHandler {
	return &CatalogHandler{refs: refs}
}

// ListCategories обрабатывает GET /api/catalog/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.refs.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, categories)
}

// ListStatuses обрабатывает GET /api/catalog/statuses.
func (h *CatalogHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.refs.ListStatuses(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, statuses)
}

// ListTypes обрабатывает GET /api/catalog/types.
func (h *CatalogHandler) ListTypes(c *gin.Context) {
	types, err := h.refs.ListTypes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, types)
}

// ListRoles обрабатывает GET /api/admin/roles.
func (h *CatalogHandler) ListRoles(c *gin.Context) {
	roles, err := h.refs.ListRoles(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, roles)
}

// ListDistricts обрабатывает GET /api/catalog/districts.
func (h *CatalogHandler) ListDistricts(c *gin.Context) {
	districts, err := h.refs.ListDistricts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, districts)
}

// CreateDistrict обрабатывает POST /api/catalog/districts.
func (h *CatalogHandler) CreateDistrict(c *gin.Context) {
	var req dto.DistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	district := &models.District{Name: req.Name, Description: req.Description}
	id, err := h.refs.CreateDistrict(c.Request.Context(), district)
	if err != nil {
		_ = c.Error(err)
		return
	}
	district.ID = id
	common.RespondJSON(c, http.StatusCreated, district)
}

// UpdateDistrict обрабатывает PUT /api/catalog/districts/:id.
func (h *CatalogHandler) UpdateDistrict(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.DistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	district := &models.District{ID: id, Name: req.Name, Description: req.Description}
	if err := h.refs.UpdateDistrict(c.Request.Context(), district); err != nil {
		_ = c.Error(err)
		return
	}
	common.RespondJSON(c, http.StatusOK, district)
}

// DeleteDistrict обрабатывает DELETE /api/catalog/districts/:id.
func (h *CatalogHandler) DeleteDistrict(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.refs.DeleteDistrict(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
