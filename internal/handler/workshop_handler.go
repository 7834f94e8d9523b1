package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impulsa-uc/impulsa-api/internal/service"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
	"github.com/impulsa-uc/impulsa-api/pkg/response"
)

// WorkshopHandler exposes the public catalog and proposal endpoints.
type WorkshopHandler struct {
	workshops *service.WorkshopService
}

// NewWorkshopHandler constructs WorkshopHandler.
func NewWorkshopHandler(workshops *service.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{workshops: workshops}
}

// List godoc
// @Summary List published workshops
// @Tags Workshops
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Envelope
// @Router /workshops [get]
func (h *WorkshopHandler) List(c *gin.Context) {
	workshops, err := h.workshops.ListPublished(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshops, nil)
}

// Categories godoc
// @Summary List categories of published workshops
// @Tags Workshops
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workshops/categories [get]
func (h *WorkshopHandler) Categories(c *gin.Context) {
	categories, err := h.workshops.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Get godoc
// @Summary Get one workshop with its enrollment count
// @Tags Workshops
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id} [get]
func (h *WorkshopHandler) Get(c *gin.Context) {
	workshop, err := h.workshops.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshop, nil)
}

// Propose godoc
// @Summary Propose a new workshop
// @Tags Workshops
// @Accept json
// @Produce json
// @Param payload body service.ProposeWorkshopRequest true "Proposal payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /workshops [post]
func (h *WorkshopHandler) Propose(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.ProposeWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	workshop, err := h.workshops.Propose(c.Request.Context(), claims.ProfileID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, workshop)
}
