package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impulsa-uc/impulsa-api/internal/models"
	"github.com/impulsa-uc/impulsa-api/internal/service"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
	"github.com/impulsa-uc/impulsa-api/pkg/response"
)

// AdminHandler exposes the review workflow and dashboard endpoints.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Workshops godoc
// @Summary List all workshops, optionally filtered by status
// @Tags Admin
// @Produce json
// @Param status query string false "Workshop status"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/workshops [get]
func (h *AdminHandler) Workshops(c *gin.Context) {
	workshops, err := h.admin.All(c.Request.Context(), models.WorkshopStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshops, nil)
}

// Pending godoc
// @Summary List proposals awaiting review
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/workshops/pending [get]
func (h *AdminHandler) Pending(c *gin.Context) {
	workshops, err := h.admin.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshops, nil)
}

// Approve godoc
// @Summary Publish a pending workshop with venue and schedule
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Workshop ID"
// @Param payload body service.ApproveWorkshopRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/workshops/{id}/approve [put]
func (h *AdminHandler) Approve(c *gin.Context) {
	var req service.ApproveWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	workshop, err := h.admin.Approve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshop, nil)
}

// Reject godoc
// @Summary Reject a pending workshop
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Workshop ID"
// @Param payload body service.RejectWorkshopRequest false "Rejection payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/workshops/{id}/reject [put]
func (h *AdminHandler) Reject(c *gin.Context) {
	var req service.RejectWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	workshop, err := h.admin.Reject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshop, nil)
}

// Universities godoc
// @Summary List universities with their rooms
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/universities [get]
func (h *AdminHandler) Universities(c *gin.Context) {
	universities, err := h.admin.UniversitiesWithRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, universities, nil)
}

// Stats godoc
// @Summary Dashboard headline counts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, cached, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"cached": cached})
}

// ExportParticipants godoc
// @Summary Download a workshop's attendance list
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Workshop ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/workshops/{id}/enrollments/export [get]
func (h *AdminHandler) ExportParticipants(c *gin.Context) {
	content, filename, contentType, err := h.admin.ExportParticipants(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, content)
}
