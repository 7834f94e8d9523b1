package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/impulsa-uc/impulsa-api/internal/service"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
	"github.com/impulsa-uc/impulsa-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment endpoint.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll godoc
// @Summary Enroll the caller into a published workshop
// @Tags Enrollments
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /workshops/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), claims.ProfileID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}
