package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impulsa-uc/impulsa-api/internal/service"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
	"github.com/impulsa-uc/impulsa-api/pkg/response"
)

// RatingHandler exposes workshop rating endpoints.
type RatingHandler struct {
	ratings *service.RatingService
}

// NewRatingHandler constructs RatingHandler.
func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// Submit godoc
// @Summary Rate a workshop, replacing any previous rating
// @Tags Ratings
// @Accept json
// @Produce json
// @Param id path string true "Workshop ID"
// @Param payload body service.SubmitRatingRequest true "Rating payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /workshops/{id}/rating [put]
func (h *RatingHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rating, err := h.ratings.Submit(c.Request.Context(), c.Param("id"), claims.ProfileID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rating, nil)
}

// Get godoc
// @Summary Get the caller's rating for a workshop
// @Tags Ratings
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /workshops/{id}/rating [get]
func (h *RatingHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	rating, err := h.ratings.UserRating(c.Request.Context(), c.Param("id"), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rating, nil)
}
