package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/impulsa-uc/impulsa-api/internal/service"
	appErrors "github.com/impulsa-uc/impulsa-api/pkg/errors"
	"github.com/impulsa-uc/impulsa-api/pkg/response"
)

// AuthHandler exposes the passwordless authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary Start a signup and email a one-time code
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Signup payload"
// @Success 202 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.auth.Register(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"message": "code sent"}, nil)
}

// Login godoc
// @Summary Email a login code to an existing account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.RequestCodeRequest true "Login payload"
// @Success 202 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.auth.RequestCode(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"message": "code sent"}, nil)
}

// Verify godoc
// @Summary Exchange a one-time code for a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.VerifyRequest true "Verification payload"
// @Success 200 {object} response.Envelope
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req service.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.auth.Verify(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
