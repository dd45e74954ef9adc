package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/models"
	"github.com/SAP-F-2025/social-service/internal/services"
	"github.com/SAP-F-2025/social-service/internal/utils"
	"github.com/SAP-F-2025/social-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	provider  IdentityProvider
	auth      *CasdoorAuthMiddleware
	profiles  services.ProfileService
	validator *validator.Validator
}

func NewAuthHandler(provider IdentityProvider, auth *CasdoorAuthMiddleware, profiles services.ProfileService, validator *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		provider:    provider,
		auth:        auth,
		profiles:    profiles,
		validator:   validator,
	}
}

type SigninURLResponse struct {
	URL string `json:"url"`
}

type AuthCallbackResponse struct {
	AccessToken string          `json:"access_token"`
	User        *models.User    `json:"user"`
	Profile     *models.Profile `json:"profile"`
}

// GetSigninURL returns the hosted sign-in page URL
// @Summary Sign-in URL
// @Description Get the identity provider sign-in URL. The hosted pages also cover password recovery.
// @Tags auth
// @Produce json
// @Param redirect_uri query string true "Callback URL"
// @Success 200 {object} SigninURLResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /auth/signin-url [get]
func (h *AuthHandler) GetSigninURL(c *gin.Context) {
	redirectURI := c.Query("redirect_uri")
	if redirectURI == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'redirect_uri' is required",
		})
		return
	}

	c.JSON(http.StatusOK, SigninURLResponse{URL: h.provider.GetSigninUrl(redirectURI)})
}

// Callback completes the OAuth code flow and provisions the profile
// @Summary OAuth callback
// @Description Exchange an authorization code for a token and make sure the caller has a profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.AuthCallbackRequest true "Authorization code"
// @Success 200 {object} AuthCallbackResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/callback [post]
func (h *AuthHandler) Callback(c *gin.Context) {
	var req models.AuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Completing sign-in")

	token, err := h.provider.ExchangeCode(req.Code, req.State)
	if err != nil {
		h.LogError(c, err, "Failed to exchange authorization code")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Sign-in failed",
			Details: err.Error(),
		})
		return
	}

	user, err := h.auth.authenticate(c.Request.Context(), token)
	if err != nil {
		h.LogError(c, err, "Failed to resolve signed-in user")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Sign-in failed",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.profiles.EnsureProfile(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthCallbackResponse{
		AccessToken: token,
		User:        user,
		Profile:     profile,
	})
}
