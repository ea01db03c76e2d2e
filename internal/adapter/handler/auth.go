package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetflow-app/meetflow/errors"
	authDTO "github.com/meetflow-app/meetflow/internal/adapter/dto/auth"
	"github.com/meetflow-app/meetflow/internal/domain/entities"
	"github.com/meetflow-app/meetflow/internal/infrastructure/external/oauth"
	"github.com/meetflow-app/meetflow/internal/usecase/auth"
	"github.com/meetflow-app/meetflow/pkg/jwt"
)

// Auth handles authentication HTTP requests
type Auth struct {
	service    auth.Service
	google     *oauth.GoogleProvider
	states     *oauth.StateManager
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewAuth creates a new auth handler. The Google provider is optional;
// the OAuth routes fail cleanly when it is not configured.
func NewAuth(service auth.Service, google *oauth.GoogleProvider, states *oauth.StateManager, jwtManager *jwt.Manager, logger *zap.Logger) *Auth {
	return &Auth{
		service:    service,
		google:     google,
		states:     states,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Login signs in with email and password
// POST /v1/auth/login
func (h *Auth) Login(c echo.Context) error {
	var req authDTO.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if !result.Success {
		return HandleError(h.logger, c, errors.ErrInvalidCredentials())
	}
	return HandleSuccess(h.logger, c, result)
}

// Register creates a new account
// POST /v1/auth/register
func (h *Auth) Register(c echo.Context) error {
	var req authDTO.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result := h.service.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if !result.Success {
		return HandleError(h.logger, c, errors.ErrUserAlreadyExists(req.Email))
	}
	return HandleSuccess(h.logger, c, result)
}

// Logout ends the current session
// POST /v1/auth/logout
func (h *Auth) Logout(c echo.Context) error {
	h.service.Logout(c.Request().Context())
	return HandleSuccess(h.logger, c, map[string]string{
		"message": "Logged out successfully",
	})
}

// ForgotPassword sends a password reset link
// POST /v1/auth/forgot-password
func (h *Auth) ForgotPassword(c echo.Context) error {
	var req authDTO.ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result := h.service.ForgotPassword(c.Request().Context(), req.Email)
	if !result.Success {
		return HandleError(h.logger, c, errors.ErrUserNotFound())
	}
	return HandleSuccess(h.logger, c, result)
}

// SocialLogin signs in via a social provider
// POST /v1/auth/social
func (h *Auth) SocialLogin(c echo.Context) error {
	var req authDTO.SocialLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result := h.service.SocialLogin(c.Request().Context(), req.Provider)
	if !result.Success {
		return HandleError(h.logger, c, errors.ErrOAuthFailed(req.Provider, nil))
	}
	return HandleSuccess(h.logger, c, result)
}

// GoogleLogin redirects to the Google OAuth consent screen
// GET /v1/auth/google/login
func (h *Auth) GoogleLogin(c echo.Context) error {
	if h.google == nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", nil))
	}

	state, err := h.states.GenerateState()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return c.Redirect(http.StatusTemporaryRedirect, h.google.GetAuthURL(state))
}

// GoogleCallback handles the OAuth callback from Google and issues a
// token pair for the Google-backed account
// GET /v1/auth/google/callback
func (h *Auth) GoogleCallback(c echo.Context) error {
	if h.google == nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", nil))
	}

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	if code == "" || state == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("Missing code or state parameter"))
	}

	if !h.states.ValidateState(state) {
		return HandleError(h.logger, c, errors.ErrInvalidToken())
	}

	ctx := c.Request().Context()

	token, err := h.google.ExchangeCode(ctx, code)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", err))
	}

	info, err := h.google.GetUserInfo(ctx, token)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrOAuthFailed("google", err))
	}

	user := entities.NewUser(info.Name, info.Email, entities.AuthProviderGoogle)
	user.AvatarURL = info.Picture

	access, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	refresh, err := h.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, auth.Result{
		Success:      true,
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Me returns the identity behind the presented access token
// GET /v1/auth/me
func (h *Auth) Me(c echo.Context) error {
	token := extractToken(c)
	if token == "" {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	claims, err := h.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidToken())
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{
		"id":    claims.UserID,
		"email": claims.Email,
		"name":  claims.Name,
	})
}

// extractToken reads the bearer token from the Authorization header,
// falling back to the access_token cookie
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := c.Cookie("access_token")
	if err == nil {
		return cookie.Value
	}
	return ""
}
