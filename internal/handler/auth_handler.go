package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pcp-service/internal/session"
	"pcp-service/pkg/jwtutil"
	"pcp-service/pkg/logger"
	"pcp-service/prometheus"
)

// AuthHandler serves login, registration, logout and profile endpoints
type AuthHandler struct {
	Sessions *session.Store
}

// NewAuthHandler builds an auth handler over the session store
func NewAuthHandler(sessions *session.Store) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// Login authenticates email/password credentials and issues a session token
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return err
	}

	if !h.Sessions.Login(req.Email, req.Password) {
		log.Warn("Login rejected", zap.String("email", req.Email))
		prometheus.RecordAuthError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	user := h.Sessions.Current()
	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.ActiveSessionsGauge.Inc()
	log.Info("User logged in", zap.String("email", user.Email), zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Register creates a new account and logs it in
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	// Parse request
	var req struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("incomplete_registration")
		return err
	}

	if !h.Sessions.Register(req.Name, req.Email, req.Password) {
		log.Warn("Registration rejected, email already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	user := h.Sessions.Current()
	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.ActiveSessionsGauge.Inc()
	log.Info("User registered", zap.String("email", user.Email))

	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Logout clears the current session
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromContext(c)

	if h.Sessions.Authenticated() {
		prometheus.ActiveSessionsGauge.Dec()
	}
	h.Sessions.Logout()

	log.Info("Session cleared")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the current session's user
func (h *AuthHandler) Me(c echo.Context) error {
	user := h.Sessions.Current()
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile merges name/picture changes into the current session
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	var patch session.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		log.Error("Failed to parse profile update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !h.Sessions.UpdateProfile(patch) {
		log.Warn("Profile update with no active session")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no active session"})
	}

	return c.JSON(http.StatusOK, h.Sessions.Current())
}
