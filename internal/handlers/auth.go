package handlers

import (
	"net/http"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/middleware"
	"iptvsite/internal/models"
	"iptvsite/internal/reqctx"
	"iptvsite/internal/services"
	"iptvsite/internal/telemetry"
	"iptvsite/internal/utils/helpers"
)

type AuthHandler struct {
	authService *services.AuthService
	metrics     *telemetry.Metrics
	production  bool
	sessionTTL  time.Duration
}

func NewAuthHandler(authService *services.AuthService, metrics *telemetry.Metrics, production bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     metrics,
		production:  production,
		sessionTTL:  sessionTTL,
	}
}

type loginRequest struct {
	Email    string `json:"email"    example:"admin@site.com"`
	Password string `json:"password" example:"admin123"`
}

type loginResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Admin   models.AdminSummary `json:"admin"`
}

type checkResponse struct {
	Authenticated bool                 `json:"authenticated"`
	Admin         *models.AdminSummary `json:"admin,omitempty"`
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	}
	if h.production {
		c.SameSite = http.SameSiteStrictMode
	}
	return c
}

// Login godoc
// @Summary Admin login
// @Description Verifies credentials and sets the HTTP-only session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}

	sess, err := h.authService.Login(r.Context(), req.Email, req.Password)
	h.metrics.Auth("login", err == nil)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(sess.Token, int(h.sessionTTL/time.Second)))
	helpers.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Admin:   sess.Admin,
	})
}

// Logout godoc
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} helpers.MessageResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	helpers.JSON(w, http.StatusOK, helpers.MessageResponse{Success: true, Message: "Logged out successfully"})
}

// Check godoc
// @Summary Session status
// @Tags auth
// @Produce json
// @Success 200 {object} checkResponse
// @Failure 401 {object} checkResponse
// @Router /api/auth/check [get]
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, ok := reqctx.GetAdminID(r.Context())
	if !ok {
		helpers.JSON(w, http.StatusUnauthorized, checkResponse{Authenticated: false})
		return
	}
	email, _ := reqctx.GetAdminEmail(r.Context())
	helpers.JSON(w, http.StatusOK, checkResponse{
		Authenticated: true,
		Admin:         &models.AdminSummary{ID: id, Email: email},
	})
}

// currentAdmin returns the admin id put in the context by the session middleware.
func currentAdmin(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := reqctx.GetAdminID(r.Context())
	if !ok {
		helpers.Fail(w, r, apperr.Auth("Authentication required"))
	}
	return id, ok
}
