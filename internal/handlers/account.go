package handlers

import (
	"net/http"
	"time"

	"iptvsite/internal/logger"
	"iptvsite/internal/utils/helpers"

	"go.uber.org/zap"
)

type updateEmailRequest struct {
	NewEmail        string `json:"newEmail"        example:"owner@example.com"`
	CurrentPassword string `json:"currentPassword"`
}

type updateEmailResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	NewEmail string `json:"newEmail"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type personalEmailRequest struct {
	PersonalEmail string `json:"personal_email" example:"me@example.com"`
}

type personalEmailResponse struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	PersonalEmail *string `json:"personal_email"`
}

// AccountInfo godoc
// @Summary Current admin account
// @Tags account
// @Produce json
// @Success 200 {object} models.AccountInfo
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/account/info [get]
func (h *AuthHandler) AccountInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	info, err := h.authService.AccountInfo(r.Context(), id)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, info)
}

// UpdateEmail godoc
// @Summary Change login email
// @Description Requires the current password. The session cookie is cleared; log in again with the new email.
// @Tags account
// @Accept json
// @Produce json
// @Param input body updateEmailRequest true "New email"
// @Success 200 {object} updateEmailResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/account/update-email [put]
func (h *AuthHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	var req updateEmailRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}

	email, err := h.authService.UpdateLoginEmail(r.Context(), id, req.NewEmail, req.CurrentPassword)
	h.metrics.Auth("update_email", err == nil)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	helpers.JSON(w, http.StatusOK, updateEmailResponse{
		Success:  true,
		Message:  "Email updated successfully. Please login with your new email.",
		NewEmail: email,
	})
}

// ChangePassword godoc
// @Summary Change password
// @Description Other sessions of this admin stop working; this one gets a fresh cookie.
// @Tags account
// @Accept json
// @Produce json
// @Param input body changePasswordRequest true "Passwords"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/account/change-password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}

	err := h.authService.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	h.metrics.Auth("change_password", err == nil)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}

	if sess, err := h.authService.Reissue(r.Context(), id); err == nil {
		http.SetCookie(w, h.sessionCookie(sess.Token, int(h.sessionTTL/time.Second)))
	} else {
		logger.WithCtx(r.Context()).Warn("session reissue failed", zap.Error(err))
		http.SetCookie(w, h.sessionCookie("", -1))
	}
	helpers.JSON(w, http.StatusOK, helpers.MessageResponse{Success: true, Message: "Password changed successfully"})
}

// Profile godoc
// @Summary Admin profile with recovery email
// @Tags admin
// @Produce json
// @Success 200 {object} models.AdminProfile
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/admin/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	p, err := h.authService.Profile(r.Context(), id)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// UpdatePersonalEmail godoc
// @Summary Set the recovery email
// @Description Recovery OTPs and links go here instead of the login email. Empty clears it.
// @Tags admin
// @Accept json
// @Produce json
// @Param input body personalEmailRequest true "Recovery email"
// @Success 200 {object} personalEmailResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/admin/update-email [put]
func (h *AuthHandler) UpdatePersonalEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := currentAdmin(w, r)
	if !ok {
		return
	}
	var req personalEmailRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	pe, err := h.authService.UpdatePersonalEmail(r.Context(), id, req.PersonalEmail)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, personalEmailResponse{
		Success:       true,
		Message:       "Personal email updated successfully",
		PersonalEmail: pe,
	})
}
