package handlers

import (
	"net/http"

	"iptvsite/internal/apperr"
	"iptvsite/internal/services"
	"iptvsite/internal/telemetry"
	"iptvsite/internal/utils/helpers"

	"github.com/gorilla/mux"
)

// PasswordHandler serves both recovery flows.
type PasswordHandler struct {
	svc     *services.PasswordService
	metrics *telemetry.Metrics
}

func NewPasswordHandler(svc *services.PasswordService, metrics *telemetry.Metrics) *PasswordHandler {
	return &PasswordHandler{svc: svc, metrics: metrics}
}

type emailRequest struct {
	Email string `json:"email" example:"admin@site.com"`
}

type recoverResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	IsDefaultEmail bool   `json:"isDefaultEmail"`
}

type verifyTokenResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
	Error string `json:"error,omitempty"`
}

type tokenResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type otpResetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp" example:"482913"`
	NewPassword string `json:"newPassword"`
}

// RecoverPassword godoc
// @Summary Request a password reset link
// @Description Always answers the same way for unknown emails.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body emailRequest true "Login email"
// @Success 200 {object} recoverResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/auth/recover-password [post]
func (h *PasswordHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}

	isDefault, err := h.svc.RequestTokenReset(r.Context(), req.Email)
	h.metrics.Auth("reset_link_request", err == nil)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}

	msg := services.MsgTokenRequested
	if isDefault {
		msg = services.MsgDefaultReset
	}
	helpers.JSON(w, http.StatusOK, recoverResponse{Success: true, Message: msg, IsDefaultEmail: isDefault})
}

// VerifyResetToken godoc
// @Summary Check a reset link token
// @Tags auth
// @Produce json
// @Param token path string true "Reset token"
// @Success 200 {object} verifyTokenResponse
// @Failure 400 {object} verifyTokenResponse
// @Router /api/auth/verify-reset-token/{token} [get]
func (h *PasswordHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	email, err := h.svc.VerifyResetToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			helpers.JSON(w, http.StatusBadRequest, verifyTokenResponse{Valid: false, Error: apperr.Message(err, "")})
			return
		}
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, verifyTokenResponse{Valid: true, Email: email})
}

// ResetPassword godoc
// @Summary Set a new password with a reset link token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body tokenResetRequest true "Token and new password"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/auth/reset-password [post]
func (h *PasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req tokenResetRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}

	err := h.svc.ResetWithToken(r.Context(), req.Token, req.NewPassword)
	h.metrics.Auth("reset_link_redeem", err == nil)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, helpers.MessageResponse{Success: true, Message: services.MsgTokenRedeemed})
}

// ForgotPassword godoc
// @Summary Request a one-time code
// @Description Rate limited to 3 requests per 15 minutes per IP.
// @Tags password
// @Accept json
// @Produce json
// @Param input body emailRequest true "Login email"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/password/forgot-password [post]
func (h *PasswordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}

	err := h.svc.RequestOTP(r.Context(), req.Email)
	h.metrics.Auth("otp_request", err == nil)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, helpers.MessageResponse{Success: true, Message: services.MsgOTPRequested})
}

// ResetPasswordOTP godoc
// @Summary Set a new password with a one-time code
// @Description Rate limited to 5 attempts per 15 minutes per IP.
// @Tags password
// @Accept json
// @Produce json
// @Param input body otpResetRequest true "Email, code and new password"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 429 {object} helpers.ErrorResponse
// @Router /api/password/reset-password [post]
func (h *PasswordHandler) ResetPasswordOTP(w http.ResponseWriter, r *http.Request) {
	var req otpResetRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}

	err := h.svc.RedeemOTP(r.Context(), req.Email, req.OTP, req.NewPassword)
	h.metrics.Auth("otp_redeem", err == nil)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, helpers.MessageResponse{Success: true, Message: services.MsgOTPRedeemed})
}
