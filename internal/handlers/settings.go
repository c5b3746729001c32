package handlers

import (
	"net/http"

	"iptvsite/internal/models"
	"iptvsite/internal/services"
	"iptvsite/internal/utils/helpers"
)

type SettingsHandler struct {
	svc *services.SettingsService
}

func NewSettingsHandler(svc *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get godoc
// @Summary Public site settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.Settings
// @Router /api/settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context())
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, s)
}

// Update godoc
// @Summary Update site settings
// @Tags settings
// @Accept json
// @Produce json
// @Param input body models.UpdateSettingsRequest true "Fields to change"
// @Success 200 {object} models.Settings
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	s, err := h.svc.Update(r.Context(), req)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, s)
}
