package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"iptvsite/internal/apperr"
	"iptvsite/internal/models"
	"iptvsite/internal/services"
	"iptvsite/internal/utils/helpers"
)

type FAQHandler struct {
	svc *services.FAQService
}

func NewFAQHandler(svc *services.FAQService) *FAQHandler {
	return &FAQHandler{svc: svc}
}

type reorderRequest struct {
	Order json.RawMessage `json:"order" swaggertype:"array,object"`
}

// List godoc
// @Summary List FAQs
// @Tags faqs
// @Produce json
// @Success 200 {array} models.FAQ
// @Router /api/faqs [get]
func (h *FAQHandler) List(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.svc.List(r.Context())
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, faqs)
}

// Create godoc
// @Summary Create a FAQ
// @Tags faqs
// @Accept json
// @Produce json
// @Param input body models.CreateFAQRequest true "FAQ"
// @Success 201 {object} models.FAQ
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/faqs [post]
func (h *FAQHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFAQRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	f, err := h.svc.Create(r.Context(), req)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, f)
}

// Update godoc
// @Summary Update a FAQ
// @Tags faqs
// @Accept json
// @Produce json
// @Param id path int true "FAQ ID"
// @Param input body models.UpdateFAQRequest true "Fields to change"
// @Success 200 {object} models.FAQ
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/faqs/{id} [put]
func (h *FAQHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	var req models.UpdateFAQRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	f, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, f)
}

// Delete godoc
// @Summary Delete a FAQ
// @Tags faqs
// @Produce json
// @Param id path int true "FAQ ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/faqs/{id} [delete]
func (h *FAQHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Reorder godoc
// @Summary Reorder FAQs
// @Description order is an array of ids (position = index+1) or of {id, display_order}.
// @Tags faqs
// @Accept json
// @Produce json
// @Param input body reorderRequest true "New order"
// @Success 200 {array} models.FAQ
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/faqs/reorder/all [put]
func (h *FAQHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	raw := bytes.TrimSpace(req.Order)
	if len(raw) == 0 || raw[0] != '[' {
		helpers.Fail(w, r, apperr.Validation("Order must be an array"))
		return
	}
	items := []models.ReorderItem{}
	if err := json.Unmarshal(raw, &items); err != nil {
		helpers.Fail(w, r, apperr.Validation(err.Error()))
		return
	}

	faqs, err := h.svc.Reorder(r.Context(), items)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, faqs)
}
