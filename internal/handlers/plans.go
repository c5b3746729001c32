package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"iptvsite/internal/apperr"
	"iptvsite/internal/models"
	"iptvsite/internal/services"
	"iptvsite/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type PlanHandler struct {
	svc *services.PlanService
}

func NewPlanHandler(svc *services.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

type createTabRequest struct {
	TabName string `json:"tabName" example:"3 Devices"`
}

type renameTabRequest struct {
	NewTabName string `json:"newTabName" example:"4 Devices"`
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid id")
	}
	return id, nil
}

// List godoc
// @Summary List plans
// @Tags plans
// @Produce json
// @Param device_tab query string false "Only plans of this device tab"
// @Success 200 {array} models.Plan
// @Router /api/plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.List(r.Context(), r.URL.Query().Get("device_tab"))
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, plans)
}

// Get godoc
// @Summary Get a plan
// @Tags plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} models.Plan
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Create godoc
// @Summary Create a plan
// @Tags plans
// @Accept json
// @Produce json
// @Param input body models.CreatePlanRequest true "Plan"
// @Success 201 {object} models.Plan
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/plans [post]
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlanRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, p)
}

// Update godoc
// @Summary Update a plan
// @Description Partial update; omitted fields keep their value.
// @Tags plans
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param input body models.UpdatePlanRequest true "Fields to change"
// @Success 200 {object} models.Plan
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/plans/{id} [put]
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	var req models.UpdatePlanRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	p, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// Delete godoc
// @Summary Delete a plan
// @Tags plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} helpers.MessageResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/plans/{id} [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, helpers.MessageResponse{Success: true, Message: "Plan deleted successfully"})
}

// ListTabs godoc
// @Summary List device tabs
// @Tags plans
// @Produce json
// @Success 200 {array} string
// @Router /api/plans/device-tabs [get]
func (h *PlanHandler) ListTabs(w http.ResponseWriter, r *http.Request) {
	tabs, err := h.svc.ListTabs(r.Context())
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, tabs)
}

// CreateTab godoc
// @Summary Create a device tab
// @Description Adds a placeholder plan so the tab shows up.
// @Tags plans
// @Accept json
// @Produce json
// @Param input body createTabRequest true "Tab name"
// @Success 200 {object} map[string]string
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/plans/device-tabs [post]
func (h *PlanHandler) CreateTab(w http.ResponseWriter, r *http.Request) {
	var req createTabRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	name, err := h.svc.CreateTab(r.Context(), req.TabName)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{
		"message": "Device tab created successfully",
		"tabName": name,
	})
}

// RenameTab godoc
// @Summary Rename a device tab
// @Tags plans
// @Accept json
// @Produce json
// @Param tab path string true "Current tab name"
// @Param input body renameTabRequest true "New name"
// @Success 200 {object} map[string]string
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/plans/device-tabs/{tab} [put]
func (h *PlanHandler) RenameTab(w http.ResponseWriter, r *http.Request) {
	oldTab := mux.Vars(r)["tab"]
	var req renameTabRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	if err := h.svc.RenameTab(r.Context(), oldTab, req.NewTabName); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{
		"message": "Device tab renamed successfully",
		"oldTab":  oldTab,
		"newTab":  strings.TrimSpace(req.NewTabName),
	})
}

// DeleteTab godoc
// @Summary Delete a device tab and all of its plans
// @Tags plans
// @Produce json
// @Param tab path string true "Tab name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/plans/device-tabs/{tab} [delete]
func (h *PlanHandler) DeleteTab(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTab(r.Context(), mux.Vars(r)["tab"]); err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Device tab and all its plans deleted successfully"})
}
