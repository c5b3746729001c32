package handlers

import (
	"errors"
	"net/http"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"
	"iptvsite/internal/services"
	"iptvsite/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type UploadHandler struct {
	svc *services.UploadService
}

func NewUploadHandler(svc *services.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// Upload godoc
// @Summary Upload a site image
// @Description Multipart form with the file in field "image" (or "file"). Images only.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param kind path string true "logo, favicon or image"
// @Param image formData file true "Image file"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 413 {object} helpers.ErrorResponse
// @Router /api/upload/{kind} [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	if !services.UploadKinds[kind] {
		helpers.Fail(w, r, apperr.NotFound("Unknown upload type"))
		return
	}

	// Allow some room for multipart headers on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxBytes()+64<<10)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			helpers.Error(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		logger.WithCtx(r.Context()).Warn("multipart parse failed", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		file, header, err = r.FormFile("file")
	}
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	url, err := h.svc.Save(r.Context(), kind, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, uploadResponse{Success: true, URL: url})
}
