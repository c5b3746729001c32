package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Detailed toggles the "message" field on 5xx responses. It is off in production.
var Detailed = true

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Debug("response encode failed", zap.Error(err))
	}
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	JSON(w, status, ErrorResponse{Error: errMsg})
}

// Fail writes err using its apperr kind. Server errors are logged with their cause
// and the cause is echoed back only when Detailed is set.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind != apperr.KindServer {
		Error(w, kind.Status(), apperr.Message(err, "Bad request"))
		return
	}

	logger.WithCtx(r.Context()).Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	resp := ErrorResponse{Error: apperr.Message(err, "Server error")}
	if Detailed {
		resp.Message = err.Error()
	}
	JSON(w, http.StatusInternalServerError, resp)
}

// MaxJSONBody caps request bodies read by DecodeJSON.
const MaxJSONBody = 1 << 20

// DecodeJSON decodes the request body into dst; a bad or oversized body is a
// validation error.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required")
	}
	body := http.MaxBytesReader(nil, r.Body, MaxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.Validation("Request body too large")
		}
		return apperr.Validation("Invalid JSON")
	}
	return nil
}
