package http

import (
	"encoding/json"
	"net/http"

	"github.com/viant/reviewflow/errs"
)

type errorResponse struct {
	Error string    `json:"error"`
	Kind  errs.Kind `json:"kind"`
}

func statusOf(err error) int {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	kind := errs.KindOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message, Kind: kind})
}
