package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tandaclub/tanda/internal/domain/valueobject"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError renders a domain error with its matching HTTP status. Anything
// without a domain error kind is an infrastructure fault: it is logged and
// hidden behind a generic 500 so internals never leak to callers.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if kind, ok := valueobject.KindOf(err); ok {
		writeJSON(w, statusForKind(kind), map[string]string{"error": err.Error()})
		return
	}

	logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func statusForKind(kind valueobject.ErrorKind) int {
	switch kind {
	case valueobject.ErrNotFound:
		return http.StatusNotFound
	case valueobject.ErrForbidden:
		return http.StatusForbidden
	case valueobject.ErrConflict:
		return http.StatusConflict
	case valueobject.ErrInvalidRange:
		return http.StatusBadRequest
	case valueobject.ErrIllegalState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return valueobject.OutOfRangef("invalid request body: %s", err.Error())
	}
	return nil
}
