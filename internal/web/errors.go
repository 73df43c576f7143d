package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hvdberg/pricelist-import/internal/importer"
	"github.com/hvdberg/pricelist-import/internal/logging"
)

// writeJSON encodes v as JSON with the given status code.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a JSON error response with the given status and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if r != nil {
		logging.FromContext(r.Context()).Warn("request failed",
			"status", status,
			"error", message,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeImportError maps importer errors to HTTP status codes.
// Malformed input is the client's fault; everything else is a 500.
func writeImportError(w http.ResponseWriter, r *http.Request, err error) {
	var cpErr *importer.CodePageError
	switch {
	case errors.Is(err, importer.ErrNoHeader):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &cpErr):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "import failed")
	}
}
