package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/fetch"
	"ecommerce-keyword-report/internal/models"
	"ecommerce-keyword-report/internal/sheet"
	"ecommerce-keyword-report/pkg/logger"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, sheet.ErrFileNotFound), errors.Is(err, sheet.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, sheet.ErrColumnNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sheet.ErrUnsupportedFormat), errors.Is(err, fetch.ErrUnsupportedContent):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, analyzer.ErrColumnRequired), errors.Is(err, ErrUnknownPreset):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbiddenSource):
		return http.StatusForbidden
	case errors.As(err, &tooLarge), errors.Is(err, fetch.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusUnprocessableEntity
	}
}

// userMessage phrases an error for the browser UI.
func userMessage(err error) string {
	var cnf *sheet.ColumnNotFoundError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &cnf):
		return fmt.Sprintf("Column '%s' not found.\n\nAvailable columns: %s", cnf.Name, strings.Join(cnf.Available, ", "))
	case errors.Is(err, sheet.ErrFileNotFound):
		return "File not found. Please provide a valid file path."
	case errors.Is(err, analyzer.ErrColumnRequired):
		return "Please specify the column name to analyze."
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("Upload too large (limit %d bytes).", tooLarge.Limit)
	case errors.Is(err, fetch.ErrTooLarge):
		return "Remote file is larger than the configured download limit."
	case errors.Is(err, ErrForbiddenSource):
		return "Access to this source is not allowed."
	case errors.Is(err, ErrUnknownPreset):
		return "Unknown quick analysis preset."
	default:
		return fmt.Sprintf("Error reading file: %v", err)
	}
}

// fail logs a pipeline error on the request logger and returns its status.
func fail(r *http.Request, op string, err error) int {
	code := statusFor(err)
	logger.FromContext(r.Context()).Warn().
		Err(err).
		Str("op", op).
		Int("status", code).
		Msg("request failed")
	return code
}

func errorResponse(err error) models.ErrorResponse {
	resp := models.ErrorResponse{Error: err.Error()}
	var cnf *sheet.ColumnNotFoundError
	if errors.As(err, &cnf) {
		resp.Available = cnf.Available
	}
	return resp
}
