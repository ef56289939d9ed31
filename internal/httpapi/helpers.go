package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitekit/internal/contentkey"
	"github.com/goliatone/go-sitekit/internal/lifecycle"
	"github.com/goliatone/go-sitekit/internal/mediaindex"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/internal/seeder"
)

type errorResponse struct {
	Error   string                     `json:"error"`
	Message string                     `json:"message,omitempty"`
	Issues  []sections.ValidationIssue `json:"issues,omitempty"`
	Unknown []string                   `json:"unknown_pages,omitempty"`
	Valid   []string                   `json:"valid_pages,omitempty"`
	Usage   []mediaindex.Usage         `json:"usage,omitempty"`
	Fields  map[string]string          `json:"fields,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var unknownPages *seeder.UnknownPagesError
	if errors.As(err, &unknownPages) {
		return http.StatusBadRequest, errorResponse{
			Error:   "unknown_pages",
			Message: unknownPages.Error(),
			Unknown: unknownPages.Unknown,
			Valid:   unknownPages.Valid,
		}
	}

	var assetInUse *mediaindex.AssetInUseError
	if errors.As(err, &assetInUse) {
		return http.StatusConflict, errorResponse{
			Error:   "asset_in_use",
			Message: assetInUse.Error(),
			Usage:   assetInUse.Usage,
		}
	}

	if errors.Is(err, lifecycle.ErrNoDraftToPublish) || errors.Is(err, pagestore.ErrRecordNotFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		}
	}

	var fieldValidation *sections.FieldValidationError
	if errors.As(err, &fieldValidation) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
			Issues:  fieldValidation.Issues,
		}
	}

	if errors.Is(err, sections.ErrFieldInvalid) || errors.Is(err, sections.ErrFieldTypeMismatch) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		}
	}

	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		fields := make(map[string]string, len(fieldErrors))
		for key, fieldErr := range fieldErrors {
			fields[key] = fieldErr.Error()
		}
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
			Fields:  fields,
		}
	}

	if errors.Is(err, contentkey.ErrMalformedKey) ||
		errors.Is(err, lifecycle.ErrPageIDRequired) ||
		errors.Is(err, sections.ErrUnknownVariant) ||
		errors.Is(err, sections.ErrUnknownField) ||
		errors.Is(err, sections.ErrSectionNotFound) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	if errors.Is(err, pagestore.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable, errorResponse{
			Error:   "store_unavailable",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
