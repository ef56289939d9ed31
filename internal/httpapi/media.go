package httpapi

import (
	"net/http"
	"strings"
)

type uploadURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

func (api *API) registerMediaRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "media")
	mux.HandleFunc("DELETE "+root+"/{assetId}", api.handleMediaDelete)
	mux.HandleFunc("POST "+root+"/upload-url", api.handleUploadURL)
	mux.HandleFunc("GET "+root+"/{assetId}/usage", api.handleMediaUsage)
}

// handleMediaDelete enforces the safe-delete gate: a referenced asset is
// refused with 409 and its usage sites unless ?force=true.
func (api *API) handleMediaDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.media == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	assetID := strings.TrimSpace(r.PathValue("assetId"))
	if assetID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "asset id is required"})
		return
	}
	force := parseBoolQuery(r.URL.Query().Get("force"), false)

	if err := api.media.Delete(r.Context(), assetID, force); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *API) handleMediaUsage(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.media == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	assetID := strings.TrimSpace(r.PathValue("assetId"))
	if assetID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "asset id is required"})
		return
	}
	usage := api.media.UsageOf(r.Context(), assetID)
	writeJSON(w, http.StatusOK, map[string]any{
		"asset_id": assetID,
		"usage":    usage,
		"count":    len(usage),
	})
}

func (api *API) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assets == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	var payload uploadURLRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if strings.TrimSpace(payload.FileName) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "file_name is required"})
		return
	}

	grant, err := api.assets.IssueUploadURL(r.Context(), payload.FileName, payload.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, grant)
}
