package httpapi

import (
	"net/http"
	"strings"
	"time"
)

type publishRequest struct {
	PageID string `json:"page_id"`
}

type publishResponse struct {
	PageID      string     `json:"page_id"`
	Version     int        `json:"version"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type seedRequest struct {
	PageIDs []string `json:"page_ids"`
}

func (api *API) registerPageRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "pages")
	mux.HandleFunc("POST "+root+"/publish", api.handlePublish)
	mux.HandleFunc("POST "+root+"/seed", api.handleSeed)
}

func (api *API) handlePublish(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.editor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	var payload publishRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	pageID := strings.TrimSpace(payload.PageID)
	if pageID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "page_id is required"})
		return
	}

	published, err := api.editor.Publish(r.Context(), pageID)
	if err != nil {
		writeError(w, err)
		return
	}
	api.invalidateSnapshot(r, pageID)

	writeJSON(w, http.StatusOK, publishResponse{
		PageID:      published.PageID,
		Version:     published.Version,
		PublishedAt: published.PublishedAt,
	})
}

func (api *API) handleSeed(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.seeds == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	var payload seedRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	ids := payload.PageIDs
	if len(ids) == 0 {
		ids = []string{"all"}
	}

	report, err := api.seeds.Seed(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, page := range report.Pages {
		if page.OK {
			api.invalidateSnapshot(r, page.PageID)
		}
	}
	writeJSON(w, http.StatusOK, report)
}
