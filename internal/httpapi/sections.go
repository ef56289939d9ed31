package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-sitekit/internal/batch"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/google/uuid"
)

type sectionsResponse struct {
	PageID      string             `json:"page_id"`
	Sections    []sections.Section `json:"sections"`
	SEO         pagestore.SEO      `json:"seo"`
	Version     int                `json:"version"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
}

type batchRequest struct {
	Changes []batch.Change `json:"changes"`
	Author  *uuid.UUID     `json:"author,omitempty"`
}

func (api *API) registerSectionRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "sections")
	mux.HandleFunc("GET "+root, api.handleSectionsGet)
	mux.HandleFunc("POST "+root+"/batch", api.handleSectionsBatch)
}

// handleSectionsGet serves the PUBLISHED snapshot for the delivery site.
// The response is publicly cacheable for the configured TTL.
func (api *API) handleSectionsGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.editor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	pageID := strings.TrimSpace(r.URL.Query().Get("pageId"))
	if pageID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "pageId is required"})
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, must-revalidate", int(api.cacheTTL.Seconds())))

	if payload, ok := api.cachedSnapshot(r, pageID); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}

	record, err := api.editor.Read(r.Context(), pageID, pagestore.StatePublished)
	if err != nil {
		writeError(w, err)
		return
	}

	response := sectionsResponse{
		PageID:      record.PageID,
		Sections:    record.Sections,
		SEO:         record.SEO,
		Version:     record.Version,
		PublishedAt: record.PublishedAt,
	}
	api.storeSnapshot(r, pageID, response)
	writeJSON(w, http.StatusOK, response)
}

func (api *API) handleSectionsBatch(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.pipeline == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	var payload batchRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	result := api.pipeline.Apply(r.Context(), payload.Changes, payload.Author)

	status := http.StatusOK
	switch result.Status {
	case batch.StatusPartial:
		status = http.StatusMultiStatus
	case batch.StatusFailed:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (api *API) cachedSnapshot(r *http.Request, pageID string) ([]byte, bool) {
	if api.cache == nil {
		return nil, false
	}
	raw, err := api.cache.Get(r.Context(), snapshotCacheKey(pageID))
	if err != nil || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	}
	return nil, false
}

func (api *API) storeSnapshot(r *http.Request, pageID string, response sectionsResponse) {
	if api.cache == nil {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := api.cache.Set(r.Context(), snapshotCacheKey(pageID), payload, api.cacheTTL); err != nil {
		api.logger.Warn("snapshot cache write failed", "page_id", pageID, "error", err)
	}
}

func (api *API) invalidateSnapshot(r *http.Request, pageID string) {
	if api.cache == nil {
		return
	}
	if err := api.cache.Delete(r.Context(), snapshotCacheKey(pageID)); err != nil {
		api.logger.Warn("snapshot cache invalidation failed", "page_id", pageID, "error", err)
	}
}

func snapshotCacheKey(pageID string) string {
	return "published:" + pageID
}
