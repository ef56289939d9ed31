package httpapi

import (
	"net/http"

	"github.com/goliatone/go-sitekit/internal/settings"
)

// WithSettings wires the site settings service.
func WithSettings(service settings.Service) Option {
	return func(api *API) {
		api.settings = service
	}
}

func (api *API) registerSettingsRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "settings")
	mux.HandleFunc("GET "+root, api.handleSettingsGet)
	mux.HandleFunc("PUT "+root, api.handleSettingsUpdate)
}

func (api *API) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.settings == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	loaded, err := api.settings.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loaded)
}

func (api *API) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.settings == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	var payload settings.UpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	updated, err := api.settings.Update(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
