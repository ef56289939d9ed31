package httpapi

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

type describeImageRequest struct {
	ImageURL string `json:"image_url"`
	Context  string `json:"context,omitempty"`
}

func (api *API) registerAIRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "ai")
	mux.HandleFunc("POST "+root+"/rewrite", api.handleAIRewrite)
	mux.HandleFunc("POST "+root+"/describe-image", api.handleAIDescribeImage)
}

func (api *API) handleAIRewrite(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.ai == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	var payload interfaces.RewriteRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if strings.TrimSpace(payload.Instruction) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "instruction is required"})
		return
	}

	response, err := api.ai.RewriteContent(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (api *API) handleAIDescribeImage(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.ai == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if !api.requireAuthorized(w, r) {
		return
	}

	var payload describeImageRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if strings.TrimSpace(payload.ImageURL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "image_url is required"})
		return
	}

	description, err := api.ai.DescribeImage(r.Context(), payload.ImageURL, payload.Context)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, description)
}
