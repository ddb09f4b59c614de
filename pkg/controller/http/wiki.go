package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// WikiHandler serves the wiki cache and export endpoints
type WikiHandler struct {
	wikiUC interfaces.WikiUseCase
}

// NewWikiHandler creates a new WikiHandler
func NewWikiHandler(wikiUC interfaces.WikiUseCase) *WikiHandler {
	return &WikiHandler{wikiUC: wikiUC}
}

func cacheKeyFromQuery(r *http.Request) model.WikiCacheKey {
	q := r.URL.Query()
	return model.WikiCacheKey{
		Owner:    q.Get("owner"),
		Repo:     q.Get("repo"),
		RepoType: q.Get("repo_type"),
		Language: q.Get("language"),
	}
}

// GetCache responds with the cached wiki, or null when there is none
func (h *WikiHandler) GetCache(w http.ResponseWriter, r *http.Request) {
	data, err := h.wikiUC.GetCache(r.Context(), cacheKeyFromQuery(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, data)
}

// SaveCache stores a generated wiki
func (h *WikiHandler) SaveCache(w http.ResponseWriter, r *http.Request) {
	var req model.WikiCacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, goerr.Wrap(err, "invalid JSON body", goerr.T(types.ErrTagInvalidArgument)))
		return
	}

	if err := h.wikiUC.SaveCache(r.Context(), &req); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, map[string]string{"message": "Wiki cache saved successfully"})
}

// DeleteCache removes a cached wiki
func (h *WikiHandler) DeleteCache(w http.ResponseWriter, r *http.Request) {
	key := cacheKeyFromQuery(r)
	if err := h.wikiUC.DeleteCache(r.Context(), key); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, map[string]string{
		"message": "Wiki cache for " + key.Owner + "/" + key.Repo + " (" + key.Language + ") deleted successfully",
	})
}

// ListProjects lists cached wikis, most recent first
func (h *WikiHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.wikiUC.ListProjects(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, projects)
}

// Export renders the posted pages as a downloadable file
func (h *WikiHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req model.WikiExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, goerr.Wrap(err, "invalid JSON body", goerr.T(types.ErrTagInvalidArgument)))
		return
	}

	file, err := h.wikiUC.Export(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+file.FileName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
