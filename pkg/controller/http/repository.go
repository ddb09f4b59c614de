package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// RepositoryHandler serves repository resolution and layout endpoints
type RepositoryHandler struct {
	repoUC interfaces.RepositoryUseCase
}

// NewRepositoryHandler creates a new RepositoryHandler
func NewRepositoryHandler(repoUC interfaces.RepositoryUseCase) *RepositoryHandler {
	return &RepositoryHandler{repoUC: repoUC}
}

// ResolveRequest is the body of POST /api/repo/resolve
type ResolveRequest struct {
	Input string `json:"input"`
	model.WikiOptions
}

// Resolve parses a repository identifier and returns the wiki navigation URL
func (h *RepositoryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, goerr.Wrap(err, "invalid JSON body", goerr.T(types.ErrTagInvalidArgument)))
		return
	}

	result, err := h.repoUC.Resolve(r.Context(), req.Input, &req.WikiOptions)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, result)
}

// LocalStructure serves GET /local_repo/structure?path=
func (h *RepositoryHandler) LocalStructure(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.FileFilter{
		ExcludedDirs:  model.ParseFilterList(q.Get("excluded_dirs")),
		ExcludedFiles: model.ParseFilterList(q.Get("excluded_files")),
	}

	structure, err := h.repoUC.LocalStructure(r.Context(), q.Get("path"), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, structure)
}

// RemoteStructure serves GET /api/repo_structure?repo_url=&token=
func (h *RepositoryHandler) RemoteStructure(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	repoURL := q.Get("repo_url")
	if repoURL == "" {
		handleError(w, r, goerr.New("repo_url is required", goerr.T(types.ErrTagInvalidArgument)))
		return
	}

	structure, err := h.repoUC.RemoteStructure(r.Context(), repoURL, q.Get("token"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, structure)
}

func handleFeaturedRepos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, model.FeaturedRepos())
}
