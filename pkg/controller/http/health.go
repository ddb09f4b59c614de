package http

import (
	"net/http"

	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, &model.HealthStatus{
		Status:  "healthy",
		Service: "repowiki",
		Version: types.Version,
	})
}
