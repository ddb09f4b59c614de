package http

import (
	"net/http"

	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
)

func handleModelConfig(catalog interfaces.ModelCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, catalog.ModelConfig(r.Context()))
	}
}
