package http

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Paths forwarded verbatim to the upstream API server
var proxiedPaths = []string{
	"/api/wiki_cache",
	"/api/wiki_cache/*",
	"/api/processed_projects",
	"/export/wiki",
	"/export/wiki/*",
	"/local_repo/structure",
	"/chat/completions/stream",
}

func newReverseProxy(upstream *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
		},
		// Chat answers are streamed, every chunk is flushed immediately
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			ctxlog.From(r.Context()).Error("Failed to reach upstream", "error", err, "upstream", upstream.String())
			writeError(w, goerr.Wrap(err, "upstream server is not available"), http.StatusBadGateway)
		},
	}
}

func mountProxy(ctx context.Context, router chi.Router, upstream *url.URL) {
	proxy := newReverseProxy(upstream)
	for _, path := range proxiedPaths {
		router.Handle(path, proxy)
	}

	// The model catalog lives under a different path on the upstream
	router.Get("/api/models/config", func(w http.ResponseWriter, r *http.Request) {
		out := r.Clone(r.Context())
		out.URL.Path = "/models/config"
		out.URL.RawPath = ""
		proxy.ServeHTTP(w, out)
	})

	ctxlog.From(ctx).Info("Forwarding backend endpoints", "upstream", upstream.String())
}
