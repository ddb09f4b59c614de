package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/m-mizutani/repowiki/pkg/controller/http"
	"github.com/m-mizutani/repowiki/pkg/usecase"
)

type forwarded struct {
	method string
	path   string
	query  string
	body   string
}

func TestGatewayForwarding(t *testing.T) {
	var got []forwarded
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, forwarded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(body)})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"upstream":true}`))
	}))
	defer upstream.Close()

	upstreamURL, err := url.Parse(upstream.URL)
	gt.NoError(t, err)

	h := newTestServer(t,
		controller.WithRepositoryUseCase(usecase.NewRepository(nil)),
		controller.WithUpstream(upstreamURL),
	)

	testCases := []struct {
		name      string
		method    string
		target    string
		wantPath  string
		wantQuery string
	}{
		{"wiki cache get", http.MethodGet, "/api/wiki_cache?owner=o&repo=r&repo_type=github&language=en", "/api/wiki_cache", "owner=o&repo=r&repo_type=github&language=en"},
		{"wiki cache subpath", http.MethodDelete, "/api/wiki_cache/extra?x=1", "/api/wiki_cache/extra", "x=1"},
		{"processed projects", http.MethodGet, "/api/processed_projects", "/api/processed_projects", ""},
		{"export", http.MethodPost, "/export/wiki", "/export/wiki", ""},
		{"local structure", http.MethodGet, "/local_repo/structure?path=%2Ftmp%2Fx", "/local_repo/structure", "path=%2Ftmp%2Fx"},
		{"chat", http.MethodPost, "/chat/completions/stream", "/chat/completions/stream", ""},
		{"model config", http.MethodGet, "/api/models/config", "/models/config", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got = nil
			w := doRequest(h, tc.method, tc.target, nil, nil)
			gt.Value(t, w.Code).Equal(http.StatusOK)
			gt.Value(t, w.Body.String()).Equal(`{"upstream":true}`)

			gt.Number(t, len(got)).Equal(1)
			gt.Value(t, got[0].method).Equal(tc.method)
			gt.Value(t, got[0].path).Equal(tc.wantPath)
			gt.Value(t, got[0].query).Equal(tc.wantQuery)
		})
	}

	t.Run("resolve is served locally", func(t *testing.T) {
		got = nil
		w := doRequest(h, http.MethodPost, "/api/repo/resolve", map[string]any{"input": "owner/repo"}, nil)
		gt.Value(t, w.Code).Equal(http.StatusOK)
		gt.Number(t, len(got)).Equal(0)
	})
}

func TestGatewayUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	upstreamURL, err := url.Parse(upstream.URL)
	gt.NoError(t, err)
	upstream.Close()

	h := newTestServer(t, controller.WithUpstream(upstreamURL))
	w := doRequest(h, http.MethodGet, "/api/processed_projects", nil, nil)
	gt.Value(t, w.Code).Equal(http.StatusBadGateway)
}
