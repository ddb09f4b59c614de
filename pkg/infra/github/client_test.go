package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
	githubinfra "github.com/m-mizutani/repowiki/pkg/infra/github"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func encodedContent(s string) map[string]any {
	return map[string]any{
		"type":     "file",
		"encoding": "base64",
		"content":  base64.StdEncoding.EncodeToString([]byte(s)),
	}
}

func newMockGitHub(t *testing.T, withReadme bool) (*httptest.Server, *[]string) {
	var authHeaders []string
	mux := http.NewServeMux()

	mux.HandleFunc("/repos/octo/hello/git/trees/develop", func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		gt.Value(t, r.URL.Query().Get("recursive")).Equal("1")
		writeJSON(w, map[string]any{
			"sha": "abc",
			"tree": []map[string]any{
				{"path": "src", "type": "tree"},
				{"path": "src/main.go", "type": "blob"},
				{"path": "README.md", "type": "blob"},
			},
			"truncated": false,
		})
	})
	mux.HandleFunc("/repos/octo/hello/readme", func(w http.ResponseWriter, r *http.Request) {
		if !withReadme {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, encodedContent("# Hello"))
	})
	mux.HandleFunc("/repos/octo/hello/contents/src/main.go", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, encodedContent("package main"))
	})
	mux.HandleFunc("/repos/octo/hello", func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{"name": "hello", "default_branch": "develop"})
	})
	mux.HandleFunc("/repos/octo/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"message": "Not Found"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &authHeaders
}

func TestClient_GetStructure(t *testing.T) {
	ctx := context.Background()

	t.Run("tree and readme of default branch", func(t *testing.T) {
		server, auth := newMockGitHub(t, true)
		client, err := githubinfra.NewClient(githubinfra.WithBaseURL(server.URL))
		gt.NoError(t, err)

		structure, err := client.GetStructure(ctx, "octo", "hello", "request-token")
		gt.NoError(t, err)
		gt.Value(t, structure.FileTree).Equal("README.md\nsrc/main.go")
		gt.Value(t, structure.Readme).Equal("# Hello")

		gt.Number(t, len(*auth)).Greater(0)
		for _, h := range *auth {
			gt.String(t, h).Contains("request-token")
		}
	})

	t.Run("configured token is used without request token", func(t *testing.T) {
		server, auth := newMockGitHub(t, true)
		client, err := githubinfra.NewClient(
			githubinfra.WithBaseURL(server.URL),
			githubinfra.WithToken("server-token"),
		)
		gt.NoError(t, err)

		_, err = client.GetStructure(ctx, "octo", "hello", "")
		gt.NoError(t, err)
		for _, h := range *auth {
			gt.String(t, h).Contains("server-token")
		}
	})

	t.Run("missing readme is not an error", func(t *testing.T) {
		server, _ := newMockGitHub(t, false)
		client, err := githubinfra.NewClient(githubinfra.WithBaseURL(server.URL))
		gt.NoError(t, err)

		structure, err := client.GetStructure(ctx, "octo", "hello", "")
		gt.NoError(t, err)
		gt.Value(t, structure.Readme).Equal("")
	})

	t.Run("missing repository is tagged not found", func(t *testing.T) {
		server, _ := newMockGitHub(t, true)
		client, err := githubinfra.NewClient(githubinfra.WithBaseURL(server.URL))
		gt.NoError(t, err)

		_, err = client.GetStructure(ctx, "octo", "missing", "")
		gt.Error(t, err)
		gt.Value(t, types.HasTag(err, types.ErrTagNotFound)).Equal(true)
	})
}

func TestClient_GetFileContent(t *testing.T) {
	server, _ := newMockGitHub(t, true)
	client, err := githubinfra.NewClient(githubinfra.WithBaseURL(server.URL))
	gt.NoError(t, err)

	content, err := client.GetFileContent(context.Background(), "octo", "hello", "src/main.go", "")
	gt.NoError(t, err)
	gt.Value(t, content).Equal("package main")
}

func TestClient_WithAppInstallation(t *testing.T) {
	// This test requires GitHub App credentials from environment variables
	appID := os.Getenv("TEST_GITHUB_APP_ID")
	installationID := os.Getenv("TEST_GITHUB_INSTALLATION_ID")
	privateKey := os.Getenv("TEST_GITHUB_PRIVATE_KEY")
	repo := os.Getenv("TEST_GITHUB_REPO")

	if appID == "" || installationID == "" || privateKey == "" || repo == "" {
		t.Skip("Test GitHub App credentials not provided via environment variables")
	}

	appIDInt, err := strconv.ParseInt(appID, 10, 64)
	gt.NoError(t, err)
	installationIDInt, err := strconv.ParseInt(installationID, 10, 64)
	gt.NoError(t, err)

	client, err := githubinfra.NewClient(githubinfra.WithAppInstallation(appIDInt, installationIDInt, []byte(privateKey)))
	gt.NoError(t, err)

	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		t.Fatalf("TEST_GITHUB_REPO must be owner/repo: %s", repo)
	}

	structure, err := client.GetStructure(context.Background(), owner, name, "")
	gt.NoError(t, err)
	gt.Value(t, structure.FileTree).NotEqual("")
}
