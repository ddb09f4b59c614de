package model

import (
	"net/url"
	"strconv"
	"strings"
)

// WikiOptions holds the choices made in the configuration dialog before a
// wiki generation is started
type WikiOptions struct {
	Platform      Platform `json:"platform"`
	Token         string   `json:"token,omitempty" masq:"secret"`
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	IsCustomModel bool     `json:"is_custom_model"`
	CustomModel   string   `json:"custom_model,omitempty"`
	ExcludedDirs  string   `json:"excluded_dirs,omitempty"`
	ExcludedFiles string   `json:"excluded_files,omitempty"`
	Language      string   `json:"language"`
	Comprehensive bool     `json:"comprehensive"`
}

// queryBuilder keeps insertion order of query parameters, which url.Values does not
type queryBuilder struct {
	parts []string
}

func (q *queryBuilder) add(key, value string) {
	q.parts = append(q.parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
}

func (q *queryBuilder) String() string {
	return strings.Join(q.parts, "&")
}

// BuildWikiURL builds the client-side navigation target
// "/{owner}/{repo}?token=&type=&local_path=&repo_url=&provider=&model=&custom_model=&excluded_dirs=&excluded_files=&language=&comprehensive="
// for a parsed reference. input is the raw string the reference was parsed from.
func BuildWikiURL(input string, ref *RepoRef, opts *WikiOptions) string {
	input = strings.TrimSpace(input)
	var q queryBuilder

	if opts.Token != "" {
		q.add("token", opts.Token)
	}

	if ref.Type == RepoTypeLocal {
		q.add("type", string(RepoTypeLocal))
	} else {
		q.add("type", string(ref.Platform()))
	}

	if ref.LocalPath != "" {
		q.add("local_path", ref.LocalPath)
	} else {
		repoURL := input
		if ref.Type == RepoTypeWeb && !strings.HasPrefix(input, "http") && ref.FullPath != "" {
			repoURL = "https://" + ref.FullPath
		}
		q.add("repo_url", repoURL)
	}

	q.add("provider", opts.Provider)
	q.add("model", opts.Model)
	if opts.IsCustomModel && opts.CustomModel != "" {
		q.add("custom_model", opts.CustomModel)
	}
	if opts.ExcludedDirs != "" {
		q.add("excluded_dirs", opts.ExcludedDirs)
	}
	if opts.ExcludedFiles != "" {
		q.add("excluded_files", opts.ExcludedFiles)
	}
	q.add("language", opts.Language)
	q.add("comprehensive", strconv.FormatBool(opts.Comprehensive))

	return "/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Repo) + "?" + q.String()
}

// ResolveResult is a parsed reference together with its navigation URL
type ResolveResult struct {
	Reference *RepoRef `json:"reference"`
	URL       string   `json:"url"`
}
