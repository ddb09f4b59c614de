package model_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
)

func TestBuildWikiURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		platform model.Platform
		opts     model.WikiOptions
		want     string
	}{
		{
			name:     "shorthand becomes https repo url",
			input:    "owner/repo",
			platform: model.PlatformGitHub,
			opts: model.WikiOptions{
				Provider:      "google",
				Model:         "gemini-2.0-flash",
				Language:      "en",
				Comprehensive: true,
			},
			want: "/owner/repo?type=github&repo_url=https%3A%2F%2Fgithub.com%2Fowner%2Frepo&provider=google&model=gemini-2.0-flash&language=en&comprehensive=true",
		},
		{
			name:     "full URL is passed through and platform is detected",
			input:    "https://gitlab.com/group/project",
			platform: model.PlatformGitHub,
			opts: model.WikiOptions{
				Token:    "secret-token",
				Provider: "openai",
				Model:    "gpt-4o",
				Language: "ja",
			},
			want: "/group/project?token=secret-token&type=gitlab&repo_url=https%3A%2F%2Fgitlab.com%2Fgroup%2Fproject&provider=openai&model=gpt-4o&language=ja&comprehensive=false",
		},
		{
			name:     "local path",
			input:    "/home/user/project",
			platform: model.PlatformGitHub,
			opts: model.WikiOptions{
				Provider:      "google",
				Model:         "gemini-2.0-flash",
				IsCustomModel: true,
				CustomModel:   "my-model",
				ExcludedDirs:  "./vendor/\n./dist/",
				ExcludedFiles: "*.lock",
				Language:      "en",
				Comprehensive: true,
			},
			want: "/local/project?type=local&local_path=%2Fhome%2Fuser%2Fproject&provider=google&model=gemini-2.0-flash&custom_model=my-model&excluded_dirs=.%2Fvendor%2F%0A.%2Fdist%2F&excluded_files=%2A.lock&language=en&comprehensive=true",
		},
		{
			name:     "custom model is ignored unless enabled",
			input:    "owner/repo",
			platform: model.PlatformBitbucket,
			opts: model.WikiOptions{
				Provider:    "google",
				Model:       "gemini-2.0-flash",
				CustomModel: "unused",
				Language:    "en",
			},
			want: "/owner/repo?type=bitbucket&repo_url=https%3A%2F%2Fbitbucket.org%2Fowner%2Frepo&provider=google&model=gemini-2.0-flash&language=en&comprehensive=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := model.ParseRepoRef(tt.input, tt.platform)
			gt.NoError(t, err)

			got := model.BuildWikiURL(tt.input, ref, &tt.opts)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestBuildWikiURL_ParameterOrder(t *testing.T) {
	ref, err := model.ParseRepoRef("owner/repo", model.PlatformGitHub)
	gt.NoError(t, err)

	got := model.BuildWikiURL("owner/repo", ref, &model.WikiOptions{
		Token:         "t",
		Provider:      "p",
		Model:         "m",
		IsCustomModel: true,
		CustomModel:   "c",
		ExcludedDirs:  "d",
		ExcludedFiles: "f",
		Language:      "en",
	})

	_, rawQuery, found := strings.Cut(got, "?")
	gt.Value(t, found).Equal(true)

	var keys []string
	for _, pair := range strings.Split(rawQuery, "&") {
		k, _, _ := strings.Cut(pair, "=")
		keys = append(keys, k)
	}
	gt.Value(t, keys).Equal([]string{
		"token", "type", "repo_url", "provider", "model", "custom_model",
		"excluded_dirs", "excluded_files", "language", "comprehensive",
	})

	values, err := url.ParseQuery(rawQuery)
	gt.NoError(t, err)
	gt.Value(t, values.Get("repo_url")).Equal("https://github.com/owner/repo")
}
