package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		platform model.Platform
		want     *model.RepoRef
	}{
		{
			name:     "shorthand",
			input:    "owner/repo",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:    "owner",
				Repo:     "repo",
				Type:     model.RepoTypeWeb,
				FullPath: "github.com/owner/repo",
			},
		},
		{
			name:     "shorthand resolved against gitlab",
			input:    "group/project",
			platform: model.PlatformGitLab,
			want: &model.RepoRef{
				Owner:    "group",
				Repo:     "project",
				Type:     model.RepoTypeWeb,
				FullPath: "gitlab.com/group/project",
			},
		},
		{
			name:     "https URL with .git suffix",
			input:    "https://github.com/owner/repo.git",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:    "owner",
				Repo:     "repo",
				Type:     model.RepoTypeWeb,
				FullPath: "github.com/owner/repo",
			},
		},
		{
			name:     "URL without scheme and with trailing slash",
			input:    "bitbucket.org/team/service/",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:    "team",
				Repo:     "service",
				Type:     model.RepoTypeWeb,
				FullPath: "bitbucket.org/team/service",
			},
		},
		{
			name:     "self hosted with port",
			input:    "http://git.example.com:8080/infra/tools",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:    "infra",
				Repo:     "tools",
				Type:     model.RepoTypeWeb,
				FullPath: "git.example.com:8080/infra/tools",
			},
		},
		{
			name:     "posix path",
			input:    "/home/user/project",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:     model.LocalOwner,
				Repo:      "project",
				Type:      model.RepoTypeLocal,
				LocalPath: "/home/user/project",
			},
		},
		{
			name:     "posix path with trailing slash",
			input:    "/srv/code/app/",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:     model.LocalOwner,
				Repo:      "app",
				Type:      model.RepoTypeLocal,
				LocalPath: "/srv/code/app/",
			},
		},
		{
			name:     "root path falls back to default name",
			input:    "/",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:     model.LocalOwner,
				Repo:      "local-repo",
				Type:      model.RepoTypeLocal,
				LocalPath: "/",
			},
		},
		{
			name:     "windows path is split on double backslash only",
			input:    `C:\Users\me\project`,
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:     model.LocalOwner,
				Repo:      `C:\Users\me\project`,
				Type:      model.RepoTypeLocal,
				LocalPath: `C:\Users\me\project`,
			},
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  owner/repo.git  ",
			platform: model.PlatformGitHub,
			want: &model.RepoRef{
				Owner:    "owner",
				Repo:     "repo",
				Type:     model.RepoTypeWeb,
				FullPath: "github.com/owner/repo.git",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseRepoRef(tt.input, tt.platform)
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestParseRepoRef_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a valid input///",
		"owner/repo/extra",
		"git@github.com:owner/repo.git",
		"https://github.com/owner",
		"owner/",
		"justaname",
		"owner/.git",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			ref, err := model.ParseRepoRef(input, model.PlatformGitHub)
			gt.Error(t, err)
			gt.Value(t, ref).Nil()
			gt.Value(t, goerr.HasTag(err, types.ErrTagInvalidRepoFormat)).Equal(true)
		})
	}
}

func TestParseRepoRef_ShorthandIdempotence(t *testing.T) {
	for _, p := range []model.Platform{model.PlatformGitHub, model.PlatformGitLab, model.PlatformBitbucket} {
		t.Run(string(p), func(t *testing.T) {
			first, err := model.ParseRepoRef("owner/repo", p)
			gt.NoError(t, err)

			second, err := model.ParseRepoRef(first.FullPath, p)
			gt.NoError(t, err)
			gt.Value(t, second.Owner).Equal(first.Owner)
			gt.Value(t, second.Repo).Equal(first.Repo)
			gt.Value(t, second.Platform()).Equal(p)
		})
	}
}

func TestRepoRef_Platform(t *testing.T) {
	tests := []struct {
		input string
		want  model.Platform
	}{
		{"https://gitlab.com/a/b", model.PlatformGitLab},
		{"https://bitbucket.org/a/b", model.PlatformBitbucket},
		{"https://github.com/a/b", model.PlatformGitHub},
		{"https://git.example.com/a/b", model.PlatformGitHub},
		{"/tmp/project", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := model.ParseRepoRef(tt.input, model.PlatformGitHub)
			gt.NoError(t, err)
			gt.Value(t, ref.Platform()).Equal(tt.want)
		})
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := model.ParsePlatform("")
	gt.NoError(t, err)
	gt.Value(t, p).Equal(model.PlatformGitHub)

	p, err = model.ParsePlatform("GitLab")
	gt.NoError(t, err)
	gt.Value(t, p).Equal(model.PlatformGitLab)

	_, err = model.ParsePlatform("sourcehut")
	gt.Error(t, err)
}
