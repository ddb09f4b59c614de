package model

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// RepoType distinguishes filesystem references from remote git host references
type RepoType string

const (
	RepoTypeLocal RepoType = "local"
	RepoTypeWeb   RepoType = "web"
)

// Platform is a remote git hosting service
type Platform string

const (
	PlatformGitHub    Platform = "github"
	PlatformGitLab    Platform = "gitlab"
	PlatformBitbucket Platform = "bitbucket"
)

// LocalOwner is the owner segment assigned to every local reference
const LocalOwner = "local"

const defaultLocalRepoName = "local-repo"

// ParsePlatform converts a platform name. Empty string selects GitHub.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlatformGitHub:
		return PlatformGitHub, nil
	case PlatformGitLab:
		return PlatformGitLab, nil
	case PlatformBitbucket:
		return PlatformBitbucket, nil
	default:
		return "", goerr.New("unknown platform", goerr.V("platform", s), goerr.T(types.ErrTagInvalidArgument))
	}
}

// Host returns the public host name of the platform
func (p Platform) Host() string {
	switch p {
	case PlatformGitLab:
		return "gitlab.com"
	case PlatformBitbucket:
		return "bitbucket.org"
	default:
		return "github.com"
	}
}

// RepoRef identifies a target repository. It is built from user input and
// consumed immediately to construct a navigation URL.
type RepoRef struct {
	Owner     string   `json:"owner"`
	Repo      string   `json:"repo"`
	Type      RepoType `json:"type"`
	FullPath  string   `json:"full_path,omitempty"`
	LocalPath string   `json:"local_path,omitempty"`
}

// Name returns "owner/repo"
func (r *RepoRef) Name() string {
	return r.Owner + "/" + r.Repo
}

// Platform detects the hosting service of a web reference from its full path.
// Local references have no platform and return an empty value.
func (r *RepoRef) Platform() Platform {
	if r.Type != RepoTypeWeb {
		return ""
	}
	switch {
	case strings.Contains(r.FullPath, "gitlab.com"):
		return PlatformGitLab
	case strings.Contains(r.FullPath, "bitbucket.org"):
		return PlatformBitbucket
	default:
		return PlatformGitHub
	}
}

var (
	windowsPathRegex = regexp.MustCompile(`^[a-zA-Z]:\\(?:[^\\/:*?"<>|\r\n]+\\)*[^\\/:*?"<>|\r\n]*$`)
	gitURLRegex      = regexp.MustCompile(`^(?:https?://)?([^/]+)/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	hostRegex        = regexp.MustCompile(`^(?:[a-zA-Z0-9-]+\.)+[a-zA-Z0-9-]+(?::\d+)?$|^localhost(?::\d+)?$`)
)

// ParseRepoRef classifies and decomposes a repository identifier typed by a
// user. Accepted forms are a Windows absolute path, a POSIX absolute path,
// "[scheme://]host/owner/repo[.git]" and the "owner/repo" shorthand, which is
// resolved against the given platform's host. Any other input returns an
// error tagged with types.ErrTagInvalidRepoFormat.
func ParseRepoRef(input string, platform Platform) (*RepoRef, error) {
	input = strings.TrimSpace(input)
	ref := &RepoRef{}

	switch {
	case windowsPathRegex.MatchString(input):
		ref.Type = RepoTypeLocal
		ref.LocalPath = input
		ref.Owner = LocalOwner
		ref.Repo = lastOrDefault(strings.Split(input, `\\`), defaultLocalRepoName)

	case strings.HasPrefix(input, "/"):
		ref.Type = RepoTypeLocal
		ref.LocalPath = input
		ref.Owner = LocalOwner
		ref.Repo = lastOrDefault(nonEmpty(strings.Split(input, "/")), defaultLocalRepoName)

	case isGitURL(input):
		m := gitURLRegex.FindStringSubmatch(input)
		ref.Type = RepoTypeWeb
		ref.FullPath = strings.Join(m[1:4], "/")
		ref.Owner = m[2]
		ref.Repo = m[3]

	case strings.Count(input, "/") == 1 && !strings.HasPrefix(input, "http") && !strings.Contains(input, "git@"):
		parts := strings.SplitN(input, "/", 2)
		ref.Type = RepoTypeWeb
		ref.Owner = parts[0]
		ref.Repo = parts[1]
		ref.FullPath = platform.Host() + "/" + ref.Owner + "/" + ref.Repo

	default:
		return nil, invalidRepoFormat(input)
	}

	ref.Owner = strings.TrimSpace(ref.Owner)
	ref.Repo = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(ref.Repo), ".git"))
	if ref.Owner == "" || ref.Repo == "" {
		return nil, invalidRepoFormat(input)
	}

	return ref, nil
}

func isGitURL(input string) bool {
	m := gitURLRegex.FindStringSubmatch(input)
	if m == nil {
		return false
	}
	return hostRegex.MatchString(m[1])
}

func invalidRepoFormat(input string) error {
	return goerr.New("invalid repository format",
		goerr.V("input", input),
		goerr.T(types.ErrTagInvalidRepoFormat),
	)
}

func nonEmpty(parts []string) []string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lastOrDefault(parts []string, def string) string {
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return def
	}
	return parts[len(parts)-1]
}
