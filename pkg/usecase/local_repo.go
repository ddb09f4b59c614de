package usecase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
	ignore "github.com/sabhiram/go-gitignore"
)

// Directories never descended into, regardless of user filters
var skippedDirNames = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	".venv":        true,
}

// pathFilter evaluates a model.FileFilter against slash separated paths
// relative to the repository root
type pathFilter struct {
	dirs  *ignore.GitIgnore
	files *ignore.GitIgnore
}

func newPathFilter(f model.FileFilter) *pathFilter {
	return &pathFilter{
		dirs:  ignore.CompileIgnoreLines(normalizePatterns(f.ExcludedDirs)...),
		files: ignore.CompileIgnoreLines(normalizePatterns(f.ExcludedFiles)...),
	}
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimPrefix(strings.TrimSpace(p), "./")
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (x *pathFilter) excludeDir(rel string) bool {
	return x.dirs.MatchesPath(rel + "/")
}

// excludeFile also reports files below an excluded directory, which is
// needed for flat listings such as a GitHub tree
func (x *pathFilter) excludeFile(rel string) bool {
	return x.dirs.MatchesPath(rel) || x.files.MatchesPath(rel)
}

// filterPaths drops excluded entries from a flat file listing
func (x *pathFilter) filterPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if x.excludeFile(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// walkLocalRepository lists the files below root and reads the first README.md
func walkLocalRepository(root string, filter model.FileFilter) (*model.RepoStructure, error) {
	if root == "" {
		return nil, goerr.New("No path provided. Please provide a 'path' query parameter.",
			goerr.T(types.ErrTagInvalidArgument))
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, goerr.New("Directory not found: "+root,
			goerr.V("path", root),
			goerr.T(types.ErrTagNotFound))
	}

	pf := newPathFilter(filter)
	var (
		files      []string
		readmePath string
	)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if strings.HasPrefix(name, ".") || skippedDirNames[name] || pf.excludeDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || name == "__init__.py" || pf.excludeFile(rel) {
			return nil
		}

		files = append(files, rel)
		if readmePath == "" && strings.EqualFold(name, "README.md") {
			readmePath = path
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk directory", goerr.V("path", root))
	}

	sort.Strings(files)

	result := &model.RepoStructure{
		FileTree: strings.Join(files, "\n"),
	}
	if readmePath != "" {
		raw, err := os.ReadFile(readmePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read README", goerr.V("path", readmePath))
		}
		result.Readme = string(raw)
	}

	return result, nil
}

// readLocalFile reads a file of a local repository. rel must stay inside root.
func readLocalFile(root, rel string) (string, error) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(root, path)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", goerr.New("file path is outside of the repository",
			goerr.V("root", root),
			goerr.V("path", rel),
			goerr.T(types.ErrTagInvalidArgument))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", goerr.Wrap(err, "file not found", goerr.V("path", rel), goerr.T(types.ErrTagNotFound))
		}
		return "", goerr.Wrap(err, "failed to read file", goerr.V("path", rel))
	}
	return string(raw), nil
}
