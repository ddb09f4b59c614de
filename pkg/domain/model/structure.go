package model

import "strings"

// RepoStructure is the file listing and README of a repository
type RepoStructure struct {
	FileTree string `json:"file_tree"`
	Readme   string `json:"readme"`
}

// FileFilter excludes directories and files from a repository walk. Patterns
// follow gitignore syntax; a leading "./" is accepted.
type FileFilter struct {
	ExcludedDirs  []string
	ExcludedFiles []string
}

// ParseFilterList splits a newline separated list typed into a text area
func ParseFilterList(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Merge returns a filter holding the patterns of both
func (f FileFilter) Merge(other FileFilter) FileFilter {
	return FileFilter{
		ExcludedDirs:  append(append([]string{}, f.ExcludedDirs...), other.ExcludedDirs...),
		ExcludedFiles: append(append([]string{}, f.ExcludedFiles...), other.ExcludedFiles...),
	}
}

// DefaultFileFilter returns the exclusions applied when building model context
func DefaultFileFilter() FileFilter {
	return FileFilter{
		ExcludedDirs: []string{
			"./.venv/", "./venv/", "./env/", "./virtualenv/",
			"./node_modules/", "./bower_components/", "./jspm_packages/",
			"./.git/", "./.svn/", "./.hg/", "./.bzr/",
			"./__pycache__/", "./.pytest_cache/", "./.mypy_cache/", "./.ruff_cache/", "./.coverage/",
			"./dist/", "./build/", "./out/", "./target/", "./bin/", "./obj/",
			"./docs/", "./_docs/", "./site-docs/", "./_site/",
			"./.idea/", "./.vscode/", "./.vs/", "./.eclipse/", "./.settings/",
			"./logs/", "./log/", "./tmp/", "./temp/",
		},
		ExcludedFiles: []string{
			"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "npm-shrinkwrap.json",
			"poetry.lock", "Pipfile.lock", "requirements.txt.lock", "Cargo.lock", "composer.lock",
			".lock", ".DS_Store", "Thumbs.db", "desktop.ini", "*.lnk",
			".env", ".env.*", "*.env", "*.cfg", "*.ini", ".flaskenv",
			".gitignore", ".gitattributes", ".gitmodules", ".github", ".gitlab-ci.yml",
			".prettierrc", ".eslintrc", ".eslintignore", ".stylelintrc", ".editorconfig", ".jshintrc",
			".pylintrc", ".flake8", "mypy.ini", "pyproject.toml", "tsconfig.json",
			"webpack.config.js", "babel.config.js", "rollup.config.js", "jest.config.js",
			"karma.conf.js", "vite.config.js", "next.config.js",
			"*.min.js", "*.min.css", "*.bundle.js", "*.bundle.css", "*.map",
			"*.gz", "*.zip", "*.tar", "*.tgz", "*.rar",
			"*.pyc", "*.pyo", "*.pyd", "*.so", "*.dll", "*.class", "*.exe", "*.o", "*.a",
			"*.jpg", "*.jpeg", "*.png", "*.gif", "*.ico", "*.svg", "*.webp",
			"*.mp3", "*.mp4", "*.wav", "*.avi", "*.mov", "*.webm",
			"*.csv", "*.tsv", "*.xls", "*.xlsx", "*.db", "*.sqlite", "*.sqlite3",
			"*.pdf", "*.docx", "*.pptx",
		},
	}
}
