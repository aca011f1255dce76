// Package scan discovers candidate files for ingestion. The candidate
// predicate is a pure function over the file name; callers apply it before
// handing files to the pipeline.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gts-tools/gtscheck/internal/config"
	"github.com/gts-tools/gtscheck/internal/ingest"
)

// defaultExtensions is the fixed allow-list of recognized extensions.
var defaultExtensions = []string{".json", ".jsonc", ".yaml", ".yml"}

// IsCandidate reports whether a file name is a candidate for ingestion.
func IsCandidate(name string) bool {
	return IsCandidateWith(name, defaultExtensions)
}

// IsCandidateWith applies a custom extension allow-list.
func IsCandidateWith(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Walk collects candidate files under root in walk order (deterministic:
// lexical within each directory), skipping the metadata directory and
// excluded patterns. Paths in the result are relative to root, slashed.
func Walk(root string, extensions, excludes []string) ([]ingest.RawFile, error) {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}

	var files []ingest.RawFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if d.Name() == config.MetaDirName {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsCandidateWith(d.Name(), extensions) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range excludes {
			if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
				return nil
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		files = append(files, ingest.RawFile{
			Path:    rel,
			Name:    d.Name(),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
