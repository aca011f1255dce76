// Package ingest converts raw (path, name, content) triples into typed
// entities, classifies each document, feeds the registry, and finishes every
// batch with a full validation pass. One malformed file never blocks the
// rest of the batch.
package ingest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/gts-tools/gtscheck/internal/extract"
	"github.com/gts-tools/gtscheck/internal/model"
	"github.com/gts-tools/gtscheck/internal/registry"
	"github.com/gts-tools/gtscheck/internal/validate"
)

// RawFile is one document source handed to the pipeline.
type RawFile struct {
	Path    string
	Name    string
	Content []byte
}

// Warning records a per-file failure that was isolated from the batch.
type Warning struct {
	Path string
	Err  error
}

// Pipeline ingests files into the registry. Callers serialize Ingest calls:
// the pipeline is cooperative, at most one pass may be in flight.
type Pipeline struct {
	reg      *registry.Registry
	orch     *validate.Orchestrator
	excludes []string
}

// New creates a pipeline over reg. excludes are doublestar patterns for
// paths reserved for the tool's own metadata (e.g. ".gtscheck/**").
func New(reg *registry.Registry, orch *validate.Orchestrator, excludes []string) *Pipeline {
	return &Pipeline{reg: reg, orch: orch, excludes: excludes}
}

// Ingest processes files in input order and is not complete until every
// currently-registered entity has a validation result. Per-file failures are
// returned as warnings, never raised.
func (p *Pipeline) Ingest(files []RawFile) []Warning {
	var warnings []Warning
	for _, f := range files {
		if p.excluded(f.Path) {
			continue
		}
		if err := p.ingestFile(f); err != nil {
			warnings = append(warnings, Warning{Path: f.Path, Err: err})
		}
	}
	p.orch.ValidateAll()
	return warnings
}

// InvalidateFile retracts everything the registry attributes to path.
func (p *Pipeline) InvalidateFile(path string) {
	p.reg.Invalidate(path)
}

// Reset clears the registry for a full reload.
func (p *Pipeline) Reset() {
	p.reg.Reset()
}

func (p *Pipeline) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range p.excludes {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// ingestFile processes one file. Unexpected failures (including panics from
// malformed content) are converted to an error so the caller can isolate
// them.
func (p *Pipeline) ingestFile(f RawFile) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ingest %s: %v", f.Path, r)
		}
	}()

	// Any prior registration for this path is retracted first, so a failed
	// re-ingestion leaves zero owned entities rather than stale ones.
	p.reg.Invalidate(f.Path)

	file := &model.File{Path: f.Path, Name: f.Name, Content: f.Content}

	doc, parseErr := parseDocument(f.Name, f.Content)
	if parseErr != nil {
		file.Validation = &model.ValidationResult{Errors: []model.ValidationError{
			model.NewValidationError("/", "", fmt.Sprintf("Parse error: %v", parseErr)),
		}}
		p.reg.RegisterInvalidFile(file)
		return nil
	}

	// A bare document is a sequence of one; an array document is processed
	// element-by-element with its position recorded.
	tracked := false
	register := func(seq int, element any) {
		e := extract.Extract(file, seq, element)
		if e == nil {
			return
		}
		if !tracked {
			// The file becomes tracked as soon as the first recognized
			// entity is found.
			p.reg.RegisterFile(file)
			tracked = true
		}
		p.reg.Register(e)
	}

	if list, ok := doc.([]any); ok {
		for i, element := range list {
			register(i, element)
		}
	} else {
		register(-1, doc)
	}

	// A file that parses but contains zero recognized entities is neither
	// tracked nor invalid - it is dropped.
	return nil
}

// parseDocument parses by extension: JSON and JSON-with-comments via jsonc,
// everything else as YAML.
func parseDocument(name string, content []byte) (any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(content), &doc); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
