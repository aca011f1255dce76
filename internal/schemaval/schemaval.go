// Package schemaval wraps the JSON Schema validation capability behind a
// small compile/validate contract. The production implementation is backed
// by gojsonschema with a custom resolution step: nested $ref identifiers are
// resolved through a caller-supplied lookup (ultimately the registry) and
// pre-registered with the schema pool, so transitive and self-referential
// schema graphs compile without touching the network.
package schemaval

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Error is one raw validation failure as reported by the engine, before
// normalization.
type Error struct {
	// Path is the instance location as reported by the engine,
	// dot-separated; "(root)" denotes the document root.
	Path string

	// Keyword is the engine's failure type ("required", "invalid_type", ...).
	Keyword string

	// Description is the engine's human-readable message.
	Description string

	// Details carries keyword-specific parameters.
	Details map[string]any

	// Value is the offending instance value.
	Value any
}

// Validator executes a compiled schema against instances.
type Validator interface {
	// Validate runs the schema. A nil error slice means the instance
	// conforms. A non-nil error return means execution itself failed.
	Validate(instance any) ([]Error, error)
}

// Compiler compiles a schema document into a callable validator.
type Compiler interface {
	Compile(schemaDoc any) (Validator, error)
}

// ResolveFunc looks up the content of the schema registered under the given
// identifier. ok is false when the identifier is unknown.
type ResolveFunc func(id string) (content any, ok bool)

// CompileError carries a structured list of failures raised while compiling
// a schema document, for engines that report per-error granularity.
type CompileError struct {
	Errors []Error
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return "schema compilation failed"
	}
	return fmt.Sprintf("schema compilation failed: %s", e.Errors[0].Description)
}

// metaSchemaHosts are the well-known public JSON-Schema meta-URI prefixes,
// accepted unconditionally as satisfiable.
var metaSchemaHosts = []string{
	"http://json-schema.org/",
	"https://json-schema.org/",
}

// IsMetaSchemaURI reports whether ref points at a public JSON-Schema
// meta-schema.
func IsMetaSchemaURI(ref string) bool {
	for _, h := range metaSchemaHosts {
		if strings.HasPrefix(ref, h) {
			return true
		}
	}
	return false
}

// GoCompiler is the gojsonschema-backed Compiler.
type GoCompiler struct {
	resolve ResolveFunc
}

// NewCompiler creates a compiler whose $ref loader is backed by resolve.
func NewCompiler(resolve ResolveFunc) *GoCompiler {
	return &GoCompiler{resolve: resolve}
}

// Compile compiles a schema document. Every $ref reachable from the document
// is resolved ahead of compilation; an unresolved reference fails with
// "schema not found for $ref".
func (c *GoCompiler) Compile(schemaDoc any) (Validator, error) {
	sl := gojsonschema.NewSchemaLoader()
	// Permissive keyword handling: schema documents are not themselves
	// checked against the meta-schema here; schema-entity conformance is
	// reported through compile errors instead.
	sl.Validate = false

	seen := make(map[string]bool)
	if err := c.registerRefs(sl, schemaDoc, seen); err != nil {
		return nil, err
	}

	schema, err := sl.Compile(gojsonschema.NewGoLoader(schemaDoc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &goValidator{schema: schema}, nil
}

// registerRefs walks a schema document for $ref values and pre-registers
// each resolvable target with the schema pool, recursing into resolved
// content. The seen set makes reference cycles terminate.
func (c *GoCompiler) registerRefs(sl *gojsonschema.SchemaLoader, doc any, seen map[string]bool) error {
	for _, ref := range schemaRefs(doc) {
		if strings.HasPrefix(ref, "#") || IsMetaSchemaURI(ref) {
			continue
		}
		if seen[ref] {
			continue
		}
		seen[ref] = true

		content, ok := c.resolve(ref)
		if !ok {
			return fmt.Errorf("schema not found for $ref: %s", ref)
		}
		if err := sl.AddSchema(ref, gojsonschema.NewGoLoader(content)); err != nil {
			return fmt.Errorf("register schema %s: %w", ref, err)
		}
		if err := c.registerRefs(sl, content, seen); err != nil {
			return err
		}
	}
	return nil
}

// schemaRefs collects every $ref string value in the document.
func schemaRefs(doc any) []string {
	var refs []string
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			for k, child := range val {
				if k == "$ref" {
					if s, ok := child.(string); ok {
						refs = append(refs, s)
						continue
					}
				}
				walk(child)
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		}
	}
	walk(doc)
	return refs
}

type goValidator struct {
	schema *gojsonschema.Schema
}

func (v *goValidator) Validate(instance any) ([]Error, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(instance))
	if err != nil {
		return nil, fmt.Errorf("validate instance: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]Error, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, Error{
			Path:        re.Field(),
			Keyword:     re.Type(),
			Description: re.Description(),
			Details:     map[string]any(re.Details()),
			Value:       re.Value(),
		})
	}
	return errs, nil
}
