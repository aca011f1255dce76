// Package validate runs the two-phase validation protocol over the registry:
// reference integrity first, then schema conformance, with all schemas
// validated before any object. Results are attached to entities as
// normalized error lists; nothing expected is ever reported by throwing.
package validate

import (
	"fmt"

	"github.com/gts-tools/gtscheck/internal/model"
	"github.com/gts-tools/gtscheck/internal/registry"
	"github.com/gts-tools/gtscheck/internal/resolver"
	"github.com/gts-tools/gtscheck/internal/schemaval"
)

// Orchestrator validates every registered entity. It reads the registry
// through the resolver and mutates only entity validation results and the
// absent-entity placeholders.
type Orchestrator struct {
	reg      *registry.Registry
	res      *resolver.Resolver
	compiler schemaval.Compiler

	// disableSchemaExec skips schema compilation and execution entirely,
	// for hosts whose security policy forbids dynamic code generation.
	// Injected at construction; Phase A results are still produced.
	disableSchemaExec bool
}

// Options configures an Orchestrator.
type Options struct {
	// DisableSchemaExec keeps only reference-integrity results.
	DisableSchemaExec bool
}

// New creates an orchestrator over reg. compiler may be nil only when
// opts.DisableSchemaExec is set.
func New(reg *registry.Registry, compiler schemaval.Compiler, opts Options) *Orchestrator {
	return &Orchestrator{
		reg:               reg,
		res:               resolver.New(reg),
		compiler:          compiler,
		disableSchemaExec: opts.DisableSchemaExec,
	}
}

// NewWithRegistryCompiler creates an orchestrator whose schema compiler
// resolves nested $ref identifiers against reg's schema index.
func NewWithRegistryCompiler(reg *registry.Registry, opts Options) *Orchestrator {
	res := resolver.New(reg)
	compiler := schemaval.NewCompiler(func(id string) (any, bool) {
		e, ok := res.Schema(id)
		if !ok {
			return nil, false
		}
		return e.Content, true
	})
	return &Orchestrator{
		reg:               reg,
		res:               res,
		compiler:          compiler,
		disableSchemaExec: opts.DisableSchemaExec,
	}
}

// ValidateAll recomputes validation for every registered entity from
// scratch. Phase A (reference integrity) runs for all entities; Phase B runs
// all schemas to completion before any object, because object validation may
// need to compile schemas that reference other schemas.
func (o *Orchestrator) ValidateAll() {
	o.reg.ClearAbsent()

	schemas := o.reg.Schemas()
	objects := o.reg.Objects()

	// Phase A. Every entity gets a fresh result container: there is no
	// partial rollback, a re-run always starts from an empty error list.
	for _, e := range schemas {
		e.Validation = &model.ValidationResult{Errors: []model.ValidationError{}}
		e.Validation.Append(o.checkRefs(e)...)
	}
	for _, e := range objects {
		e.Validation = &model.ValidationResult{Errors: []model.ValidationError{}}
		e.Validation.Append(o.checkRefs(e)...)
	}

	if o.disableSchemaExec {
		return
	}

	// Phase B. Compiled validators are cached per pass so a schema shared
	// by many objects compiles once.
	cache := make(map[string]compileResult)
	for _, s := range schemas {
		o.validateSchema(s, cache)
	}
	for _, obj := range objects {
		o.validateObject(obj, cache)
	}
}

// checkRefs runs reference integrity over an entity's outgoing references.
// References under documentation/examples regions are exempt. Each
// unresolved reference materializes an absent-entity placeholder and yields
// exactly one error.
func (o *Orchestrator) checkRefs(e *model.Entity) []model.ValidationError {
	var errs []model.ValidationError
	for _, ref := range e.Refs {
		if inExamplesRegion(ref.SourcePath) {
			continue
		}
		if _, ok := o.res.Any(ref.ID); ok {
			continue
		}
		o.reg.Absent(ref.ID)
		errs = append(errs, model.ValidationError{
			InstancePath: pathToPointer(ref.SourcePath),
			SchemaPath:   "#",
			Message:      fmt.Sprintf("Missing GTS entity: %s", ref.ID),
		})
	}
	return errs
}

type compileResult struct {
	validator schemaval.Validator
	err       error
}

// compile compiles a schema entity's content, caching per validation pass.
func (o *Orchestrator) compile(s *model.Entity, cache map[string]compileResult) compileResult {
	if r, ok := cache[s.ID]; ok {
		return r
	}
	v, err := o.compiler.Compile(s.Content)
	r := compileResult{validator: v, err: err}
	cache[s.ID] = r
	return r
}

// validateSchema attempts to compile a schema entity; compile failures are
// recorded on the schema itself so its conformance errors stay visible
// independent of any object that uses it.
func (o *Orchestrator) validateSchema(s *model.Entity, cache map[string]compileResult) {
	if r := o.compile(s, cache); r.err != nil {
		s.Validation.Append(normalizeCompileError(r.err)...)
	}
}

// validateObject resolves the object's declared schema, compiles it, and
// executes it against the object's content. Conformance errors are appended
// after the Phase A reference-integrity errors already present.
func (o *Orchestrator) validateObject(obj *model.Entity, cache map[string]compileResult) {
	if obj.SchemaID == "" {
		// No schema to check against: only reference-integrity results.
		return
	}

	schemaEnt, ok := o.res.Schema(obj.SchemaID)
	if !ok {
		idField := obj.SchemaIDField
		if idField == "" {
			idField = "root"
		}
		obj.Validation.Append(model.ValidationError{
			InstancePath: pathToPointer(idField),
			SchemaPath:   "#",
			Message:      fmt.Sprintf("Schema not found: %s", obj.SchemaID),
		})
		return
	}

	r := o.compile(schemaEnt, cache)
	if r.err != nil {
		obj.Validation.Append(normalizeCompileError(r.err)...)
		return
	}

	raw, err := r.validator.Validate(obj.Content)
	if err != nil {
		obj.Validation.Append(model.NewValidationError("/", "", fmt.Sprintf("Validation error: %v", err)))
		return
	}
	obj.Validation.Append(normalizeErrors(raw, obj.Content)...)
}
