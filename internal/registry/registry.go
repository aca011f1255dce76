// Package registry implements the authoritative in-memory entity index:
// id-to-entity maps partitioned by kind, file tracking, and the reverse
// ownership maps that make per-path invalidation precise.
package registry

import (
	"sort"

	"github.com/gts-tools/gtscheck/internal/model"
)

// Registry is the entity index. It is the only shared mutable resource in
// the pipeline and is mutated solely through the methods below; callers
// serialize ingestion passes by convention (single cooperative writer).
type Registry struct {
	schemas map[string]*model.Entity
	objects map[string]*model.Entity

	files        map[string]*model.File
	fileOrder    []string // tracked files in first-registration order
	invalidFiles map[string]*model.File

	// fileSchemas/fileObjects hold exactly the entity ids currently
	// attributed to each path.
	fileSchemas map[string][]string
	fileObjects map[string][]string

	absent map[string]*model.AbsentEntity

	defaultFile string
}

// New creates an empty registry.
func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset clears all indices. Used for a full reload.
func (r *Registry) Reset() {
	r.schemas = make(map[string]*model.Entity)
	r.objects = make(map[string]*model.Entity)
	r.files = make(map[string]*model.File)
	r.fileOrder = nil
	r.invalidFiles = make(map[string]*model.File)
	r.fileSchemas = make(map[string][]string)
	r.fileObjects = make(map[string][]string)
	r.absent = make(map[string]*model.AbsentEntity)
	r.defaultFile = ""
}

// Register inserts an entity by id and records ownership against the
// entity's file. The id space is shared across kinds, so a registration
// evicts any entity of the other kind under the same id. An existing
// registration under the same id is overwritten silently: last writer wins,
// which is what makes re-ingestion of a path safe.
func (r *Registry) Register(e *model.Entity) {
	switch e.Kind {
	case model.KindSchema:
		delete(r.objects, e.ID)
		r.schemas[e.ID] = e
		r.fileSchemas[e.File] = append(r.fileSchemas[e.File], e.ID)
	case model.KindObject:
		delete(r.schemas, e.ID)
		r.objects[e.ID] = e
		r.fileObjects[e.File] = append(r.fileObjects[e.File], e.ID)
	}
}

// RegisterFile records a tracked file. Idempotent per path; the first
// registration fixes the file's position in tracked-file order.
func (r *Registry) RegisterFile(f *model.File) {
	if _, ok := r.files[f.Path]; !ok {
		r.fileOrder = append(r.fileOrder, f.Path)
	}
	r.files[f.Path] = f
}

// RegisterInvalidFile records a file whose content failed structural parsing.
func (r *Registry) RegisterInvalidFile(f *model.File) {
	r.invalidFiles[f.Path] = f
}

// Invalidate removes the file record for path, its invalid record if
// present, and every entity path still owns - and only those. An id from
// path's ownership list that was since re-registered by another file belongs
// to that file now and survives. The ownership lists are reset to empty so a
// subsequent failed re-ingestion leaves zero owned entities rather than
// stale ones.
func (r *Registry) Invalidate(path string) {
	if _, ok := r.files[path]; ok {
		delete(r.files, path)
		for i, p := range r.fileOrder {
			if p == path {
				r.fileOrder = append(r.fileOrder[:i], r.fileOrder[i+1:]...)
				break
			}
		}
	}
	delete(r.invalidFiles, path)

	for _, id := range r.fileSchemas[path] {
		if e, ok := r.schemas[id]; ok && e.File == path {
			delete(r.schemas, id)
		}
	}
	for _, id := range r.fileObjects[path] {
		if e, ok := r.objects[id]; ok && e.File == path {
			delete(r.objects, id)
		}
	}
	delete(r.fileSchemas, path)
	delete(r.fileObjects, path)
}

// Schema returns the schema entity registered under id.
func (r *Registry) Schema(id string) (*model.Entity, bool) {
	e, ok := r.schemas[id]
	return e, ok
}

// Object returns the object entity registered under id.
func (r *Registry) Object(id string) (*model.Entity, bool) {
	e, ok := r.objects[id]
	return e, ok
}

// Entity returns the entity registered under id in either index, schemas
// first.
func (r *Registry) Entity(id string) (*model.Entity, bool) {
	if e, ok := r.schemas[id]; ok {
		return e, true
	}
	e, ok := r.objects[id]
	return e, ok
}

// File returns the tracked file at path.
func (r *Registry) File(path string) (*model.File, bool) {
	f, ok := r.files[path]
	return f, ok
}

// InvalidFile returns the invalid-file record at path.
func (r *Registry) InvalidFile(path string) (*model.File, bool) {
	f, ok := r.invalidFiles[path]
	return f, ok
}

// Schemas returns all schema entities sorted by id.
func (r *Registry) Schemas() []*model.Entity {
	return sortedEntities(r.schemas)
}

// Objects returns all object entities sorted by id.
func (r *Registry) Objects() []*model.Entity {
	return sortedEntities(r.objects)
}

// Files returns all tracked files in first-registration order.
func (r *Registry) Files() []*model.File {
	out := make([]*model.File, 0, len(r.fileOrder))
	for _, p := range r.fileOrder {
		out = append(out, r.files[p])
	}
	return out
}

// InvalidFiles returns all invalid files sorted by path.
func (r *Registry) InvalidFiles() []*model.File {
	paths := make([]string, 0, len(r.invalidFiles))
	for p := range r.invalidFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	out := make([]*model.File, 0, len(paths))
	for _, p := range paths {
		out = append(out, r.invalidFiles[p])
	}
	return out
}

// FileSchemaIDs returns the schema ids currently attributed to path.
func (r *Registry) FileSchemaIDs(path string) []string {
	return append([]string(nil), r.fileSchemas[path]...)
}

// FileObjectIDs returns the object ids currently attributed to path.
func (r *Registry) FileObjectIDs(path string) []string {
	return append([]string(nil), r.fileObjects[path]...)
}

// Absent materializes (or reuses) the placeholder for a referenced-but-missing
// identifier. Repeated misses for the same id return the same placeholder.
func (r *Registry) Absent(id string) *model.AbsentEntity {
	if a, ok := r.absent[id]; ok {
		return a
	}
	a := &model.AbsentEntity{ID: id}
	r.absent[id] = a
	return a
}

// AbsentEntity returns the placeholder for id, if one was materialized.
func (r *Registry) AbsentEntity(id string) (*model.AbsentEntity, bool) {
	a, ok := r.absent[id]
	return a, ok
}

// AbsentEntities returns all placeholders sorted by id.
func (r *Registry) AbsentEntities() []*model.AbsentEntity {
	ids := make([]string, 0, len(r.absent))
	for id := range r.absent {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*model.AbsentEntity, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.absent[id])
	}
	return out
}

// ClearAbsent drops all placeholders. The validation pass recomputes them
// from scratch.
func (r *Registry) ClearAbsent() {
	r.absent = make(map[string]*model.AbsentEntity)
}

// SetDefaultFile sets the currently preferred file pointer. An empty path
// clears the pointer explicitly.
func (r *Registry) SetDefaultFile(path string) {
	r.defaultFile = path
}

// DefaultFile returns the preferred file, falling back to the first tracked
// file when the pointer is cleared or its file is no longer tracked.
func (r *Registry) DefaultFile() (*model.File, bool) {
	if r.defaultFile != "" {
		if f, ok := r.files[r.defaultFile]; ok {
			return f, true
		}
	}
	if len(r.fileOrder) > 0 {
		return r.files[r.fileOrder[0]], true
	}
	return nil, false
}

func sortedEntities(m map[string]*model.Entity) []*model.Entity {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*model.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
