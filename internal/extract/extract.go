// Package extract converts parsed documents into classified GTS entities.
// Failure to classify is represented by returning nil, never by an error.
package extract

import (
	"fmt"
	"sort"

	"github.com/gts-tools/gtscheck/internal/model"
	"github.com/gts-tools/gtscheck/internal/resolver"
)

// Field names that carry identity and schema declarations.
const (
	// SchemaIDField holds a schema entity's identifier.
	SchemaIDField = "$id"
	// ObjectIDField holds an object entity's identifier.
	ObjectIDField = "gtsIid"
	// SchemaRefField holds the identifier of the schema an object claims
	// to conform to.
	SchemaRefField = "$schema"
)

// Extract classifies one document (or one element of an array document) as a
// GTS entity. A document is a schema when its top-level $id is a fully
// qualified GTS identifier, and an object when its top-level gtsIid is one.
// Returns nil for anything else. listSequence is the element's position in
// an array document, or -1 for a bare document.
func Extract(file *model.File, listSequence int, doc any) *model.Entity {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	if id, ok := gtsID(m[SchemaIDField]); ok {
		return &model.Entity{
			ID:           id,
			Kind:         model.KindSchema,
			Content:      doc,
			Refs:         collectRefs(doc, map[string]bool{SchemaIDField: true}),
			File:         file.Path,
			ListSequence: listSequence,
		}
	}

	if id, ok := gtsID(m[ObjectIDField]); ok {
		e := &model.Entity{
			ID:           id,
			Kind:         model.KindObject,
			Content:      doc,
			File:         file.Path,
			ListSequence: listSequence,
		}
		// The schema declaration is checked by the validation pass, not
		// the reference-integrity pass, so it is not collected as a ref.
		skip := map[string]bool{ObjectIDField: true}
		if schemaID, ok := gtsID(m[SchemaRefField]); ok {
			e.SchemaID = schemaID
			e.SchemaIDField = SchemaRefField
			skip[SchemaRefField] = true
		}
		e.Refs = collectRefs(doc, skip)
		return e
	}

	return nil
}

// gtsID accepts only fully qualified identifiers: the vendor prefix is the
// signal that a document belongs to the GTS ecosystem.
func gtsID(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || !resolver.IsGtsID(s) {
		return "", false
	}
	return resolver.Normalize(s), true
}

// collectRefs walks the content and records every string value carrying the
// vendor prefix as an outgoing reference, together with the dot/bracket path
// where it was found. Map keys are walked in sorted order so ref order is
// deterministic. skipRootKeys excludes the entity's own identity fields.
func collectRefs(doc any, skipRootKeys map[string]bool) []model.Ref {
	var refs []model.Ref
	walkRefs(doc, "", skipRootKeys, &refs)
	return refs
}

func walkRefs(v any, path string, skipRootKeys map[string]bool, refs *[]model.Ref) {
	switch val := v.(type) {
	case string:
		if resolver.IsGtsID(val) {
			p := path
			if p == "" {
				p = "root"
			}
			*refs = append(*refs, model.Ref{ID: resolver.Normalize(val), SourcePath: p})
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			if path == "" && skipRootKeys[k] {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			walkRefs(val[k], child, nil, refs)
		}
	case []any:
		for i, item := range val {
			walkRefs(item, fmt.Sprintf("%s[%d]", path, i), nil, refs)
		}
	}
}
