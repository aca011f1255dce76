// Package model defines the data shapes the registry and the validation
// pipeline operate on: entities, files, references, and validation results.
package model

// Kind classifies a GTS entity as a schema or a schema-conforming object.
type Kind int

const (
	// KindSchema is a JSON Schema document; it participates in $ref resolution.
	KindSchema Kind = iota
	// KindObject is a document that may claim conformance to a schema.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Ref is an outgoing reference from one entity's content to another entity's id.
type Ref struct {
	// ID is the referenced identifier, normalized (vendor prefix stripped).
	ID string `json:"id"`

	// SourcePath is a dot/bracket path into the content identifying where
	// the reference was found, e.g. "contact.gtsIid" or "allOf[0].examples".
	// The literal path "root" means the document root.
	SourcePath string `json:"sourcePath"`
}

// Entity represents a recognized GTS document indexed by the registry.
type Entity struct {
	// ID uniquely identifies this entity across the combined
	// schema+object identifier space. Normalized: no vendor prefix.
	ID string `json:"id"`

	// Kind partitions the id space: schema or object.
	Kind Kind `json:"kind"`

	// SchemaID is the identifier of the schema this object claims to
	// conform to. Empty means no schema declared. Always empty for schemas.
	SchemaID string `json:"schemaId,omitempty"`

	// SchemaIDField is the content field that supplied SchemaID, used to
	// point "Schema not found" errors at the right location.
	SchemaIDField string `json:"schemaIdField,omitempty"`

	// Content is the parsed document (or array element) this entity wraps.
	Content any `json:"content"`

	// Refs are the outgoing references found in Content, in content order.
	Refs []Ref `json:"gtsRefs,omitempty"`

	// File is the path of the owning file. Entities never move between files.
	File string `json:"file"`

	// ListSequence is the element index when the owning document is an
	// array processed element-by-element; -1 for a bare document.
	ListSequence int `json:"listSequence"`

	// Validation is nil until the entity has been validated. A non-nil
	// result with zero errors means "known valid" - a distinct state from
	// never-validated.
	Validation *ValidationResult `json:"validation,omitempty"`
}

// IsSchema reports whether the entity is a JSON Schema.
func (e *Entity) IsSchema() bool { return e.Kind == KindSchema }

// Validated reports whether the entity has a validation result attached.
func (e *Entity) Validated() bool { return e.Validation != nil }

// Valid reports whether the entity was validated and produced zero errors.
func (e *Entity) Valid() bool {
	return e.Validation != nil && len(e.Validation.Errors) == 0
}
