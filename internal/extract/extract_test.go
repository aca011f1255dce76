package extract

import (
	"reflect"
	"testing"

	"github.com/gts-tools/gtscheck/internal/model"
)

func testFile() *model.File {
	return &model.File{Path: "doc.json", Name: "doc.json"}
}

func TestExtractSchema(t *testing.T) {
	doc := map[string]any{
		"$id":     "gts://vendor.pkg.contact.v1",
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
	}

	e := Extract(testFile(), -1, doc)
	if e == nil {
		t.Fatalf("expected a schema entity")
	}
	if e.Kind != model.KindSchema {
		t.Errorf("expected KindSchema, got %v", e.Kind)
	}
	if e.ID != "vendor.pkg.contact.v1" {
		t.Errorf("expected normalized id, got %q", e.ID)
	}
	if e.File != "doc.json" || e.ListSequence != -1 {
		t.Errorf("expected owning file and bare list sequence, got %q %d", e.File, e.ListSequence)
	}
}

func TestExtractObject(t *testing.T) {
	doc := map[string]any{
		"gtsIid":  "gts://vendor.pkg.alice.v1",
		"$schema": "gts://vendor.pkg.contact.v1",
		"name":    "Alice",
	}

	e := Extract(testFile(), 2, doc)
	if e == nil {
		t.Fatalf("expected an object entity")
	}
	if e.Kind != model.KindObject {
		t.Errorf("expected KindObject, got %v", e.Kind)
	}
	if e.SchemaID != "vendor.pkg.contact.v1" {
		t.Errorf("expected declared schema id, got %q", e.SchemaID)
	}
	if e.SchemaIDField != "$schema" {
		t.Errorf("expected schema id field to be recorded, got %q", e.SchemaIDField)
	}
	if e.ListSequence != 2 {
		t.Errorf("expected list sequence 2, got %d", e.ListSequence)
	}
}

func TestExtractObjectWithoutSchema(t *testing.T) {
	doc := map[string]any{
		"gtsIid": "gts://vendor.pkg.alice.v1",
		"name":   "Alice",
	}

	e := Extract(testFile(), -1, doc)
	if e == nil {
		t.Fatalf("expected an object entity")
	}
	if e.SchemaID != "" {
		t.Errorf("expected no schema id, got %q", e.SchemaID)
	}
}

func TestExtractMetaSchemaIsNotObject(t *testing.T) {
	// A $schema pointing at the public meta-URI does not make a document
	// an object entity.
	doc := map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
	}
	if e := Extract(testFile(), -1, doc); e != nil {
		t.Errorf("expected nil, got %+v", e)
	}
}

func TestExtractRejectsNonEntities(t *testing.T) {
	tests := []struct {
		name string
		doc  any
	}{
		{"plain map", map[string]any{"name": "Alice"}},
		{"bare id without prefix", map[string]any{"$id": "vendor.pkg.contact.v1"}},
		{"scalar", "gts://vendor.pkg.contact.v1"},
		{"array", []any{map[string]any{"$id": "gts://vendor.x.v1"}}},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if e := Extract(testFile(), -1, tt.doc); e != nil {
				t.Errorf("expected nil, got %+v", e)
			}
		})
	}
}

func TestCollectRefs(t *testing.T) {
	doc := map[string]any{
		"gtsIid":  "gts://vendor.pkg.alice.v1",
		"$schema": "gts://vendor.pkg.contact.v1",
		"contact": map[string]any{
			"gtsIid": "gts://vendor.pkg.bob.v1",
		},
		"allOf": []any{
			map[string]any{
				"examples": []any{"gts://vendor.pkg.sample.v1"},
			},
		},
	}

	e := Extract(testFile(), -1, doc)
	if e == nil {
		t.Fatalf("expected an entity")
	}

	want := []model.Ref{
		{ID: "vendor.pkg.sample.v1", SourcePath: "allOf[0].examples[0]"},
		{ID: "vendor.pkg.bob.v1", SourcePath: "contact.gtsIid"},
	}
	if !reflect.DeepEqual(e.Refs, want) {
		t.Errorf("refs mismatch:\n got %+v\nwant %+v", e.Refs, want)
	}
}

func TestIdentityFieldsAreNotRefs(t *testing.T) {
	doc := map[string]any{
		"$id":  "gts://vendor.pkg.s.v1",
		"self": "gts://vendor.pkg.s.v1",
	}
	e := Extract(testFile(), -1, doc)
	if e == nil {
		t.Fatalf("expected a schema entity")
	}
	if len(e.Refs) != 1 || e.Refs[0].SourcePath != "self" {
		t.Errorf("expected only the non-identity occurrence as a ref, got %+v", e.Refs)
	}
}
