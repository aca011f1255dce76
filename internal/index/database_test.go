package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gts-tools/gtscheck/internal/config"
	"github.com/gts-tools/gtscheck/internal/model"
	"github.com/gts-tools/gtscheck/internal/registry"
)

func seededRegistry() *registry.Registry {
	reg := registry.New()
	reg.RegisterFile(&model.File{Path: "s.json", Name: "s.json"})
	reg.Register(&model.Entity{
		ID:           "vendor.pkg.contact.v1",
		Kind:         model.KindSchema,
		Content:      map[string]any{"$id": "gts://vendor.pkg.contact.v1"},
		File:         "s.json",
		ListSequence: -1,
		Validation:   &model.ValidationResult{Errors: []model.ValidationError{}},
	})

	reg.RegisterFile(&model.File{Path: "o.json", Name: "o.json"})
	reg.Register(&model.Entity{
		ID:           "vendor.pkg.alice.v1",
		Kind:         model.KindObject,
		SchemaID:     "vendor.pkg.contact.v1",
		Content:      map[string]any{"gtsIid": "gts://vendor.pkg.alice.v1"},
		File:         "o.json",
		ListSequence: -1,
		Validation: &model.ValidationResult{Errors: []model.ValidationError{
			{
				InstancePath: "/",
				SchemaPath:   "#",
				Keyword:      "required",
				Message:      "Missing required property 'name'",
				Params:       map[string]any{"property": "name"},
			},
		}},
	})

	reg.RegisterInvalidFile(&model.File{
		Path: "broken.json",
		Name: "broken.json",
		Validation: &model.ValidationResult{Errors: []model.ValidationError{
			model.NewValidationError("/", "", "Parse error: unexpected end of JSON input"),
		}},
	})

	reg.Absent("vendor.pkg.ghost.v1")
	return reg
}

func openTestDB(t *testing.T) (*Database, string) {
	t.Helper()
	root := t.TempDir()
	db, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, root
}

func TestOpenCreatesMetadataDir(t *testing.T) {
	_, root := openTestDB(t)
	if _, err := os.Stat(filepath.Join(root, config.MetaDirName, "index.db")); err != nil {
		t.Errorf("expected the snapshot file under the metadata directory: %v", err)
	}
}

func TestSaveAndSummary(t *testing.T) {
	db, _ := openTestDB(t)
	if err := db.Save(seededRegistry()); err != nil {
		t.Fatalf("save: %v", err)
	}

	s, err := db.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Schemas != 1 || s.Objects != 1 {
		t.Errorf("entity counts = %d schemas, %d objects", s.Schemas, s.Objects)
	}
	if s.Files != 2 || s.InvalidFiles != 1 {
		t.Errorf("file counts = %d valid, %d invalid", s.Files, s.InvalidFiles)
	}
	if s.Absent != 1 {
		t.Errorf("absent count = %d", s.Absent)
	}
	if s.Errors != 1 {
		t.Errorf("error count = %d", s.Errors)
	}
}

func TestEntities(t *testing.T) {
	db, _ := openTestDB(t)
	if err := db.Save(seededRegistry()); err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, err := db.Entities()
	if err != nil {
		t.Fatalf("entities: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	// Sorted by id: alice before contact.
	if rows[0].ID != "vendor.pkg.alice.v1" || rows[0].Kind != "object" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].SchemaID != "vendor.pkg.contact.v1" || rows[0].Errors != 1 {
		t.Errorf("row 0 schema/errors = %+v", rows[0])
	}
	if rows[1].ID != "vendor.pkg.contact.v1" || rows[1].Kind != "schema" || rows[1].Errors != 0 {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestEntityErrorsRoundTrip(t *testing.T) {
	db, _ := openTestDB(t)
	if err := db.Save(seededRegistry()); err != nil {
		t.Fatalf("save: %v", err)
	}

	errs, err := db.EntityErrors("vendor.pkg.alice.v1")
	if err != nil {
		t.Fatalf("entity errors: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %+v", errs)
	}
	e := errs[0]
	if e.InstancePath != "/" || e.SchemaPath != "#" || e.Keyword != "required" {
		t.Errorf("round trip mismatch: %+v", e)
	}
	if e.Message != "Missing required property 'name'" {
		t.Errorf("message = %q", e.Message)
	}
	if e.Params["property"] != "name" {
		t.Errorf("params = %+v", e.Params)
	}
}

func TestSaveReplacesPriorSnapshot(t *testing.T) {
	db, _ := openTestDB(t)
	if err := db.Save(seededRegistry()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := db.Save(registry.New()); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	s, err := db.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Schemas != 0 || s.Objects != 0 || s.Files != 0 || s.Absent != 0 || s.Errors != 0 {
		t.Errorf("expected an empty snapshot after rewrite, got %+v", s)
	}
}
