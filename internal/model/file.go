package model

// File is one ingested document source. A file is tracked by the registry
// iff it produced at least one recognized entity; a file whose content fails
// structural parsing is filed separately as invalid.
type File struct {
	// Path is the unique key for the file.
	Path string `json:"path"`

	// Name is the file's display name (base name).
	Name string `json:"name"`

	// Content is the raw document bytes as ingested.
	Content []byte `json:"-"`

	// Validation records parse-level failure for invalid files. Nil for
	// tracked files.
	Validation *ValidationResult `json:"validation,omitempty"`
}
