package model

// ValidationError is one normalized validation failure, produced either by
// the reference-integrity pass or by schema execution.
type ValidationError struct {
	// InstancePath is a slash-delimited pointer into the instance
	// ("/contact/gtsIid"). Defaults to "/".
	InstancePath string `json:"instancePath"`

	// SchemaPath points into the schema that raised the error. Defaults to "#".
	SchemaPath string `json:"schemaPath"`

	// Keyword is the failing JSON Schema keyword ("required", "type", ...).
	// Empty for reference-integrity errors.
	Keyword string `json:"keyword"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Params carries keyword-specific details (missing property, limit, ...).
	Params map[string]any `json:"params,omitempty"`

	// Data is the offending instance data, when recoverable.
	Data any `json:"data,omitempty"`
}

// NewValidationError builds a ValidationError with the documented defaults.
func NewValidationError(instancePath, keyword, message string) ValidationError {
	if instancePath == "" {
		instancePath = "/"
	}
	return ValidationError{
		InstancePath: instancePath,
		SchemaPath:   "#",
		Keyword:      keyword,
		Message:      message,
	}
}

// ValidationResult is the mutable result container attached to an entity or
// file. A nil *ValidationResult means "never validated"; a non-nil result
// with an empty Errors slice means "validated, zero errors".
type ValidationResult struct {
	Errors []ValidationError `json:"errors"`
}

// Append adds errors to the result, preserving order.
func (r *ValidationResult) Append(errs ...ValidationError) {
	r.Errors = append(r.Errors, errs...)
}

// OK reports whether the result holds zero errors.
func (r *ValidationResult) OK() bool { return len(r.Errors) == 0 }
