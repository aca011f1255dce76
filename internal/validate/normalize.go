package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/gts-tools/gtscheck/internal/model"
	"github.com/gts-tools/gtscheck/internal/schemaval"
)

// keywordForType maps the engine's failure types onto JSON Schema keywords.
var keywordForType = map[string]string{
	"invalid_type":                    "type",
	"required":                        "required",
	"additional_property_not_allowed": "additionalProperties",
	"pattern":                         "pattern",
	"enum":                            "enum",
	"number_gte":                      "minimum",
	"number_gt":                       "exclusiveMinimum",
	"number_lte":                      "maximum",
	"number_lt":                       "exclusiveMaximum",
	"string_gte":                      "minLength",
	"string_lte":                      "maxLength",
	"array_min_items":                 "minItems",
	"array_max_items":                 "maxItems",
	"number_any_of":                   "anyOf",
	"number_one_of":                   "oneOf",
	"number_all_of":                   "allOf",
	"number_not":                      "not",
	"format":                          "format",
}

// normalizeErrors maps raw engine errors onto the normalized error model.
// It is pure and total: every input error produces exactly one output error,
// never silently dropped. instance is the validated document, used to
// recover offending data when the engine did not report a value.
func normalizeErrors(raw []schemaval.Error, instance any) []model.ValidationError {
	var instanceJSON []byte
	if instance != nil {
		instanceJSON, _ = json.Marshal(instance)
	}

	out := make([]model.ValidationError, 0, len(raw))
	for _, e := range raw {
		keyword, known := keywordForType[e.Keyword]
		if !known {
			keyword = e.Keyword
		}

		ve := model.ValidationError{
			InstancePath: fieldToPointer(e.Path),
			SchemaPath:   "#",
			Keyword:      keyword,
			Message:      messageFor(keyword, e),
			Params:       paramsFor(e.Details),
		}

		if e.Value != nil {
			ve.Data = e.Value
		} else if p := fieldToGJSONPath(e.Path); p != "" && instanceJSON != nil {
			if res := gjson.GetBytes(instanceJSON, p); res.Exists() {
				ve.Data = res.Value()
			}
		}

		out = append(out, ve)
	}
	return out
}

// messageFor renders a keyword-specific message template, falling back to
// the engine's own description for unrecognized keywords.
func messageFor(keyword string, e schemaval.Error) string {
	d := e.Details
	switch keyword {
	case "type":
		return fmt.Sprintf("Expected type '%v', got '%v'", d["expected"], d["given"])
	case "required":
		return fmt.Sprintf("Missing required property '%v'", d["property"])
	case "additionalProperties":
		return fmt.Sprintf("Additional property '%v' is not allowed", d["property"])
	case "pattern":
		return fmt.Sprintf("String does not match pattern '%v'", d["pattern"])
	case "enum":
		return fmt.Sprintf("Value must be one of %v", d["allowed"])
	case "minimum":
		return fmt.Sprintf("Value must be greater than or equal to %v", d["min"])
	case "exclusiveMinimum":
		return fmt.Sprintf("Value must be greater than %v", d["min"])
	case "maximum":
		return fmt.Sprintf("Value must be less than or equal to %v", d["max"])
	case "exclusiveMaximum":
		return fmt.Sprintf("Value must be less than %v", d["max"])
	case "minLength":
		return fmt.Sprintf("String must be at least %v characters long", d["min"])
	case "maxLength":
		return fmt.Sprintf("String must be at most %v characters long", d["max"])
	case "minItems":
		return fmt.Sprintf("Array must have at least %v items", d["min"])
	case "maxItems":
		return fmt.Sprintf("Array must have at most %v items", d["max"])
	case "anyOf":
		return "Value does not match any schema in 'anyOf'"
	case "oneOf":
		return "Value does not match exactly one schema in 'oneOf'"
	case "allOf":
		return "Value does not match all schemas in 'allOf'"
	case "format":
		return fmt.Sprintf("String does not match format '%v'", d["format"])
	default:
		return e.Description
	}
}

// paramsFor copies keyword-specific details, dropping the engine's location
// bookkeeping keys.
func paramsFor(details map[string]any) map[string]any {
	if len(details) == 0 {
		return nil
	}
	params := make(map[string]any, len(details))
	for k, v := range details {
		if k == "context" || k == "field" {
			continue
		}
		params[k] = v
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

// quotedPathPattern pulls a best-effort instance location out of compile
// error text, e.g. the property name in "... property 'contact' ...".
var quotedPathPattern = regexp.MustCompile(`(?:property|field) '([^']+)'`)

// normalizeCompileError translates a schema compile failure into one or more
// normalized errors. When the adapter exposes a structured error list, each
// entry is normalized individually; otherwise a single error is synthesized
// with a best-effort instance path extracted from the error text.
func normalizeCompileError(err error) []model.ValidationError {
	var compileErr *schemaval.CompileError
	if errors.As(err, &compileErr) && len(compileErr.Errors) > 0 {
		return normalizeErrors(compileErr.Errors, nil)
	}

	instancePath := "/"
	msg := err.Error()
	if m := quotedPathPattern.FindStringSubmatch(msg); m != nil {
		instancePath = "/" + strings.Join(strings.Split(m[1], "."), "/")
	}
	return []model.ValidationError{model.NewValidationError(instancePath, "", msg)}
}
