package validate

import "strings"

// segments splits a dot/bracket source path into its parts:
// "allOf[0].examples" -> ["allOf", "0", "examples"].
func segments(sourcePath string) []string {
	replaced := strings.NewReplacer("[", ".", "]", "").Replace(sourcePath)
	parts := strings.Split(replaced, ".")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// pathToPointer converts a dot/bracket source path into a slash-delimited
// pointer: "contact.gtsIid" -> "/contact/gtsIid". The literal path "root"
// maps to "/".
func pathToPointer(sourcePath string) string {
	if sourcePath == "" || sourcePath == "root" {
		return "/"
	}
	return "/" + strings.Join(segments(sourcePath), "/")
}

// inExamplesRegion reports whether a source path falls under a
// documentation/examples region ("examples", "allOf[0].examples", ...).
// An "examples" segment directly under "properties" denotes a real schema
// property named "examples", not illustrative content, and is not exempt.
func inExamplesRegion(sourcePath string) bool {
	segs := segments(sourcePath)
	for i, s := range segs {
		if s != "examples" {
			continue
		}
		if i > 0 && segs[i-1] == "properties" {
			continue
		}
		return true
	}
	return false
}

// fieldToPointer converts the engine's dot-separated instance location into
// a slash-delimited pointer. The engine reports the document root as "(root)".
func fieldToPointer(field string) string {
	if field == "" || field == "(root)" {
		return "/"
	}
	return "/" + strings.Join(strings.Split(field, "."), "/")
}

// fieldToGJSONPath converts the engine's instance location into a gjson
// lookup path, or "" for the document root.
func fieldToGJSONPath(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	return field
}
