// Package resolver handles identifier-based reference resolution against the
// registry. Resolution is a pure function of the normalized identifier and
// current index state: file paths never influence whether a reference
// resolves, which is what makes invalidate-then-reingest safe.
package resolver

import (
	"strings"

	"github.com/gts-tools/gtscheck/internal/model"
	"github.com/gts-tools/gtscheck/internal/registry"
)

// VendorPrefix is the well-known URI prefix identifiers may carry.
// References can be expressed either bare ("vendor.pkg.contact.v1") or fully
// qualified ("gts://vendor.pkg.contact.v1"); both resolve identically.
const VendorPrefix = "gts://"

// Normalize strips the vendor prefix from an identifier, if present.
func Normalize(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), VendorPrefix)
}

// IsGtsID reports whether s is a GTS identifier (fully qualified form).
func IsGtsID(s string) bool {
	return strings.HasPrefix(s, VendorPrefix) && len(s) > len(VendorPrefix)
}

// Resolver resolves identifiers against the registry. It only reads.
type Resolver struct {
	reg *registry.Registry
}

// New creates a resolver over the given registry.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Schema resolves an identifier to its owning schema entity. Only the schema
// index is consulted: object identifiers are never valid $ref targets.
func (r *Resolver) Schema(id string) (*model.Entity, bool) {
	return r.reg.Schema(Normalize(id))
}

// Any resolves an identifier against both indices, schemas first. Used by
// the reference-integrity pass, where an object may legitimately reference
// another object.
func (r *Resolver) Any(id string) (*model.Entity, bool) {
	return r.reg.Entity(Normalize(id))
}
