package model

// AbsentEntity is a placeholder materialized for a referenced-but-missing
// identifier, so callers can display a name for a dangling reference without
// special-casing nil.
type AbsentEntity struct {
	// ID is the normalized identifier that failed to resolve.
	ID string `json:"id"`
}

// Name returns a display name for the missing entity.
func (a *AbsentEntity) Name() string { return a.ID }
