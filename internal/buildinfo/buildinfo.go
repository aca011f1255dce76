// Package buildinfo carries build metadata injected via ldflags for release
// binaries. Values default to "dev" for local builds.
package buildinfo

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String renders a one-line version description.
func String() string {
	s := "gtscheck " + Version
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	if Date != "" {
		s += " built " + Date
	}
	return s
}
