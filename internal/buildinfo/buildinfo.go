// Package buildinfo carries the version stamped in at link time:
//
//	go build -ldflags "-X rugos/internal/buildinfo.Version=v0.3.0 -X rugos/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for the LCD and the window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String returns every stamped field.
func String() string {
	return Short() + " (commit " + Commit + ", built " + Date + ")"
}
