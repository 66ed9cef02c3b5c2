// Values in this file are injected at build time, e.g.
//
//	go build -ldflags "-X github.com/staffhours/backend/internal/pkg/bininfo.Version=v1.2.0"
package bininfo

var (
	// Version is the SemVer version of the binary.
	Version = "v0.0.0-dev"

	// BuildTime is the time at which the binary was built.
	BuildTime = "1970-01-01T00:00:00Z"
)

// Describe is the version line printed by --version.
func Describe() string {
	return Version + " (built " + BuildTime + ")"
}
