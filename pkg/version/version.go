package version

// Version information set by build flags
// Set using -ldflags "-X go.minekube.com/tabgate/pkg/version.version=v1.2.3"
var version string = "unknown"

// String returns the version of tabgate.
func String() string {
	return version
}
