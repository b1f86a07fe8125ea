package version

const Version = "0.3.1"

var buildTag string

// GetVersion returns Version, suffixed with the build tag when one was
// stamped in with -ldflags.
func GetVersion() string {
	if buildTag == "" {
		return Version
	}
	return Version + "-" + buildTag
}
