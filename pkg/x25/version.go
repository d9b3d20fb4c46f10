package x25

// Version information for the x25 module.
const (
	// Version is the current version of the x25 module.
	Version = "1.0.0"

	// MinCompatibleVersion is the minimum version that is compatible with this version.
	MinCompatibleVersion = "1.0.0"
)
