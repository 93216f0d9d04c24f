package gnseed

var (
	// Version of gnseed, set by ldflags during build.
	Version = "v0.1.0"
	// Build timestamp, set by ldflags during build.
	Build = "n/a"
)
