// Package version holds the build version, set with -ldflags "-X".
package version

// Version is the screentime release version.
var Version = "0.3.0"
