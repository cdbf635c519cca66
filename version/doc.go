// Package version reports the build identity of dhid.
//
// Release builds inject Version, Commit and Date through the linker:
//
//	go build -ldflags "-X github.com/dendrascience/dendra-hid/version.Version=v0.3.0 \
//	    -X github.com/dendrascience/dendra-hid/version.Commit=$(git rev-parse HEAD)"
//
// Anything left unset falls back to the module and VCS stamps Go embeds
// in the binary, so `go install` builds still report something useful.
package version
