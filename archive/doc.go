// Package archive reads files addressed by HIDs, descending through
// container formats nested to any depth.
//
// Level 0 of an HID is a filesystem path; every further level names a
// path inside the container found at the level before it, with the
// level's scheme choosing the format:
//
//	zip:file:///data/bundle.zip#/2024/readings.tgz
//	tgz:zip:file:///data/bundle.zip#/2024/readings.tgz#/station-7.csv
//
// Reader resolves such identifiers, caching opened containers. On-disk
// zips are read in place; containers stored inside other containers are
// buffered in memory up to Options.MaxNestedSize.
//
// Index records the size, modification time and digest of every file
// below a root and can be saved as JSON or CBOR. BuildIndex fills one
// with a worker pool and Verify re-checks it against the current data.
package archive
