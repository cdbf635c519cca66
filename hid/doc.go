// Package hid implements hierarchical identifiers: paths that may be nested
// inside zero or more containers, such as a file inside a tar inside a zip.
//
// An HID stores one level per container boundary. Level 0 is the outermost
// location (a filesystem path, or any hierarchical URI), and each deeper
// level is a path inside the entry addressed by the level before it:
//
//	file:///data/outer.zip                       one level
//	zip:file:///data/outer.zip#/inner.tgz        two levels
//	tgz:zip:file:///data/outer.zip#/inner.tgz#/a two levels deep inside
//
// Path segments are NFC-normalized with "." and ".." resolved. HIDs are
// immutable values; navigation returns new HIDs. Use a Builder to assemble
// one level at a time.
package hid
