// Package main provides the dhid command-line interface.
//
// dhid addresses files that live inside archives nested to any depth, such
// as a CSV inside a tar.gz inside a zip, with hierarchical identifiers:
//
//	tgz:zip:file:///data/bundle.zip#/logs.tgz#/app.log
//
// Directories and archives are read as one tree. The binary supports
// multiple subcommands:
//   - hid: parse, navigate and compare identifiers
//   - ls, cat, count: list, read and count files through archives
//   - digest, index, validate: digest trees and check them later
//   - mount: serve a tree read-only over FUSE
//   - seed, header, bytes, config, version: utilities
package main
