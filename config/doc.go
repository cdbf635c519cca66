// Package config loads dhid settings from a single YAML file.
//
// The file is named by the --config flag or the DHID_CONFIG environment
// variable. There is no search path: without either, Default is used.
// Values in the file overlay the defaults, so a file only needs the keys it
// changes:
//
//	log_level: debug
//	color: never
//	units: decimal
//	formats: [zip, tgz]
//	max_nested_size: 256 MiB
//	digest: blake3
//	workers: 4
package config
