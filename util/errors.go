package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Enum errors
	ErrUnknownEnumName = errors.New("unknown enum name")
	ErrEnumOutOfRange  = errors.New("enum value out of range for a set")

	// Byte unit errors
	ErrUnknownUnit = errors.New("unknown byte unit")
)
