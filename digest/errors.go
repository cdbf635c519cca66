package digest

import "errors"

// Sentinel errors for package digest.
var (
	ErrMalformedDigest  = errors.New("malformed digest")
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")
	ErrInvalidEncoding  = errors.New("invalid digest encoding")
	ErrMismatch         = errors.New("digest mismatch")
)
