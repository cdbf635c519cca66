package rules

import "errors"

// Sentinel errors for package rules.
var (
	ErrMalformedQuotedString = errors.New("malformed quoted-string")
	ErrMalformedComment      = errors.New("malformed comment")
	ErrMalformedExtValue     = errors.New("malformed ext-value")
	ErrUnsupportedCharset    = errors.New("unsupported ext-value charset")
)
