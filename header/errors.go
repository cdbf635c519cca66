package header

import "errors"

// Sentinel errors for package header.
var (
	ErrMalformedContentType = errors.New("malformed content type")
	ErrDuplicateParameter   = errors.New("duplicate parameter")
	ErrMalformedParameter   = errors.New("malformed parameter")
	ErrMalformedLink        = errors.New("malformed link")
	ErrInvalidLinkParameter = errors.New("invalid link parameter")
	ErrMalformedProduct     = errors.New("malformed product")
)
