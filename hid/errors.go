package hid

import "errors"

// Sentinel errors for package hid.
var (
	ErrZero               = errors.New("hid: zero HID")
	ErrEmptyBuilder       = errors.New("hid: builder has no levels")
	ErrNoParent           = errors.New("hid: no parent")
	ErrNoContainer        = errors.New("hid: no container")
	ErrNotAncestor        = errors.New("hid: base is not an ancestor")
	ErrInvalidScheme      = errors.New("hid: invalid scheme")
	ErrInvalidAuthority   = errors.New("hid: invalid authority")
	ErrInvalidSegment     = errors.New("hid: invalid path segment")
	ErrMissingScheme      = errors.New("hid: missing scheme")
	ErrMissingFragment    = errors.New("hid: nested URI has no entry fragment")
	ErrUnexpectedFragment = errors.New("hid: hierarchical URI has a fragment")
	ErrUnsupportedQuery   = errors.New("hid: URI queries are not supported")
)
