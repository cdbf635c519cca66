package archive

import "errors"

// Sentinel errors for package archive.
var (
	ErrNotFound          = errors.New("archive: entry not found")
	ErrIsDir             = errors.New("archive: entry is a directory")
	ErrNotDir            = errors.New("archive: entry is not a directory")
	ErrNotContainer      = errors.New("archive: entry is not a container")
	ErrUnsupportedScheme = errors.New("archive: unsupported scheme")
	ErrFormatDisabled    = errors.New("archive: container format disabled")
	ErrNestedTooLarge    = errors.New("archive: nested container exceeds size limit")
	ErrCorruptIndex      = errors.New("archive: corrupt index")
	ErrClosed            = errors.New("archive: container closed")
)
