package hid

import (
	"fmt"
	"strings"

	"github.com/dendrascience/dendra-hid/rules"
)

// Builder assembles an HID one nesting level at a time. The zero value is
// an empty builder ready for use. A Builder is not safe for concurrent use.
type Builder struct {
	schemes     []string
	authorities []string
	segments    [][]string
	relative    bool
}

// NewBuilder returns an empty builder with room for capacity levels.
func NewBuilder(capacity int) *Builder {
	return &Builder{
		schemes:     make([]string, 0, capacity),
		authorities: make([]string, 0, capacity),
		segments:    make([][]string, 0, capacity),
	}
}

// Len returns the number of levels pushed so far.
func (b *Builder) Len() int { return len(b.schemes) }

func (b *Builder) grow() {
	if len(b.schemes) < cap(b.schemes) {
		return
	}
	n := cap(b.schemes) + cap(b.schemes)/2
	if n < 4 {
		n = 4
	}
	schemes := make([]string, len(b.schemes), n)
	copy(schemes, b.schemes)
	authorities := make([]string, len(b.authorities), n)
	copy(authorities, b.authorities)
	segments := make([][]string, len(b.segments), n)
	copy(segments, b.segments)
	b.schemes, b.authorities, b.segments = schemes, authorities, segments
}

// Push descends into a new nesting level. The first level may omit the
// scheme, in which case path is a plain filesystem path and may be
// relative; every other level needs a scheme and is always rooted.
func (b *Builder) Push(scheme, authority, path string) error {
	level := len(b.schemes)
	if scheme == "" {
		if level > 0 {
			return fmt.Errorf("%w: nested level %d needs a scheme", ErrInvalidScheme, level)
		}
		if authority != "" {
			return fmt.Errorf("%w: %q without a scheme", ErrInvalidAuthority, authority)
		}
	} else if !rules.IsScheme(scheme) {
		return fmt.Errorf("%w: %q", ErrInvalidScheme, scheme)
	}
	if strings.ContainsAny(authority, "/?#") {
		return fmt.Errorf("%w: %q", ErrInvalidAuthority, authority)
	}

	segs, absolute := normalize(path)
	relative := level == 0 && scheme == "" && !absolute
	if !relative && len(segs) > 0 && segs[0] == ".." {
		segs, _ = normalize("/" + path)
	}

	b.grow()
	b.schemes = append(b.schemes, strings.ToLower(scheme))
	b.authorities = append(b.authorities, authority)
	b.segments = append(b.segments, segs)
	if level == 0 {
		b.relative = relative
	}
	return nil
}

// Pop removes the innermost level.
func (b *Builder) Pop() error {
	n := len(b.schemes)
	if n == 0 {
		return ErrEmptyBuilder
	}
	b.schemes = b.schemes[:n-1]
	b.authorities = b.authorities[:n-1]
	b.segments[n-1] = nil
	b.segments = b.segments[:n-1]
	if n == 1 {
		b.relative = false
	}
	return nil
}

// Resolve applies path to the innermost level. An absolute path replaces
// the level's path; a relative one is appended segment by segment. ".." at
// the root of a nested level steps out to the container entry itself, the
// same way Parent does.
func (b *Builder) Resolve(path string) error {
	if len(b.schemes) == 0 {
		return ErrEmptyBuilder
	}
	segs, absolute := normalize(path)
	top := len(b.segments) - 1
	if absolute {
		b.segments[top] = segs
		if top == 0 {
			b.relative = false
		}
		return nil
	}
	for _, seg := range segs {
		top = len(b.segments) - 1
		cur := b.segments[top]
		if seg != ".." {
			b.segments[top] = append(clip(cur), seg)
			continue
		}
		switch {
		case len(cur) > 0 && cur[len(cur)-1] != "..":
			b.segments[top] = clip(cur[:len(cur)-1])
		case top > 0:
			if err := b.Pop(); err != nil {
				return err
			}
		case b.relative:
			b.segments[top] = append(clip(cur), "..")
		}
	}
	return nil
}

// Build returns the levels pushed so far as an HID. The builder may keep
// being used afterwards without affecting the result.
func (b *Builder) Build() (HID, error) {
	n := len(b.schemes)
	if n == 0 {
		return HID{}, ErrEmptyBuilder
	}
	h := HID{
		schemes:     make([]string, n),
		authorities: make([]string, n),
		segments:    make([][]string, n),
		relative:    b.relative,
	}
	copy(h.schemes, b.schemes)
	copy(h.authorities, b.authorities)
	for i, segs := range b.segments {
		h.segments[i] = clip(segs)
	}
	return h, nil
}

// Reset empties the builder, keeping its storage.
func (b *Builder) Reset() {
	clear(b.segments)
	b.schemes = b.schemes[:0]
	b.authorities = b.authorities[:0]
	b.segments = b.segments[:0]
	b.relative = false
}
