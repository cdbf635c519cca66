package hid

import (
	"fmt"
	"slices"
	"strings"
)

// HID is a hierarchical identifier. The zero value addresses nothing; see
// IsZero.
type HID struct {
	schemes     []string
	authorities []string
	segments    [][]string
	// relative is only meaningful for a scheme-less level 0.
	relative bool
}

// IsZero reports whether h has no levels.
func (h HID) IsZero() bool { return len(h.schemes) == 0 }

// Nesting returns the index of the innermost level, or -1 for the zero HID.
func (h HID) Nesting() int { return len(h.schemes) - 1 }

// Depth returns the number of path segments at the innermost level.
func (h HID) Depth() int {
	if h.IsZero() {
		return 0
	}
	return len(h.segments[h.Nesting()])
}

// Scheme returns the scheme of the innermost level, lower-cased. A plain
// filesystem path has no scheme.
func (h HID) Scheme() string {
	if h.IsZero() {
		return ""
	}
	return h.schemes[h.Nesting()]
}

func (h HID) Authority() string {
	if h.IsZero() {
		return ""
	}
	return h.authorities[h.Nesting()]
}

// IsRelative reports whether h is a relative filesystem path.
func (h HID) IsRelative() bool {
	return len(h.schemes) == 1 && h.relative
}

// Path returns the unescaped path of the innermost level: "/" for the root
// of a rooted level and "." for an empty relative path.
func (h HID) Path() string {
	if h.IsZero() {
		return ""
	}
	return h.levelPath(h.Nesting())
}

func (h HID) levelPath(i int) string {
	joined := strings.Join(h.segments[i], "/")
	if i == 0 && h.relative {
		if joined == "" {
			return "."
		}
		return joined
	}
	return "/" + joined
}

// Segments returns a copy of the innermost level's path segments.
func (h HID) Segments() []string {
	if h.IsZero() {
		return nil
	}
	return slices.Clone(h.segments[h.Nesting()])
}

// Name returns the last path segment of the innermost level, or "" at a
// level root.
func (h HID) Name() string {
	d := h.Depth()
	if d == 0 {
		return ""
	}
	return h.segments[h.Nesting()][d-1]
}

// Level returns h truncated to its first i+1 levels. Level(Nesting()) is h
// itself. It panics if i is out of range.
func (h HID) Level(i int) HID {
	if i < 0 || i > h.Nesting() {
		panic(fmt.Sprintf("hid: level %d out of range [0, %d]", i, h.Nesting()))
	}
	return HID{
		schemes:     h.schemes[: i+1 : i+1],
		authorities: h.authorities[: i+1 : i+1],
		segments:    h.segments[: i+1 : i+1],
		relative:    h.relative,
	}
}

// withSegments returns h with the innermost level's segments replaced.
func (h HID) withSegments(segs []string) HID {
	n := len(h.segments)
	segments := make([][]string, n)
	copy(segments, h.segments)
	segments[n-1] = clip(segs)
	return HID{
		schemes:     h.schemes,
		authorities: h.authorities,
		segments:    segments,
		relative:    h.relative,
	}
}

// TryParent returns the identifier one segment up. At the root of a
// nested level the parent is the container entry. A path ending in a
// literal ".." has no parent.
func (h HID) TryParent() (HID, bool) {
	if h.IsZero() {
		return HID{}, false
	}
	segs := h.segments[h.Nesting()]
	if len(segs) == 0 {
		return h.TryContainer()
	}
	if segs[len(segs)-1] == ".." {
		return HID{}, false
	}
	return h.withSegments(segs[:len(segs)-1]), true
}

func (h HID) Parent() (HID, error) {
	p, ok := h.TryParent()
	if !ok {
		return HID{}, fmt.Errorf("%w: %s", ErrNoParent, h)
	}
	return p, nil
}

// TryContainer returns the entry holding the innermost level, dropping
// that level entirely.
func (h HID) TryContainer() (HID, bool) {
	if h.Nesting() < 1 {
		return HID{}, false
	}
	return h.Level(h.Nesting() - 1), true
}

func (h HID) Container() (HID, error) {
	c, ok := h.TryContainer()
	if !ok {
		return HID{}, fmt.Errorf("%w: %s", ErrNoContainer, h)
	}
	return c, nil
}

// Root returns the root of the innermost level: the same containers with
// an empty path.
func (h HID) Root() HID {
	if h.IsZero() {
		return h
	}
	return h.withSegments(nil)
}

// Child returns h with name appended to the innermost level. name must be
// a single segment.
func (h HID) Child(name string) (HID, error) {
	if h.IsZero() {
		return HID{}, ErrZero
	}
	if !validSegment(name) {
		return HID{}, fmt.Errorf("%w: %q", ErrInvalidSegment, name)
	}
	segs, _ := normalize(name)
	return h.withSegments(append(clip(h.segments[h.Nesting()]), segs...)), nil
}

// Resolve resolves path against the innermost level. See Builder.Resolve.
func (h HID) Resolve(path string) (HID, error) {
	b := h.Builder()
	if err := b.Resolve(path); err != nil {
		return HID{}, err
	}
	return b.Build()
}

// Nest returns h with a new innermost level that addresses path inside the
// entry h names.
func (h HID) Nest(scheme, authority, path string) (HID, error) {
	if h.IsZero() {
		return HID{}, ErrZero
	}
	b := h.Builder()
	if err := b.Push(scheme, authority, path); err != nil {
		return HID{}, err
	}
	return b.Build()
}

// Builder returns a builder primed with h's levels.
func (h HID) Builder() *Builder {
	n := len(h.schemes)
	b := NewBuilder(n + 1)
	b.schemes = append(b.schemes, h.schemes...)
	b.authorities = append(b.authorities, h.authorities...)
	b.segments = append(b.segments, h.segments...)
	b.relative = h.relative
	return b
}

// IsAncestor reports whether h strictly contains other: every level of h
// but the last equals the matching level of other, h's last path is a
// segment prefix of other's path at that level, and other is deeper.
// IsAncestor is false when h equals other.
func (h HID) IsAncestor(other HID) bool {
	n := h.Nesting()
	if n < 0 || n > other.Nesting() || h.relative != other.relative {
		return false
	}
	for i := 0; i < n; i++ {
		if !h.levelEqual(other, i) {
			return false
		}
	}
	if h.schemes[n] != other.schemes[n] || h.authorities[n] != other.authorities[n] {
		return false
	}
	mine, theirs := h.segments[n], other.segments[n]
	if len(mine) > len(theirs) || !slices.Equal(mine, theirs[:len(mine)]) {
		return false
	}
	if slices.Contains(theirs[len(mine):], "..") {
		return false
	}
	return n < other.Nesting() || len(mine) < len(theirs)
}

func (h HID) levelEqual(o HID, i int) bool {
	return h.schemes[i] == o.schemes[i] &&
		h.authorities[i] == o.authorities[i] &&
		slices.Equal(h.segments[i], o.segments[i])
}

// Rebased moves h from under oldBase to under newBase, keeping everything
// below oldBase. oldBase must be h itself or an ancestor of h.
func (h HID) Rebased(oldBase, newBase HID) (HID, error) {
	if h.IsZero() || newBase.IsZero() {
		return HID{}, ErrZero
	}
	if !oldBase.Equal(h) && !oldBase.IsAncestor(h) {
		return HID{}, fmt.Errorf("%w: %s is not under %s", ErrNotAncestor, h, oldBase)
	}
	n := oldBase.Nesting()
	m := newBase.Nesting()
	levels := m + 1 + h.Nesting() - n

	r := HID{
		schemes:     make([]string, 0, levels),
		authorities: make([]string, 0, levels),
		segments:    make([][]string, 0, levels),
		relative:    newBase.relative,
	}
	r.schemes = append(r.schemes, newBase.schemes...)
	r.authorities = append(r.authorities, newBase.authorities...)
	r.segments = append(r.segments, newBase.segments[:m]...)

	tail := h.segments[n][len(oldBase.segments[n]):]
	r.segments = append(r.segments, clip(append(clip(newBase.segments[m]), tail...)))

	r.schemes = append(r.schemes, h.schemes[n+1:]...)
	r.authorities = append(r.authorities, h.authorities[n+1:]...)
	r.segments = append(r.segments, h.segments[n+1:]...)
	return r, nil
}

// Equal reports whether h and o address the same location.
func (h HID) Equal(o HID) bool {
	return Compare(h, o) == 0
}
