package hid

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dendrascience/dendra-hid/rules"
)

// jarScheme uses the "jar:<archive>!/<entry>" form instead of a fragment.
const jarScheme = "jar"

// Parse reads s as a URI when it starts with a scheme of two or more
// characters, and as a plain filesystem path otherwise.
func Parse(s string) (HID, error) {
	if schemeEnd(s) >= 2 {
		return ParseURI(s)
	}
	b := NewBuilder(1)
	if err := b.Push("", "", s); err != nil {
		return HID{}, err
	}
	return b.Build()
}

// MustParse is like Parse but panics on error. It is meant for constants.
func MustParse(s string) HID {
	h, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return h
}

// ParseURI reads the URI forms produced by String:
//
//	scheme://authority/path             level 0 (scheme:/path also accepted)
//	scheme:<archive URI>#/entry/path    nested level
//	scheme:<archive URI>#//auth/path    nested level with an authority
//	jar:<archive URI>!/entry/path       nested level, jar convention
//
// A plain path may stand in for the innermost archive URI.
func ParseURI(s string) (HID, error) {
	if schemeEnd(s) < 1 {
		return HID{}, fmt.Errorf("%w: %q", ErrMissingScheme, s)
	}
	if strings.ContainsRune(s, '?') {
		return HID{}, fmt.Errorf("%w: %q", ErrUnsupportedQuery, s)
	}
	b := NewBuilder(strings.Count(s, ":"))
	if err := b.pushURI(s); err != nil {
		return HID{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return b.Build()
}

// FromURL converts a parsed URL. See ParseURI.
func FromURL(u *url.URL) (HID, error) {
	if u.RawQuery != "" || u.ForceQuery {
		return HID{}, fmt.Errorf("%w: %s", ErrUnsupportedQuery, u)
	}
	// url.Parse cuts the fragment at the first '#', so a nested URI keeps
	// the rest of its levels in the fragment.
	base := *u
	base.Fragment, base.RawFragment = "", ""
	s := base.String()
	if u.Fragment != "" || u.RawFragment != "" {
		frag := u.RawFragment
		if frag == "" {
			frag = u.EscapedFragment()
		}
		s += "#" + frag
	}
	return ParseURI(s)
}

// FromPath returns a file URI identifier for the absolute form of the
// filesystem path p.
func FromPath(p string) (HID, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return HID{}, err
	}
	b := NewBuilder(1)
	if err := b.Push("file", "", filepath.ToSlash(abs)); err != nil {
		return HID{}, err
	}
	return b.Build()
}

// schemeEnd returns the index of the colon ending a leading URI scheme, or
// -1 when s does not start with one.
func schemeEnd(s string) int {
	i := strings.IndexByte(s, ':')
	if i < 1 || !rules.IsScheme(s[:i]) {
		return -1
	}
	return i
}

// pushURI pushes the levels of s, innermost archive first.
func (b *Builder) pushURI(s string) error {
	i := schemeEnd(s)
	if i < 0 {
		p, err := unescapePath(s)
		if err != nil {
			return err
		}
		return b.Push("", "", p)
	}
	scheme, rest := s[:i], s[i+1:]

	if strings.HasPrefix(rest, "//") {
		if strings.ContainsRune(rest, '#') {
			return ErrUnexpectedFragment
		}
		return b.pushHierarchical(scheme, rest[2:])
	}
	if strings.EqualFold(scheme, jarScheme) {
		if j := strings.LastIndex(rest, "!/"); j >= 0 {
			if err := b.pushURI(rest[:j]); err != nil {
				return err
			}
			return b.pushEscaped(scheme, "", "/"+rest[j+2:])
		}
	}
	if j := strings.LastIndexByte(rest, '#'); j >= 0 {
		if err := b.pushURI(rest[:j]); err != nil {
			return err
		}
		frag := rest[j+1:]
		if strings.HasPrefix(frag, "//") {
			return b.pushHierarchical(scheme, frag[2:])
		}
		return b.pushEscaped(scheme, "", frag)
	}
	if strings.HasPrefix(rest, "/") {
		return b.pushEscaped(scheme, "", rest)
	}
	return ErrMissingFragment
}

// pushHierarchical pushes "authority/path" with the leading "//" removed.
func (b *Builder) pushHierarchical(scheme, s string) error {
	authority, path := s, ""
	if j := strings.IndexByte(s, '/'); j >= 0 {
		authority, path = s[:j], s[j:]
	}
	return b.pushEscaped(scheme, authority, path)
}

func (b *Builder) pushEscaped(scheme, authority, escaped string) error {
	p, err := unescapePath(escaped)
	if err != nil {
		return err
	}
	if scheme != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return b.Push(scheme, authority, p)
}

// unescapePath percent-decodes each segment of an escaped path. A segment
// may not decode to something containing "/".
func unescapePath(escaped string) (string, error) {
	if !strings.ContainsRune(escaped, '%') {
		return escaped, nil
	}
	parts := strings.Split(escaped, "/")
	for i, part := range parts {
		seg, err := url.PathUnescape(part)
		if err != nil {
			return "", err
		}
		if strings.ContainsRune(seg, '/') {
			return "", fmt.Errorf("%w: %q", ErrInvalidSegment, part)
		}
		parts[i] = seg
	}
	return strings.Join(parts, "/"), nil
}

// String returns the URI form of h. A scheme-less outermost level is
// written as a plain path, unescaped when it is the only level.
func (h HID) String() string {
	if h.IsZero() {
		return ""
	}
	var sb strings.Builder
	h.writeLevel(&sb, h.Nesting())
	return sb.String()
}

func (h HID) writeLevel(sb *strings.Builder, i int) {
	scheme, authority, segs := h.schemes[i], h.authorities[i], h.segments[i]
	if i == 0 {
		h.writeBase(sb)
		return
	}
	sb.WriteString(scheme)
	sb.WriteByte(':')
	h.writeLevel(sb, i-1)
	if scheme == jarScheme && authority == "" {
		sb.WriteString("!/")
		writeEscaped(sb, segs)
		return
	}
	sb.WriteByte('#')
	if authority != "" {
		sb.WriteString("//")
		sb.WriteString(authority)
	}
	sb.WriteByte('/')
	writeEscaped(sb, segs)
}

func (h HID) writeBase(sb *strings.Builder) {
	scheme, segs := h.schemes[0], h.segments[0]
	if scheme != "" {
		sb.WriteString(scheme)
		sb.WriteString("://")
		sb.WriteString(h.authorities[0])
		sb.WriteByte('/')
		writeEscaped(sb, segs)
		return
	}
	if h.Nesting() == 0 {
		if h.relative && len(segs) > 0 && strings.ContainsRune(segs[0], ':') {
			sb.WriteString("./")
		}
		sb.WriteString(h.levelPath(0))
		return
	}
	switch {
	case !h.relative:
		sb.WriteByte('/')
	case len(segs) == 0:
		sb.WriteByte('.')
		return
	case strings.ContainsRune(segs[0], ':'):
		// Keep the first segment from reading as a scheme.
		sb.WriteString("./")
	}
	writeEscaped(sb, segs)
}

func writeEscaped(sb *strings.Builder, segs []string) {
	for i, seg := range segs {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(url.PathEscape(seg))
	}
}

// URL returns h as a *url.URL.
func (h HID) URL() (*url.URL, error) {
	if h.IsZero() {
		return nil, ErrZero
	}
	return url.Parse(h.String())
}

func (h HID) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *HID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
