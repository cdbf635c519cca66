package header

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dendrascience/dendra-hid/rules"
)

// Link is one element of an RFC 5988 Link header: a target URI reference
// and its parameters.
type Link struct {
	uri    string
	params []Param
}

// Parameters that may only appear once; later occurrences are dropped.
var singleLinkParams = []string{"rel", "rev", "anchor", "title", "title*", "media", "type"}

// NewLink returns a link to uri with the given parameters. Parameter names
// are lower-cased but not validated.
func NewLink(uri string, params ...Param) Link {
	l := Link{uri: uri, params: make([]Param, len(params))}
	for i, p := range params {
		l.params[i] = Param{Name: strings.ToLower(p.Name), Value: p.Value}
	}
	return l
}

// ParseLinks parses a Link header value: a comma separated list of
// "<uri-reference>" elements, each followed by ";"-separated parameters.
// Empty list elements are skipped.
func ParseLinks(s string) ([]Link, error) {
	var links []Link
	i := 0
	for {
		i = skipListSeparators(s, i)
		if i >= len(s) {
			return links, nil
		}
		l, end, err := parseLink(s, i)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
		i = rules.SkipOWS(s, end)
		if i < len(s) && s[i] != ',' {
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformedLink, s[i], i)
		}
	}
}

// ParseLink parses a header value holding exactly one link.
func ParseLink(s string) (Link, error) {
	links, err := ParseLinks(s)
	if err != nil {
		return Link{}, err
	}
	if len(links) != 1 {
		return Link{}, fmt.Errorf("%w: expected one link, found %d", ErrMalformedLink, len(links))
	}
	return links[0], nil
}

func skipListSeparators(s string, i int) int {
	for i < len(s) && (s[i] == ',' || s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func parseLink(s string, i int) (Link, int, error) {
	if s[i] != '<' {
		return Link{}, i, fmt.Errorf("%w: expected '<' at offset %d", ErrMalformedLink, i)
	}
	end := strings.IndexByte(s[i+1:], '>')
	if end < 0 {
		return Link{}, i, fmt.Errorf("%w: unterminated URI reference", ErrMalformedLink)
	}
	uri := s[i+1 : i+1+end]
	if rules.WSP.MatchesAny(uri) || rules.CTL.MatchesAny(uri) {
		return Link{}, i, fmt.Errorf("%w: URI reference %q contains whitespace", ErrMalformedLink, uri)
	}

	params, next, err := linkParams.parseParams(s, i+end+2)
	if err != nil {
		return Link{}, next, fmt.Errorf("%w: %w", ErrMalformedLink, err)
	}
	params = dropRepeated(params)
	for _, p := range params {
		if err := validateLinkParam(p); err != nil {
			return Link{}, next, err
		}
	}
	return Link{uri: uri, params: params}, next, nil
}

func dropRepeated(params []Param) []Param {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		if slices.Contains(singleLinkParams, p.Name) &&
			slices.ContainsFunc(out, func(q Param) bool { return q.Name == p.Name }) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func validateLinkParam(p Param) error {
	var ok bool
	switch p.Name {
	case "rel", "rev":
		fields := strings.Fields(p.Value)
		ok = len(fields) > 0
		for _, f := range fields {
			ok = ok && rules.IsRelationType(f)
		}
	case "hreflang":
		ok = rules.IsLanguageTag(p.Value)
	case "type":
		ok = rules.IsMediaType(p.Value)
	case "title*":
		ok = rules.IsExtValue(p.Value)
	default:
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: %s=%q", ErrInvalidLinkParameter, p.Name, p.Value)
	}
	return nil
}

// URI returns the link target as written, which may be relative.
func (l Link) URI() string { return l.uri }

// Rel returns the relation types of the link. Registered types are
// compared case-insensitively and returned lower-cased.
func (l Link) Rel() []string { return l.relations("rel") }

func (l Link) Rev() []string { return l.relations("rev") }

func (l Link) relations(name string) []string {
	v, ok := l.Parameter(name)
	if !ok {
		return nil
	}
	fields := strings.Fields(v)
	for i, f := range fields {
		if !strings.Contains(f, ":") {
			fields[i] = strings.ToLower(f)
		}
	}
	return fields
}

// HasRel reports whether rel is one of the link's relation types.
func (l Link) HasRel(rel string) bool {
	for _, r := range l.Rel() {
		if r == rel || strings.EqualFold(r, rel) && !strings.Contains(r, ":") {
			return true
		}
	}
	return false
}

func (l Link) Anchor() (string, bool) { return l.Parameter("anchor") }

// Title returns the human-readable title, preferring the decoded "title*"
// form over "title".
func (l Link) Title() string {
	if v, ok := l.Parameter("title*"); ok {
		if decoded, _, err := rules.DecodeExtValue(v); err == nil {
			return decoded
		}
	}
	v, _ := l.Parameter("title")
	return v
}

// HrefLang returns every hreflang value; the parameter may repeat.
func (l Link) HrefLang() []string {
	var langs []string
	for _, p := range l.params {
		if p.Name == "hreflang" {
			langs = append(langs, p.Value)
		}
	}
	return langs
}

func (l Link) Media() string {
	v, _ := l.Parameter("media")
	return v
}

// Type returns the hinted media type of the target, if any.
func (l Link) Type() (ContentType, bool) {
	v, ok := l.Parameter("type")
	if !ok {
		return ContentType{}, false
	}
	c, err := ParseContentType(v)
	return c, err == nil
}

func (l Link) Parameter(name string) (string, bool) {
	return findParam(l.params, name)
}

func (l Link) Parameters() []Param {
	return slices.Clone(l.params)
}

func (l Link) String() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(l.uri)
	b.WriteByte('>')
	for _, p := range l.params {
		b.WriteString("; ")
		b.WriteString(p.Name)
		if p.Value == "" {
			continue
		}
		b.WriteByte('=')
		if strings.HasSuffix(p.Name, "*") {
			b.WriteString(p.Value)
		} else {
			b.WriteString(rules.QuoteIfNeeded(p.Value))
		}
	}
	return b.String()
}

// FindRel returns the first link carrying relation type rel.
func FindRel(links []Link, rel string) (Link, bool) {
	for _, l := range links {
		if l.HasRel(rel) {
			return l, true
		}
	}
	return Link{}, false
}

// FormatLinks renders links as a single Link header value.
func FormatLinks(links []Link) string {
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}
