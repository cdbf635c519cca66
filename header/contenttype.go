package header

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dendrascience/dendra-hid/rules"
)

// ContentType is a parsed media type with its parameters, as found in a
// Content-Type header. The zero value is empty; see IsZero.
type ContentType struct {
	typ     string
	subtype string
	params  []Param
}

// Common media types.
var (
	OctetStream = MustParseContentType("application/octet-stream")
	TextPlain   = MustParseContentType("text/plain; charset=utf-8")
	JSON        = MustParseContentType("application/json")
	CBOR        = MustParseContentType("application/cbor")
)

// ParseContentType parses "type/subtype *( ; name=value )". Type, subtype
// and parameter names are lower-cased. A parameter may appear only once.
func ParseContentType(s string) (ContentType, error) {
	i := rules.SkipOWS(s, 0)
	end := rules.ScanToken(s, i)
	if end == i || end >= len(s) || s[end] != '/' {
		return ContentType{}, fmt.Errorf("%w: %q", ErrMalformedContentType, s)
	}
	typ := strings.ToLower(s[i:end])

	i = end + 1
	end = rules.ScanToken(s, i)
	if end == i {
		return ContentType{}, fmt.Errorf("%w: %q has no subtype", ErrMalformedContentType, s)
	}
	subtype := strings.ToLower(s[i:end])

	params, i, err := mediaParams.parseParams(s, end)
	if err != nil {
		return ContentType{}, fmt.Errorf("%w: %q: %w", ErrMalformedContentType, s, err)
	}
	if i != len(s) {
		return ContentType{}, fmt.Errorf("%w: %q: unexpected %q", ErrMalformedContentType, s, s[i:])
	}
	for k, p := range params {
		if slices.ContainsFunc(params[:k], func(q Param) bool { return q.Name == p.Name }) {
			return ContentType{}, fmt.Errorf("%w: %q in %q", ErrDuplicateParameter, p.Name, s)
		}
	}
	return ContentType{typ: typ, subtype: subtype, params: params}, nil
}

// MustParseContentType is like ParseContentType but panics on error.
func MustParseContentType(s string) ContentType {
	c, err := ParseContentType(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ContentType) IsZero() bool { return c.typ == "" }

func (c ContentType) Type() string    { return c.typ }
func (c ContentType) Subtype() string { return c.subtype }

// MediaType returns "type/subtype" without parameters.
func (c ContentType) MediaType() string {
	if c.IsZero() {
		return ""
	}
	return c.typ + "/" + c.subtype
}

// Suffix returns the structured syntax suffix of the subtype ("json" for
// "application/ld+json"), or "".
func (c ContentType) Suffix() string {
	if i := strings.LastIndexByte(c.subtype, '+'); i >= 0 {
		return c.subtype[i+1:]
	}
	return ""
}

// Parameter returns the value of the named parameter.
func (c ContentType) Parameter(name string) (string, bool) {
	return findParam(c.params, name)
}

func (c ContentType) Parameters() []Param {
	return slices.Clone(c.params)
}

// Charset returns the lower-cased charset parameter, or "".
func (c ContentType) Charset() string {
	v, _ := c.Parameter("charset")
	return strings.ToLower(v)
}

// WithParameter returns c with the named parameter set to value, replacing
// an existing one in place.
func (c ContentType) WithParameter(name, value string) ContentType {
	name = strings.ToLower(name)
	params := slices.Clone(c.params)
	if i := slices.IndexFunc(params, func(p Param) bool { return p.Name == name }); i >= 0 {
		params[i].Value = value
	} else {
		params = append(params, Param{Name: name, Value: value})
	}
	c.params = params
	return c
}

func (c ContentType) WithoutParameters() ContentType {
	c.params = nil
	return c
}

// Matches reports whether c is covered by pattern. A "*" type or subtype in
// pattern matches anything, and every parameter of pattern must be present
// in c with the same value.
func (c ContentType) Matches(pattern ContentType) bool {
	if pattern.typ != "*" && pattern.typ != c.typ {
		return false
	}
	if pattern.subtype != "*" && pattern.subtype != c.subtype {
		return false
	}
	for _, p := range pattern.params {
		v, ok := c.Parameter(p.Name)
		if !ok || !paramValueEqual(p.Name, v, p.Value) {
			return false
		}
	}
	return true
}

// Equal reports whether c and o have the same media type and the same set
// of parameters, in any order.
func (c ContentType) Equal(o ContentType) bool {
	if c.typ != o.typ || c.subtype != o.subtype || len(c.params) != len(o.params) {
		return false
	}
	for _, p := range o.params {
		v, ok := c.Parameter(p.Name)
		if !ok || !paramValueEqual(p.Name, v, p.Value) {
			return false
		}
	}
	return true
}

func paramValueEqual(name, a, b string) bool {
	if name == "charset" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func (c ContentType) String() string {
	if c.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(c.typ)
	b.WriteByte('/')
	b.WriteString(c.subtype)
	writeParams(&b, c.params)
	return b.String()
}

func (c ContentType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ContentType) UnmarshalText(text []byte) error {
	parsed, err := ParseContentType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
