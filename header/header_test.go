package header

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseContentType(t *testing.T) {
	tests := []struct {
		in      string
		media   string
		params  []Param
		charset string
		out     string
	}{
		{
			in:    "text/plain",
			media: "text/plain",
			out:   "text/plain",
		},
		{
			in:      "Text/HTML; Charset=UTF-8",
			media:   "text/html",
			params:  []Param{{"charset", "UTF-8"}},
			charset: "utf-8",
			out:     "text/html; charset=UTF-8",
		},
		{
			in:     `multipart/form-data ; boundary="a b;c"`,
			media:  "multipart/form-data",
			params: []Param{{"boundary", "a b;c"}},
			out:    `multipart/form-data; boundary="a b;c"`,
		},
		{
			in:     "application/ld+json;profile=x;",
			media:  "application/ld+json",
			params: []Param{{"profile", "x"}},
			out:    "application/ld+json; profile=x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseContentType(tt.in)
			if err != nil {
				t.Fatalf("ParseContentType failed: %v", err)
			}
			if c.MediaType() != tt.media {
				t.Errorf("MediaType() = %q, want %q", c.MediaType(), tt.media)
			}
			if diff := cmp.Diff(tt.params, c.Parameters()); diff != "" {
				t.Errorf("Parameters() mismatch (-want +got):\n%s", diff)
			}
			if c.Charset() != tt.charset {
				t.Errorf("Charset() = %q, want %q", c.Charset(), tt.charset)
			}
			if c.String() != tt.out {
				t.Errorf("String() = %q, want %q", c.String(), tt.out)
			}
		})
	}
}

func TestParseContentTypeErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrMalformedContentType},
		{"text", ErrMalformedContentType},
		{"text/", ErrMalformedContentType},
		{"text/plain; charset", ErrMalformedContentType},
		{`text/plain; a="unterminated`, ErrMalformedContentType},
		{"text/plain extra", ErrMalformedContentType},
		{"text/plain; a=1; A=2", ErrDuplicateParameter},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if _, err := ParseContentType(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("ParseContentType(%q) error = %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}

func TestContentTypeMatching(t *testing.T) {
	c := MustParseContentType("application/vnd.api+json; charset=utf-8; v=2")

	if c.Suffix() != "json" {
		t.Errorf("Suffix() = %q, want json", c.Suffix())
	}
	if !c.Matches(MustParseContentType("*/*")) {
		t.Errorf("should match */*")
	}
	if !c.Matches(MustParseContentType("application/*; charset=UTF-8")) {
		t.Errorf("should match application/* with a case-insensitive charset")
	}
	if c.Matches(MustParseContentType("application/*; v=3")) {
		t.Errorf("should not match a different parameter value")
	}
	if c.Matches(MustParseContentType("text/*")) {
		t.Errorf("should not match text/*")
	}

	reordered := MustParseContentType("application/vnd.api+json; v=2; charset=UTF-8")
	if !c.Equal(reordered) {
		t.Errorf("parameter order should not affect Equal")
	}
	if c.Equal(c.WithoutParameters()) {
		t.Errorf("parameters should affect Equal")
	}

	updated := c.WithParameter("V", "3")
	if v, _ := updated.Parameter("v"); v != "3" {
		t.Errorf("WithParameter did not replace v: %q", v)
	}
	if v, _ := c.Parameter("v"); v != "2" {
		t.Errorf("WithParameter changed the original: %q", v)
	}
	if got := c.WithoutParameters().WithParameter("q", "a b").String(); got != `application/vnd.api+json; q="a b"` {
		t.Errorf("String() = %q", got)
	}
}

func TestParseLinks(t *testing.T) {
	in := `<https://example.com/page/2>; rel="next", , ` +
		`<https://example.com/page/1>; rel="prev first"; title*=UTF-8'de'n%C3%A4chste; title="fallback", ` +
		`</meta>; rel="http://example.com/rels/meta"; type="application/json"; hreflang=en; hreflang=de-CH; rel=ignored`

	links, err := ParseLinks(in)
	if err != nil {
		t.Fatalf("ParseLinks failed: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}

	if links[0].URI() != "https://example.com/page/2" {
		t.Errorf("URI() = %q", links[0].URI())
	}
	if diff := cmp.Diff([]string{"prev", "first"}, links[1].Rel()); diff != "" {
		t.Errorf("Rel() mismatch (-want +got):\n%s", diff)
	}
	if got := links[1].Title(); got != "nächste" {
		t.Errorf("Title() = %q, want the decoded title*", got)
	}

	meta := links[2]
	if diff := cmp.Diff([]string{"http://example.com/rels/meta"}, meta.Rel()); diff != "" {
		t.Errorf("repeated rel was not ignored (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"en", "de-CH"}, meta.HrefLang()); diff != "" {
		t.Errorf("HrefLang() mismatch (-want +got):\n%s", diff)
	}
	if ct, ok := meta.Type(); !ok || ct.MediaType() != "application/json" {
		t.Errorf("Type() = %v, %v", ct, ok)
	}

	first, ok := FindRel(links, "FIRST")
	if !ok || first.URI() != "https://example.com/page/1" {
		t.Errorf("FindRel(FIRST) = %v, %v", first, ok)
	}
	if _, ok := FindRel(links, "last"); ok {
		t.Errorf("FindRel(last) should find nothing")
	}

	again, err := ParseLinks(FormatLinks(links))
	if err != nil {
		t.Fatalf("ParseLinks(FormatLinks()) failed: %v", err)
	}
	if diff := cmp.Diff(FormatLinks(links), FormatLinks(again)); diff != "" {
		t.Errorf("format round trip mismatch (-first +second):\n%s", diff)
	}
}

func TestParseLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing bracket", "https://example.com; rel=next", ErrMalformedLink},
		{"unterminated uri", "<https://example.com; rel=next", ErrMalformedLink},
		{"junk after link", "<a> b", ErrMalformedLink},
		{"bad rel", `<a>; rel="Next Page"`, ErrInvalidLinkParameter},
		{"bad hreflang", "<a>; hreflang=english_us", ErrInvalidLinkParameter},
		{"bad type", "<a>; type=json", ErrInvalidLinkParameter},
		{"bad title*", "<a>; title*=nonsense", ErrInvalidLinkParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLinks(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("ParseLinks(%q) error = %v, want %v", tt.in, err, tt.want)
			}
		})
	}

	if _, err := ParseLink("<a>, <b>"); !errors.Is(err, ErrMalformedLink) {
		t.Errorf("ParseLink with two links: got %v", err)
	}
	l, err := ParseLink("<a>; crossorigin; anchor=\"#x\"")
	if err != nil {
		t.Fatalf("ParseLink failed: %v", err)
	}
	if _, ok := l.Parameter("crossorigin"); !ok {
		t.Errorf("bare parameter was dropped")
	}
	if a, _ := l.Anchor(); a != "#x" {
		t.Errorf("Anchor() = %q", a)
	}
}

func TestParseProducts(t *testing.T) {
	ua := "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	products, err := ParseProducts(ua)
	if err != nil {
		t.Fatalf("ParseProducts failed: %v", err)
	}
	want := []Product{
		{Name: "Mozilla", Version: "5.0", Comments: []string{"X11; Linux x86_64"}},
		{Name: "AppleWebKit", Version: "537.36", Comments: []string{"KHTML, like Gecko"}},
		{Name: "Chrome", Version: "120.0"},
		{Name: "Safari", Version: "537.36"},
	}
	if diff := cmp.Diff(want, products); diff != "" {
		t.Errorf("ParseProducts mismatch (-want +got):\n%s", diff)
	}
	if got := FormatProducts(products); got != ua {
		t.Errorf("FormatProducts = %q, want %q", got, ua)
	}

	p, err := ParseProduct("dhid/1.2.0 (nested (comment) ok)")
	if err != nil {
		t.Fatalf("ParseProduct failed: %v", err)
	}
	if p.Token() != "dhid/1.2.0" || len(p.Comments) != 1 || p.Comments[0] != "nested (comment) ok" {
		t.Errorf("ParseProduct = %+v", p)
	}
}

func TestParseProductErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"(leading comment) curl/8",
		"curl/",
		"curl/8 (unterminated",
		"curl/8(x)wget/1",
		"a/b/c",
	} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseProducts(in); !errors.Is(err, ErrMalformedProduct) {
				t.Errorf("ParseProducts(%q) error = %v, want ErrMalformedProduct", in, err)
			}
		})
	}

	if _, err := NewProduct("bad name", ""); !errors.Is(err, ErrMalformedProduct) {
		t.Errorf("NewProduct with a space: got %v", err)
	}
	p, err := NewProduct("dhid", "dev", "linux; amd64")
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	if p.String() != "dhid/dev (linux; amd64)" {
		t.Errorf("String() = %q", p.String())
	}
}
