package rules

import (
	"errors"
	"testing"
)

func TestCharMatcher(t *testing.T) {
	abc := AnyOf("abc")
	if !abc.Matches('b') {
		t.Errorf("AnyOf(abc) should match 'b'")
	}
	if abc.Matches('d') {
		t.Errorf("AnyOf(abc) should not match 'd'")
	}
	if abc.Negate().Matches('a') || !abc.Negate().Matches('z') {
		t.Errorf("Negate did not invert the set")
	}
	if abc.Without("b").Matches('b') {
		t.Errorf("Without(b) still matches 'b'")
	}
	if !abc.Or(Is(0xff)).Matches(0xff) {
		t.Errorf("Or did not add 0xff")
	}
	if got := abc.Span("abcabcd", 0); got != 6 {
		t.Errorf("Span = %d, want 6", got)
	}
	if got := abc.Span("xab", 1); got != 3 {
		t.Errorf("Span from 1 = %d, want 3", got)
	}
	if !abc.MatchesAll("") {
		t.Errorf("MatchesAll should be true for the empty string")
	}
	if !abc.MatchesAny("xyzc") || abc.MatchesAny("xyz") {
		t.Errorf("MatchesAny gave the wrong answer")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"token", IsToken, "gzip", true},
		{"token with symbols", IsToken, "x-foo.bar~1", true},
		{"token with space", IsToken, "a b", false},
		{"empty token", IsToken, "", false},
		{"mime token", IsMIMEToken, "plain", true},
		{"mime token with slash", IsMIMEToken, "a/b", false},
		{"quoted string", IsQuotedString, `"a \"b\""`, true},
		{"unterminated quoted string", IsQuotedString, `"abc`, false},
		{"trailing text after quote", IsQuotedString, `"abc"d`, false},
		{"comment", IsComment, "(a (nested) comment)", true},
		{"unbalanced comment", IsComment, "(a (b)", false},
		{"media type", IsMediaType, "text/plain", true},
		{"media type without subtype", IsMediaType, "text/", false},
		{"media type without slash", IsMediaType, "text", false},
		{"scheme", IsScheme, "svn+ssh", true},
		{"scheme starting with digit", IsScheme, "1http", false},
		{"registered relation", IsRelationType, "next", true},
		{"registered relation with dot", IsRelationType, "alternate.v2", true},
		{"extension relation", IsRelationType, "http://example.com/rels/item", true},
		{"capitalised relation", IsRelationType, "Next", false},
		{"relation with space", IsRelationType, "a b", false},
		{"product", IsProduct, "curl/8.5.0", true},
		{"product without version", IsProduct, "curl", true},
		{"product with empty version", IsProduct, "curl/", false},
		{"product without name", IsProduct, "/1.0", false},
		{"hex", IsHex, "DEADbeef01", true},
		{"not hex", IsHex, "xyz", false},
		{"lower hex rejects upper", IsLowerHex, "ABCD", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsLanguageTag(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"en", true},
		{"en-US", true},
		{"zh-Hant-TW", true},
		{"sl-rozaj-biske", true},
		{"de-CH-1901", true},
		{"zh-yue-HK", true},
		{"es-419", true},
		{"en-a-bbb-x-private", true},
		{"x-whatever", true},
		{"i-klingon", true},
		{"", false},
		{"e", false},
		{"123", false},
		{"en-", false},
		{"en--US", false},
		{"en-a", false},
		{"en-x", false},
		{"toolongtag", false},
		{"en_US", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := IsLanguageTag(tt.tag); got != tt.want {
				t.Errorf("IsLanguageTag(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestScanners(t *testing.T) {
	if got := ScanQuotedString(`"a\"b" rest`, 0); got != 6 {
		t.Errorf("ScanQuotedString = %d, want 6", got)
	}
	if got := ScanQuotedString(`x"a"`, 0); got != -1 {
		t.Errorf("ScanQuotedString on non-quote = %d, want -1", got)
	}
	if got := ScanComment("(a (b) c)x", 0); got != 9 {
		t.Errorf("ScanComment = %d, want 9", got)
	}
	if got := ScanComment("(a", 0); got != -1 {
		t.Errorf("ScanComment on unterminated comment = %d, want -1", got)
	}
	if got := SkipOWS("a \t b", 1); got != 4 {
		t.Errorf("SkipOWS = %d, want 4", got)
	}
	if got := ScanToken("foo;bar", 0); got != 3 {
		t.Errorf("ScanToken = %d, want 3", got)
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", `with "quotes"`, `back\slash`} {
		got, err := Unquote(Quote(s))
		if err != nil {
			t.Errorf("Unquote(Quote(%q)) failed: %v", s, err)
			continue
		}
		if got != s {
			t.Errorf("Unquote(Quote(%q)) = %q", s, got)
		}
	}

	if got := QuoteIfNeeded("abc"); got != "abc" {
		t.Errorf("QuoteIfNeeded(abc) = %q", got)
	}
	if got := QuoteIfNeeded("a b"); got != `"a b"` {
		t.Errorf("QuoteIfNeeded(a b) = %q", got)
	}
	if _, err := Unquote(`"abc`); !errors.Is(err, ErrMalformedQuotedString) {
		t.Errorf("Unquote of unterminated string: got %v", err)
	}
}

func TestQuoteDropsControls(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\nb", `"ab"`},
		{"a\r\n\x00b\x7f", `"ab"`},
		{"tab\there", "\"tab\there\""},
		{"caf\xc3\xa9", "\"caf\xc3\xa9\""},
	}
	for _, tt := range tests {
		got := QuoteIfNeeded(tt.in)
		if got != tt.want {
			t.Errorf("QuoteIfNeeded(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !IsQuotedString(got) {
			t.Errorf("QuoteIfNeeded(%q) = %q is not a quoted-string", tt.in, got)
		}
	}
}

func TestCommentText(t *testing.T) {
	got, err := CommentText(`(hi \(there\) (nested))`)
	if err != nil {
		t.Fatalf("CommentText failed: %v", err)
	}
	if want := "hi (there) (nested)"; got != want {
		t.Errorf("CommentText = %q, want %q", got, want)
	}
	if _, err := CommentText("(open"); !errors.Is(err, ErrMalformedComment) {
		t.Errorf("CommentText of unterminated comment: got %v", err)
	}
}

func TestDecodeExtValue(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		value    string
		language string
		err      error
	}{
		{"utf-8", "UTF-8''%e2%82%ac%20rates", "€ rates", "", nil},
		{"latin-1 with language", "iso-8859-1'en'%A3%20rates", "£ rates", "en", nil},
		{"plain value", "utf-8'de'Gr%C3%BC%C3%9Fe", "Grüße", "de", nil},
		{"missing second quote", "UTF-8'abc", "", "", ErrMalformedExtValue},
		{"missing charset", "''abc", "", "", ErrMalformedExtValue},
		{"bad value char", "UTF-8''a b", "", "", ErrMalformedExtValue},
		{"truncated escape", "UTF-8''a%2", "", "", ErrMalformedExtValue},
		{"invalid utf-8", "UTF-8''%ff", "", "", ErrMalformedExtValue},
		{"unknown charset", "koi8-r''abc", "", "", ErrUnsupportedCharset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, lang, err := DecodeExtValue(tt.in)
			if !errors.Is(err, tt.err) {
				t.Fatalf("DecodeExtValue(%q) error = %v, want %v", tt.in, err, tt.err)
			}
			if value != tt.value || lang != tt.language {
				t.Errorf("DecodeExtValue(%q) = (%q, %q), want (%q, %q)", tt.in, value, lang, tt.value, tt.language)
			}
			if err == nil && !IsExtValue(tt.in) {
				t.Errorf("IsExtValue(%q) = false for a decodable value", tt.in)
			}
		})
	}
}

func TestEncodeExtValue(t *testing.T) {
	enc := EncodeExtValue("€ rates", "en")
	if enc != "UTF-8'en'%E2%82%AC%20rates" {
		t.Errorf("EncodeExtValue = %q", enc)
	}
	got, lang, err := DecodeExtValue(enc)
	if err != nil || got != "€ rates" || lang != "en" {
		t.Errorf("DecodeExtValue(EncodeExtValue) = (%q, %q, %v)", got, lang, err)
	}
}
