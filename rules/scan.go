package rules

import (
	"strings"
)

// SkipOWS returns the index of the first byte at or after start that is not
// optional whitespace (SP or HTAB).
func SkipOWS(s string, start int) int {
	return WSP.Span(s, start)
}

// ScanToken returns the end of the run of token characters starting at
// start. It returns start when there is no token there.
func ScanToken(s string, start int) int {
	return TChar.Span(s, start)
}

// ScanQuotedString returns the index just past the closing quote of the
// quoted-string that begins at start, or -1 if s[start:] does not begin
// with a well-formed quoted-string.
func ScanQuotedString(s string, start int) int {
	if start >= len(s) || s[start] != '"' {
		return -1
	}
	i := start + 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == '"':
			return i + 1
		case c == '\\':
			if i+1 >= len(s) || !QuotedPairChar.Matches(s[i+1]) {
				return -1
			}
			i += 2
		case QDText.Matches(c):
			i++
		default:
			return -1
		}
	}
	return -1
}

// ScanComment returns the index just past the closing parenthesis of the
// comment that begins at start, or -1 if there is none. Comments nest.
func ScanComment(s string, start int) int {
	if start >= len(s) || s[start] != '(' {
		return -1
	}
	depth := 0
	i := start
	for i < len(s) {
		c := s[i]
		switch {
		case c == '(':
			depth++
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				return i
			}
		case c == '\\':
			if i+1 >= len(s) || !QuotedPairChar.Matches(s[i+1]) {
				return -1
			}
			i += 2
		case CText.Matches(c):
			i++
		default:
			return -1
		}
	}
	return -1
}

// Unquote returns the content of a quoted-string with quoted-pairs
// resolved. The whole of q must be a single quoted-string.
func Unquote(q string) (string, error) {
	if ScanQuotedString(q, 0) != len(q) {
		return "", ErrMalformedQuotedString
	}
	return unescape(q[1 : len(q)-1]), nil
}

// CommentText returns the text of a comment without its outer parentheses
// and with quoted-pairs resolved. Nested parentheses are kept.
func CommentText(c string) (string, error) {
	if ScanComment(c, 0) != len(c) {
		return "", ErrMalformedComment
	}
	return unescape(c[1 : len(c)-1]), nil
}

func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Quote wraps s in double quotes, escaping backslashes and quotes.
// Control characters other than HTAB cannot appear in a quoted-string
// and are dropped.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
		case !QDText.Matches(c):
			continue
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// QuoteIfNeeded returns s unchanged when it is a token and Quote(s)
// otherwise.
func QuoteIfNeeded(s string) string {
	if IsToken(s) {
		return s
	}
	return Quote(s)
}
