package rules

import "strings"

// IsToken reports whether s is a non-empty RFC 7230 token.
func IsToken(s string) bool {
	return s != "" && TChar.MatchesAll(s)
}

// IsMIMEToken reports whether s is a non-empty RFC 2045 token.
func IsMIMEToken(s string) bool {
	return s != "" && MIMETokenChar.MatchesAll(s)
}

func IsQuotedString(s string) bool {
	return s != "" && ScanQuotedString(s, 0) == len(s)
}

func IsComment(s string) bool {
	return s != "" && ScanComment(s, 0) == len(s)
}

// IsMediaType reports whether s is a bare "type/subtype" pair of tokens,
// without parameters.
func IsMediaType(s string) bool {
	end := ScanToken(s, 0)
	if end == 0 || end >= len(s) || s[end] != '/' {
		return false
	}
	return IsToken(s[end+1:])
}

// IsScheme reports whether s is an RFC 3986 URI scheme.
func IsScheme(s string) bool {
	return s != "" && Alpha.Matches(s[0]) && SchemeChar.MatchesAll(s[1:])
}

var uriChar = VChar.Without("\"<>\\^`{|}")

// IsRelationType reports whether s is an RFC 5988 relation type: either a
// registered type (lower-case letter followed by letters, digits, dots and
// dashes) or an extension type written as an absolute URI.
func IsRelationType(s string) bool {
	if s == "" {
		return false
	}
	if LowAlpha.Matches(s[0]) && RegRelTypeChar.MatchesAll(s[1:]) {
		return true
	}
	colon := strings.IndexByte(s, ':')
	if colon <= 0 || !IsScheme(s[:colon]) {
		return false
	}
	rest := s[colon+1:]
	return rest != "" && uriChar.MatchesAll(rest)
}

// IsProduct reports whether s is an RFC 7231 product: token ["/" token].
func IsProduct(s string) bool {
	end := ScanToken(s, 0)
	if end == 0 {
		return false
	}
	if end == len(s) {
		return true
	}
	return s[end] == '/' && IsToken(s[end+1:])
}

// IsHex reports whether s is a non-empty run of hexadecimal digits.
func IsHex(s string) bool {
	return s != "" && HexDig.MatchesAll(s)
}

// IsLowerHex is IsHex restricted to lower-case digits.
func IsLowerHex(s string) bool {
	return s != "" && Digit.Or(InRange('a', 'f')).MatchesAll(s)
}
