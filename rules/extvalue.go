package rules

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var mimeCharsetChar = AlphaNum.Or(AnyOf("!#$%&+-^_`{}~"))

// IsExtValue reports whether s is an RFC 5987 ext-value:
// charset "'" [ language ] "'" value-chars.
func IsExtValue(s string) bool {
	_, _, _, ok := splitExtValue(s)
	return ok
}

// DecodeExtValue decodes an RFC 5987 ext-value and returns the text and
// its language tag (empty when absent). UTF-8 and ISO-8859-1 are the
// supported charsets.
func DecodeExtValue(s string) (value, language string, err error) {
	charset, language, encoded, ok := splitExtValue(s)
	if !ok {
		return "", "", ErrMalformedExtValue
	}
	raw, ok := percentDecode(encoded)
	if !ok {
		return "", "", ErrMalformedExtValue
	}
	switch strings.ToUpper(charset) {
	case "UTF-8":
		if !utf8.ValidString(raw) {
			return "", "", ErrMalformedExtValue
		}
		return raw, language, nil
	case "ISO-8859-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().String(raw)
		if err != nil {
			return "", "", err
		}
		return decoded, language, nil
	default:
		return "", "", ErrUnsupportedCharset
	}
}

// EncodeExtValue renders value as a UTF-8 ext-value.
func EncodeExtValue(value, language string) string {
	var b strings.Builder
	b.WriteString("UTF-8'")
	b.WriteString(language)
	b.WriteByte('\'')
	const hexDigits = "0123456789ABCDEF"
	for i := 0; i < len(value); i++ {
		c := value[i]
		if AttrChar.Matches(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xf])
	}
	return b.String()
}

func splitExtValue(s string) (charset, language, encoded string, ok bool) {
	first := strings.IndexByte(s, '\'')
	if first <= 0 {
		return "", "", "", false
	}
	second := strings.IndexByte(s[first+1:], '\'')
	if second < 0 {
		return "", "", "", false
	}
	second += first + 1
	charset = s[:first]
	language = s[first+1 : second]
	encoded = s[second+1:]
	if !mimeCharsetChar.MatchesAll(charset) {
		return "", "", "", false
	}
	if language != "" && !IsLanguageTag(language) {
		return "", "", "", false
	}
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c == '%' {
			if i+2 >= len(encoded) || !HexDig.Matches(encoded[i+1]) || !HexDig.Matches(encoded[i+2]) {
				return "", "", "", false
			}
			i += 2
			continue
		}
		if !AttrChar.Matches(c) {
			return "", "", "", false
		}
	}
	return charset, language, encoded, true
}

func percentDecode(s string) (string, bool) {
	if strings.IndexByte(s, '%') < 0 {
		return s, true
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b = append(b, s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", false
		}
		b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
		i += 2
	}
	return string(b), true
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
