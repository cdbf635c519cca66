// Package rules provides character classes and grammar predicates for the
// IETF text formats used by HTTP-adjacent value types.
//
// The package is a leaf: it holds no state, and every function is a pure
// predicate or scanner over its input. Parsers in the header and digest
// packages compose these building blocks.
//
// Character classes:
//   - CharMatcher is a 256-bit byte set that composes with Or, And, Negate
//     and Without
//   - predefined matchers cover RFC 5234 core rules (Alpha, Digit, HexDig),
//     RFC 7230 (TChar, QDText, CText, ObsText), RFC 2045 (MIMETokenChar),
//     RFC 3986 (SchemeChar, Unreserved, SubDelims, PChar), RFC 5987
//     (AttrChar) and RFC 5988 (RegRelTypeChar)
//
// Scanners return the index just past the construct they recognise, so
// callers can chain them over a single string:
//
//	end := rules.ScanToken(s, i)
//	if end == i {
//	    // no token at i
//	}
//	end = rules.ScanQuotedString(s, i) // -1 when s[i:] is not a quoted-string
//
// Predicates answer whole-string questions: IsToken, IsMediaType,
// IsRelationType, IsLanguageTag, IsProduct, IsScheme, IsExtValue and so on.
package rules
