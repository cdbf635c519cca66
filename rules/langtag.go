package rules

import "strings"

// IsLanguageTag reports whether s is a well-formed RFC 5646 language tag.
// Matching is case-insensitive. Private-use tags ("x-...") and the
// irregular "i-..." forms are accepted; the registry itself is not
// consulted.
func IsLanguageTag(s string) bool {
	if s == "" {
		return false
	}
	subtags := strings.Split(s, "-")
	for _, st := range subtags {
		if st == "" || len(st) > 8 || !AlphaNum.MatchesAll(st) {
			return false
		}
	}

	first := strings.ToLower(subtags[0])
	if first == "x" || first == "i" {
		return len(subtags) > 1
	}
	if len(first) < 2 || !Alpha.MatchesAll(first) {
		return false
	}

	i := 1
	n := len(subtags)
	if len(first) <= 3 {
		for k := 0; k < 3 && i < n && len(subtags[i]) == 3 && Alpha.MatchesAll(subtags[i]); k++ {
			i++
		}
	}
	if i < n && len(subtags[i]) == 4 && Alpha.MatchesAll(subtags[i]) {
		i++
	}
	if i < n && isRegion(subtags[i]) {
		i++
	}
	for i < n && isVariant(subtags[i]) {
		i++
	}
	for i < n && len(subtags[i]) == 1 && !strings.EqualFold(subtags[i], "x") {
		i++
		start := i
		for i < n && len(subtags[i]) >= 2 {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < n && strings.EqualFold(subtags[i], "x") {
		if i+1 == n {
			return false
		}
		i = n
	}
	return i == n
}

func isRegion(st string) bool {
	switch len(st) {
	case 2:
		return Alpha.MatchesAll(st)
	case 3:
		return Digit.MatchesAll(st)
	}
	return false
}

func isVariant(st string) bool {
	switch {
	case len(st) >= 5:
		return true
	case len(st) == 4:
		return Digit.Matches(st[0])
	}
	return false
}
