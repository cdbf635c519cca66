package rules

// CharMatcher is a set of bytes. The zero value matches nothing.
type CharMatcher struct {
	bits [4]uint64
}

// Is returns a matcher for a single byte.
func Is(c byte) CharMatcher {
	var m CharMatcher
	m.set(c)
	return m
}

// AnyOf returns a matcher for every byte in chars.
func AnyOf(chars string) CharMatcher {
	var m CharMatcher
	for i := 0; i < len(chars); i++ {
		m.set(chars[i])
	}
	return m
}

// InRange returns a matcher for lo through hi inclusive.
func InRange(lo, hi byte) CharMatcher {
	var m CharMatcher
	for c := int(lo); c <= int(hi); c++ {
		m.set(byte(c))
	}
	return m
}

func (m *CharMatcher) set(c byte) {
	m.bits[c>>6] |= 1 << (c & 63)
}

// Matches reports whether c is in the set.
func (m CharMatcher) Matches(c byte) bool {
	return m.bits[c>>6]&(1<<(c&63)) != 0
}

func (m CharMatcher) Or(others ...CharMatcher) CharMatcher {
	for _, o := range others {
		for i := range m.bits {
			m.bits[i] |= o.bits[i]
		}
	}
	return m
}

func (m CharMatcher) And(others ...CharMatcher) CharMatcher {
	for _, o := range others {
		for i := range m.bits {
			m.bits[i] &= o.bits[i]
		}
	}
	return m
}

func (m CharMatcher) Negate() CharMatcher {
	for i := range m.bits {
		m.bits[i] = ^m.bits[i]
	}
	return m
}

// Without removes every byte in chars from the set.
func (m CharMatcher) Without(chars string) CharMatcher {
	return m.And(AnyOf(chars).Negate())
}

// MatchesAll reports whether every byte of s is in the set. It is true for
// the empty string; callers that need at least one byte check length first.
func (m CharMatcher) MatchesAll(s string) bool {
	return m.Span(s, 0) == len(s)
}

// MatchesAny reports whether at least one byte of s is in the set.
func (m CharMatcher) MatchesAny(s string) bool {
	for i := 0; i < len(s); i++ {
		if m.Matches(s[i]) {
			return true
		}
	}
	return false
}

// Span returns the index of the first byte at or after start that is not in
// the set, or len(s) if there is none.
func (m CharMatcher) Span(s string, start int) int {
	i := start
	for i < len(s) && m.Matches(s[i]) {
		i++
	}
	return i
}
