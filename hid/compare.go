package hid

import (
	"cmp"
	"slices"
)

// Compare orders identifiers the way a pre-order walk over nested
// containers visits them: level by level, comparing scheme, authority and
// then path segments lexicographically, so a container sorts before the
// entries inside it and a directory before its children. It returns -1, 0
// or +1 and is suitable for slices.SortFunc.
func Compare(a, b HID) int {
	n := min(len(a.schemes), len(b.schemes))
	for i := 0; i < n; i++ {
		if c := cmp.Compare(a.schemes[i], b.schemes[i]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.authorities[i], b.authorities[i]); c != 0 {
			return c
		}
		if i == 0 && a.relative != b.relative {
			if a.relative {
				return 1
			}
			return -1
		}
		if c := slices.Compare(a.segments[i], b.segments[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.schemes), len(b.schemes))
}

// PreOrder sorts hs in place using Compare.
func PreOrder(hs []HID) {
	slices.SortFunc(hs, Compare)
}
