package hid

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/unicode/norm"
)

const segmentCacheSize = 1000

type normalized struct {
	segments []string
	absolute bool
}

var segmentCache = mustCache(segmentCacheSize)

func mustCache(size int) *lru.Cache[string, normalized] {
	c, err := lru.New[string, normalized](size)
	if err != nil {
		panic(err)
	}
	return c
}

// normalize splits path into NFC segments with "." and ".." resolved.
// Leading ".." segments survive only on relative paths. The returned slice
// is shared through the cache and has no spare capacity, so appending to it
// always copies.
func normalize(path string) ([]string, bool) {
	if n, ok := segmentCache.Get(path); ok {
		return n.segments, n.absolute
	}
	n := normalized{absolute: strings.HasPrefix(path, "/")}
	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			switch {
			case len(out) > 0 && out[len(out)-1] != "..":
				out = out[:len(out)-1]
			case !n.absolute:
				out = append(out, "..")
			}
			continue
		}
		out = append(out, norm.NFC.String(seg))
	}
	n.segments = clip(out)
	segmentCache.Add(path, n)
	return n.segments, n.absolute
}

// clip drops spare capacity so a later append cannot write into memory
// another HID still references.
func clip(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s[:len(s):len(s)]
}

func validSegment(seg string) bool {
	return seg != "" && seg != "." && seg != ".." && !strings.ContainsRune(seg, '/')
}
