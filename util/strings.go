package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Width returns the number of terminal columns s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// PadStart left-pads s with pad until it is width columns wide. Strings
// already at least that wide are returned unchanged.
func PadStart(s string, width int, pad rune) string {
	fill := padding(s, width, pad)
	if fill == 0 {
		return s
	}
	return strings.Repeat(string(pad), fill) + s
}

// PadEnd right-pads s with pad until it is width columns wide.
func PadEnd(s string, width int, pad rune) string {
	fill := padding(s, width, pad)
	if fill == 0 {
		return s
	}
	return s + strings.Repeat(string(pad), fill)
}

// PadCenter pads both sides of s, putting any odd pad on the right.
func PadCenter(s string, width int, pad rune) string {
	fill := padding(s, width, pad)
	if fill == 0 {
		return s
	}
	left := fill / 2
	p := string(pad)
	return strings.Repeat(p, left) + s + strings.Repeat(p, fill-left)
}

// padding returns how many copies of pad fit in the columns s is short of
// width.
func padding(s string, width int, pad rune) int {
	missing := width - runewidth.StringWidth(s)
	if missing <= 0 {
		return 0
	}
	pw := runewidth.RuneWidth(pad)
	if pw < 1 {
		pw = 1
	}
	return missing / pw
}

// Truncate shortens s to at most width columns, ending it with tail when
// anything was cut.
func Truncate(s string, width int, tail string) string {
	return runewidth.Truncate(s, width, tail)
}

// TruncateMiddle shortens s to at most width columns by cutting runes from
// the middle and inserting ellipsis, which keeps both the start and the
// extension of long file names visible.
func TruncateMiddle(s string, width int, ellipsis string) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	avail := width - runewidth.StringWidth(ellipsis)
	if avail <= 0 {
		return runewidth.Truncate(ellipsis, width, "")
	}
	headWidth := avail - avail/2
	tailWidth := avail / 2

	head := runewidth.Truncate(s, headWidth, "")

	runes := []rune(s)
	start, w := len(runes), 0
	for start > 0 {
		rw := runewidth.RuneWidth(runes[start-1])
		if w+rw > tailWidth {
			break
		}
		w += rw
		start--
	}
	return head + ellipsis + string(runes[start:])
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// FirstNonEmpty returns the first argument that is not "".
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
