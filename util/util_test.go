package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPadding(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string, int, rune) string
		in    string
		width int
		pad   rune
		want  string
	}{
		{"start", PadStart, "7", 3, '0', "007"},
		{"end", PadEnd, "ab", 3, '.', "ab."},
		{"center even", PadCenter, "ab", 4, '-', "-ab-"},
		{"center odd", PadCenter, "a", 4, '-', "-a--"},
		{"already wide", PadStart, "abcdef", 3, ' ', "abcdef"},
		{"wide runes", PadEnd, "日本", 5, '_', "日本_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in, tt.width, tt.pad); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("archive-contents.tar.gz", 10, "…"); got != "archive-c…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 10, "…"); got != "short" {
		t.Errorf("Truncate of short string = %q", got)
	}
	if got := TruncateMiddle("archive-contents.tar.gz", 11, "…"); got != "archi…ar.gz" {
		t.Errorf("TruncateMiddle = %q", got)
	}
	if got := Width(TruncateMiddle("日本語のファイル名.zip", 12, "...")); got > 12 {
		t.Errorf("TruncateMiddle exceeded width: %d", got)
	}
	if got := TruncateMiddle("abc", 3, "..."); got != "abc" {
		t.Errorf("TruncateMiddle of fitting string = %q", got)
	}
}

func TestBlankAndFirst(t *testing.T) {
	if !IsBlank(" \t\n") || IsBlank(" x ") {
		t.Errorf("IsBlank gave the wrong answer")
	}
	if got := FirstNonEmpty("", "", "b", "c"); got != "b" {
		t.Errorf("FirstNonEmpty = %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Errorf("FirstNonEmpty() = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n      uint64
		system UnitSystem
		want   string
	}{
		{0, Binary, "0 B"},
		{9, Decimal, "9 B"},
		{1536, Binary, "1.5 KiB"},
		{1500, Decimal, "1.5 kB"},
		{5 * 1024 * 1024, Binary, "5.0 MiB"},
		{15000, Decimal, "15 kB"},
		{1000001, Binary, "977 KiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatBytes(tt.n, tt.system); got != tt.want {
				t.Errorf("FormatBytes(%d, %s) = %q, want %q", tt.n, tt.system, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"42", 42},
		{"1.5 KiB", 1536},
		{"10MB", 10_000_000},
		{"2 gib", 2 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBytes(tt.in)
			if err != nil {
				t.Fatalf("ParseBytes failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseBytes("lots"); err == nil {
		t.Errorf("ParseBytes(lots) should fail")
	}
}

func TestConvertBytes(t *testing.T) {
	u, err := LookupUnit("mib")
	if err != nil {
		t.Fatalf("LookupUnit failed: %v", err)
	}
	if got := ConvertBytes(3*1024*1024, u); got != 3 {
		t.Errorf("ConvertBytes = %v, want 3", got)
	}
	if _, err := LookupUnit("furlong"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("LookupUnit(furlong) = %v", err)
	}
	if len(Decimal.Units()) != len(BinaryUnits) {
		t.Errorf("unit tables differ in length")
	}
}

func TestByteCountFormat(t *testing.T) {
	b := ByteCount(1536)
	tests := []struct {
		format string
		want   string
	}{
		{"%s", "1.5 KiB"},
		{"%v", "1.5 KiB"},
		{"%#s", "1.5 kB"},
		{"%d", "1536"},
		{"%6d", "  1536"},
		{"%9s", "  1.5 KiB"},
		{"%-9s|", "1.5 KiB  |"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := fmt.Sprintf(tt.format, b); got != tt.want {
				t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

type color int

const (
	red color = iota
	green
	blue
)

var colors = NewEnumRegistry[color]("red", "green", "blue")

func TestEnumRegistry(t *testing.T) {
	if colors.Name(green) != "green" {
		t.Errorf("Name(green) = %q", colors.Name(green))
	}
	if colors.Name(color(9)) != "Enum(9)" {
		t.Errorf("Name(9) = %q", colors.Name(color(9)))
	}
	c, err := colors.Parse(" BLUE ")
	if err != nil || c != blue {
		t.Errorf("Parse(BLUE) = %v, %v", c, err)
	}
	if _, err := colors.Parse("mauve"); !errors.Is(err, ErrUnknownEnumName) {
		t.Errorf("Parse(mauve) = %v", err)
	}
	if diff := cmp.Diff([]color{red, green, blue}, colors.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if got, err := UnitSystems.Parse("decimal"); err != nil || got != Decimal {
		t.Errorf("UnitSystems.Parse(decimal) = %v, %v", got, err)
	}
}

func TestEnumSet(t *testing.T) {
	s := SetOf(red, blue)
	if !s.Has(red) || s.Has(green) || !s.Has(blue) {
		t.Errorf("Has gave the wrong answer for %b", s.Bits())
	}
	if s.Bits() != 0b101 {
		t.Errorf("Bits() = %b, want 101", s.Bits())
	}
	if diff := cmp.Diff([]string{"red", "blue"}, s.Names(colors)); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	s = s.Remove(red)
	if s.Len() != 1 || s.Has(red) {
		t.Errorf("Remove(red) left %v", s.Values())
	}
	if FromBits[color](s.Bits()) != s {
		t.Errorf("FromBits(Bits()) changed the set")
	}
	if _, err := s.Add(color(64)); !errors.Is(err, ErrEnumOutOfRange) {
		t.Errorf("Add(64) = %v", err)
	}

	parsed, err := colors.ParseSet([]string{"green", "red", "green"})
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}
	if diff := cmp.Diff([]color{red, green}, parsed.Values()); diff != "" {
		t.Errorf("ParseSet mismatch (-want +got):\n%s", diff)
	}
}
