package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// UnitSystem selects binary (1024-based) or decimal (1000-based) byte
// units.
type UnitSystem int

const (
	Binary UnitSystem = iota
	Decimal
)

// UnitSystems names the unit systems for flags and configuration.
var UnitSystems = NewEnumRegistry[UnitSystem]("binary", "decimal")

func (u UnitSystem) String() string { return UnitSystems.Name(u) }

// Unit is one row of a unit table.
type Unit struct {
	Symbol string
	Bytes  uint64
}

var (
	BinaryUnits = []Unit{
		{"B", 1},
		{"KiB", humanize.KiByte},
		{"MiB", humanize.MiByte},
		{"GiB", humanize.GiByte},
		{"TiB", humanize.TiByte},
		{"PiB", humanize.PiByte},
		{"EiB", humanize.EiByte},
	}
	DecimalUnits = []Unit{
		{"B", 1},
		{"kB", humanize.KByte},
		{"MB", humanize.MByte},
		{"GB", humanize.GByte},
		{"TB", humanize.TByte},
		{"PB", humanize.PByte},
		{"EB", humanize.EByte},
	}
)

// Units returns the unit table of u.
func (u UnitSystem) Units() []Unit {
	if u == Decimal {
		return DecimalUnits
	}
	return BinaryUnits
}

// LookupUnit finds a unit by symbol in either table, ignoring case.
func LookupUnit(symbol string) (Unit, error) {
	for _, table := range [][]Unit{BinaryUnits, DecimalUnits} {
		for _, u := range table {
			if strings.EqualFold(u.Symbol, symbol) {
				return u, nil
			}
		}
	}
	return Unit{}, fmt.Errorf("%w: %q", ErrUnknownUnit, symbol)
}

// FormatBytes renders n in the largest fitting unit of system, such as
// "1.5 KiB" or "15 kB". Byte counts under ten are written whole, values
// below ten units keep one decimal place and larger ones are rounded to a
// whole number, so the result may not parse back to n.
func FormatBytes(n uint64, system UnitSystem) string {
	if system == Decimal {
		return humanize.Bytes(n)
	}
	return humanize.IBytes(n)
}

// ParseBytes parses a size such as "42", "1.5 KiB", "10MB" or "2 gb".
// Binary and decimal units are both accepted.
func ParseBytes(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}

// ConvertBytes expresses n in unit.
func ConvertBytes(n uint64, unit Unit) float64 {
	return float64(n) / float64(unit.Bytes)
}

// ByteCount formats as a human-readable size. %s and %v use binary units,
// %#s and %#v decimal ones, and %d prints the raw number. Width and the
// '-' flag pad the result.
type ByteCount uint64

func (b ByteCount) Format(f fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		system := Binary
		if f.Flag('#') {
			system = Decimal
		}
		text := FormatBytes(uint64(b), system)
		if w, ok := f.Width(); ok {
			if f.Flag('-') {
				text = PadEnd(text, w, ' ')
			} else {
				text = PadStart(text, w, ' ')
			}
		}
		io.WriteString(f, text)
	case 'd':
		fmt.Fprintf(f, fmt.FormatString(f, verb), uint64(b))
	default:
		fmt.Fprintf(f, "%%!%c(util.ByteCount=%d)", verb, uint64(b))
	}
}
