// Package util provides small helpers shared by the rest of the module.
//
// Strings:
//   - PadStart, PadEnd and PadCenter pad to a display width, so wide
//     (CJK) runes and zero-width combining marks line up in terminal
//     columns
//   - Truncate and TruncateMiddle shorten to a display width
//
// Byte units:
//   - BinaryUnits (KiB, MiB, ...) and DecimalUnits (kB, MB, ...) tables
//   - FormatBytes and ParseBytes for human-readable sizes
//   - ByteCount, a fmt.Formatter that picks the unit system from the verb
//
// Enums:
//   - EnumRegistry maps the values of a small integer enum to names
//   - EnumSet stores a set of enum values as a bit set
package util
