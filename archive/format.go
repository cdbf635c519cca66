package archive

import (
	"path"
	"strings"

	"github.com/dendrascience/dendra-hid/header"
	"github.com/dendrascience/dendra-hid/util"
)

// Format is a container format.
type Format int

const (
	Zip Format = iota
	Tar
	TarGzip
	TarZstd
	TarLZ4
)

// Formats names every format. The names double as HID schemes.
var Formats = util.NewEnumRegistry[Format]("zip", "tar", "tgz", "tzst", "tlz4")

// AllFormats enables every format.
var AllFormats = util.SetOf(Formats.Values()...)

func (f Format) String() string { return Formats.Name(f) }

// Scheme returns the HID scheme for nested levels of this format.
func (f Format) Scheme() string { return Formats.Name(f) }

var contentTypes = map[Format]header.ContentType{
	Zip:     header.MustParseContentType("application/zip"),
	Tar:     header.MustParseContentType("application/x-tar"),
	TarGzip: header.MustParseContentType("application/gzip"),
	TarZstd: header.MustParseContentType("application/zstd"),
	TarLZ4:  header.MustParseContentType("application/x-lz4"),
}

// ContentType returns the media type of a container of this format.
func (f Format) ContentType() header.ContentType {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return header.OctetStream
}

// Compressed reports whether a tar stream of this format is wrapped in a
// compressor.
func (f Format) Compressed() bool {
	return f == TarGzip || f == TarZstd || f == TarLZ4
}

var suffixes = []struct {
	suffix string
	format Format
}{
	{".tar.gz", TarGzip},
	{".tgz", TarGzip},
	{".tar.zst", TarZstd},
	{".tzst", TarZstd},
	{".tar.lz4", TarLZ4},
	{".tlz4", TarLZ4},
	{".tar", Tar},
	{".zip", Zip},
	{".jar", Zip},
	{".war", Zip},
}

// DetectFormat guesses a container format from a file name.
func DetectFormat(name string) (Format, bool) {
	lower := strings.ToLower(path.Base(name))
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) && len(lower) > len(s.suffix) {
			return s.format, true
		}
	}
	return 0, false
}

// FormatForScheme returns the format read for an HID level with the given
// scheme. "jar" reads as zip.
func FormatForScheme(scheme string) (Format, bool) {
	if strings.EqualFold(scheme, "jar") {
		return Zip, true
	}
	f, err := Formats.Parse(scheme)
	if err != nil || strings.TrimSpace(scheme) != scheme {
		return 0, false
	}
	return f, true
}

// schemeFor returns the scheme used when nesting into a container named
// name. Java archives keep the "jar" scheme and its "!/" form.
func schemeFor(name string, f Format) string {
	if f == Zip {
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".jar") || strings.HasSuffix(lower, ".war") {
			return "jar"
		}
	}
	return f.Scheme()
}
