package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/dendrascience/dendra-hid/archive"
	"github.com/dendrascience/dendra-hid/digest"
	"github.com/dendrascience/dendra-hid/util"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "DHID_CONFIG"

var ErrInvalid = errors.New("config: invalid value")

// Color selects when output is colored.
type Color int

const (
	ColorAuto Color = iota
	ColorAlways
	ColorNever
)

var Colors = util.NewEnumRegistry[Color]("auto", "always", "never")

func (c Color) String() string { return Colors.Name(c) }

func (c Color) MarshalYAML() (any, error) { return c.String(), nil }

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	v, err := Colors.Parse(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = v
	return nil
}

// Units wraps util.UnitSystem for YAML.
type Units util.UnitSystem

func (u Units) System() util.UnitSystem { return util.UnitSystem(u) }

func (u Units) MarshalYAML() (any, error) { return u.System().String(), nil }

func (u *Units) UnmarshalYAML(n *yaml.Node) error {
	v, err := util.UnitSystems.Parse(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*u = Units(v)
	return nil
}

// FormatSet is the set of container formats dhid descends into, written as
// a list of format names.
type FormatSet util.EnumSet[archive.Format]

func (s FormatSet) Set() util.EnumSet[archive.Format] { return util.EnumSet[archive.Format](s) }

func (s FormatSet) MarshalYAML() (any, error) { return s.Set().Names(archive.Formats), nil }

func (s *FormatSet) UnmarshalYAML(n *yaml.Node) error {
	var names []string
	if err := n.Decode(&names); err != nil {
		return err
	}
	set, err := archive.Formats.ParseSet(names)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*s = FormatSet(set)
	return nil
}

// ByteSize accepts either a plain number of bytes or a string such as
// "64 MiB" or "1.5GB".
type ByteSize uint64

// MarshalYAML writes a unit string when it parses back to the same size
// and the plain byte count otherwise.
func (b ByteSize) MarshalYAML() (any, error) {
	s := util.FormatBytes(uint64(b), util.Binary)
	if v, err := util.ParseBytes(s); err == nil && v == uint64(b) {
		return s, nil
	}
	return uint64(b), nil
}

func (b *ByteSize) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w: byte size must be a scalar", n.Line, ErrInvalid)
	}
	v, err := util.ParseBytes(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*b = ByteSize(v)
	return nil
}

// Config holds every dhid setting.
type Config struct {
	// LogLevel is a slog level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	Color Color `yaml:"color"`

	// Units selects how byte counts are printed.
	Units Units `yaml:"units"`

	Formats FormatSet `yaml:"formats"`

	// MaxNestedSize bounds the size of a container buffered from inside
	// another container.
	MaxNestedSize ByteSize `yaml:"max_nested_size"`

	// Digest is the algorithm used when building indexes.
	Digest digest.Algorithm `yaml:"digest"`

	// Workers is the number of files hashed at once. Zero means one per CPU.
	Workers int `yaml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		Color:         ColorAuto,
		Units:         Units(util.Binary),
		Formats:       FormatSet(archive.AllFormats),
		MaxNestedSize: archive.DefaultMaxNestedSize,
		Digest:        digest.Canonical,
	}
}

// Path returns flag when set, otherwise the value of DHID_CONFIG.
func Path(flag string) string {
	return util.FirstNonEmpty(flag, os.Getenv(EnvVar))
}

// Load reads the file at path over the defaults. An empty path returns
// Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := cfg.Decode(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML from r onto c. Unknown keys are errors.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Write encodes c as YAML.
func (c *Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate reports every bad value at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if !Colors.Valid(c.Color) {
		errs = append(errs, fmt.Errorf("%w: color %d", ErrInvalid, int(c.Color)))
	}
	if !util.UnitSystems.Valid(c.Units.System()) {
		errs = append(errs, fmt.Errorf("%w: units %d", ErrInvalid, int(c.Units)))
	}
	if c.Formats.Set().Len() == 0 {
		errs = append(errs, fmt.Errorf("%w: formats is empty", ErrInvalid))
	}
	if c.MaxNestedSize == 0 {
		errs = append(errs, fmt.Errorf("%w: max_nested_size must be positive", ErrInvalid))
	}
	if !c.Digest.Available() {
		errs = append(errs, fmt.Errorf("%w: digest %q", ErrInvalid, c.Digest))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers %d", ErrInvalid, c.Workers))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}

// Logger returns a text logger writing to w. Verbose forces debug output.
func (c *Config) Logger(w io.Writer, verbose bool) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// UseColor reports whether output written to w should be colored. Auto
// colors terminals unless NO_COLOR is set.
func (c *Config) UseColor(w io.Writer) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ReaderOptions returns archive reader options for c.
func (c *Config) ReaderOptions(log *slog.Logger) archive.Options {
	return archive.Options{
		Formats:       c.Formats.Set(),
		MaxNestedSize: int64(c.MaxNestedSize),
		Logger:        log,
	}
}

func (c *Config) BuildOptions() archive.BuildOptions {
	workers := c.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return archive.BuildOptions{Algorithm: c.Digest, Workers: workers}
}
