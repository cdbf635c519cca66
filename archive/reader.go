package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dendrascience/dendra-hid/hid"
	"github.com/dendrascience/dendra-hid/util"
)

const (
	DefaultMaxNestedSize = 64 << 20
	DefaultCacheSize     = 64
)

// Options configures a Reader. The zero value enables every format with
// the default limits and discards log output.
type Options struct {
	// Formats lists the container formats to descend into. Files of other
	// formats are plain files. Zero means AllFormats.
	Formats util.EnumSet[Format]
	// MaxNestedSize bounds the size of a container buffered from inside
	// another container.
	MaxNestedSize int64
	// CacheSize is the number of opened containers kept.
	CacheSize int
	Logger    *slog.Logger
}

// Entry describes a file, directory or container addressed by an HID.
type Entry struct {
	ID       hid.HID
	Size     int64
	Modified time.Time
	Dir      bool
	// Container is set for files whose name maps to an enabled format.
	Container bool
	Format    Format
}

// Name returns the last path segment of the entry.
func (e Entry) Name() string { return e.ID.Name() }

// Nested returns the HID of the root inside the container e names.
func (e Entry) Nested() (hid.HID, error) {
	if !e.Container {
		return hid.HID{}, fmt.Errorf("%w: %s", ErrNotContainer, e.ID)
	}
	return e.ID.Nest(schemeFor(e.Name(), e.Format), "", "/")
}

// Reader resolves HIDs to filesystem entries and container members. It is
// safe for concurrent use.
type Reader struct {
	formats   util.EnumSet[Format]
	maxNested int64
	log       *slog.Logger

	cache *lru.Cache[string, *container]
	loads singleflight.Group
}

func NewReader(opts Options) *Reader {
	r := &Reader{
		formats:   opts.Formats,
		maxNested: opts.MaxNestedSize,
		log:       opts.Logger,
	}
	if r.formats == 0 {
		r.formats = AllFormats
	}
	if r.maxNested <= 0 {
		r.maxNested = DefaultMaxNestedSize
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.NewWithEvict(size, func(_ string, c *container) { c.evict() })
	if err != nil {
		panic(err)
	}
	r.cache = cache
	return r
}

// Close releases every cached container. Readers already returned by Open
// stay usable until closed.
func (r *Reader) Close() error {
	r.cache.Purge()
	return nil
}

// Enabled reports whether r descends into containers of format f.
func (r *Reader) Enabled(f Format) bool { return r.formats.Has(f) }

// location is a resolved HID: a filesystem path, or a member of c.
type location struct {
	path string
	c    *container
	name string
}

func fsPath(id hid.HID) (string, error) {
	switch id.Scheme() {
	case "", "file":
	default:
		return "", fmt.Errorf("%w: %q at %s", ErrUnsupportedScheme, id.Scheme(), id)
	}
	if a := id.Authority(); a != "" && !strings.EqualFold(a, "localhost") {
		return "", fmt.Errorf("%w: remote authority %q", ErrUnsupportedScheme, a)
	}
	return filepath.FromSlash(id.Path()), nil
}

func (r *Reader) locate(ctx context.Context, id hid.HID) (location, error) {
	if id.IsZero() {
		return location{}, hid.ErrZero
	}
	if err := ctx.Err(); err != nil {
		return location{}, err
	}
	if id.Nesting() == 0 {
		p, err := fsPath(id)
		return location{path: p}, err
	}
	c, err := r.container(ctx, id.Root())
	if err != nil {
		return location{}, err
	}
	return location{c: c, name: strings.Join(id.Segments(), "/")}, nil
}

// container returns the loaded container whose root is root.
func (r *Reader) container(ctx context.Context, root hid.HID) (*container, error) {
	format, ok := FormatForScheme(root.Scheme())
	if !ok {
		return nil, fmt.Errorf("%w: %q at %s", ErrUnsupportedScheme, root.Scheme(), root)
	}
	if !r.formats.Has(format) {
		return nil, fmt.Errorf("%w: %s", ErrFormatDisabled, format)
	}
	key := root.String()
	if c, ok := r.cache.Get(key); ok {
		return c, nil
	}
	v, err, _ := r.loads.Do(key, func() (any, error) {
		if c, ok := r.cache.Get(key); ok {
			return c, nil
		}
		c, err := r.load(ctx, root, format)
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, c)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*container), nil
}

func (r *Reader) load(ctx context.Context, root hid.HID, format Format) (*container, error) {
	outer, _ := root.TryContainer()
	loc, err := r.locate(ctx, outer)
	if err != nil {
		return nil, err
	}
	if loc.c == nil {
		r.log.Debug("opening container", "path", loc.path, "format", format.String())
		c, err := openFile(loc.path, format, r.log)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return c, err
	}

	m, ok := loc.c.members[loc.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, outer)
	}
	if m.dir {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotContainer, outer)
	}
	data, err := loc.c.readAll(m, r.maxNested)
	if err != nil {
		return nil, err
	}
	r.log.Debug("buffered nested container", "hid", outer.String(), "format", format.String(), "size", len(data))
	c, err := openBytes(data, format, r.log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", outer, err)
	}
	return c, nil
}

func (r *Reader) entry(id hid.HID, size int64, modified time.Time, dir bool) Entry {
	e := Entry{ID: id, Size: size, Modified: modified, Dir: dir}
	if !dir {
		if f, ok := DetectFormat(id.Name()); ok && r.formats.Has(f) {
			e.Container, e.Format = true, f
		}
	}
	return e
}

func notFound(id hid.HID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Stat describes the entry id names.
func (r *Reader) Stat(ctx context.Context, id hid.HID) (Entry, error) {
	loc, err := r.locate(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if loc.c == nil {
		info, err := os.Stat(loc.path)
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		if err != nil {
			return Entry{}, err
		}
		return r.entry(id, info.Size(), info.ModTime(), info.IsDir()), nil
	}
	m, ok := loc.c.members[loc.name]
	if !ok {
		return Entry{}, notFound(id)
	}
	return r.entry(id, m.size, m.modified, m.dir), nil
}

// Open returns the content of the file id names.
func (r *Reader) Open(ctx context.Context, id hid.HID) (io.ReadCloser, error) {
	rc, err := r.open(ctx, id)
	if errors.Is(err, ErrClosed) {
		// The container was evicted between lookup and read; the retry
		// loads it again.
		rc, err = r.open(ctx, id)
	}
	return rc, err
}

func (r *Reader) open(ctx context.Context, id hid.HID) (io.ReadCloser, error) {
	loc, err := r.locate(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc.c == nil {
		f, err := os.Open(loc.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		if err != nil {
			return nil, err
		}
		info, err := f.Stat()
		if err == nil && info.IsDir() {
			err = fmt.Errorf("%w: %s", ErrIsDir, id)
		}
		if err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}
	m, ok := loc.c.members[loc.name]
	if !ok {
		return nil, notFound(id)
	}
	if m.dir {
		return nil, fmt.Errorf("%w: %s", ErrIsDir, id)
	}
	return loc.c.open(m)
}

// List returns the entries directly below id in name order. Listing a
// container lists the root inside it.
func (r *Reader) List(ctx context.Context, id hid.HID) ([]Entry, error) {
	e, err := r.Stat(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Container {
		nested, err := e.Nested()
		if err != nil {
			return nil, err
		}
		return r.children(ctx, nested)
	}
	if !e.Dir {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, id)
	}
	return r.children(ctx, id)
}

func (r *Reader) children(ctx context.Context, dir hid.HID) ([]Entry, error) {
	loc, err := r.locate(ctx, dir)
	if err != nil {
		return nil, err
	}

	var out []Entry
	if loc.c == nil {
		dirents, err := os.ReadDir(loc.path)
		if err != nil {
			return nil, err
		}
		out = make([]Entry, 0, len(dirents))
		for _, d := range dirents {
			info, err := d.Info()
			if err != nil {
				r.log.Warn("skipping unreadable entry", "dir", loc.path, "name", d.Name(), "error", err)
				continue
			}
			if info.Mode()&fs.ModeSymlink != 0 {
				r.log.Debug("skipping symlink", "dir", loc.path, "name", d.Name())
				continue
			}
			id, err := dir.Child(d.Name())
			if err != nil {
				r.log.Warn("skipping entry", "dir", loc.path, "name", d.Name(), "error", err)
				continue
			}
			out = append(out, r.entry(id, info.Size(), info.ModTime(), info.IsDir()))
		}
		return out, nil
	}

	m, ok := loc.c.members[loc.name]
	if !ok {
		return nil, notFound(dir)
	}
	if !m.dir {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, dir)
	}
	out = make([]Entry, 0, len(m.children))
	for _, child := range m.children {
		id, err := dir.Child(child.base())
		if err != nil {
			r.log.Warn("skipping member", "container", dir.String(), "name", child.name, "error", err)
			continue
		}
		out = append(out, r.entry(id, child.size, child.modified, child.dir))
	}
	return out, nil
}

// WalkFunc is called for every entry Walk visits. When err is non-nil the
// entry could not be read and e holds only its ID. Returning fs.SkipDir
// skips a directory or container; fs.SkipAll stops the walk.
type WalkFunc func(e Entry, err error) error

// Walk visits root and everything below it in pre-order, descending into
// directories and into every container whose format r has enabled.
func (r *Reader) Walk(ctx context.Context, root hid.HID, fn WalkFunc) error {
	e, err := r.Stat(ctx, root)
	if err != nil {
		err = fn(Entry{ID: root}, err)
	} else {
		err = r.walk(ctx, root.Builder(), e, fn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

// walk visits e, whose HID b currently holds, and everything below it. b
// is back at e.ID when walk returns.
func (r *Reader) walk(ctx context.Context, b *hid.Builder, e Entry, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(e, nil); err != nil {
		if errors.Is(err, fs.SkipDir) && (e.Dir || e.Container) {
			return nil
		}
		return err
	}
	switch {
	case e.Dir:
		return r.walkChildren(ctx, b, e.ID, fn)
	case e.Container:
		if err := b.Push(schemeFor(e.Name(), e.Format), "", "/"); err != nil {
			return err
		}
		nested, err := b.Build()
		if err == nil {
			err = r.walkChildren(ctx, b, nested, fn)
		}
		if perr := b.Pop(); perr != nil && err == nil {
			err = perr
		}
		return err
	}
	return nil
}

func (r *Reader) walkChildren(ctx context.Context, b *hid.Builder, dir hid.HID, fn WalkFunc) error {
	children, err := r.children(ctx, dir)
	if err != nil {
		err = fn(Entry{ID: dir, Dir: true}, err)
		if errors.Is(err, fs.SkipDir) {
			return nil
		}
		return err
	}
	for _, child := range children {
		if err := b.Resolve(child.Name()); err != nil {
			return err
		}
		child.ID, err = b.Build()
		if err == nil {
			err = r.walk(ctx, b, child, fn)
		}
		if perr := b.Resolve(".."); perr != nil && err == nil {
			err = perr
		}
		if err != nil {
			return err
		}
	}
	return nil
}
