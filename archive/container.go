package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/text/unicode/norm"
)

// member is a file or directory inside a container.
type member struct {
	// name is the slash-separated path inside the container; "" is the root.
	name     string
	size     int64
	modified time.Time
	dir      bool
	children []*member

	zf    *zip.File
	index int // header position in a tar stream
}

func (m *member) base() string { return path.Base(m.name) }

// source reopens the decompressed tar stream of a container.
type source func() (io.ReadCloser, error)

// container is the loaded directory of one archive. Members are read on
// demand. A container may still be in use when the Reader's cache drops
// it, so the backing file is closed only once the last reader is done.
type container struct {
	format  Format
	members map[string]*member
	src     source

	mu      sync.Mutex
	refs    int
	evicted bool
	closed  bool
	closer  io.Closer
}

func newContainer(format Format) *container {
	root := &member{dir: true}
	return &container{
		format:  format,
		members: map[string]*member{"": root},
	}
}

// cleanName turns a raw archive entry name into a member path. Names are
// NFC-normalized to match HID segments, and ".." cannot climb above the
// root.
func cleanName(raw string) string {
	name := norm.NFC.String(strings.ReplaceAll(raw, "\\", "/"))
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// add records m, creating any parent directories the archive omits. A
// later file entry of the same name replaces an earlier one, as tar
// extraction would.
func (c *container) add(m *member) {
	if old, ok := c.members[m.name]; ok {
		switch {
		case m.dir:
			old.dir = true
			if !m.modified.IsZero() {
				old.modified = m.modified
			}
		case !old.dir:
			old.size, old.modified, old.zf, old.index = m.size, m.modified, m.zf, m.index
		}
		return
	}
	parent := c.dir(path.Dir(m.name))
	c.members[m.name] = m
	parent.children = append(parent.children, m)
}

func (c *container) dir(name string) *member {
	if name == "." || name == "/" {
		name = ""
	}
	if m, ok := c.members[name]; ok {
		return m
	}
	m := &member{name: name, dir: true}
	c.add(m)
	return m
}

func (c *container) sortChildren() {
	for _, m := range c.members {
		slices.SortFunc(m.children, func(a, b *member) int {
			return strings.Compare(a.name, b.name)
		})
	}
}

func newZipContainer(ra io.ReaderAt, size int64, log *slog.Logger) (*container, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("read zip directory: %w", err)
	}
	c := newContainer(Zip)
	for _, f := range zr.File {
		name := cleanName(f.Name)
		if name == "" {
			log.Debug("skipping zip entry", "name", f.Name)
			continue
		}
		info := f.FileInfo()
		c.add(&member{
			name:     name,
			size:     int64(f.UncompressedSize64),
			modified: info.ModTime(),
			dir:      info.IsDir(),
			zf:       f,
		})
	}
	c.sortChildren()
	return c, nil
}

func newTarContainer(format Format, src source, log *slog.Logger) (*container, error) {
	rc, err := src()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	c := newContainer(format)
	c.src = src
	tr := tar.NewReader(rc)
	for i := 0; ; i++ {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s header: %w", format, err)
		}
		mode := hdr.FileInfo().Mode()
		name := cleanName(hdr.Name)
		if name == "" || !(mode.IsRegular() || mode.IsDir()) {
			log.Debug("skipping tar entry", "name", hdr.Name, "type", string(hdr.Typeflag))
			continue
		}
		c.add(&member{
			name:     name,
			size:     hdr.Size,
			modified: hdr.ModTime,
			dir:      mode.IsDir(),
			index:    i,
		})
	}
	c.sortChildren()
	return c, nil
}

// openFile loads the container stored at a filesystem path. Zips keep the
// file open for random access; tar streams are reopened per read.
func openFile(p string, format Format, log *slog.Logger) (*container, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotContainer, p)
	}
	if format == Zip {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		c, err := newZipContainer(f, info.Size(), log)
		if err != nil {
			f.Close()
			return nil, err
		}
		c.closer = f
		return c, nil
	}
	return newTarContainer(format, func() (io.ReadCloser, error) {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		return decompress(f, format)
	}, log)
}

// openBytes loads a container buffered in memory.
func openBytes(data []byte, format Format, log *slog.Logger) (*container, error) {
	if format == Zip {
		return newZipContainer(bytes.NewReader(data), int64(len(data)), log)
	}
	return newTarContainer(format, func() (io.ReadCloser, error) {
		return decompress(io.NopCloser(bytes.NewReader(data)), format)
	}, log)
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// decompress wraps the raw stream of a tar container in its decompressor.
// Closing the result closes rc.
func decompress(rc io.ReadCloser, format Format) (io.ReadCloser, error) {
	switch format {
	case TarGzip:
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return readCloser{zr, func() error {
			zr.Close()
			return rc.Close()
		}}, nil
	case TarZstd:
		zr, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(1))
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		return readCloser{zr, func() error {
			zr.Close()
			return rc.Close()
		}}, nil
	case TarLZ4:
		return readCloser{lz4.NewReader(rc), rc.Close}, nil
	}
	return rc, nil
}

func (c *container) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.refs++
	return nil
}

func (c *container) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs--
	if c.evicted && c.refs == 0 {
		c.closeLocked()
	}
}

// evict marks c as dropped from the cache.
func (c *container) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evicted = true
	if c.refs == 0 {
		c.closeLocked()
	}
}

func (c *container) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	if c.closer != nil {
		c.closer.Close()
	}
}

// open returns the content of a file member.
func (c *container) open(m *member) (io.ReadCloser, error) {
	if m.dir {
		return nil, ErrIsDir
	}
	if err := c.acquire(); err != nil {
		return nil, err
	}
	var once sync.Once
	done := func() { once.Do(c.release) }

	if m.zf != nil {
		rc, err := m.zf.Open()
		if err != nil {
			done()
			return nil, fmt.Errorf("open %s: %w", m.name, err)
		}
		return readCloser{rc, func() error {
			defer done()
			return rc.Close()
		}}, nil
	}

	rc, err := c.src()
	if err != nil {
		done()
		return nil, err
	}
	tr := tar.NewReader(rc)
	for i := 0; i <= m.index; i++ {
		if _, err := tr.Next(); err != nil {
			rc.Close()
			done()
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("seek to %s: %w", m.name, err)
		}
	}
	return readCloser{tr, func() error {
		defer done()
		return rc.Close()
	}}, nil
}

// readAll buffers a member that is itself a container.
func (c *container) readAll(m *member, limit int64) ([]byte, error) {
	if m.size > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrNestedTooLarge, m.name, m.size, limit)
	}
	rc, err := c.open(m)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", m.name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrNestedTooLarge, m.name, limit)
	}
	return data, nil
}
