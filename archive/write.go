package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Writer creates a container of any Format.
type Writer struct {
	format Format
	zw     *zip.Writer
	tw     *tar.Writer
	comp   io.WriteCloser
}

func NewWriter(w io.Writer, format Format) (*Writer, error) {
	aw := &Writer{format: format}
	switch format {
	case Zip:
		aw.zw = zip.NewWriter(w)
		return aw, nil
	case Tar:
	case TarGzip:
		aw.comp = gzip.NewWriter(w)
	case TarZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("create zstd stream: %w", err)
		}
		aw.comp = enc
	case TarLZ4:
		aw.comp = lz4.NewWriter(w)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, format)
	}
	if aw.comp != nil {
		w = aw.comp
	}
	aw.tw = tar.NewWriter(w)
	return aw, nil
}

// Add stores size bytes from r under name.
func (w *Writer) Add(name string, size int64, modified time.Time, r io.Reader) error {
	if w.zw != nil {
		fw, err := w.zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return err
		}
		_, err = io.CopyN(fw, r, size)
		return err
	}
	err := w.tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     size,
		Mode:     0o644,
		ModTime:  modified,
		Format:   tar.FormatPAX,
	})
	if err != nil {
		return err
	}
	_, err = io.CopyN(w.tw, r, size)
	return err
}

func (w *Writer) AddBytes(name string, modified time.Time, data []byte) error {
	return w.Add(name, int64(len(data)), modified, bytes.NewReader(data))
}

// Close finishes the container. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.zw != nil {
		return w.zw.Close()
	}
	if err := w.tw.Close(); err != nil {
		return err
	}
	if w.comp != nil {
		return w.comp.Close()
	}
	return nil
}

// PackDirectory writes every regular file below dir into a new container
// at dest. Symlinks are skipped.
func PackDirectory(ctx context.Context, dir, dest string, format Format) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDir, dir)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	aw, err := NewWriter(out, format)
	if err != nil {
		out.Close()
		return err
	}

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if abs, _ := filepath.Abs(p); abs == absDest {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		return aw.Add(filepath.ToSlash(rel), fi.Size(), fi.ModTime(), f)
	})
	if cerr := aw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
	}
	return err
}
