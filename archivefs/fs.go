package archivefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/dendrascience/dendra-hid/archive"
	"github.com/dendrascience/dendra-hid/hid"
)

// FS implements a read-only FUSE filesystem over an HID tree.
type FS struct {
	reader *archive.Reader
	root   hid.HID
	inodes *inodeTable
	log    *slog.Logger
}

// New returns a filesystem rooted at root, which must name a directory or
// a container.
func New(r *archive.Reader, root hid.HID, log *slog.Logger) *FS {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &FS{
		reader: r,
		root:   root,
		inodes: newInodeTable(),
		log:    log,
	}
}

// Root returns the root directory node.
func (f *FS) Root() (fs.Node, error) {
	e, err := f.reader.Stat(context.Background(), f.root)
	if err != nil {
		return nil, f.errno("stat root", f.root, err)
	}
	if !e.Dir && !e.Container {
		return nil, fuse.Errno(syscall.ENOTDIR)
	}
	return f.node(e)
}

// node turns an entry into a Dir or File. Containers become directories
// whose contents are the container's root.
func (f *FS) node(e archive.Entry) (fs.Node, error) {
	ino := f.inodes.get(e.ID)
	switch {
	case e.Dir:
		return &Dir{fs: f, id: e.ID, inode: ino, modified: e.Modified}, nil
	case e.Container:
		nested, err := e.Nested()
		if err != nil {
			return nil, f.errno("nest", e.ID, err)
		}
		return &Dir{fs: f, id: nested, inode: ino, modified: e.Modified}, nil
	}
	return &File{fs: f, id: e.ID, inode: ino, size: e.Size, modified: e.Modified}, nil
}

// errno maps a reader error to the errno FUSE reports, logging anything
// unexpected.
func (f *FS) errno(op string, id hid.HID, err error) error {
	switch {
	case errors.Is(err, archive.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fuse.Errno(syscall.ENOENT)
	case errors.Is(err, archive.ErrIsDir):
		return fuse.Errno(syscall.EISDIR)
	case errors.Is(err, archive.ErrNotDir):
		return fuse.Errno(syscall.ENOTDIR)
	case errors.Is(err, archive.ErrNestedTooLarge):
		return fuse.Errno(syscall.EFBIG)
	case errors.Is(err, archive.ErrFormatDisabled), errors.Is(err, archive.ErrUnsupportedScheme):
		return fuse.Errno(syscall.ENOTSUP)
	case errors.Is(err, context.Canceled):
		return fuse.Errno(syscall.EINTR)
	}
	f.log.Error("filesystem operation failed", "op", op, "hid", id.String(), "error", err)
	return fuse.Errno(syscall.EIO)
}

// Dir is a directory, the root of a container, or a directory inside one.
type Dir struct {
	fs       *FS
	id       hid.HID
	inode    uint64
	modified time.Time
}

func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = d.inode
	a.Mode = os.ModeDir | 0o555
	a.Mtime = d.modified
	a.Ctime = d.modified
	a.Atime = d.modified
	return nil
}

// Lookup resolves a name in the directory.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	child, err := d.id.Child(name)
	if err != nil {
		return nil, fuse.Errno(syscall.ENOENT)
	}
	e, err := d.fs.reader.Stat(ctx, child)
	if err != nil {
		return nil, d.fs.errno("lookup", child, err)
	}
	return d.fs.node(e)
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	entries, err := d.fs.reader.List(ctx, d.id)
	if err != nil {
		return nil, d.fs.errno("readdir", d.id, err)
	}
	dirents := make([]fuse.Dirent, 0, len(entries))
	for _, e := range entries {
		typ := fuse.DT_File
		if e.Dir || e.Container {
			typ = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{
			Inode: d.fs.inodes.get(e.ID),
			Name:  e.Name(),
			Type:  typ,
		})
	}
	return dirents, nil
}

// File is a regular file on disk or inside a container.
type File struct {
	fs       *FS
	id       hid.HID
	inode    uint64
	size     int64
	modified time.Time
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.inode
	a.Mode = 0o444
	a.Size = uint64(f.size)
	a.Mtime = f.modified
	a.Ctime = f.modified
	a.Atime = f.modified
	return nil
}

// Open refuses writes and returns a handle reading the file sequentially.
func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	if !req.Flags.IsReadOnly() {
		return nil, fuse.Errno(syscall.EROFS)
	}
	resp.Flags |= fuse.OpenKeepCache
	return &handle{file: f}, nil
}

// handle keeps one open reader per file handle so consecutive reads do
// not reopen the member. A read behind the current position reopens it.
type handle struct {
	file *File

	mu  sync.Mutex
	rc  io.ReadCloser
	pos int64
}

func (h *handle) seek(ctx context.Context, off int64) error {
	if h.rc != nil && off < h.pos {
		h.rc.Close()
		h.rc = nil
	}
	if h.rc == nil {
		rc, err := h.file.fs.reader.Open(ctx, h.file.id)
		if err != nil {
			return err
		}
		h.rc, h.pos = rc, 0
	}
	if off > h.pos {
		n, err := io.CopyN(io.Discard, h.rc, off-h.pos)
		h.pos += n
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("skip to %d: %w", off, err)
		}
	}
	return nil
}

func (h *handle) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.seek(ctx, req.Offset); err != nil {
		return h.file.fs.errno("read", h.file.id, err)
	}
	if h.pos < req.Offset {
		resp.Data = resp.Data[:0]
		return nil
	}
	buf := make([]byte, req.Size)
	n, err := io.ReadFull(h.rc, buf)
	h.pos += int64(n)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return h.file.fs.errno("read", h.file.id, err)
	}
	resp.Data = buf[:n]
	return nil
}

func (h *handle) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rc != nil {
		h.rc.Close()
		h.rc = nil
	}
	return nil
}

// Mount serves fsys at mountpoint until the filesystem is unmounted or ctx
// is done.
func Mount(ctx context.Context, mountpoint string, fsys *FS) error {
	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("dhid"),
		fuse.Subtype("dhid"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return fmt.Errorf("mount %s: %w", mountpoint, err)
	}
	defer c.Close()

	served := make(chan error, 1)
	go func() { served <- fs.Serve(c, fsys) }()

	fsys.log.Info("mounted", "root", fsys.root.String(), "mountpoint", mountpoint)
	select {
	case err := <-served:
		return err
	case <-ctx.Done():
		fsys.log.Info("unmounting", "mountpoint", mountpoint)
		if err := fuse.Unmount(mountpoint); err != nil {
			return fmt.Errorf("unmount %s: %w", mountpoint, err)
		}
		return <-served
	}
}
