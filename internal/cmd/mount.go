package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/archivefs"
	"github.com/dendrascience/dendra-hid/version"
)

// NewMountCmd creates and returns the mount subcommand for the dhid CLI.
// It serves a directory or archive tree as a read-only FUSE filesystem.
func NewMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount HID MOUNTPOINT",
		Short: "Mount a tree of nested archives read-only",
		Long: `Mount HID at MOUNTPOINT as a read-only filesystem.

HID may be a directory or an archive. Archives anywhere below it appear as
directories holding their contents, however deeply they are nested.
The filesystem is unmounted on interrupt.`,
		Args: cobra.ExactArgs(2),
		RunE: runMount,
	}
}

func runMount(cmd *cobra.Command, args []string) error {
	s := sessionFrom(cmd)
	root, err := target(args[0])
	if err != nil {
		return err
	}
	mountpoint := args[1]

	// A mountpoint inside the tree it serves would list itself forever.
	if root.Nesting() == 0 && pathsOverlap(root.Path(), mountpoint) {
		return fmt.Errorf("mountpoint %s overlaps %s", mountpoint, root.Path())
	}
	if err := os.MkdirAll(mountpoint, 0o755); err != nil {
		return fmt.Errorf("create mountpoint: %w", err)
	}

	fsys := archivefs.New(s.reader, root, s.log)
	if _, err := fsys.Root(); err != nil {
		return fmt.Errorf("%s: %w", root, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.log.Info("starting", "version", version.GetFullVersion())
	return archivefs.Mount(ctx, mountpoint, fsys)
}

// pathsOverlap reports whether one of the two paths is the other or lies
// inside it.
func pathsOverlap(path1, path2 string) bool {
	abs1, err1 := filepath.Abs(path1)
	abs2, err2 := filepath.Abs(path2)
	if err1 != nil || err2 != nil {
		return false
	}
	abs1, abs2 = filepath.Clean(abs1), filepath.Clean(abs2)
	if abs1 == abs2 {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(abs1, strings.TrimSuffix(abs2, sep)+sep) ||
		strings.HasPrefix(abs2, strings.TrimSuffix(abs1, sep)+sep)
}
