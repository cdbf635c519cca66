package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/taigrr/colorhash"

	"github.com/dendrascience/dendra-hid/archive"
	"github.com/dendrascience/dendra-hid/hid"
	"github.com/dendrascience/dendra-hid/util"
)

// NewLsCmd creates and returns the ls subcommand. It lists directories and
// archive contents alike, descending into nested archives with -r.
func NewLsCmd() *cobra.Command {
	var (
		recursive bool
		long      bool
		ids       bool
	)

	cmd := &cobra.Command{
		Use:   "ls [HID]",
		Short: "List a directory or archive",
		Long: `List the entries of a directory or archive. Archives are listed like
directories; with --recursive every nested archive is walked too.

Archive names are colored by format when writing to a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "."
			if len(args) > 0 {
				arg = args[0]
			}
			root, err := target(arg)
			if err != nil {
				return err
			}
			s := sessionFrom(cmd)
			l := &lister{
				out:   cmd.OutOrStdout(),
				log:   s.log,
				color: s.cfg.UseColor(cmd.OutOrStdout()),
				units: s.cfg.Units.System(),
				long:  long,
				ids:   ids,
			}
			if recursive {
				return l.walk(cmd.Context(), s.reader, root)
			}
			entries, err := s.reader.List(cmd.Context(), root)
			if err != nil {
				return err
			}
			for _, e := range entries {
				l.print(e, e.Name())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Walk into directories and nested archives")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show size and modification time")
	cmd.Flags().BoolVar(&ids, "hid", false, "Print full identifiers instead of names")
	return cmd
}

// Widths of the long listing columns.
const (
	sizeWidth = 10
	timeWidth = 16
)

type lister struct {
	out   io.Writer
	log   *slog.Logger
	color bool
	units util.UnitSystem
	long  bool
	ids   bool
}

func (l *lister) walk(ctx context.Context, r *archive.Reader, root hid.HID) error {
	var failed int
	err := r.Walk(ctx, root, func(e archive.Entry, err error) error {
		if err != nil {
			if e.ID.Equal(root) {
				return err
			}
			failed++
			l.log.Warn("cannot list entry", "hid", e.ID.String(), "error", err)
			return nil
		}
		if e.ID.Equal(root) {
			return nil
		}
		name := e.ID.String()
		if !l.ids {
			name = relativeName(root, e.ID)
		}
		l.print(e, name)
		return nil
	})
	if err == nil && failed > 0 {
		err = fmt.Errorf("%d entries could not be listed", failed)
	}
	return err
}

// relativeName renders id below root as a slash path, marking each archive
// boundary with "//".
func relativeName(root, id hid.HID) string {
	var parts []string
	for cur := id; !cur.Equal(root); {
		if len(cur.Segments()) == 0 {
			c, ok := cur.TryContainer()
			if !ok {
				break
			}
			parts = append(parts, "/")
			cur = c
			continue
		}
		parts = append(parts, cur.Name())
		p, ok := cur.TryParent()
		if !ok {
			break
		}
		cur = p
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		if sb.Len() > 0 && parts[i] != "/" {
			sb.WriteByte('/')
		}
		sb.WriteString(parts[i])
	}
	return strings.TrimLeft(sb.String(), "/")
}

func (l *lister) print(e archive.Entry, name string) {
	switch {
	case e.Dir:
		name += "/"
	case e.Container:
		name = l.paint(e.Format, name+"//")
	}
	if !l.long {
		fmt.Fprintln(l.out, name)
		return
	}
	size := "-"
	if !e.Dir {
		size = util.FormatBytes(uint64(e.Size), l.units)
	}
	modified := "-"
	if !e.Modified.IsZero() {
		modified = e.Modified.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(l.out, "%s  %s  %s\n",
		util.PadStart(size, sizeWidth, ' '),
		util.PadEnd(modified, timeWidth, ' '),
		name)
}

var palette = []color.Attribute{
	color.FgRed,
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgCyan,
}

// paint colors s with a palette entry chosen from the format name, so each
// format keeps the same color across runs.
func (l *lister) paint(f archive.Format, s string) string {
	if !l.color {
		return s
	}
	c := color.New(palette[uint(colorhash.HashString(f.String()))%uint(len(palette))], color.Bold)
	c.EnableColor()
	return c.Sprint(s)
}

// NewCatCmd creates and returns the cat subcommand, which copies files to
// stdout wherever they are nested.
func NewCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat HID...",
		Short: "Print the contents of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			for _, arg := range args {
				id, err := target(arg)
				if err != nil {
					return err
				}
				if err := catOne(cmd.Context(), s.reader, id, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
			}
			return nil
		},
	}
}

func catOne(ctx context.Context, r *archive.Reader, id hid.HID, w io.Writer) error {
	rc, err := r.Open(ctx, id)
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(w, rc)
	if errors.Is(err, context.Canceled) {
		return ctx.Err()
	}
	return err
}
