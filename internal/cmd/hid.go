package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/hid"
)

// NewHIDCmd creates and returns the hid subcommand. Its children parse,
// navigate and compare identifiers without touching the filesystem.
func NewHIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hid",
		Short: "Parse, navigate and compare identifiers",
		Long: `Work with hierarchical identifiers as values.

None of these commands read the filesystem; they only rewrite identifiers.
Plain paths are kept as given, without being made absolute.`,
	}

	cmd.AddCommand(
		newHIDInspectCmd(),
		newHIDNavCmd("parent", "Print the identifier one segment up", hid.HID.Parent),
		newHIDNavCmd("container", "Print the entry holding the innermost level", hid.HID.Container),
		newHIDNavCmd("root", "Print the root of the innermost level", func(h hid.HID) (hid.HID, error) {
			return h.Root(), nil
		}),
		newHIDResolveCmd(),
		newHIDRebaseCmd(),
		newHIDCompareCmd(),
	)
	return cmd
}

func parseAll(args []string) ([]hid.HID, error) {
	out := make([]hid.HID, len(args))
	for i, a := range args {
		h, err := hid.Parse(a)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func newHIDInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect HID...",
		Short: "Show the levels and segments of identifiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseAll(args)
			if err != nil {
				return err
			}
			for i, h := range ids {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				writeInspect(cmd.OutOrStdout(), h)
			}
			return nil
		},
	}
}

func writeInspect(w io.Writer, h hid.HID) {
	fmt.Fprintf(w, "hid:      %s\n", h)
	fmt.Fprintf(w, "nesting:  %d\n", h.Nesting())
	fmt.Fprintf(w, "depth:    %d\n", h.Depth())
	fmt.Fprintf(w, "relative: %t\n", h.IsRelative())
	fmt.Fprintf(w, "name:     %s\n", h.Name())
	for i := 0; i <= h.Nesting(); i++ {
		l := h.Level(i)
		scheme := l.Scheme()
		if scheme == "" {
			scheme = "-"
		}
		line := fmt.Sprintf("level %d:  %s %s", i, scheme, l.Path())
		if a := l.Authority(); a != "" {
			line += " (authority " + a + ")"
		}
		fmt.Fprintln(w, line)
	}
	if segs := h.Segments(); len(segs) > 0 {
		fmt.Fprintf(w, "segments: %s\n", strings.Join(segs, " | "))
	}
}

func newHIDNavCmd(name, short string, nav func(hid.HID) (hid.HID, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " HID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hid.Parse(args[0])
			if err != nil {
				return err
			}
			out, err := nav(h)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newHIDResolveCmd() *cobra.Command {
	var nest string

	cmd := &cobra.Command{
		Use:   "resolve HID PATH",
		Short: "Resolve a relative path against an identifier",
		Long: `Resolve PATH against the innermost level of HID. ".." at the root of a
nested level steps out to the enclosing container.

With --nest SCHEME, PATH is instead opened as a new level inside HID.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hid.Parse(args[0])
			if err != nil {
				return err
			}
			var out hid.HID
			if nest != "" {
				out, err = h.Nest(nest, "", args[1])
			} else {
				out, err = h.Resolve(args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&nest, "nest", "", "Open PATH as a new level with this scheme")
	return cmd
}

func newHIDRebaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebase HID OLD NEW",
		Short: "Move an identifier from under OLD to under NEW",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseAll(args)
			if err != nil {
				return err
			}
			out, err := ids[0].Rebased(ids[1], ids[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newHIDCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare A B",
		Short: "Order two identifiers and report ancestry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseAll(args)
			if err != nil {
				return err
			}
			a, b := ids[0], ids[1]
			var rel string
			switch {
			case a.Equal(b):
				rel = "equal"
			case a.IsAncestor(b):
				rel = "A is an ancestor of B"
			case b.IsAncestor(a):
				rel = "B is an ancestor of A"
			case hid.Compare(a, b) < 0:
				rel = "A sorts before B"
			default:
				rel = "A sorts after B"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", hid.Compare(a, b), rel)
			return nil
		},
	}
}
