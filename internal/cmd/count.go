package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/archive"
	"github.com/dendrascience/dendra-hid/util"
)

// NewCountCmd creates and returns the count subcommand for the dhid CLI.
// It counts files across directories and nested archives.
func NewCountCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "count [HID]",
		Short: "Count files in a tree, including inside archives",
		Long: `Count the files, directories and archives below HID.

Archives are counted as files and then opened, so their contents are
counted too. With --limit the walk stops once more files than the limit
have been seen, which is useful for quick checks on very large trees.`,
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
			c, err := archive.Count(cmd.Context(), s.reader, root, limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			files := humanize.Comma(int64(c.Files))
			if c.Over {
				files = "more than " + humanize.Comma(int64(limit))
			}
			fmt.Fprintf(w, "Files:       %s\n", files)
			fmt.Fprintf(w, "Directories: %s\n", humanize.Comma(int64(c.Dirs)))
			fmt.Fprintf(w, "Archives:    %s\n", humanize.Comma(int64(c.Containers)))
			fmt.Fprintf(w, "Total size:  %s\n", util.FormatBytes(uint64(c.Bytes), s.cfg.Units.System()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many files (0 counts everything)")
	return cmd
}
