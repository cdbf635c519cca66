package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/archive"
	"github.com/dendrascience/dendra-hid/digest"
	"github.com/dendrascience/dendra-hid/util"
)

// NewIndexCmd creates and returns the index subcommand with its build,
// info and find children.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and query digest indexes of a tree",
		Long: `An index records every file below a root, archives and their contents
included, with its size, modification time and digest. Indexes ending in
.cbor are stored as CBOR, anything else as JSON.`,
	}
	cmd.AddCommand(newIndexBuildCmd(), newIndexInfoCmd(), newIndexFindCmd())
	return cmd
}

func newIndexBuildCmd() *cobra.Command {
	var (
		output     string
		algorithm  string
		workers    int
		skipErrors bool
	)

	cmd := &cobra.Command{
		Use:   "build HID",
		Short: "Digest every file below HID and save an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := target(args[0])
			if err != nil {
				return err
			}
			s := sessionFrom(cmd)
			opts := s.cfg.BuildOptions()
			if algorithm != "" {
				opts.Algorithm = digest.Algorithm(algorithm)
			}
			if workers > 0 {
				opts.Workers = workers
			}
			opts.SkipErrors = skipErrors

			start := time.Now()
			x, err := archive.BuildIndex(cmd.Context(), s.reader, root, opts)
			if err != nil {
				return err
			}
			if err := x.Save(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s files (%s) in %s to %s\n",
				humanize.Comma(int64(x.Len())),
				util.FormatBytes(uint64(x.TotalSize()), s.cfg.Units.System()),
				time.Since(start).Round(time.Millisecond),
				output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "index.json", "Index file to write (.json or .cbor)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Digest algorithm (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Files hashed at once (default from config)")
	cmd.Flags().BoolVar(&skipErrors, "skip-errors", false, "Log unreadable files and keep going")
	return cmd
}

func newIndexInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info INDEX",
		Short: "Summarize an index file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := archive.LoadIndex(args[0])
			if err != nil {
				return err
			}
			m := x.Metadata()
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}
			units := sessionFrom(cmd).cfg.Units.System()
			fmt.Fprintf(w, "Root:            %s\n", m.Root)
			fmt.Fprintf(w, "Algorithm:       %s\n", m.Algorithm)
			fmt.Fprintf(w, "Created:         %s (%s)\n", x.Created.Format(time.RFC3339), humanize.Time(x.Created))
			fmt.Fprintf(w, "Files:           %s\n", humanize.Comma(int64(m.Files)))
			fmt.Fprintf(w, "Archives:        %s\n", humanize.Comma(int64(m.Containers)))
			fmt.Fprintf(w, "Unique contents: %s\n", humanize.Comma(int64(m.UniqueContents)))
			fmt.Fprintf(w, "Total size:      %s\n", util.FormatBytes(uint64(m.TotalSize), units))
			if m.Files > 0 {
				fmt.Fprintf(w, "Oldest:          %s\n", m.Oldest.Format(time.RFC3339))
				fmt.Fprintf(w, "Newest:          %s\n", m.Newest.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func newIndexFindCmd() *cobra.Command {
	var below bool

	cmd := &cobra.Command{
		Use:   "find INDEX HID",
		Short: "Look up an entry, or everything below it, in an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := archive.LoadIndex(args[0])
			if err != nil {
				return err
			}
			id, err := target(args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if below {
				for _, e := range x.Below(id) {
					fmt.Fprintf(w, "%s  %d  %s\n", e.Digest, e.Size, e.ID)
				}
				return nil
			}
			e, ok := x.Find(id)
			if !ok {
				return fmt.Errorf("%w: %s", archive.ErrNotFound, id)
			}
			fmt.Fprintf(w, "%s  %d  %s\n", e.Digest, e.Size, e.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&below, "below", false, "List every entry below HID instead")
	return cmd
}
