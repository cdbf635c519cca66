package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/archive"
)

// NewValidateCmd creates and returns the validate subcommand for the dhid
// CLI. It re-reads every file an index lists and reports what changed.
func NewValidateCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "validate INDEX",
		Short: "Check that files still match an index",
		Long: `Re-read every file listed in INDEX and compare its size and digest.

Each problem is printed on its own line. The command fails when any file
is missing or changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := archive.LoadIndex(args[0])
			if err != nil {
				return err
			}
			s := sessionFrom(cmd)
			opts := s.cfg.BuildOptions()
			if workers > 0 {
				opts.Workers = workers
			}

			report, err := archive.Verify(cmd.Context(), s.reader, x, opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range report.Problems {
				fmt.Fprintln(w, p)
			}
			if !report.OK() {
				return fmt.Errorf("%d of %s files failed validation", len(report.Problems), humanize.Comma(int64(report.Checked)))
			}
			fmt.Fprintf(w, "All %s files match %s\n", humanize.Comma(int64(report.Checked)), args[0])
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Files checked at once (default from config)")
	return cmd
}
