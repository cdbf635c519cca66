package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/digest"
)

// NewDigestCmd creates and returns the digest subcommand. It hashes files
// anywhere in the tree, or checks one against a known digest.
func NewDigestCmd() *cobra.Command {
	var (
		algorithm string
		verify    string
	)

	cmd := &cobra.Command{
		Use:   "digest HID...",
		Short: "Compute or verify content digests",
		Long: `Print "algorithm:hex" digests for files, one per line, in the form
used by index files. "-" reads standard input.

With --verify DIGEST a single file is checked and the command fails on a
mismatch; the algorithm is taken from the digest.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			alg := s.cfg.Digest
			if algorithm != "" {
				alg = digest.Algorithm(strings.ToLower(algorithm))
			}
			if !alg.Available() {
				return fmt.Errorf("%w: %s (available: %v)", digest.ErrUnknownAlgorithm, alg, digest.Algorithms())
			}

			var want digest.Digest
			if verify != "" {
				d, err := digest.Parse(verify)
				if err != nil {
					return err
				}
				if len(args) != 1 {
					return fmt.Errorf("--verify takes exactly one file, got %d", len(args))
				}
				want = d
			}

			for _, arg := range args {
				rc, err := openArg(cmd, arg)
				if err != nil {
					return err
				}
				if !want.IsZero() {
					err = want.Verify(rc)
					rc.Close()
					if err != nil {
						return fmt.Errorf("%s: %w", arg, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", arg)
					continue
				}
				d, err := digest.FromReader(alg, rc)
				rc.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", d, arg)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "Digest algorithm (default from config)")
	cmd.Flags().StringVar(&verify, "verify", "", "Expected digest to check the file against")
	return cmd
}

// openArg opens a file named on the command line, with "-" for stdin.
func openArg(cmd *cobra.Command, arg string) (io.ReadCloser, error) {
	if arg == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	id, err := target(arg)
	if err != nil {
		return nil, err
	}
	return sessionFrom(cmd).reader.Open(cmd.Context(), id)
}
