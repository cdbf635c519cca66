package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCmd creates and returns the config subcommand, which prints the
// effective configuration after the file and defaults are merged.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration in effect as YAML, with defaults filled in.
The output is a valid config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := sessionFrom(cmd).cfg
			if err := cfg.Write(cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}
}
