package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/util"
)

// NewBytesCmd creates and returns the bytes subcommand, a small converter
// between byte counts and the unit strings used in config files.
func NewBytesCmd() *cobra.Command {
	var (
		system string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "bytes SIZE...",
		Short: "Convert between byte counts and human sizes",
		Long: `Print each SIZE as a plain byte count and in human units.

SIZE may be a number of bytes or a string such as "64 MiB" or "1.5GB".
With --to the size is shown in that unit only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			units := sessionFrom(cmd).cfg.Units.System()
			if system != "" {
				u, err := util.UnitSystems.Parse(system)
				if err != nil {
					return err
				}
				units = u
			}
			var unit util.Unit
			if to != "" {
				u, err := util.LookupUnit(to)
				if err != nil {
					return err
				}
				unit = u
			}

			w := cmd.OutOrStdout()
			for _, arg := range args {
				n, err := util.ParseBytes(arg)
				if err != nil {
					return err
				}
				if to != "" {
					fmt.Fprintf(w, "%s %s\n", strconv.FormatFloat(util.ConvertBytes(n, unit), 'f', -1, 64), unit.Symbol)
					continue
				}
				fmt.Fprintf(w, "%d\t%s\n", n, util.FormatBytes(n, units))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&system, "units", "", "Unit system: binary or decimal (default from config)")
	cmd.Flags().StringVar(&to, "to", "", "Show sizes in this unit, such as MiB or kB")
	return cmd
}
