package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/archive"
	"github.com/dendrascience/dendra-hid/config"
	"github.com/dendrascience/dendra-hid/hid"
	"github.com/dendrascience/dendra-hid/version"
)

const (
	groupArchives   = "archives"
	groupFilesystem = "filesystem"
	groupUtilities  = "utilities"
)

// NewRootCmd creates and returns the root cobra command for the dhid CLI.
// It sets up all subcommands, command groups, and the shared session that
// loads configuration before any subcommand runs.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:   "dhid",
		Short: "dhid - address and read files nested inside archives",
		Long: `dhid works with hierarchical identifiers (HIDs): paths that reach through
any number of archives, such as a file inside a tar inside a zip.

  zip:file:///data/bundle.zip#/logs.tgz
  tgz:zip:file:///data/bundle.zip#/logs.tgz#/app.log

Plain filesystem paths are accepted wherever an HID is expected.

Use subcommands to perform different operations:
  - hid: parse, navigate and compare identifiers
  - ls, cat, count: read directories and archives as one tree
  - digest, index, validate: hash trees and re-check them later
  - mount: expose a tree as a read-only FUSE filesystem`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, configPath, verbose)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, s))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			sessionFrom(cmd).close()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $"+config.EnvVar+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupArchives,
		Title: "Archive Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	for _, c := range []*cobra.Command{
		NewHIDCmd(),
		NewLsCmd(),
		NewCatCmd(),
		NewCountCmd(),
		NewDigestCmd(),
		NewIndexCmd(),
		NewValidateCmd(),
	} {
		c.GroupID = groupArchives
		rootCmd.AddCommand(c)
	}

	mountCmd := NewMountCmd()
	mountCmd.GroupID = groupFilesystem
	rootCmd.AddCommand(mountCmd)

	for _, c := range []*cobra.Command{
		NewSeedCmd(),
		NewHeaderCmd(),
		NewBytesCmd(),
		NewConfigCmd(),
		NewVersionCmd(),
	} {
		c.GroupID = groupUtilities
		rootCmd.AddCommand(c)
	}

	return rootCmd
}

type sessionKey struct{}

// session holds what every subcommand shares: the effective configuration,
// a logger on stderr, and one archive reader.
type session struct {
	cfg    *config.Config
	log    *slog.Logger
	reader *archive.Reader
}

func newSession(cmd *cobra.Command, configPath string, verbose bool) (*session, error) {
	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return sessionFor(cmd, cfg, verbose), nil
}

func sessionFor(cmd *cobra.Command, cfg *config.Config, verbose bool) *session {
	log := cfg.Logger(cmd.ErrOrStderr(), verbose)
	return &session{
		cfg:    cfg,
		log:    log,
		reader: archive.NewReader(cfg.ReaderOptions(log)),
	}
}

// sessionFrom returns the session set up by the root command. Commands
// executed on their own load DHID_CONFIG, falling back to the defaults
// with a warning when it cannot be used.
func sessionFrom(cmd *cobra.Command) *session {
	if ctx := cmd.Context(); ctx != nil {
		if s, ok := ctx.Value(sessionKey{}).(*session); ok {
			return s
		}
	}
	s, err := newSession(cmd, "", false)
	if err != nil {
		s = sessionFor(cmd, config.Default(), false)
		s.log.Warn("using default configuration", "error", err)
	}
	return s
}

func (s *session) close() {
	if s != nil && s.reader != nil {
		s.reader.Close()
	}
}

// target reads a command-line argument as an HID. Arguments without a
// scheme are filesystem paths, made absolute.
func target(arg string) (hid.HID, error) {
	h, err := hid.Parse(arg)
	if err != nil {
		return hid.HID{}, err
	}
	if h.Nesting() == 0 && h.Scheme() == "" {
		return hid.FromPath(arg)
	}
	return h, nil
}
