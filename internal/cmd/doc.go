// Package cmd provides the command-line interface implementation for dhid.
//
// Each subcommand lives in its own file with a NewXxxCmd constructor that
// returns a *cobra.Command, and NewRootCmd assembles them into groups. The
// root command loads configuration before any subcommand runs and shares
// one archive.Reader through the command context, so every command reads
// nested archives with the same formats, limits and cache.
//
// Commands write results to cmd.OutOrStdout() and log to stderr, which
// keeps them easy to drive from tests with SetOut and SetArgs.
package cmd
