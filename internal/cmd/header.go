package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dendrascience/dendra-hid/header"
)

// NewHeaderCmd creates and returns the header subcommand, which parses
// HTTP header values the way dhid stores them in metadata.
func NewHeaderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header",
		Short: "Parse and normalize HTTP header values",
	}
	cmd.AddCommand(
		newHeaderParseCmd("content-type", "Parse a Content-Type value", writeContentType),
		newHeaderParseCmd("link", "Parse a Link header value", writeLinks),
		newHeaderParseCmd("products", "Parse a User-Agent or Server value", writeProducts),
	)
	return cmd
}

func newHeaderParseCmd(name, short string, write func(io.Writer, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " VALUE...",
		Short: short,
		Long: short + `.

Arguments are joined with spaces, so the value need not be quoted as a
single shell word. The normalized form is printed first, then its parts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return write(cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}
}

func writeContentType(w io.Writer, value string) error {
	ct, err := header.ParseContentType(value)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, ct)
	fmt.Fprintf(w, "  media type: %s\n", ct.MediaType())
	if s := ct.Suffix(); s != "" {
		fmt.Fprintf(w, "  suffix:     %s\n", s)
	}
	for _, p := range ct.Parameters() {
		fmt.Fprintf(w, "  %s = %q\n", p.Name, p.Value)
	}
	return nil
}

func writeLinks(w io.Writer, value string) error {
	links, err := header.ParseLinks(value)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, header.FormatLinks(links))
	for _, l := range links {
		fmt.Fprintf(w, "  <%s>", l.URI())
		if rel := l.Rel(); len(rel) > 0 {
			fmt.Fprintf(w, " rel=%s", strings.Join(rel, ","))
		}
		if t := l.Title(); t != "" {
			fmt.Fprintf(w, " title=%q", t)
		}
		if ct, ok := l.Type(); ok {
			fmt.Fprintf(w, " type=%s", ct.MediaType())
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeProducts(w io.Writer, value string) error {
	products, err := header.ParseProducts(value)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, header.FormatProducts(products))
	for _, p := range products {
		fmt.Fprintf(w, "  %s", p.Token())
		for _, c := range p.Comments {
			fmt.Fprintf(w, " (%s)", c)
		}
		fmt.Fprintln(w)
	}
	return nil
}
