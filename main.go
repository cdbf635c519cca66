package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/dendrascience/dendra-hid/internal/cmd"
	"github.com/dendrascience/dendra-hid/version"
)

func main() {
	root := cmd.NewRootCmd()
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version.GetFullVersion())); err != nil {
		os.Exit(1)
	}
}
