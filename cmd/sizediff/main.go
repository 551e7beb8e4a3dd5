// Package main provides the entry point for the sizediff CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/sizediff/cmd/sizediff/commands"
	"github.com/Sumatoshi-tech/sizediff/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := commands.NewRootCommand()

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, commands.ErrUsage) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	os.Exit(commands.ExitCode(err))
}
