package main

import (
	"errors"
	"os"

	"github.com/resticwrap/resticwrap/internal/command"
	"github.com/resticwrap/resticwrap/internal/shell"
)

func main() {
	rootCmd := command.New()
	if err := rootCmd.Execute(); err != nil {
		// The exit code of restic is passed through; everything else is a
		// configuration error.
		var exitErr *shell.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(2)
	}
}
