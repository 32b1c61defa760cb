package show

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/resticwrap/resticwrap/internal/command/run"
	"github.com/resticwrap/resticwrap/internal/config"
	"github.com/resticwrap/resticwrap/internal/print"
	"github.com/resticwrap/resticwrap/internal/profile"
	"github.com/resticwrap/resticwrap/internal/restic"
)

func New(root *config.Root) *cobra.Command {
	cfg := &config.Show{Root: root}

	cmd := &cobra.Command{
		Use:   "show [restic-command]",
		Short: "Show the resolved profile and the command line it would run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cfg, cmd.OutOrStdout(), args)
		},
	}

	return cmd
}

func show(cfg *config.Show, out io.Writer, args []string) error {
	c, err := cfg.LoadConfiguration()
	if err != nil {
		return err
	}
	global, err := c.GetGlobalSection()
	if err != nil {
		return err
	}

	p, err := c.GetProfile(cfg.ProfileName)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return fmt.Errorf("profile %q not found in %s", cfg.ProfileName, c.GetConfigFile())
		}
		return err
	}

	commandName := global.DefaultCommand
	if len(args) > 0 {
		commandName = args[0]
	}

	// The binary does not have to be installed to show the profile.
	binary := cfg.ResticBinary
	if binary == "" {
		binary = global.ResticBinary
	}
	if found, err := restic.FindBinary(binary); err == nil {
		binary = found
	} else if binary == "" {
		binary = "restic"
	}

	commandLine := run.CommandLine(cfg.Root, global, p, binary, commandName, nil)

	switch cfg.OutputFormat {
	case config.OutputFormatDefault:
		return print.ProfileDetails(out, p, commandLine)
	case config.OutputFormatJSON:
		return print.RawJSON(out, p)
	case config.OutputFormatYAML:
		return print.RawYAML(out, p)
	default:
		return fmt.Errorf("unsupported output format: %q", cfg.OutputFormat)
	}
}
