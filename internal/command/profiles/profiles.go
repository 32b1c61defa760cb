package profiles

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/resticwrap/resticwrap/internal/config"
	"github.com/resticwrap/resticwrap/internal/print"
)

func New(root *config.Root) *cobra.Command {
	cfg := &config.Profiles{Root: root}

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the profiles and groups declared in the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cfg, cmd.OutOrStdout())
		},
	}

	return cmd
}

func list(cfg *config.Profiles, out io.Writer) error {
	c, err := cfg.LoadConfiguration()
	if err != nil {
		return err
	}

	infos := c.ProfileSections()
	groups, err := c.GetProfileGroups()
	if err != nil {
		return err
	}

	switch cfg.OutputFormat {
	case config.OutputFormatDefault:
		if err := print.ProfileTable(out, infos); err != nil {
			return err
		}
		if len(groups) > 0 {
			fmt.Fprintln(out)
			return print.GroupTable(out, groups)
		}
		return nil
	case config.OutputFormatJSON:
		return print.RawJSON(out, map[string]any{"profiles": infos, "groups": groups})
	case config.OutputFormatYAML:
		return print.RawYAML(out, map[string]any{"profiles": infos, "groups": groups})
	default:
		return fmt.Errorf("unsupported output format: %q", cfg.OutputFormat)
	}
}
