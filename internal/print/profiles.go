package print

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/resticwrap/resticwrap/internal/profile"
)

// ProfileTable prints one line per profile declared in the configuration.
func ProfileTable(out io.Writer, infos []profile.Info) error {
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	fmt.Fprintln(tw, "PROFILE\tDESCRIPTION\tSECTIONS")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Description, strings.Join(info.Sections, ", "))
	}

	return tw.Flush()
}

// GroupTable prints one line per profile group.
func GroupTable(out io.Writer, groups map[string]profile.Group) error {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	fmt.Fprintln(tw, "GROUP\tPROFILES")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(groups[name].Profiles, ", "))
	}

	return tw.Flush()
}

// ProfileDetails prints the resolved profile, its environment and the
// command line that would be executed.
func ProfileDetails(out io.Writer, p *profile.Profile, commandLine []string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	fmt.Fprintf(tw, "Profile:\t%s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	}
	fmt.Fprintf(tw, "Repository:\t%s\n", p.Repository)
	if environment := p.GetEnvironment(); len(environment) > 0 {
		fmt.Fprintf(tw, "Environment:\t%s\n", strings.Join(environment, "\n\t"))
	}
	fmt.Fprintf(tw, "Command line:\t%s\n", strings.Join(commandLine, " "))

	return tw.Flush()
}
