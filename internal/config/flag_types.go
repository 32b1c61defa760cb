package config

import "fmt"

// OutputFormat selects how the profiles and show subcommands render their
// result: a table by default, or raw json/yaml for scripting.
type OutputFormat string

const (
	OutputFormatDefault OutputFormat = ""
	OutputFormatYAML    OutputFormat = "yaml"
	OutputFormatJSON    OutputFormat = "json"
)

func (o *OutputFormat) String() string {
	return string(*o)
}

// Set implements the pflag.Value interface.
func (o *OutputFormat) Set(v string) error {
	switch OutputFormat(v) {
	case OutputFormatDefault, OutputFormatYAML, OutputFormatJSON:
		*o = OutputFormat(v)
	default:
		return fmt.Errorf("unknown output format %q, supported formats are json and yaml", v)
	}
	return nil
}

// Type implements the pflag.Value interface.
func (o *OutputFormat) Type() string {
	return "string"
}
