package print

import (
	"encoding/json"
	"io"

	"sigs.k8s.io/yaml"
)

// RawJSON writes v as indented JSON, the -o json form of the profiles and
// show subcommands.
func RawJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RawYAML writes v as YAML through the json tags of its type.
func RawYAML(out io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
