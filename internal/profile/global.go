package profile

import "github.com/resticwrap/resticwrap/internal/restic"

// Global holds the launcher defaults from the [global] section.
type Global struct {
	DefaultCommand string `json:"default-command" mapstructure:"default-command"`
	ResticBinary   string `json:"restic-binary,omitempty" mapstructure:"restic-binary"`
	Initialize     bool   `json:"initialize,omitempty" mapstructure:"initialize"`
	Nice           int    `json:"nice,omitempty" mapstructure:"nice"`
	IONice         bool   `json:"ionice,omitempty" mapstructure:"ionice"`
	IONiceClass    int    `json:"ionice-class,omitempty" mapstructure:"ionice-class"`
	IONiceLevel    int    `json:"ionice-level,omitempty" mapstructure:"ionice-level"`
}

// NewGlobal returns a global section with the default values.
func NewGlobal() *Global {
	return &Global{
		DefaultCommand: restic.DefaultCommand,
		// best-effort is the only ionice class taking a level
		IONiceClass: 2,
	}
}
