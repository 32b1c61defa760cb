// Package filesearch locates the configuration file on the default search
// path.
package filesearch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Basenames tried in each location, in order. A .conf file is read as TOML
// for compatibility with older configurations.
var configFilenames = []string{
	"profiles.conf",
	"profiles.toml",
	"profiles.yaml",
	"profiles.yml",
	"profiles.json",
}

func searchLocations() []string {
	locations := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".resticwrap"), home)
	}
	return append(locations, "/usr/local/etc/resticwrap", "/etc/resticwrap")
}

// FindConfigurationFile returns the configuration file to load. An explicit
// path always wins and is an error when missing; otherwise the default
// basenames are probed in each search location.
func FindConfigurationFile(explicit string) (string, error) {
	if explicit != "" {
		if fileExists(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("configuration file %q was not found", explicit)
	}
	locations := searchLocations()
	for _, location := range locations {
		for _, name := range configFilenames {
			path := filepath.Join(location, name)
			if fileExists(path) {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("no configuration file found in %s", strings.Join(locations, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
