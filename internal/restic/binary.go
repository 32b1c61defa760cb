package restic

import (
	"fmt"
	"os"
	"os/exec"
)

// Locations probed when restic is not on the PATH.
var binaryCandidates = []string{
	"/usr/bin/restic",
	"/usr/local/bin/restic",
	"/opt/local/bin/restic",
}

// FindBinary locates the restic executable. An override (command-line flag
// or global section) is checked first, then the PATH, then a few well-known
// locations.
func FindBinary(override string) (string, error) {
	if override != "" {
		if info, err := os.Stat(override); err == nil && !info.IsDir() {
			return override, nil
		}
		return "", fmt.Errorf("restic binary %q was not found", override)
	}
	if path, err := exec.LookPath("restic"); err == nil {
		return path, nil
	}
	for _, candidate := range binaryCandidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot find restic in PATH or in %v, use --restic-binary or the 'restic-binary' global setting", binaryCandidates)
}
