package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFile is the configuration file name looked up by FindConfig.
const ConfigFile = "butler.yaml"

// ErrConfigNotFound is returned when no configuration file is found.
var ErrConfigNotFound = errors.New("config not found")

// FindConfig looks upwards from startDir for a butler.yaml, either directly
// in a directory or inside its .butler directory, and returns its absolute path.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, candidate := range []string{
			filepath.Join(dir, ConfigFile),
			filepath.Join(dir, ".butler", ConfigFile),
		} {
			if isFile(candidate) {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrConfigNotFound
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
