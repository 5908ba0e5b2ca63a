package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "guix-release"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Name of the project-local configuration file.
	LocalConfigName = toolName + ".json"
)

// Path to the user configuration file.
//
//	Linux:   $XDG_CONFIG_HOME/guix-release/config.json
//	macOS:   ~/Library/Application Support/guix-release/config.json
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, toolName, "config.json")
}

// Files consulted for configuration, lowest precedence first.
func ConfigFiles() []string {
	return []string{ConfigFile(), LocalConfigName}
}

// Release staging directory under root. Finished artifacts and the VERSION
// file live here.
func Release(root string) string {
	return filepath.Join(root, ".release")
}

// Host directory shared with build containers for their output.
func Output(root string) string {
	return filepath.Join(root, "out")
}

// Host directory holding the scripts mounted into build containers.
func Scripts(root string) string {
	return filepath.Join(root, "scripts")
}
