// Config loading for the colporter CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/colporter/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyOutputName        = "output_name"
	cfgKeyMediaDir          = "media_dir"
	cfgKeyDefaultDeckLabels = "default_deck_labels"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Colporter CLI configuration

# Name of the JSON document written to the working directory
# (overridable per run with --output)
output_name: data.json

# Name of the media directory created next to the output file
media_dir: media

# Deck names excluded from output, matched case-insensitively.
# Anki localizes its built-in default deck, so add your locale's
# label here if it differs.
default_deck_labels:
  - default
  - par défaut
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyOutputName, types.DefaultOutputName)
	v.SetDefault(cfgKeyMediaDir, types.DefaultMediaDir)
	v.SetDefault(cfgKeyDefaultDeckLabels, types.DefaultDeckLabels())
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config.yaml is not an error.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// configFromViper maps viper keys onto a types.Config.
func configFromViper(v *viper.Viper) types.Config {
	return types.Config{
		OutputName:        v.GetString(cfgKeyOutputName),
		MediaDir:          v.GetString(cfgKeyMediaDir),
		DefaultDeckLabels: v.GetStringSlice(cfgKeyDefaultDeckLabels),
	}
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
