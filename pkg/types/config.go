package types

import "errors"

// Config holds the tunable conversion parameters loaded from config.yaml.
type Config struct {
	// OutputName is the filename of the JSON document written next to
	// the working directory (or wherever --output points).
	OutputName string `json:"output_name" yaml:"output_name"`

	// MediaDir is the name of the media directory created as a sibling
	// of the output JSON file.
	MediaDir string `json:"media_dir" yaml:"media_dir"`

	// DefaultDeckLabels are deck names excluded from output. Matching is
	// case-insensitive. Anki names its built-in deck per the UI locale,
	// so the set is configurable rather than a single literal.
	DefaultDeckLabels []string `json:"default_deck_labels" yaml:"default_deck_labels"`
}

// Default configuration values.
const (
	DefaultOutputName = "data.json"
	DefaultMediaDir   = "media"
)

// DefaultDeckLabels returns the built-in default-deck names: the English
// label plus the French one observed in exported collections.
func DefaultDeckLabels() []string {
	return []string{"default", "par défaut"}
}

// Config validation errors.
var (
	ErrOutputNameEmpty = errors.New("output name must not be empty")
	ErrMediaDirEmpty   = errors.New("media directory must not be empty")
)

// DefaultConfig returns a Config populated with the default values.
func DefaultConfig() Config {
	return Config{
		OutputName:        DefaultOutputName,
		MediaDir:          DefaultMediaDir,
		DefaultDeckLabels: DefaultDeckLabels(),
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.OutputName == "" {
		return ErrOutputNameEmpty
	}
	if c.MediaDir == "" {
		return ErrMediaDirEmpty
	}
	return nil
}
