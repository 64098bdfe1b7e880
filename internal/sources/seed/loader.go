// Package seed reads the starter collection from a YAML file.
package seed

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var placeholderPattern = regexp.MustCompile(`\$\{[^}]+\}`)

// Loader handles loading and parsing of a seed file.
type Loader struct {
	filePath string
}

// NewLoader creates a new seed loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed file.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	data = stripPlaceholders(data)

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return f, nil
}

// stripPlaceholders replaces deployment placeholders with an empty string.
// Example: ${DOCS_URL} -> ""
func stripPlaceholders(data []byte) []byte {
	return placeholderPattern.ReplaceAll(data, []byte(`""`))
}
