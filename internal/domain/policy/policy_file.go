package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk content policy. Keywords extend the built-in list unless
// ReplaceDefaults is set; Replies override localized fixed messages by key and language.
type File struct {
	ReplaceDefaults bool                         `yaml:"replace_defaults"`
	Keywords        []string                     `yaml:"keywords"`
	Replies         map[string]map[string]string `yaml:"replies"`
}

func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content policy: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse content policy %s: %w", path, err)
	}
	return &file, nil
}

// EffectiveKeywords merges the file with DefaultKeywords.
func (f *File) EffectiveKeywords() []string {
	if f == nil {
		return DefaultKeywords
	}
	if f.ReplaceDefaults {
		return f.Keywords
	}
	merged := make([]string, 0, len(DefaultKeywords)+len(f.Keywords))
	merged = append(merged, DefaultKeywords...)
	return append(merged, f.Keywords...)
}
