package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a source document from disk. JSON and YAML are
// supported; the format is chosen by extension, falling back to content
// sniffing for anything else.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return Parse(data)
	}
}

// Parse decodes a source document from raw bytes, sniffing the format.
func Parse(data []byte) (*Source, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("parse document: empty input")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return parseJSON(data)
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (*Source, error) {
	var src Source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parse document json: %w", err)
	}
	return &src, nil
}

func parseYAML(data []byte) (*Source, error) {
	var src Source
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parse document yaml: %w", err)
	}
	return &src, nil
}
