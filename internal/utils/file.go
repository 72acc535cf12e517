package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileTypeJSON   = "json"
	FileTypeYAML   = "yaml"
	FileTypeBinary = "binary"
)

func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("expected a file, got a directory: %s", path)
	}
	return true, nil
}

// FileTypeFromExt maps a config file extension to a FileReader type.
func FileTypeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FileTypeJSON, nil
	case ".yml", ".yaml":
		return FileTypeYAML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
}

func FileReader(path string, fileType string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("file %s is empty", path)
	}

	switch fileType {
	case FileTypeJSON:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", path, err)
		}
	case FileTypeYAML:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file type %s for file %s", fileType, path)
	}
	return nil
}

func CreateFile(path string, content any, fileType string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directories for %s: %w", path, err)
	}

	var data []byte
	var err error

	switch fileType {
	case FileTypeJSON:
		data, err = json.MarshalIndent(content, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON for %s: %w", path, err)
		}
	case FileTypeYAML:
		data, err = yaml.Marshal(content)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML for %s: %w", path, err)
		}
	case FileTypeBinary:
		bytesContent, ok := content.([]byte)
		if !ok {
			return fmt.Errorf("invalid content type for binary file %s", path)
		}
		data = bytesContent
	default:
		return fmt.Errorf("unsupported file type %s for file %s", fileType, path)
	}

	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
