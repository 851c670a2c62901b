package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"
)

// LoadError reports a definition file that could not be loaded.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Extensions lists the file extensions LoadFile understands.
var Extensions = []string{".yaml", ".yml", ".cue"}

// IsDefinitionFile reports whether path has a supported extension.
func IsDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile reads a YAML or CUE definition document, chosen by extension.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(path, data)
	case ".cue":
		return ParseCUE(path, data)
	default:
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unsupported extension %q (want .yaml, .yml or .cue)", filepath.Ext(path))}
	}
}
