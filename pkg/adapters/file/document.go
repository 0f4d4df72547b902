package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/shapetree"
	"gopkg.in/yaml.v3"
)

// ReadDocument loads a standalone design document. The format follows the file
// extension: .yaml/.yml is YAML, anything else is JSON. The tree is validated
// before it is returned.
func ReadDocument(path string) (*domain.Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read design document: %w", err)
	}

	var design domain.Design
	if isYAML(path) {
		err = yaml.Unmarshal(data, &design)
	} else {
		err = json.Unmarshal(data, &design)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse design document %s: %w", path, err)
	}

	if design.ID == "" {
		design.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if design.Shapes == nil {
		design.Shapes = []domain.Shape{}
	}
	if err := shapetree.Validate(design.Shapes); err != nil {
		return nil, fmt.Errorf("invalid design document %s: %w", path, err)
	}
	return &design, nil
}

// WriteDocument saves a design document in the format implied by the extension.
func WriteDocument(path string, design *domain.Design) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(design)
	} else {
		data, err = json.MarshalIndent(design, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal design document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to ensure document directory: %w", err)
		}
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write design document: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
