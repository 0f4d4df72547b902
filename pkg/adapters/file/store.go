package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/graficador/pkg/domain"
)

// Store implements ports.DesignStore using the local filesystem.
// It stores each design as a JSON file in a configured directory.
type Store struct {
	BasePath string
}

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".graficador/designs".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".graficador", "designs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("design ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid design ID %q", id)
	}
	return filepath.Join(s.BasePath, id+".json"), nil
}

// Save persists the design to a JSON file. The file is replaced atomically.
func (s *Store) Save(ctx context.Context, design *domain.Design) error {
	filePath, err := s.path(design.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure design directory: %w", err)
	}

	data, err := json.MarshalIndent(design, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal design: %w", err)
	}

	if err := writeAtomic(filePath, data); err != nil {
		return fmt.Errorf("failed to write design file: %w", err)
	}
	return nil
}

// Load retrieves the design from its JSON file.
func (s *Store) Load(ctx context.Context, id string) (*domain.Design, error) {
	filePath, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDesignNotFound
		}
		return nil, fmt.Errorf("failed to read design file: %w", err)
	}

	var design domain.Design
	if err := json.Unmarshal(data, &design); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design: %w", err)
	}
	return &design, nil
}

// Delete removes the design file.
func (s *Store) Delete(ctx context.Context, id string) error {
	filePath, err := s.path(id)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete design file: %w", err)
	}
	return nil
}

// List returns all stored design IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
