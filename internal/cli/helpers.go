package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/graficador"
	"github.com/aretw0/graficador/internal/presentation/layers"
	"github.com/aretw0/graficador/internal/presentation/tui"
	"github.com/aretw0/graficador/pkg/adapters/file"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/export"
	"golang.org/x/term"
)

// PrintSystemMessage prints a standardized system message to w.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ParseProps turns key=value pairs into shape props. Numeric values become
// float64, everything else stays a string.
func ParseProps(pairs []string) (map[string]any, error) {
	props := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid prop %q, expected key=value", pair)
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			props[key] = f
			continue
		}
		props[key] = value
	}
	return props, nil
}

// OpenDesign loads a standalone document when path is set, otherwise the
// stored design id.
func OpenDesign(ctx context.Context, svc *graficador.Service, id, path string) (*domain.Design, error) {
	if path != "" {
		return file.ReadDocument(path)
	}
	if id == "" {
		return nil, fmt.Errorf("a design id or --file is required")
	}
	return svc.Design(ctx, id)
}

// RenderLayers writes the layer outline of design to w. When pretty is set
// the markdown is rendered for the terminal.
func RenderLayers(w io.Writer, design *domain.Design, opts layers.Options, pretty bool, width int) error {
	md := layers.Outline(design, opts)
	if !pretty {
		_, err := io.WriteString(w, md)
		return err
	}
	render, err := tui.NewRenderer(width)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// TerminalWidth returns the width of f, or 0 when it is not a terminal.
func TerminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// WriteTree writes the project as plain files under dir/<project>.
// It returns the project root.
func WriteTree(dir string, fs *export.FileSet) (string, error) {
	if err := export.ValidateProjectName(fs.Project); err != nil {
		return "", err
	}
	root := filepath.Join(dir, fs.Project)
	for _, folder := range fs.Folders() {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(folder)), 0755); err != nil {
			return "", fmt.Errorf("failed to create folder %s: %w", folder, err)
		}
	}
	for _, f := range fs.Files() {
		p := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return "", fmt.Errorf("failed to create folder for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(p, f.Content, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return root, nil
}
