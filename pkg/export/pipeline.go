package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/aretw0/graficador/internal/logging"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/shapetree"
)

// TemplateExt marks the files of a Target's tree that are executed as templates.
// Every other file is copied verbatim.
const TemplateExt = ".tmpl"

// Target is the template provider of one framework.
type Target struct {
	// Name is the registry key ("angular", "flutter").
	Name string
	// DefaultProject is used when the caller passes an empty project name.
	DefaultProject string
	// Folders are created even when empty.
	Folders []string
	// Files mirrors the project layout. Files ending in TemplateExt are executed
	// with a Data value and written without the extension.
	Files fs.FS
	// AssetRoot is the folder, relative to the project root, that image assets
	// resolve against. Empty means image bytes are not bundled.
	AssetRoot string
	// Funcs are merged over the shared template functions.
	Funcs template.FuncMap
}

// Data is passed to every template of a target.
type Data struct {
	Project  string
	Target   string
	Elements []Element
}

// Exporter produces the file tree of a project from a shape tree.
type Exporter interface {
	Export(ctx context.Context, shapes []domain.Shape, projectName string) (*FileSet, error)
}

// Pipeline is the Exporter shared by every target.
type Pipeline struct {
	target Target
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithLogger configures a logger for the Pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline for target.
func New(target Target, opts ...Option) *Pipeline {
	p := &Pipeline{
		target: target,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the target name.
func (p *Pipeline) Name() string {
	return p.target.Name
}

// DefaultProject returns the project name used when none is given.
func (p *Pipeline) DefaultProject() string {
	return p.target.DefaultProject
}

// Export snapshots shapes and renders the target project. The input is never
// modified. On failure no FileSet is returned.
func (p *Pipeline) Export(ctx context.Context, shapes []domain.Shape, projectName string) (out *FileSet, err error) {
	start := p.now()
	if projectName == "" {
		projectName = p.target.DefaultProject
	}
	log := p.logger.With("target", p.target.Name, "project", projectName)

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &Error{Target: p.target.Name, Stage: "panic", Err: fmt.Errorf("%v", r)}
		}
		if err != nil {
			log.Error("export aborted", "error", err)
			return
		}
		log.Info("export finished", "files", out.Len(), "duration", p.now().Sub(start))
	}()

	if err := ValidateProjectName(projectName); err != nil {
		return nil, err
	}

	// The snapshot is taken before any traversal; everything after is a pure
	// function of it.
	leaves := shapetree.Flatten(shapetree.Clone(shapes))
	elements, err := Elements(leaves)
	if err != nil {
		return nil, &Error{Target: p.target.Name, Stage: "map", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Target: p.target.Name, Stage: "map", Err: err}
	}

	data := Data{Project: projectName, Target: p.target.Name, Elements: elements}
	files, err := p.assemble(ctx, data)
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (p *Pipeline) assemble(ctx context.Context, data Data) (*FileSet, error) {
	files := NewFileSet(data.Project)
	for _, dir := range p.target.Folders {
		if err := files.AddFolder(dir); err != nil {
			return nil, err
		}
	}

	if p.target.Files != nil {
		funcs := p.funcs()
		err := fs.WalkDir(p.target.Files, ".", func(name string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := fs.ReadFile(p.target.Files, name)
			if err != nil {
				return err
			}
			dest, isTemplate := strings.CutSuffix(name, TemplateExt)
			if !isTemplate {
				return files.AddFile(dest, raw)
			}
			content, err := render(name, string(raw), funcs, data)
			if err != nil {
				return err
			}
			return files.AddFile(dest, content)
		})
		if err != nil {
			return nil, p.wrap("render", err)
		}
	}

	if p.target.AssetRoot != "" {
		for _, el := range data.Elements {
			img := el.Image()
			if img == nil || img.Data == nil {
				continue
			}
			if err := files.AddFile(path.Join(p.target.AssetRoot, img.Asset), img.Data); err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}

// wrap keeps scaffold errors as they are and turns anything else into an *Error.
func (p *Pipeline) wrap(stage string, err error) error {
	var se *ScaffoldError
	if errors.As(err, &se) {
		return se
	}
	return &Error{Target: p.target.Name, Stage: stage, Err: err}
}

func (p *Pipeline) funcs() template.FuncMap {
	funcs := template.FuncMap{
		"num":   FormatNumber,
		"json":  jsonString,
		"lower": strings.ToLower,
	}
	for name, fn := range p.target.Funcs {
		funcs[name] = fn
	}
	return funcs
}

func render(name, text string, funcs template.FuncMap, data Data) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// FormatNumber prints a coordinate the shortest way: 10, 20.5, -3.25.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func jsonString(s string) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

// ValidateProjectName rejects names that cannot be used as the archive name and
// the root of the generated project.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return &ScaffoldError{Path: name, Reason: "project name is empty"}
	case name == "." || name == "..":
		return &ScaffoldError{Path: name, Reason: "project name is reserved"}
	case strings.ContainsAny(name, `/\:*?"<>|`):
		return &ScaffoldError{Path: name, Reason: "project name contains a path or reserved character"}
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return &ScaffoldError{Path: name, Reason: "project name contains a control character"}
		}
	}
	return nil
}
