package graficador

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/graficador/internal/logging"
	"github.com/aretw0/graficador/pkg/adapters/memory"
	"github.com/aretw0/graficador/pkg/archive"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/editor"
	"github.com/aretw0/graficador/pkg/export"
	"github.com/aretw0/graficador/pkg/export/angular"
	"github.com/aretw0/graficador/pkg/export/flutter"
	"github.com/aretw0/graficador/pkg/observability"
	"github.com/aretw0/graficador/pkg/ports"
	"github.com/aretw0/graficador/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the release of the module, reported by the CLI and the API.
const Version = "0.4.0"

// Service is the high-level entry point of the library.
// It ties the design store, the per-design lock manager and the export targets together.
type Service struct {
	store   ports.DesignStore
	locker  ports.DistributedLocker
	manager *session.Manager
	targets map[string]*export.Pipeline
	custom  []export.Target
	hooks   domain.LifecycleHooks
	metrics *observability.Metrics
	idFunc  editor.IDFunc
	logger  *slog.Logger
	now     func() time.Time
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithStore sets the design store. Defaults to an in-memory store.
func WithStore(store ports.DesignStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLocker enables distributed locking of designs.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithMetrics records edit and export metrics into reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Service) {
		s.metrics = observability.NewMetrics(reg)
		s.hooks = s.hooks.Merge(s.metrics.Hooks())
	}
}

// WithTarget registers an additional export target, replacing a built-in one
// with the same name.
func WithTarget(target export.Target) Option {
	return func(s *Service) {
		s.custom = append(s.custom, target)
	}
}

// WithIDFunc overrides shape id generation.
func WithIDFunc(fn editor.IDFunc) Option {
	return func(s *Service) {
		s.idFunc = fn
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New initializes a Service. The angular and flutter targets are always registered.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}

	editorOpts := []editor.Option{editor.WithHooks(s.hooks), editor.WithLogger(s.logger)}
	if s.idFunc != nil {
		editorOpts = append(editorOpts, editor.WithIDFunc(s.idFunc))
	}
	managerOpts := []session.Option{
		session.WithLogger(s.logger),
		session.WithEditorOptions(editorOpts...),
	}
	if s.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(s.locker))
	}
	s.manager = session.NewManager(s.store, managerOpts...)

	s.targets = make(map[string]*export.Pipeline)
	for _, t := range append([]export.Target{angular.Target(), flutter.Target()}, s.custom...) {
		s.targets[t.Name] = export.New(t, export.WithLogger(s.logger))
	}
	return s
}

// Manager returns the design manager, for callers that need raw locking.
func (s *Service) Manager() *session.Manager {
	return s.manager
}

// Metrics returns the collectors registered by WithMetrics, or nil.
func (s *Service) Metrics() *observability.Metrics {
	return s.metrics
}

// CreateDesign stores a new empty design.
func (s *Service) CreateDesign(ctx context.Context, id, name string) (*domain.Design, error) {
	return s.manager.Create(ctx, id, name)
}

// Design loads a design.
func (s *Service) Design(ctx context.Context, id string) (*domain.Design, error) {
	return s.manager.Load(ctx, id)
}

// Designs lists the stored design ids.
func (s *Service) Designs(ctx context.Context) ([]string, error) {
	return s.manager.List(ctx)
}

// ReplaceDesign validates the shape tree and overwrites the stored design.
func (s *Service) ReplaceDesign(ctx context.Context, design *domain.Design) error {
	if design.UpdatedAt.IsZero() {
		design.UpdatedAt = s.now().UTC()
	}
	return s.manager.Save(ctx, design)
}

// DeleteDesign removes a design. Deleting a missing design is not an error.
func (s *Service) DeleteDesign(ctx context.Context, id string) error {
	return s.manager.Delete(ctx, id)
}

// Edit applies fn to the design under its lock and persists the result.
func (s *Service) Edit(ctx context.Context, id string, fn func(*editor.Editor) error) (*domain.Design, error) {
	return s.manager.Update(ctx, id, fn)
}

// Targets returns the registered target names in sorted order.
func (s *Service) Targets() []string {
	names := make([]string, 0, len(s.targets))
	for name := range s.targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Target returns the pipeline registered under name.
func (s *Service) Target(name string) (*export.Pipeline, error) {
	p, ok := s.targets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", domain.ErrUnknownTarget, name, s.Targets())
	}
	return p, nil
}

// Export renders a stored design for target. The shape tree is copied under
// the design's lock and the pipeline runs outside it, so a slow export never
// blocks edits. An empty project uses the target's default name.
func (s *Service) Export(ctx context.Context, designID, target, project string) (*export.FileSet, error) {
	p, err := s.Target(target)
	if err != nil {
		return nil, err
	}
	design, err := s.manager.Snapshot(ctx, designID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, p, designID, design.Shapes, project)
}

// ExportShapes renders a shape tree that is not held in the store.
func (s *Service) ExportShapes(ctx context.Context, shapes []domain.Shape, target, project string) (*export.FileSet, error) {
	p, err := s.Target(target)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, p, "", shapes, project)
}

// ExportArchive exports a stored design and writes the zip to w.
// Nothing is written to w when the export fails.
func (s *Service) ExportArchive(ctx context.Context, w io.Writer, designID, target, project string) (*export.FileSet, error) {
	fs, err := s.Export(ctx, designID, target, project)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := archive.Build(&buf, fs); err != nil {
		return nil, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("failed to write archive: %w", err)
	}
	return fs, nil
}

func (s *Service) run(ctx context.Context, p *export.Pipeline, designID string, shapes []domain.Shape, project string) (*export.FileSet, error) {
	if project == "" {
		project = p.DefaultProject()
	}
	start := s.now()
	fs, err := p.Export(ctx, shapes, project)

	if s.hooks.OnExport != nil {
		ev := &domain.ExportEvent{
			EventBase: domain.EventBase{
				Timestamp: start,
				Type:      domain.EventExport,
				DesignID:  designID,
			},
			Target:   p.Name(),
			Project:  project,
			Duration: s.now().Sub(start),
			Err:      err,
		}
		if fs != nil {
			ev.Files = fs.Len()
		}
		s.hooks.OnExport(ctx, ev)
	}
	return fs, err
}
