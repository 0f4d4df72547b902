package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/graficador/internal/logging"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/shapetree"
	"github.com/aretw0/graficador/pkg/templates"
	"github.com/google/uuid"
)

// IDFunc returns a fresh id for a new shape of the given type.
type IDFunc func(domain.ShapeType) string

// NewID is the default IDFunc: "<type>-<uuid>".
func NewID(t domain.ShapeType) string {
	return string(t) + "-" + uuid.NewString()
}

// Editor applies operations to one design.
type Editor struct {
	design *domain.Design
	newID  IDFunc
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Editor.
type Option func(*Editor)

// WithIDFunc overrides shape id generation.
func WithIDFunc(fn IDFunc) Option {
	return func(e *Editor) {
		e.newID = fn
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithLogger configures a logger for the Editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithClock overrides the time source used for UpdatedAt and events.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// New creates an Editor over design. A nil design starts an empty one.
func New(design *domain.Design, opts ...Option) *Editor {
	if design == nil {
		design = domain.NewDesign("", "")
	}
	e := &Editor{
		design: design,
		newID:  NewID,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Design returns the live design. It must not be modified by the caller.
func (e *Editor) Design() *domain.Design {
	return e.design
}

// Snapshot returns a deep copy of the current design.
func (e *Editor) Snapshot() domain.Design {
	cp := *e.design
	cp.Shapes = shapetree.Clone(e.design.Shapes)
	if cp.Shapes == nil {
		cp.Shapes = []domain.Shape{}
	}
	return cp
}

// Selected returns the selected shape, if any.
func (e *Editor) Selected() (domain.Shape, bool) {
	if e.design.SelectedID == "" {
		return domain.Shape{}, false
	}
	return shapetree.Lookup(e.design.Shapes, e.design.SelectedID)
}

// AddShape appends a new shape of type t to the top of the root list and selects it.
// props are the free-form properties set by the drawing tool or a template fixture;
// unknown keys and mistyped values are rejected.
func (e *Editor) AddShape(ctx context.Context, t domain.ShapeType, props map[string]any) (domain.Shape, error) {
	s, err := e.addShape(t, props)
	if err != nil {
		e.emit(ctx, domain.OpAddShape, nil, err, false)
		return domain.Shape{}, err
	}
	e.touch()
	e.emit(ctx, domain.OpAddShape, []string{s.ID}, nil, true)
	return s, nil
}

func (e *Editor) addShape(t domain.ShapeType, props map[string]any) (domain.Shape, error) {
	if _, err := domain.ParseShapeType(string(t)); err != nil {
		return domain.Shape{}, err
	}
	if t == domain.ShapeGroup {
		return domain.Shape{}, domain.NewValidationError(domain.KeyType, "groups are created by grouping existing shapes")
	}

	s := defaultShape(t)
	if err := applyProps(&s, props); err != nil {
		return domain.Shape{}, err
	}
	s.ID = e.newID(t)
	s.Type = t

	if _, taken := shapetree.Find(e.design.Shapes, s.ID); taken {
		return domain.Shape{}, domain.NewValidationError(domain.KeyID, fmt.Sprintf("id %q is already in use", s.ID))
	}

	e.design.Shapes = append(slices.Clip(e.design.Shapes), s)
	e.design.SelectedID = s.ID
	return s, nil
}

// SelectShape makes id the active selection. An empty id clears it.
// Unknown ids leave the selection unchanged and report false.
func (e *Editor) SelectShape(ctx context.Context, id string) bool {
	changed := false
	if id == "" {
		changed = e.design.SelectedID != ""
		e.design.SelectedID = ""
	} else if _, ok := shapetree.Find(e.design.Shapes, id); ok {
		changed = e.design.SelectedID != id
		e.design.SelectedID = id
	}
	e.emit(ctx, domain.OpSelectShape, []string{id}, nil, changed)
	return changed
}

// DeleteShape removes the shape and its subtree.
func (e *Editor) DeleteShape(ctx context.Context, id string) bool {
	out, changed := shapetree.Delete(e.design.Shapes, id)
	e.commit(out, changed)
	e.emit(ctx, domain.OpDeleteShape, []string{id}, nil, changed)
	return changed
}

// MoveForward brings the shape one step up among its siblings.
func (e *Editor) MoveForward(ctx context.Context, id string) bool {
	out, changed := shapetree.MoveForward(e.design.Shapes, id)
	e.commit(out, changed)
	e.emit(ctx, domain.OpMoveForward, []string{id}, nil, changed)
	return changed
}

// MoveBackward sends the shape one step down among its siblings.
func (e *Editor) MoveBackward(ctx context.Context, id string) bool {
	out, changed := shapetree.MoveBackward(e.design.Shapes, id)
	e.commit(out, changed)
	e.emit(ctx, domain.OpMoveBackward, []string{id}, nil, changed)
	return changed
}

// GroupShapes wraps the given sibling shapes into a new group and selects it.
func (e *Editor) GroupShapes(ctx context.Context, ids []string) (domain.Shape, error) {
	groupID := e.newID(domain.ShapeGroup)
	out, err := shapetree.Group(e.design.Shapes, ids, groupID)
	if err != nil {
		e.emit(ctx, domain.OpGroupShapes, ids, err, false)
		return domain.Shape{}, err
	}
	e.commit(out, true)
	e.design.SelectedID = groupID
	e.emit(ctx, domain.OpGroupShapes, ids, nil, true)

	g, _ := shapetree.Lookup(e.design.Shapes, groupID)
	return g, nil
}

// UngroupShapes dissolves the group, splicing its children in its place.
// Unknown ids report false; non-group targets are rejected.
func (e *Editor) UngroupShapes(ctx context.Context, id string) (bool, error) {
	before := e.design.Shapes
	out, err := shapetree.Ungroup(before, id)
	if err != nil {
		e.emit(ctx, domain.OpUngroupShapes, []string{id}, err, false)
		return false, err
	}
	_, existed := shapetree.Find(before, id)
	e.commit(out, existed)
	e.emit(ctx, domain.OpUngroupShapes, []string{id}, nil, existed)
	return existed, nil
}

// InsertTemplate adds every fixture of the named template, in order, as if each
// had been drawn by hand. Either all fixtures are added or none.
func (e *Editor) InsertTemplate(ctx context.Context, name string) ([]domain.Shape, error) {
	fixtures, err := templates.Get(name)
	if err != nil {
		e.emit(ctx, domain.OpInsertTemplate, []string{name}, err, false)
		return nil, err
	}

	shapes, selected := e.design.Shapes, e.design.SelectedID
	added := make([]domain.Shape, 0, len(fixtures))
	for i, f := range fixtures {
		s, err := e.addShape(f.Type, f.Props)
		if err != nil {
			e.design.Shapes, e.design.SelectedID = shapes, selected
			err = fmt.Errorf("template %s fixture %d: %w", name, i, err)
			e.emit(ctx, domain.OpInsertTemplate, []string{name}, err, false)
			return nil, err
		}
		added = append(added, s)
	}
	e.touch()
	e.emit(ctx, domain.OpInsertTemplate, []string{name}, nil, len(added) > 0)
	return added, nil
}

// commit installs a new tree and drops a selection that no longer resolves.
func (e *Editor) commit(shapes []domain.Shape, changed bool) {
	if !changed {
		return
	}
	e.design.Shapes = shapes
	if e.design.SelectedID != "" {
		if _, ok := shapetree.Find(shapes, e.design.SelectedID); !ok {
			e.design.SelectedID = ""
		}
	}
	e.touch()
}

func (e *Editor) touch() {
	e.design.UpdatedAt = e.now().UTC()
}

func (e *Editor) emit(ctx context.Context, op string, targets []string, err error, changed bool) {
	outcome := domain.OutcomeNoop
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrTemplateNotFound):
		outcome = domain.OutcomeRejected
	case err != nil:
		outcome = domain.OutcomeFailed
	case changed:
		outcome = domain.OutcomeApplied
	}

	if err != nil {
		e.logger.Debug("edit rejected", "design", e.design.ID, "op", op, "targets", targets, "error", err)
	} else {
		e.logger.Debug("edit", "design", e.design.ID, "op", op, "targets", targets, "outcome", outcome)
	}

	if e.hooks.OnEdit == nil {
		return
	}
	e.hooks.OnEdit(ctx, &domain.EditEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventEdit,
			DesignID:  e.design.ID,
		},
		Op:      op,
		Targets: targets,
		Outcome: outcome,
		Err:     err,
	})
}
