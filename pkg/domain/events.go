package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEdit   EventType = "edit"
	EventExport EventType = "export"
)

// Operation names reported in EditEvent.Op.
const (
	OpAddShape       = "add_shape"
	OpAddImage       = "add_image"
	OpSelectShape    = "select_shape"
	OpDeleteShape    = "delete_shape"
	OpMoveForward    = "move_forward"
	OpMoveBackward   = "move_backward"
	OpGroupShapes    = "group_shapes"
	OpUngroupShapes  = "ungroup_shapes"
	OpInsertTemplate = "insert_template"
)

// Outcome of an edit operation.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	DesignID  string    `json:"design_id"`
}

// EditEvent reports one grouping-engine or editor operation.
type EditEvent struct {
	EventBase
	Op      string   `json:"op"`
	Targets []string `json:"targets,omitempty"`
	Outcome string   `json:"outcome"`
	Err     error    `json:"-"`
}

// ExportEvent reports one export attempt.
type ExportEvent struct {
	EventBase
	Target   string        `json:"target"`
	Project  string        `json:"project"`
	Files    int           `json:"files"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for editor and exporter observability.
type LifecycleHooks struct {
	OnEdit   func(context.Context, *EditEvent)
	OnExport func(context.Context, *ExportEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEdit: func(ctx context.Context, e *EditEvent) {
			if h.OnEdit != nil {
				h.OnEdit(ctx, e)
			}
			if other.OnEdit != nil {
				other.OnEdit(ctx, e)
			}
		},
		OnExport: func(ctx context.Context, e *ExportEvent) {
			if h.OnExport != nil {
				h.OnExport(ctx, e)
			}
			if other.OnExport != nil {
				other.OnExport(ctx, e)
			}
		},
	}
}
