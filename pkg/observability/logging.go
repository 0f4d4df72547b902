package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/graficador/pkg/domain"
)

// LoggingHooks returns hooks that write one structured record per event.
// Applied edits log at Info, everything else at Debug; failed exports at Error.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEdit: func(ctx context.Context, e *domain.EditEvent) {
			level := slog.LevelDebug
			if e.Outcome == domain.OutcomeApplied {
				level = slog.LevelInfo
			}
			attrs := []any{"design_id", e.DesignID, "op", e.Op, "outcome", e.Outcome}
			if len(e.Targets) > 0 {
				attrs = append(attrs, "targets", e.Targets)
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.Log(ctx, level, "edit", attrs...)
		},
		OnExport: func(ctx context.Context, e *domain.ExportEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "export failed",
					"design_id", e.DesignID,
					"target", e.Target,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "export",
				"design_id", e.DesignID,
				"target", e.Target,
				"project", e.Project,
				"files", e.Files,
				"duration", e.Duration,
			)
		},
	}
}
