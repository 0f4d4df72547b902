package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/graficador"
	"github.com/aretw0/graficador/internal/config"
	"github.com/aretw0/graficador/internal/logging"
	"github.com/aretw0/graficador/pkg/adapters/file"
	"github.com/aretw0/graficador/pkg/adapters/memory"
	redisadapter "github.com/aretw0/graficador/pkg/adapters/redis"
	"github.com/aretw0/graficador/pkg/observability"
)

// Runtime is a Service wired from configuration plus the resources it holds.
type Runtime struct {
	Service *graficador.Service
	Logger  *slog.Logger

	closers []func() error
}

// Close releases the store connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewLogger builds the CLI logger for the configured level. Logs go to stderr
// so they never mix with command output.
func NewLogger(level string, jsonFormat bool) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if jsonFormat {
		return logging.NewJSON(os.Stderr, lvl), nil
	}
	return logging.New(lvl), nil
}

// NewRuntime initializes a Service with the store selected in cfg.
func NewRuntime(cfg *config.Config, logger *slog.Logger, opts ...graficador.Option) (*Runtime, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	rt := &Runtime{Logger: logger}

	svcOpts := []graficador.Option{
		graficador.WithLogger(logger),
		graficador.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		svcOpts = append(svcOpts, graficador.WithStore(memory.NewStore()))
	case config.BackendFile:
		svcOpts = append(svcOpts, graficador.WithStore(file.NewStore(cfg.Store.Dir)))
	case config.BackendRedis:
		r := cfg.Store.Redis
		store := redisadapter.New(r.Addr, r.Password, r.DB,
			redisadapter.WithPrefix(r.Prefix),
			redisadapter.WithTTL(r.TTL),
		)
		rt.closers = append(rt.closers, store.Close)
		svcOpts = append(svcOpts,
			graficador.WithStore(store),
			graficador.WithLocker(redisadapter.NewLocker(store.Client(), r.Prefix)),
		)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	logger.Debug("Store configured", "backend", cfg.Store.Backend)
	rt.Service = graficador.New(append(svcOpts, opts...)...)
	return rt, nil
}
