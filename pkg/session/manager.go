package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/graficador/internal/logging"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/editor"
	"github.com/aretw0/graficador/pkg/ports"
	"github.com/aretw0/graficador/pkg/shapetree"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates design access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.DesignStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	editor  []editor.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the lease of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEditorOptions sets the options applied to every editor handed out by Update.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(m *Manager) {
		m.editor = append(m.editor, opts...)
	}
}

// NewManager creates a new Manager over the given persistence store.
func NewManager(store ports.DesignStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Create stores a new empty design. An empty id is replaced by a random one.
func (m *Manager) Create(ctx context.Context, id, name string) (*domain.Design, error) {
	if id == "" {
		id = uuid.NewString()
	}
	var design *domain.Design
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, id)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", domain.ErrDesignExists, id)
		case !errors.Is(err, domain.ErrDesignNotFound):
			return fmt.Errorf("failed to check design existence: %w", err)
		}

		design = domain.NewDesign(id, name)
		design.UpdatedAt = time.Now().UTC()
		if err := m.store.Save(ctx, design); err != nil {
			return fmt.Errorf("failed to create design: %w", err)
		}
		return nil
	})
	return design, err
}

// Load retrieves an existing design from the store.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Design, error) {
	var design *domain.Design
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		design, err = m.store.Load(ctx, id)
		return err
	})
	return design, err
}

// Snapshot returns a copy of the design's shape tree taken under the lock.
// Export runs on the snapshot so it never blocks editing.
func (m *Manager) Snapshot(ctx context.Context, id string) (*domain.Design, error) {
	design, err := m.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	design.Shapes = shapetree.Clone(design.Shapes)
	return design, nil
}

// Update loads the design, runs fn on an editor over it and saves the result,
// all while holding the design's lock. If fn fails nothing is saved.
func (m *Manager) Update(ctx context.Context, id string, fn func(*editor.Editor) error) (*domain.Design, error) {
	var design *domain.Design
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		loaded, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}

		ed := editor.New(loaded, m.editor...)
		if err := fn(ed); err != nil {
			return err
		}

		if err := m.store.Save(ctx, loaded); err != nil {
			return fmt.Errorf("failed to save design: %w", err)
		}
		design = loaded
		return nil
	})
	return design, err
}

// Save replaces the stored design.
func (m *Manager) Save(ctx context.Context, design *domain.Design) error {
	return m.WithLock(ctx, design.ID, func(ctx context.Context) error {
		if err := shapetree.Validate(design.Shapes); err != nil {
			return err
		}
		return m.store.Save(ctx, design)
	})
}

// Delete removes the design from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying design store.
func (m *Manager) Store() ports.DesignStore {
	return m.store
}

// WithLock executes a function while holding the lock for the design.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"design_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
