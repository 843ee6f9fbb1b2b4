package database

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gaborage/go-sqlmodel/config"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/gaborage/go-sqlmodel/logger"
)

const (
	defaultMaxConnections  = 16
	defaultIdleTTL         = 30 * time.Minute
	defaultCleanupInterval = 5 * time.Minute
)

// ConfigSource resolves the configuration of a named connection.
type ConfigSource interface {
	DBConfig(ctx context.Context, name string) (*config.DatabaseConfig, error)
}

// StaticSource serves the connections declared in a loaded Config. The empty
// name is the default `database` section; other names come from `databases`.
type StaticSource struct {
	cfg *config.Config
}

// NewStaticSource returns a ConfigSource over cfg.
func NewStaticSource(cfg *config.Config) *StaticSource {
	return &StaticSource{cfg: cfg}
}

// DBConfig fails with ErrConnectionNotFound for undeclared names.
func (s *StaticSource) DBConfig(_ context.Context, name string) (*config.DatabaseConfig, error) {
	if name == "" {
		if !config.IsDatabaseConfigured(&s.cfg.Database) {
			return nil, fmt.Errorf("%w: default database is not configured", types.ErrConnectionNotFound)
		}
		return &s.cfg.Database, nil
	}
	db, ok := s.cfg.Databases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrConnectionNotFound, name)
	}
	return &db, nil
}

// ManagerOptions bounds the connection cache.
type ManagerOptions struct {
	// MaxSize caps open connections; the least recently used one is closed first.
	MaxSize int
	// IdleTTL closes connections unused for longer, once cleanup is started.
	IdleTTL time.Duration
}

// Manager lazily opens and caches named connections. Concurrent first
// requests for a name share a single connection attempt.
type Manager struct {
	logger    logger.Logger
	source    ConfigSource
	connector Connector

	mu    sync.Mutex
	conns map[string]*managedConn
	lru   *list.List

	maxSize int
	idleTTL time.Duration

	cleanupMu sync.Mutex
	cleanupCh chan struct{}

	group singleflight.Group
}

type managedConn struct {
	conn     Interface
	element  *list.Element
	lastUsed time.Time
}

// NewManager returns a Manager. A nil connector opens tracked connections
// with NewConnection.
func NewManager(source ConfigSource, log logger.Logger, opts ManagerOptions, connector Connector) *Manager {
	if opts.MaxSize <= 0 {
		opts.MaxSize = defaultMaxConnections
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	if connector == nil {
		connector = NewConnection
	}
	return &Manager{
		logger:    log,
		source:    source,
		connector: connector,
		conns:     make(map[string]*managedConn),
		lru:       list.New(),
		maxSize:   opts.MaxSize,
		idleTTL:   opts.IdleTTL,
	}
}

// Get returns the connection registered under name, opening it on first use.
func (m *Manager) Get(ctx context.Context, name string) (Interface, error) {
	if conn := m.lookup(name); conn != nil {
		return conn, nil
	}

	result, err, _ := m.group.Do(name, func() (any, error) {
		if conn := m.lookup(name); conn != nil {
			return conn, nil
		}
		return m.open(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return result.(Interface), nil
}

func (m *Manager) lookup(name string) Interface {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.conns[name]
	if !ok {
		return nil
	}
	entry.lastUsed = time.Now()
	m.lru.MoveToFront(entry.element)
	return entry.conn
}

func (m *Manager) open(ctx context.Context, name string) (Interface, error) {
	cfg, err := m.source.DBConfig(ctx, name)
	if err != nil {
		return nil, err
	}

	conn, err := m.connector(cfg, m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictOldest()
	m.conns[name] = &managedConn{
		conn:     conn,
		element:  m.lru.PushFront(name),
		lastUsed: time.Now(),
	}

	m.logger.Info().
		Str("name", name).
		Str("vendor", cfg.Type).
		Msg("Opened database connection")
	return conn, nil
}

// evictOldest closes the least recently used connection when at capacity.
// m.mu must be held.
func (m *Manager) evictOldest() {
	if len(m.conns) < m.maxSize {
		return
	}
	oldest := m.lru.Back()
	if oldest == nil {
		return
	}
	m.remove(oldest.Value.(string), "Evicted least recently used database connection")
}

// remove closes and forgets name. m.mu must be held.
func (m *Manager) remove(name, reason string) {
	entry := m.conns[name]
	if err := entry.conn.Close(); err != nil {
		m.logger.Error().Err(err).Str("name", name).Msg("Failed to close database connection")
	}
	delete(m.conns, name)
	m.lru.Remove(entry.element)
	m.logger.Debug().Str("name", name).Msg(reason)
}

// StartCleanup closes idle connections every interval until StopCleanup or
// Close. Calling it twice is a no-op.
func (m *Manager) StartCleanup(interval time.Duration) {
	if interval <= 0 {
		interval = defaultCleanupInterval
	}

	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()
	if m.cleanupCh != nil {
		return
	}
	done := make(chan struct{})
	m.cleanupCh = done

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.closeIdle(time.Now())
			case <-done:
				return
			}
		}
	}()
}

// StopCleanup stops the cleanup goroutine.
func (m *Manager) StopCleanup() {
	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()
	if m.cleanupCh != nil {
		close(m.cleanupCh)
		m.cleanupCh = nil
	}
}

func (m *Manager) closeIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, entry := range m.conns {
		if now.Sub(entry.lastUsed) > m.idleTTL {
			m.remove(name, "Closed idle database connection")
		}
	}
}

// Close stops cleanup and closes every cached connection.
func (m *Manager) Close() error {
	m.StopCleanup()

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, entry := range m.conns {
		if err := entry.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", name, err))
		}
	}
	m.conns = make(map[string]*managedConn)
	m.lru.Init()
	return errors.Join(errs...)
}

// Size returns the number of open connections.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}
