package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mfgkeeper/manufacturer-maintenance/internal"
)

type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

const (
	pgxDriver            = "pgx"
	bootstrapPingTimeout = 5 * time.Second
)

// Manager owns the shared Store handle. All access goes through the
// mutex so concurrent requests cannot race the lazy bootstrap. A failed
// bootstrap leaves the state Failed and the next Ensure retries from
// scratch, so an unreachable database never wedges the process.
type Manager struct {
	cfg    internal.DatabaseConfig
	logger *slog.Logger

	mu    sync.Mutex
	store *Store
	sqlDB *sqlx.DB
	state State
}

func NewManager(cfg internal.DatabaseConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, logger: logger}
}

// Ensure returns a ready Store, opening the connection on first use.
// It makes up to cfg.RetryAttempts attempts separated by cfg.RetryDelay;
// when all fail the error returns and the caller's next request retries
// lazily.
func (m *Manager) Ensure(ctx context.Context) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateReady && m.store != nil {
		return m.store, nil
	}

	var lastErr error
	for attempt := 1; attempt <= m.cfg.RetryAttempts; attempt++ {
		store, sqlDB, err := m.open(ctx)
		if err == nil {
			m.store = store
			m.sqlDB = sqlDB
			m.state = StateReady
			m.logger.Info("database connection ready", "driver", m.cfg.Driver, "attempt", attempt)
			return store, nil
		}

		lastErr = err
		m.logger.Warn("database connection failed",
			"attempt", attempt,
			"max_attempts", m.cfg.RetryAttempts,
			"error", err)

		if attempt < m.cfg.RetryAttempts {
			select {
			case <-ctx.Done():
				m.state = StateFailed
				return nil, ctx.Err()
			case <-time.After(m.cfg.RetryDelay):
			}
		}
	}

	m.state = StateFailed
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", m.cfg.RetryAttempts, lastErr)
}

// Current returns the live store without triggering a connection
// attempt, for callers that must stay cheap (health, status views).
func (m *Manager) Current() (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store, m.state == StateReady && m.store != nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset drops the handle so the next Ensure reopens from scratch.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.state = StateUninitialized
}

// Close releases the connection on shutdown.
func (m *Manager) Close() {
	m.Reset()
}

func (m *Manager) open(ctx context.Context) (*Store, *sqlx.DB, error) {
	var (
		gdb   *gorm.DB
		sqlDB *sqlx.DB
		err   error
	)

	switch m.cfg.Driver {
	case "sqlite":
		gdb, err = gorm.Open(sqlite.Open(m.cfg.Source), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
	default:
		sqlDB, err = sqlx.ConnectContext(ctx, pgxDriver, m.cfg.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB.SetMaxIdleConns(m.cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(m.cfg.MaxOpenConns)

		pingCtx, cancel := context.WithTimeout(ctx, bootstrapPingTimeout)
		err = sqlDB.PingContext(pingCtx)
		cancel()
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}

		gdb, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("wrap connection: %w", err)
		}
	}

	store := NewStore(gdb)
	if err := store.Probe(ctx); err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		} else if db, dbErr := gdb.DB(); dbErr == nil {
			_ = db.Close()
		}
		return nil, nil, fmt.Errorf("probe users: %w", err)
	}

	return store, sqlDB, nil
}

func (m *Manager) closeLocked() {
	if m.sqlDB != nil {
		_ = m.sqlDB.Close()
		m.sqlDB = nil
	} else if m.store != nil {
		if db, err := m.store.db.DB(); err == nil {
			_ = db.Close()
		}
	}
	m.store = nil
}
