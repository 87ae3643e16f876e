package keepalive

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
)

const (
	defaultInterval = 5 * time.Minute
	selfPingTimeout = 10 * time.Second
	wakeupUserAgent = "Wakeup-Bot/1.0"

	// free Render and Heroku dynos idle out after 30 minutes
	renderHerokuCap = 25 * time.Minute
	// Railway stops the container after 5 idle minutes
	railwayCap = 4 * time.Minute
)

// Manager keeps the process warm on free-tier hosts. Whenever the app
// has been idle longer than the configured interval it pings its own
// public health endpoint and runs the cheapest database query, so
// neither the dyno nor the upstream connection gets reaped. Every
// inbound request refreshes the activity clock through middleware.
type Manager struct {
	platform string
	interval time.Duration
	selfURL  string
	db       *database.Manager
	logger   *slog.Logger
	client   *http.Client

	lastActivity atomic.Int64

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(cfg internal.KeepaliveConfig, db *database.Manager, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	platform := strings.ToLower(cfg.Platform)
	m := &Manager{
		platform: platform,
		interval: platformInterval(platform, cfg.Interval),
		selfURL:  strings.TrimRight(cfg.SelfWakeupURL, "/"),
		db:       db,
		logger:   logger,
		client:   &http.Client{Timeout: selfPingTimeout},
	}
	m.Touch()
	return m
}

// platformInterval caps the wakeup interval below the host's idle
// shutdown threshold.
func platformInterval(platform string, interval time.Duration) time.Duration {
	if interval <= 0 {
		interval = defaultInterval
	}
	switch platform {
	case "render", "heroku":
		if interval > renderHerokuCap {
			return renderHerokuCap
		}
	case "railway":
		if interval > railwayCap {
			return railwayCap
		}
	}
	return interval
}

// Start marks the manager active and, when a self-wakeup URL is
// configured, launches the background loop. Calling Start on a running
// manager is a no-op; after Stop it can start again.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active {
		return
	}
	m.active = true
	m.Touch()

	if m.selfURL != "" {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.wg.Add(1)
		go m.loop(ctx)
		m.logger.Info("self-wakeup loop started", "url", m.selfURL, "interval", m.interval)
	}

	m.logger.Info("keepalive manager started", "platform", m.platform, "interval", m.interval)
}

// Stop cancels the loop and waits for an in-flight round to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.active {
		m.mu.Unlock()
		return
	}
	m.active = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info("keepalive manager stopped")
}

func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.IdleFor() > m.interval {
				m.Wakeup(ctx)
			}
		}
	}
}

// Wakeup runs one keep-warm round: ping the public health endpoint when
// configured, then run the lightweight database query and refresh the
// activity clock. A failed ping skips the rest of the round. Failures
// are logged, never fatal.
func (m *Manager) Wakeup(ctx context.Context) {
	if m.selfURL != "" {
		if err := m.selfPing(ctx); err != nil {
			m.logger.Warn("self-wakeup ping failed", "error", err)
			return
		}
	}
	m.probe(ctx)
	m.Touch()
}

// Refresh marks the app active and keeps the database connection warm.
// The external wakeup endpoint calls it on every hit.
func (m *Manager) Refresh(ctx context.Context) {
	m.Touch()
	m.probe(ctx)
}

func (m *Manager) selfPing(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.selfURL+"/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", wakeupUserAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	m.logger.Info("self-wakeup ping", "status", resp.StatusCode)
	return nil
}

func (m *Manager) probe(ctx context.Context) {
	store, err := m.db.Ensure(ctx)
	if err != nil {
		m.logger.Debug("keepalive query skipped", "error", err)
		return
	}
	if err := store.Probe(ctx); err != nil {
		m.logger.Debug("keepalive query failed", "error", err)
		return
	}
	m.logger.Debug("keepalive query ok")
}

// Touch refreshes the activity clock.
func (m *Manager) Touch() {
	m.lastActivity.Store(time.Now().UnixNano())
}

func (m *Manager) LastActivity() time.Time {
	return time.Unix(0, m.lastActivity.Load())
}

func (m *Manager) IdleFor() time.Duration {
	return time.Since(m.LastActivity())
}

func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Manager) Platform() string {
	return m.platform
}

// Interval is the effective wakeup interval after platform capping.
func (m *Manager) Interval() time.Duration {
	return m.interval
}
