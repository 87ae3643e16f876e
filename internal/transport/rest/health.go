package rest

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/keepalive"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/transport"
)

const probeTimeout = 2 * time.Second

type DatabaseHealth struct {
	Connection string `json:"connection"`
	Test       string `json:"test"`
}

type AntiSleepHealth struct {
	Active         bool   `json:"active"`
	LastActivity   string `json:"last_activity"`
	IdleSeconds    int    `json:"idle_seconds"`
	Platform       string `json:"platform"`
	WakeupInterval int    `json:"wakeup_interval"`
}

type MemoryHealth struct {
	Threads int `json:"threads"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Database  DatabaseHealth  `json:"database"`
	AntiSleep AntiSleepHealth `json:"anti_sleep"`
	Memory    MemoryHealth    `json:"memory"`
}

type WakeupResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp,omitempty"`
	NextWakeup string `json:"next_wakeup,omitempty"`
}

// HealthHandler serves the unauthenticated liveness surface the hosting
// platform and external wakeup bots hit.
type HealthHandler struct {
	*transport.BaseHandler
	manager   *database.Manager
	keepalive *keepalive.Manager
	wakeupKey string
}

func NewHealthHandler(manager *database.Manager, clock *keepalive.Manager, wakeupKey string) *HealthHandler {
	return &HealthHandler{
		BaseHandler: transport.NewBaseHandler(nil),
		manager:     manager,
		keepalive:   clock,
		wakeupKey:   wakeupKey,
	}
}

// Health reports connection state, a live probe result, keep-alive
// state and the goroutine count. It never dials the database itself;
// the probe only runs against an already open connection, so the
// endpoint stays cheap enough for frequent external pings.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	connection := "disconnected"
	test := "unknown"

	if store, ok := h.manager.Current(); ok {
		connection = "connected"

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		if err := store.Probe(ctx); err != nil {
			test = "unhealthy"
		} else {
			test = "healthy"
		}
		cancel()
	}

	h.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  DatabaseHealth{Connection: connection, Test: test},
		AntiSleep: AntiSleepHealth{
			Active:         h.keepalive.Active(),
			LastActivity:   h.keepalive.LastActivity().Format(time.RFC3339),
			IdleSeconds:    int(h.keepalive.IdleFor().Seconds()),
			Platform:       h.keepalive.Platform(),
			WakeupInterval: int(h.keepalive.Interval().Seconds()),
		},
		Memory: MemoryHealth{Threads: runtime.NumGoroutine()},
	})
}

// Wakeup lets an external scheduler keep the app warm. When a wakeup
// key is configured the caller must present it as a query parameter or
// form field.
func (h *HealthHandler) Wakeup(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		key = r.PostFormValue("key")
	}
	if h.wakeupKey != "" && key != h.wakeupKey {
		h.Logger.Warn("wakeup rejected", "remote_addr", r.RemoteAddr)
		h.WriteJSON(w, http.StatusUnauthorized, WakeupResponse{
			Status:  "error",
			Message: "无效的唤醒密钥",
		})
		return
	}

	h.keepalive.Refresh(r.Context())
	h.Logger.Info("external wakeup", "remote_addr", r.RemoteAddr)

	now := time.Now()
	h.WriteJSON(w, http.StatusOK, WakeupResponse{
		Status:     "success",
		Message:    "应用已唤醒",
		Timestamp:  now.Format(time.RFC3339),
		NextWakeup: now.Add(h.keepalive.Interval()).Format(time.RFC3339),
	})
}
