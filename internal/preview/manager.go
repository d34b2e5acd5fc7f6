// Package preview hosts builder rehearsal sessions behind a WebSocket
// push channel with plain HTTP fallbacks. It is the boundary between the
// simulator and whatever renders it; nothing here interprets the
// conversation.
package preview

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/flossly/bot-builder/internal/botconfig"
	"github.com/flossly/bot-builder/internal/dispatch"
	"github.com/flossly/bot-builder/internal/observability/metrics"
	"github.com/flossly/bot-builder/internal/simulator"
	"github.com/flossly/bot-builder/pkg/logging"
)

// ManagerOptions configures a Manager. NewScheduler builds one scheduler
// per session; restarts cancel a session's timers without touching its
// neighbours.
type ManagerOptions struct {
	Client       *http.Client
	Logger       *logging.Logger
	Metrics      *metrics.SimulatorMetrics
	Pacing       simulator.Pacing
	AITimeout    time.Duration
	TTL          time.Duration
	NewScheduler func() simulator.Scheduler
}

// Manager owns the live rehearsal sessions, keyed by session ID. Idle
// sessions are swept after the TTL; an explicit exit removes them sooner.
type Manager struct {
	client    *http.Client
	logger    *logging.Logger
	metrics   *metrics.SimulatorMetrics
	pacing    simulator.Pacing
	aiTimeout time.Duration
	ttl       time.Duration
	newSched  func() simulator.Scheduler

	mu       sync.RWMutex
	sessions map[string]*simulator.Session
}

// NewManager creates a session manager.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.NewScheduler == nil {
		opts.NewScheduler = func() simulator.Scheduler { return simulator.NewTimerScheduler() }
	}
	return &Manager{
		client:    opts.Client,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		pacing:    opts.Pacing,
		aiTimeout: opts.AITimeout,
		ttl:       opts.TTL,
		newSched:  opts.NewScheduler,
		sessions:  make(map[string]*simulator.Session),
	}
}

// Create builds a session over a normalized config. Rehearsal sessions
// get a suppressed gateway; live ones post to the resolved endpoints.
func (m *Manager) Create(cfg *botconfig.Config, endpoints dispatch.Endpoints, live bool, listener simulator.Listener) *simulator.Session {
	cfg.Normalize()
	gateway := dispatch.NewGateway(endpoints, m.client, m.logger, m.metrics)
	if !live {
		gateway = gateway.Rehearsal()
	}

	sess := simulator.NewSession(cfg, simulator.Options{
		Scheduler: m.newSched(),
		Gateway:   gateway,
		Logger:    m.logger,
		Metrics:   m.metrics,
		Pacing:    m.pacing,
		AITimeout: m.aiTimeout,
		Listener:  listener,
	})

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	m.logger.Info("preview: session created", "session_id", sess.ID, "bot_id", cfg.BotID, "live", live)
	return sess
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*simulator.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Remove exits and drops a session. Unknown IDs are ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		sess.Exit()
		m.logger.Info("preview: session removed", "session_id", id)
	}
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle longer than the TTL and reports how many.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*simulator.Session
	for id, sess := range m.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.Exit()
		m.logger.Info("preview: idle session expired", "session_id", sess.ID)
	}
	return len(expired)
}

// RunSweeper sweeps on an interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
