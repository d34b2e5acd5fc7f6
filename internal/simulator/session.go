// Package simulator drives the builder's "Test Bot" rehearsal: a
// sandboxed run of the configured conversation that mimics production
// dialogue without invoking real external dispatch.
package simulator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flossly/bot-builder/internal/botconfig"
	"github.com/flossly/bot-builder/internal/dispatch"
	"github.com/flossly/bot-builder/internal/observability/metrics"
	"github.com/flossly/bot-builder/pkg/logging"
)

// Workflow names the guided conversational path a session is inside.
type Workflow string

const (
	WorkflowNone        Workflow = "none"
	WorkflowAppointment Workflow = "appointment"
	WorkflowTreatment   Workflow = "treatment"
	WorkflowCallback    Workflow = "callback"
)

// Mode is the single interactive control the rehearsal shows, if any.
// Exactly one mode is active at a time; switching modes clears every other
// transient control in the same step.
type Mode string

const (
	ModeNone            Mode = "none"
	ModeOptions         Mode = "options"
	ModeAppointmentForm Mode = "appointment_form"
	ModeCallbackForm    Mode = "callback_form"
	ModeCallbackPrompt  Mode = "callback_prompt"
	ModeTreatmentList   Mode = "treatment_list"
	ModeTreatmentChat   Mode = "treatment_chat"
)

// Pacing holds the rehearsal's choreography delays.
type Pacing struct {
	MessageLead    time.Duration // pause before the typing indicator appears
	Typing         time.Duration // how long the indicator shows per message
	OpeningStagger time.Duration // offset between opening-batch messages
	OptionsReveal  time.Duration // pause before the option list appears
	Processing     time.Duration // simulated "processing" pause on finalize
	Availability   time.Duration // simulated availability check
	AIReply        time.Duration // pause before an ai-agent reply renders
}

// DefaultPacing mirrors the widget's timings.
func DefaultPacing() Pacing {
	return Pacing{
		MessageLead:    300 * time.Millisecond,
		Typing:         800 * time.Millisecond,
		OpeningStagger: 1400 * time.Millisecond,
		OptionsReveal:  600 * time.Millisecond,
		Processing:     time.Second,
		Availability:   2 * time.Second,
		AIReply:        1500 * time.Millisecond,
	}
}

// Dispatcher is the slice of the dispatch gateway the engine needs.
type Dispatcher interface {
	SendBrochure(ctx context.Context, req dispatch.BrochureRequest) error
	SendCallback(ctx context.Context, req dispatch.CallbackRequest) error
	AskAI(ctx context.Context, q dispatch.AIQuestion) (string, error)
}

// Options configures a Session. A zero Pacing runs every step without
// delay, which is what tests want; servers pass DefaultPacing or values
// derived from configuration.
type Options struct {
	Scheduler Scheduler
	Gateway   Dispatcher
	Logger    *logging.Logger
	Metrics   *metrics.SimulatorMetrics
	Pacing    Pacing
	AITimeout time.Duration
	Listener  Listener
}

/// Session is one rehearsal run: an append-only timeline plus the mutable
// workflow state, owned by the engine's event handlers. Nothing survives
// a restart; stale scheduled callbacks are invalidated by a generation
// counter rather than trusted to have been cancelled.
type Session struct {
	ID  string
	cfg *botconfig.Config

	sched     Scheduler
	gateway   Dispatcher
	logger    *logging.Logger
	metrics   *metrics.SimulatorMetrics
	pacing    Pacing
	aiTimeout time.Duration

	listenerMu  sync.RWMutex
	listener    Listener
	listenerGen uint64

	timeline *Timeline

	// runMu serializes inbound event handlers for the whole of their run,
	// delays included. Scheduled continuations rely on the generation
	// guard instead.
	runMu sync.Mutex

	// mu guards the fields below. Never held across a delay.
	mu                      sync.Mutex
	started                 bool
	generation              uint64
	runCtx                  context.Context
	cancelRun               context.CancelFunc
	mode                    Mode
	workflow                Workflow
	selectedTreatment       *botconfig.Treatment
	selectedTreatmentOption string
	appointment             *Collector
	callback                *Collector
	lastSeen                time.Time
}

// NewSession creates a rehearsal session over an immutable config.
// Changing the config requires a new session.
func NewSession(cfg *botconfig.Config, opts Options) *Session {
	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = 15 * time.Second
	}

	s := &Session{
		ID:          uuid.NewString(),
		cfg:         cfg,
		sched:       opts.Scheduler,
		gateway:     opts.Gateway,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		pacing:      opts.Pacing,
		aiTimeout:   opts.AITimeout,
		listener:    opts.Listener,
		mode:        ModeNone,
		workflow:    WorkflowNone,
		appointment: NewCollector(botconfig.AppointmentFields()),
		callback:    NewCollector(botconfig.CallbackFields()),
		lastSeen:    time.Now(),
	}
	s.timeline = NewTimeline(s.emit)
	return s
}

// Config returns the session's bot definition.
func (s *Session) Config() *botconfig.Config {
	return s.cfg
}

// Timeline returns the session transcript.
func (s *Session) Timeline() *Timeline {
	return s.timeline
}

// Mode returns the active interactive control.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Workflow returns the active workflow.
func (s *Session) Workflow() Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workflow
}

// LastSeen reports the last inbound event time, for idle expiry.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Snapshot is a point-in-time view for the rendering boundary.
type Snapshot struct {
	SessionID       string   `json:"sessionId"`
	Entries         []Entry  `json:"entries"`
	Typing          bool     `json:"typing"`
	Mode            Mode     `json:"mode"`
	Workflow        Workflow `json:"workflow"`
	TreatmentOption string   `json:"treatmentOption,omitempty"`
	ActiveField     string   `json:"activeField,omitempty"`
	FieldIndex      int      `json:"fieldIndex"`
}

// Snapshot captures the transcript plus the active-control flags.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	field, idx := s.activeFieldLocked()
	snap := Snapshot{
		SessionID:       s.ID,
		Mode:            s.mode,
		Workflow:        s.workflow,
		TreatmentOption: s.selectedTreatmentOption,
		ActiveField:     field,
		FieldIndex:      idx,
	}
	s.mu.Unlock()
	snap.Entries = s.timeline.Entries()
	snap.Typing = s.timeline.Typing()
	return snap
}

func (s *Session) activeFieldLocked() (string, int) {
	var col *Collector
	switch s.mode {
	case ModeAppointmentForm:
		col = s.appointment
	case ModeCallbackForm:
		col = s.callback
	default:
		return "", noField
	}
	if f, ok := col.Active(); ok {
		return f.Name, col.Index()
	}
	return "", noField
}

// touch updates the idle clock.
func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// sameGen reports whether gen is still the live generation.
func (s *Session) sameGen(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && s.generation == gen
}

// guarded runs fn under the state lock if gen is still live.
func (s *Session) guarded(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.generation != gen {
		return false
	}
	fn()
	return true
}

// setModeLocked atomically switches the single active control and tells
// the view. Callers hold mu.
func (s *Session) setModeLocked(mode Mode) {
	s.mode = mode
	field, idx := s.activeFieldLocked()
	s.emit(Event{Type: EventMode, Mode: mode, ActiveField: field, FieldIndex: idx})
}

// SetListener swaps the event listener and returns a handle for
// ClearListener. Used when a push channel attaches to an already running
// session.
func (s *Session) SetListener(l Listener) uint64 {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listenerGen++
	s.listener = l
	return s.listenerGen
}

// ClearListener detaches the listener unless a later SetListener call has
// replaced it. A disconnecting client must not clobber a newer attach.
func (s *Session) ClearListener(handle uint64) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if s.listenerGen == handle {
		s.listener = nil
	}
}

func (s *Session) emit(ev Event) {
	if ev.Type == EventEntry && ev.Entry != nil {
		author := "bot"
		if ev.Entry.IsUser {
			author = "user"
		}
		s.metrics.ObserveEntry(author)
	}
	s.listenerMu.RLock()
	l := s.listener
	s.listenerMu.RUnlock()
	if l != nil {
		l(ev)
	}
}

// wait sleeps for d unless the run is interrupted first.
func (s *Session) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// sayBot is the single entry point for adding a bot message with typing
// choreography: lead pause, indicator on, typing pause, indicator off,
// append. Callers must check the return before dependent state changes so
// a message is never visually skipped by a later change racing ahead.
func (s *Session) sayBot(ctx context.Context, gen uint64, text string) bool {
	if !s.sameGen(gen) {
		return false
	}
	if !s.wait(ctx, s.pacing.MessageLead) {
		return false
	}
	s.timeline.SetTyping(true)
	if !s.wait(ctx, s.pacing.Typing) {
		return false
	}
	if !s.sameGen(gen) {
		return false
	}
	s.timeline.SetTyping(false)
	s.timeline.AppendBot(text, true, nil)
	return true
}
