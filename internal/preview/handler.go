package preview

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/flossly/bot-builder/internal/botconfig"
	"github.com/flossly/bot-builder/internal/dispatch"
	"github.com/flossly/bot-builder/internal/simulator"
	"github.com/flossly/bot-builder/pkg/logging"
)

// EndpointResolver picks the webhook endpoint set for a request. The
// router wires this to the environment-claim middleware.
type EndpointResolver func(*http.Request) dispatch.Endpoints

// Handler exposes rehearsal sessions over WebSocket and plain HTTP.
type Handler struct {
	manager *Manager
	resolve EndpointResolver
	logger  *logging.Logger
}

// NewHandler creates a preview handler.
func NewHandler(manager *Manager, resolve EndpointResolver, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if resolve == nil {
		resolve = func(*http.Request) dispatch.Endpoints { return dispatch.Endpoints{} }
	}
	return &Handler{manager: manager, resolve: resolve, logger: logger}
}

// inboundEvent is what the builder UI sends.
type inboundEvent struct {
	Type        string           `json:"type"`
	Config      botconfig.Config `json:"config"`
	Live        bool             `json:"live,omitempty"`
	SessionID   string           `json:"sessionId,omitempty"`
	OptionID    string           `json:"optionId,omitempty"`
	TreatmentID string           `json:"treatmentId,omitempty"`
	Field       string           `json:"field,omitempty"`
	Value       string           `json:"value,omitempty"`
	Text        string           `json:"text,omitempty"`
}

// outboundEvent is what we push to the builder UI.
type outboundEvent struct {
	Type        string           `json:"type"`
	SessionID   string           `json:"sessionId,omitempty"`
	Entry       *simulator.Entry `json:"entry,omitempty"`
	Typing      bool             `json:"typing"`
	Mode        simulator.Mode   `json:"mode,omitempty"`
	ActiveField string           `json:"activeField,omitempty"`
	FieldIndex  int              `json:"fieldIndex"`
	Text        string           `json:"text,omitempty"`
}

// wsConn serializes writes; the listener and the read loop both send.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg outboundEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = websocket.JSON.Send(c.conn, msg)
}

// HandleWebSocket upgrades and speaks the preview event protocol. The
// first inbound event must be "start" carrying the bot config, or
// "attach" naming an existing session.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	wsc := &wsConn{conn: conn}

	var first inboundEvent
	if err := websocket.JSON.Receive(conn, &first); err != nil {
		return
	}

	var sess *simulator.Session
	switch first.Type {
	case "start":
		cfg := first.Config
		sess = h.manager.Create(&cfg, h.resolve(r), first.Live, nil)
	case "attach":
		var ok bool
		sess, ok = h.manager.Get(first.SessionID)
		if !ok {
			wsc.send(outboundEvent{Type: "error", Text: "unknown session"})
			return
		}
	default:
		wsc.send(outboundEvent{Type: "error", Text: "first event must be start or attach"})
		return
	}

	handle := sess.SetListener(func(ev simulator.Event) {
		wsc.send(translateEvent(ev))
	})
	defer sess.ClearListener(handle)

	wsc.send(outboundEvent{Type: "session", SessionID: sess.ID})
	if first.Type == "start" {
		go sess.Start()
	} else {
		// replay the current transcript so the attaching client catches up
		snap := sess.Snapshot()
		for i := range snap.Entries {
			wsc.send(outboundEvent{Type: "entry", Entry: &snap.Entries[i]})
		}
		wsc.send(outboundEvent{
			Type:        "mode",
			Mode:        snap.Mode,
			ActiveField: snap.ActiveField,
			FieldIndex:  snap.FieldIndex,
		})
	}

	h.logger.Info("preview: websocket opened", "session_id", sess.ID)
	for {
		var ev inboundEvent
		if err := websocket.JSON.Receive(conn, &ev); err != nil {
			h.logger.Debug("preview: websocket closed", "session_id", sess.ID, "error", err)
			return
		}
		if ev.Type == "ping" {
			wsc.send(outboundEvent{Type: "pong"})
			continue
		}
		if ev.Type == "exit" {
			h.manager.Remove(sess.ID)
			return
		}
		// handlers pace themselves with real delays; keep the read loop free
		go h.apply(sess, ev)
	}
}

// apply routes one inbound event to the session.
func (h *Handler) apply(sess *simulator.Session, ev inboundEvent) {
	switch ev.Type {
	case "start", "restart":
		sess.Restart()
	case "select_option":
		sess.SelectOption(ev.OptionID)
	case "select_treatment":
		sess.SelectTreatment(ev.TreatmentID)
	case "submit_field":
		sess.SubmitField(ev.Field, ev.Value)
	case "open_treatment_chat":
		sess.OpenTreatmentChat()
	case "treatment_chat":
		sess.SubmitTreatmentChat(ev.Text)
	case "callback_input":
		sess.SubmitCallbackPrompt(ev.Text)
	default:
		h.logger.Debug("preview: unknown event type", "session_id", sess.ID, "type", ev.Type)
	}
}

func translateEvent(ev simulator.Event) outboundEvent {
	switch ev.Type {
	case simulator.EventEntry:
		return outboundEvent{Type: "entry", Entry: ev.Entry}
	case simulator.EventTyping:
		return outboundEvent{Type: "typing", Typing: ev.Typing}
	case simulator.EventMode:
		return outboundEvent{
			Type:        "mode",
			Mode:        ev.Mode,
			ActiveField: ev.ActiveField,
			FieldIndex:  ev.FieldIndex,
		}
	case simulator.EventReset:
		return outboundEvent{Type: "reset"}
	}
	return outboundEvent{Type: "error", Text: "unhandled event"}
}

// HandleCreate is the HTTP fallback for starting a rehearsal.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Config botconfig.Config `json:"config"`
		Live   bool             `json:"live"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess := h.manager.Create(&req.Config, h.resolve(r), req.Live, nil)
	sess.Start()

	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// HandleSnapshot returns the transcript and active-control state.
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.manager.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// HandleEvent applies one event and returns the resulting snapshot. The
// call blocks for the choreography the event triggers, which is what a
// poll-based client wants.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.manager.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	var ev inboundEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if ev.Type == "exit" {
		h.manager.Remove(sess.ID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "exited"})
		return
	}

	h.apply(sess, ev)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// HandleDelete exits and removes a session.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.manager.Remove(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
