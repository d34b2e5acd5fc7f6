package preview

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/flossly/bot-builder/internal/dispatch"
	"github.com/flossly/bot-builder/internal/simulator"
	"github.com/flossly/bot-builder/pkg/logging"
)

func newTestHandler(t *testing.T) (*Handler, *Manager) {
	t.Helper()
	m := newTestManager(t, time.Minute)
	h := NewHandler(m, func(*http.Request) dispatch.Endpoints {
		return dispatch.Endpoints{}
	}, logging.New("error"))
	return h, m
}

func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/preview/sessions", h.HandleCreate)
	r.Get("/api/preview/sessions/{sessionID}", h.HandleSnapshot)
	r.Post("/api/preview/sessions/{sessionID}/events", h.HandleEvent)
	r.Delete("/api/preview/sessions/{sessionID}", h.HandleDelete)
	r.Get("/api/preview/ws", h.HandleWebSocket)
	return r
}

func createSession(t *testing.T, router http.Handler) simulator.Snapshot {
	t.Helper()
	body, err := json.Marshal(map[string]any{"config": testConfig()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/preview/sessions", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var snap simulator.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func TestHandleCreate(t *testing.T) {
	h, _ := newTestHandler(t)
	snap := createSession(t, testRouter(h))

	assert.NotEmpty(t, snap.SessionID)
	assert.Len(t, snap.Entries, 3)
	assert.Equal(t, simulator.ModeOptions, snap.Mode)
}

func TestHandleCreateBadBody(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/preview/sessions", strings.NewReader("{"))
	w := httptest.NewRecorder()
	testRouter(h).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEventSelectOption(t *testing.T) {
	h, _ := newTestHandler(t)
	router := testRouter(h)
	snap := createSession(t, router)

	body := `{"type":"select_option","optionId":"opt-appt"}`
	req := httptest.NewRequest(http.MethodPost, "/api/preview/sessions/"+snap.SessionID+"/events", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var after simulator.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, simulator.ModeAppointmentForm, after.Mode)
	assert.Equal(t, "fullName", after.ActiveField)
	assert.Equal(t, 0, after.FieldIndex)
}

func TestHandleEventExit(t *testing.T) {
	h, m := newTestHandler(t)
	router := testRouter(h)
	snap := createSession(t, router)

	body := `{"type":"exit"}`
	req := httptest.NewRequest(http.MethodPost, "/api/preview/sessions/"+snap.SessionID+"/events", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	_, ok := m.Get(snap.SessionID)
	assert.False(t, ok)
}

func TestHandleSnapshotNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/preview/sessions/nope", nil)
	w := httptest.NewRecorder()
	testRouter(h).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDelete(t *testing.T) {
	h, m := newTestHandler(t)
	router := testRouter(h)
	snap := createSession(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/api/preview/sessions/"+snap.SessionID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, m.Count())
}

func TestWebSocketStartAndSelect(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(testRouter(h))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/preview/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, websocket.JSON.Send(conn, map[string]any{
		"type":   "start",
		"config": testConfig(),
	}))

	deadline := time.Now().Add(5 * time.Second)
	var sessionID string
	var entryTexts []string
	sawOptionsMode := false
	for time.Now().Before(deadline) && !sawOptionsMode {
		_ = conn.SetReadDeadline(deadline)
		var ev outboundEvent
		require.NoError(t, websocket.JSON.Receive(conn, &ev))
		switch ev.Type {
		case "session":
			sessionID = ev.SessionID
		case "entry":
			entryTexts = append(entryTexts, ev.Entry.Text)
		case "mode":
			if ev.Mode == simulator.ModeOptions {
				sawOptionsMode = true
			}
		}
	}
	require.True(t, sawOptionsMode, "opening should end with the options mode")
	assert.NotEmpty(t, sessionID)
	assert.Contains(t, entryTexts, "Welcome to Bright Smiles Dental")

	require.NoError(t, websocket.JSON.Send(conn, map[string]any{
		"type":     "select_option",
		"optionId": "opt-appt",
	}))

	sawForm := false
	for time.Now().Before(deadline) && !sawForm {
		var ev outboundEvent
		require.NoError(t, websocket.JSON.Receive(conn, &ev))
		if ev.Type == "mode" && ev.Mode == simulator.ModeAppointmentForm {
			assert.Equal(t, "fullName", ev.ActiveField)
			sawForm = true
		}
	}
	assert.True(t, sawForm)
}

func TestWebSocketAttachReplaysTranscript(t *testing.T) {
	h, m := newTestHandler(t)
	srv := httptest.NewServer(testRouter(h))
	defer srv.Close()

	sess := m.Create(testConfig(), dispatch.Endpoints{}, false, nil)
	sess.Start()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/preview/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, websocket.JSON.Send(conn, map[string]any{
		"type":      "attach",
		"sessionId": sess.ID,
	}))

	deadline := time.Now().Add(5 * time.Second)
	_ = conn.SetReadDeadline(deadline)

	var entries int
	sawMode := false
	for !sawMode {
		var ev outboundEvent
		require.NoError(t, websocket.JSON.Receive(conn, &ev))
		switch ev.Type {
		case "entry":
			entries++
		case "mode":
			sawMode = true
		}
	}
	assert.Equal(t, 3, entries)
}

func TestWebSocketAttachUnknownSession(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(testRouter(h))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/preview/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, websocket.JSON.Send(conn, map[string]any{
		"type":      "attach",
		"sessionId": "nope",
	}))

	var ev outboundEvent
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, websocket.JSON.Receive(conn, &ev))
	assert.Equal(t, "error", ev.Type)

	// the server hangs up after rejecting the attach
	err = websocket.JSON.Receive(conn, &ev)
	assert.Error(t, err)
}
