package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flossly/bot-builder/internal/observability/metrics"
	"github.com/flossly/bot-builder/pkg/logging"
)

// Kind names a webhook destination.
type Kind string

const (
	KindAppointment Kind = "appointment"
	KindBrochure    Kind = "brochure"
	KindCallback    Kind = "callback"
	KindAIQuestion  Kind = "ai_question"
)

// ErrSuppressed is returned by AskAI when the gateway runs in rehearsal
// mode and no network call was made. Fire-and-forget sends swallow
// suppression instead, so callers proceed as on success.
var ErrSuppressed = errors.New("dispatch: suppressed in rehearsal mode")

// Endpoints holds the four webhook URLs.
type Endpoints struct {
	Appointment string
	Brochure    string
	Callback    string
	AIAgent     string
}

// Gateway posts workflow payloads to the automation webhooks. A rehearsal
// gateway records the intent and skips the network entirely.
type Gateway struct {
	endpoints Endpoints
	client    *http.Client
	rehearsal bool
	logger    *logging.Logger
	metrics   *metrics.SimulatorMetrics
}

// NewGateway creates a live gateway.
func NewGateway(endpoints Endpoints, client *http.Client, logger *logging.Logger, m *metrics.SimulatorMetrics) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Gateway{
		endpoints: endpoints,
		client:    client,
		logger:    logger,
		metrics:   m,
	}
}

// Rehearsal returns a copy of the gateway that suppresses all network
// calls. Scripted conversation copy is identical either way.
func (g *Gateway) Rehearsal() *Gateway {
	clone := *g
	clone.rehearsal = true
	return &clone
}

// Suppressed reports whether this gateway skips network calls.
func (g *Gateway) Suppressed() bool {
	return g.rehearsal
}

// SendAppointment delivers a completed appointment booking.
func (g *Gateway) SendAppointment(ctx context.Context, req AppointmentRequest) error {
	req.Type = "appointment"
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return g.post(ctx, KindAppointment, g.endpoints.Appointment, req)
}

// SendBrochure delivers a treatment brochure enquiry.
func (g *Gateway) SendBrochure(ctx context.Context, req BrochureRequest) error {
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	req.flatten()
	return g.post(ctx, KindBrochure, g.endpoints.Brochure, req)
}

// SendCallback delivers a callback request.
func (g *Gateway) SendCallback(ctx context.Context, req CallbackRequest) error {
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	req.flatten()
	return g.post(ctx, KindCallback, g.endpoints.Callback, req)
}

// AskAI forwards a free-text question to the ai-agent webhook and returns
// its reply text. This is the one dispatch the engine awaits: the next
// bot message depends on the response.
func (g *Gateway) AskAI(ctx context.Context, q AIQuestion) (string, error) {
	q.Type = "ai_question"
	if g.rehearsal {
		g.logger.Info("dispatch: rehearsal mode, ai-agent call skipped", "bot_id", q.BotID)
		g.metrics.ObserveDispatch(string(KindAIQuestion), "ok", true)
		return "", ErrSuppressed
	}

	start := time.Now()
	body, err := g.roundTrip(ctx, KindAIQuestion, g.endpoints.AIAgent, q)
	g.metrics.ObserveAILatency(time.Since(start).Seconds())
	if err != nil {
		g.metrics.ObserveDispatch(string(KindAIQuestion), "error", false)
		return "", err
	}
	g.metrics.ObserveDispatch(string(KindAIQuestion), "ok", false)

	var reply aiReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("dispatch: decoding ai-agent reply: %w", err)
	}
	return reply.Message, nil
}

// post is the fire-and-forget path. In rehearsal mode it logs and reports
// success so callers behave identically with or without a real call.
func (g *Gateway) post(ctx context.Context, kind Kind, url string, payload any) error {
	if g.rehearsal {
		g.logger.Info("dispatch: rehearsal mode, webhook call skipped", "kind", kind)
		g.metrics.ObserveDispatch(string(kind), "ok", true)
		return nil
	}

	if _, err := g.roundTrip(ctx, kind, url, payload); err != nil {
		g.metrics.ObserveDispatch(string(kind), "error", false)
		return err
	}
	g.metrics.ObserveDispatch(string(kind), "ok", false)
	return nil
}

func (g *Gateway) roundTrip(ctx context.Context, kind Kind, url string, payload any) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("dispatch: no endpoint configured for %s", kind)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dispatch: encoding %s payload: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dispatch: building %s request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("dispatch: webhook call failed", "kind", kind, "error", err)
		return nil, fmt.Errorf("dispatch: %s webhook: %w", kind, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Error("dispatch: webhook returned non-2xx", "kind", kind, "status", resp.StatusCode)
		return nil, fmt.Errorf("dispatch: %s webhook returned status %d", kind, resp.StatusCode)
	}

	g.logger.Debug("dispatch: webhook delivered", "kind", kind, "status", resp.StatusCode)
	return respBody, nil
}
