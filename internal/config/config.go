package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	BuilderJWTSecret   string

	// Webhook routing. The builder SPA authenticates against either the
	// dev or the production backend; dispatches follow the same split.
	DevWebhookBase        string
	ProductionWebhookBase string
	AppointmentPath       string
	BrochurePath          string
	CallbackPath          string
	AIAgentPath           string

	DispatchTimeout time.Duration
	AIReplyTimeout  time.Duration

	SessionTTL        time.Duration
	SessionSweepEvery time.Duration

	// Rehearsal pacing. These mirror the widget's choreography and are
	// tunable mostly so tests and demos can run faster.
	MessageLeadDelay   time.Duration
	TypingDuration     time.Duration
	OpeningStagger     time.Duration
	OptionsRevealDelay time.Duration
	ProcessingDelay    time.Duration
	AvailabilityDelay  time.Duration
	AIReplyDelay       time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		BuilderJWTSecret:   getEnv("BUILDER_JWT_SECRET", ""),

		DevWebhookBase:        getEnv("DEV_WEBHOOK_BASE", "https://n8n-dev.flossly.ai/webhook"),
		ProductionWebhookBase: getEnv("PRODUCTION_WEBHOOK_BASE", "https://n8n.flossly.ai/webhook"),
		AppointmentPath:       getEnv("APPOINTMENT_WEBHOOK_PATH", "/appointment-booking"),
		BrochurePath:          getEnv("BROCHURE_WEBHOOK_PATH", "/treatment-enquiry"),
		CallbackPath:          getEnv("CALLBACK_WEBHOOK_PATH", "/gmail-callback"),
		AIAgentPath:           getEnv("AI_AGENT_WEBHOOK_PATH", "/ai-agent"),

		DispatchTimeout: getEnvAsDuration("DISPATCH_TIMEOUT", 10*time.Second),
		AIReplyTimeout:  getEnvAsDuration("AI_REPLY_TIMEOUT", 15*time.Second),

		SessionTTL:        getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		SessionSweepEvery: getEnvAsDuration("SESSION_SWEEP_EVERY", time.Minute),

		MessageLeadDelay:   getEnvAsDuration("MESSAGE_LEAD_DELAY", 300*time.Millisecond),
		TypingDuration:     getEnvAsDuration("TYPING_DURATION", 800*time.Millisecond),
		OpeningStagger:     getEnvAsDuration("OPENING_STAGGER", 1400*time.Millisecond),
		OptionsRevealDelay: getEnvAsDuration("OPTIONS_REVEAL_DELAY", 600*time.Millisecond),
		ProcessingDelay:    getEnvAsDuration("PROCESSING_DELAY", time.Second),
		AvailabilityDelay:  getEnvAsDuration("AVAILABILITY_DELAY", 2*time.Second),
		AIReplyDelay:       getEnvAsDuration("AI_REPLY_DELAY", 1500*time.Millisecond),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
