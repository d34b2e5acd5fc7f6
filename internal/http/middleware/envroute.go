package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flossly/bot-builder/internal/dispatch"
	"github.com/flossly/bot-builder/pkg/logging"
)

const endpointsKey contextKey = "webhookEndpoints"

// Webhooks holds the per-environment endpoint sets.
type Webhooks struct {
	Dev        dispatch.Endpoints
	Production dispatch.Endpoints
}

// EnvironmentRouter resolves the webhook endpoint set for each request
// from the "environment" claim of the bearer token. The claim is decoded
// without signature verification: it only routes, BuilderJWT authorizes.
// Anything other than an explicit "production" claim routes to dev.
func EnvironmentRouter(webhooks Webhooks, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	parser := jwt.NewParser()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			endpoints := webhooks.Dev

			if env := environmentClaim(parser, r); env == "production" {
				endpoints = webhooks.Production
				logger.Debug("middleware: routing to production webhooks", "path", r.URL.Path)
			}

			ctx := context.WithValue(r.Context(), endpointsKey, endpoints)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func environmentClaim(parser *jwt.Parser, r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	tokenString := strings.TrimPrefix(auth, "Bearer ")

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return ""
	}
	env, _ := claims["environment"].(string)
	return env
}

// EndpointsFromContext returns the resolved webhook endpoints. The second
// return is false when the environment router is not in the chain.
func EndpointsFromContext(ctx context.Context) (dispatch.Endpoints, bool) {
	endpoints, ok := ctx.Value(endpointsKey).(dispatch.Endpoints)
	return endpoints, ok
}
