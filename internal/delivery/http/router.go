package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"noshowblocklist/internal/delivery/http/controllers"
	"noshowblocklist/internal/delivery/http/middleware"
	"noshowblocklist/internal/domain"
)

// RouterDeps carries the controllers and auth collaborators. Credentials nil
// disables webhook basic auth; Operators nil disables the operator endpoints.
type RouterDeps struct {
	Logger      *slog.Logger
	Webhooks    *controllers.WebhookController
	Jobs        *controllers.JobController
	Health      *controllers.HealthController
	Credentials domain.CredentialChecker
	Operators   domain.TokenVerifier
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	basic := middleware.RequireBasicAuth(deps.Credentials, deps.Logger)

	// Webhooks
	mux.HandleFunc("POST /webhooks/pretix", basic(deps.Webhooks.Receive))
	mux.HandleFunc("POST /webhooks/verify", basic(deps.Webhooks.Verify))

	// Operator
	if deps.Operators != nil {
		operator := middleware.RequireOperator(deps.Operators, deps.Logger)
		mux.HandleFunc("POST /jobs/scan", operator(deps.Jobs.RunScan))
		mux.HandleFunc("GET /events/{slug}/decisions", operator(deps.Jobs.ListDecisions))
	}

	mux.HandleFunc("GET /health", deps.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(deps.Logger, mux)
}
