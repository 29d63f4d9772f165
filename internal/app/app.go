// Package app wires configuration into the gateways, services and HTTP router.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/lib/pq"

	"noshowblocklist/config"
	"noshowblocklist/internal/adapters/auth"
	"noshowblocklist/internal/adapters/email"
	"noshowblocklist/internal/adapters/pretix"
	"noshowblocklist/internal/adapters/sheets"
	"noshowblocklist/internal/clock"
	delivery "noshowblocklist/internal/delivery/http"
	"noshowblocklist/internal/delivery/http/controllers"
	"noshowblocklist/internal/domain"
	"noshowblocklist/internal/repository/postgres"
	"noshowblocklist/internal/services"
)

const (
	registryFirstDataRow = 7
	blocklistHeaderRow   = 4
	blocklistNameRef     = "C2"
)

// App holds the wired services. Close releases the database handle.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Clock      clock.Clock
	DB         *sql.DB
	Registrar  domain.EventRegistrar
	Scanner    domain.NoShowScanner
	Gate       domain.ApprovalGate
	Dispatcher domain.WebhookDispatcher
	Journal    domain.DecisionJournal
}

// New builds the application graph. With DATABASE_URL set, the run lock and
// the decision journal use Postgres; otherwise both stay in process.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, Clock: clock.NewSystem()}

	locker := services.NewLocalLocker()
	journal := services.NewDiscardJournal()
	if cfg.DBUrl != "" {
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.DB = db
		locker = postgres.NewAdvisoryLocker(db, logger)
		journal = postgres.NewDecisionRepository(db)
	}
	a.Journal = journal

	values, err := sheets.NewGoogleValues(ctx, []byte(cfg.Sheets.CredentialsJSON))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	gw := sheets.NewGateway(values, cfg.Sheets.SpreadsheetID)
	registry := sheets.NewRegistryRepository(gw, sheets.RegistryConfig{
		Sheet:        cfg.Sheets.RegistrySheet,
		FirstDataRow: registryFirstDataRow,
	})
	nameCell := cfg.Sheets.BlocklistNameCell
	if nameCell == "" {
		nameCell = sheets.A1(cfg.Sheets.RegistrySheet, blocklistNameRef)
	}
	blocklist := sheets.NewBlocklistRepository(gw, sheets.BlocklistConfig{
		Sheet:     cfg.Sheets.BlocklistSheet,
		NameCell:  nameCell,
		HeaderRow: blocklistHeaderRow,
		Capacity:  cfg.Sheets.SlotCapacity,
	})

	ticketing := pretix.NewClient(http.DefaultClient, pretix.Config{
		BaseURL:   cfg.Pretix.APIURL,
		Token:     cfg.Pretix.Token,
		Organizer: cfg.Pretix.Organizer,
	}, logger)

	mailer, err := email.NewMailer(ctx, email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.SESInsecureSkipVerify,
		},
		Gmail: email.GmailConfig{CredentialsJSON: []byte(cfg.Sheets.CredentialsJSON)},
	}, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("mailer: %w", err)
	}
	notifications := services.NewNotificationService(mailer, email.NewTemplateRenderer(), logger)

	questions := services.QuestionIDs{FirstName: cfg.Questions.FirstName, LastName: cfg.Questions.LastName}

	a.Registrar = services.NewEventRegistrar(registry, ticketing, locker, logger)
	a.Scanner = services.NewNoShowScanner(registry, blocklist, ticketing, locker, a.Clock, questions, logger)
	a.Gate = services.NewApprovalGate(services.ApprovalGateDeps{
		Blocklist:     blocklist,
		Ticketing:     ticketing,
		Journal:       journal,
		Notifications: notifications,
		Locker:        locker,
		Clock:         a.Clock,
		Questions:     questions,
		Logger:        logger,
	})
	a.Dispatcher = services.NewWebhookDispatcher(a.Registrar, a.Gate, logger)
	return a, nil
}

// Router returns the HTTP handler for the serve command.
func (a *App) Router() http.Handler {
	var credentials domain.CredentialChecker
	if a.Config.Webhook.User != "" {
		credentials = auth.NewBasicCredentials(a.Config.Webhook.User, a.Config.Webhook.Password)
	} else {
		a.Logger.Warn("WEBHOOK_USER not set, webhook endpoints are unauthenticated")
	}
	var operators domain.TokenVerifier
	if a.Config.OperatorJWTSecret != "" {
		operators = auth.NewJWTVerifier(a.Config.OperatorJWTSecret)
	}
	var pinger controllers.Pinger
	if a.DB != nil {
		pinger = a.DB
	}
	return delivery.NewRouter(delivery.RouterDeps{
		Logger:      a.Logger,
		Webhooks:    controllers.NewWebhookController(a.Logger, a.Dispatcher),
		Jobs:        controllers.NewJobController(a.Logger, a.Scanner, a.Journal),
		Health:      controllers.NewHealthController(a.Logger, pinger),
		Credentials: credentials,
		Operators:   operators,
	})
}

func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
