// blocklist keeps the no-show blocklist for pretix events.
//
// Commands:
//
//	serve                     webhook server plus the daily no-show scan
//	scan                      run one no-show scan and exit (for external cron)
//	register --event SLUG     register a free event as if its webhook arrived
//	approve --event SLUG      decide the pending orders of an event
//	issue-token --subject S   print an operator token for POST /jobs/scan
//	hash-password --password  print a bcrypt hash for WEBHOOK_PASS
//
// @title No-show blocklist API
// @version 1.0
// @description Receives pretix webhooks, keeps the no-show blocklist sheet and gates orders that need approval.
// @BasePath /
// @securityDefinitions.basic BasicAuth
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"noshowblocklist/config"
	_ "noshowblocklist/docs"
	"noshowblocklist/internal/adapters/auth"
	"noshowblocklist/internal/app"
	"noshowblocklist/internal/scheduler"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return nil
	}
	cmd, rest := args[0], args[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger()

	switch cmd {
	case "serve":
		return serve(ctx, cfg, logger, rest)
	case "scan":
		return scanOnce(ctx, cfg, logger, rest)
	case "register":
		return register(ctx, cfg, logger, rest)
	case "approve":
		return approve(ctx, cfg, logger, rest)
	case "issue-token":
		return issueToken(cfg, rest)
	case "hash-password":
		return hashPassword(rest)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: blocklist <command> [flags]

Commands:
  serve          run the webhook server and the daily no-show scan
  scan           run one no-show scan and exit
  register       register a free event (--event SLUG)
  approve        decide pending orders of an event (--event SLUG)
  issue-token    print an operator token (--subject NAME --ttl 24h)
  hash-password  print a bcrypt hash for WEBHOOK_PASS (--password P)
`)
}

func parse(name string, args []string, define func(fs *pflag.FlagSet)) error {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if define != nil {
		define(fs)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s: unexpected argument %q", name, fs.Arg(0))
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	noScheduler := false
	if err := parse("serve", args, func(fs *pflag.FlagSet) {
		fs.BoolVar(&noScheduler, "no-scheduler", false, "do not run the daily scan in process")
	}); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if !noScheduler {
		at, err := scheduler.ParseTimeOfDay(cfg.ScanAt)
		if err != nil {
			return fmt.Errorf("SCAN_AT: %w", err)
		}
		daily := scheduler.NewDaily("no-show scan", at, func(ctx context.Context) error {
			report, err := a.Scanner.Scan(ctx)
			if err != nil {
				return err
			}
			logger.InfoContext(ctx, "scan report", "checked", len(report.Checked), "failed", len(report.Failed),
				"no_shows", report.NoShows, "listed", report.Listed, "extended", report.Extended, "dropped", report.Dropped)
			return nil
		}, a.Clock, logger)
		go func() {
			if err := daily.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler stopped", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func scanOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	if err := parse("scan", args, nil); err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Scanner.Scan(ctx)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func register(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	var slug string
	if err := parse("register", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&slug, "event", "", "event slug")
	}); err != nil {
		return err
	}
	if slug == "" {
		return errors.New("register: --event is required")
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	added, err := a.Registrar.HandleEventCreated(ctx, slug)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"event": slug, "registered": added})
}

func approve(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	var slug string
	if err := parse("approve", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&slug, "event", "", "event slug")
	}); err != nil {
		return err
	}
	if slug == "" {
		return errors.New("approve: --event is required")
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Gate.HandleApprovalRequested(ctx, slug)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func issueToken(cfg *config.Config, args []string) error {
	var subject string
	var ttl time.Duration
	if err := parse("issue-token", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&subject, "subject", "", "operator name recorded in the token")
		fs.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	}); err != nil {
		return err
	}
	if cfg.OperatorJWTSecret == "" {
		return errors.New("issue-token: OPERATOR_JWT_SECRET is not set")
	}
	token, err := auth.NewJWTIssuer(cfg.OperatorJWTSecret).Issue(subject, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func hashPassword(args []string) error {
	var password string
	var cost int
	if err := parse("hash-password", args, func(fs *pflag.FlagSet) {
		fs.StringVar(&password, "password", "", "plain-text webhook password")
		fs.IntVar(&cost, "cost", 12, "bcrypt cost")
	}); err != nil {
		return err
	}
	if password == "" {
		return errors.New("hash-password: --password is required")
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
