package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/config"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	clientHandler "github.com/MrJamesThe3rd/tally/internal/http/client"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/tally/internal/http/invoice"
	matchingHandler "github.com/MrJamesThe3rd/tally/internal/http/matching"
	projectHandler "github.com/MrJamesThe3rd/tally/internal/http/project"
	"github.com/MrJamesThe3rd/tally/internal/http/push"
	timeEntryHandler "github.com/MrJamesThe3rd/tally/internal/http/timeentry"
	"github.com/MrJamesThe3rd/tally/internal/logger"
)

const usage = `usage:
  api                 start the HTTP server
  api token <identity> print an access token for identity`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	jwt := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.AccessTTL)

	switch {
	case len(os.Args) == 1:
	case len(os.Args) == 3 && os.Args[1] == "token":
		token, err := jwt.GenerateAccessToken(os.Args[2])
		if err != nil {
			log.Error("failed to generate token", "error", err)
			os.Exit(1)
		}

		fmt.Println(token)

		return
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := serve(cfg, log, jwt); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config, log *slog.Logger, jwt *auth.JWTManager) error {
	repos, closeStore, err := app.OpenRepositories(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := app.NewServices(log, cfg, repos)

	router := tallyHttp.New(tallyHttp.Handlers{
		Clients:     clientHandler.NewHandler(svc.Clients),
		Projects:    projectHandler.NewHandler(svc.Projects),
		TimeEntries: timeEntryHandler.NewHandler(svc.Entries),
		Invoices:    invoiceHandler.NewHandler(svc.Invoices),
		Import:      importHandler.NewHandler(svc.Import),
		Matching:    matchingHandler.NewHandler(svc.Matching),
		Export:      exportHandler.NewHandler(svc.Export),
		Push: push.NewHandler(log, jwt, svc.Dispatcher, svc.Guard, push.Options{
			Buffer:         cfg.Push.Buffer,
			WriteTimeout:   cfg.Push.WriteTimeout,
			OriginPatterns: cfg.CORS.AllowedOrigins,
		}),
	}, jwt, tallyHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.Timeout,
	})

	// No WriteTimeout: it would cut off websocket sessions.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting server", "addr", srv.Addr, "store", cfg.App.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
