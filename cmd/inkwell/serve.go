package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"inkwell/internal/auth"
	httpx "inkwell/internal/http"
	"inkwell/internal/jobs"
	"inkwell/internal/journal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background worker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(true)
		if err != nil {
			return err
		}
		defer rt.close()
		if err := rt.cfg.RequireSecret(); err != nil {
			return err
		}
		cfg, logger := rt.cfg, rt.logger

		jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.SessionTTL)
		jobsRepo := &jobs.Repo{DB: rt.db}
		store := rt.store(journal.NewHub(logger))

		r := httpx.NewRouter(cfg, httpx.Services{
			JWT: jwtSvc,
			Auth: &auth.Service{
				DB:      rt.db,
				Mailer:  auth.LogMailer{Logger: logger},
				Logger:  logger,
				CodeTTL: cfg.LoginCodeTTL,
			},
			Store:  store,
			Jobs:   jobsRepo,
			Logger: logger,
		})

		// worker
		worker := &jobs.Worker{
			ID:           "worker-1",
			Repo:         jobsRepo,
			Journal:      store.Repo,
			Logger:       logger,
			Milestones:   store.MilestoneTable(),
			PollInterval: cfg.WorkerPollInterval,
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go worker.Run(ctx)

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.HTTPAddr, "driver", cfg.DatabaseDriver)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// graceful shutdown
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
		case err := <-errCh:
			return err
		}

		logger.Info("shutting down")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}
