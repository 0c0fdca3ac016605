package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"investportal-backend/bootstrap"
	"investportal-backend/internal/application/auth"
	holdsvc "investportal-backend/internal/application/holdings"
	"investportal-backend/internal/config"
	"investportal-backend/internal/infrastructure/database"
	"investportal-backend/internal/infrastructure/scheduler"
	"investportal-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const revalueTimeout = 5 * time.Minute

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := database.AutoMigrate(rt.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Msg("Schema migrated")
			return nil
		},
	}
}

func revalueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revalue",
		Short: "Recompute current value and return rate of every holding from live prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), revalueTimeout)
			defer cancel()
			n, err := (&holdsvc.Service{DB: rt.DB}).Revalue(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revalued %d holdings\n", n)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with JWT_SECRET (development)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			if !constants.IsValidRole(role) {
				return fmt.Errorf("invalid --role %q", role)
			}
			tok, exp, err := auth.JWT{Secret: []byte(cfg.JWTSecret), TokenTTL: ttl}.Sign(id, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User id (uuid) to put in the subject")
	cmd.Flags().StringVar(&role, "role", constants.Investor, "Role claim (investor or admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func open(ctx context.Context) (*bootstrap.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	bootstrap.ConfigureLogging(cfg)
	if ctx == nil {
		ctx = context.Background()
	}
	return bootstrap.Open(ctx, cfg)
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := open(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	app, err := rt.App()
	if err != nil {
		return err
	}

	if spec := rt.Config.RevalueCron; spec != "" {
		runner := scheduler.New(ctx)
		if _, err := runner.Add(spec, scheduler.RevalueJob(&holdsvc.Service{DB: rt.DB}, revalueTimeout)); err != nil {
			return fmt.Errorf("REVALUE_CRON %q: %w", spec, err)
		}
		runner.Start()
		defer runner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + rt.Config.Port
		log.Info().Str("addr", addr).Str("env", rt.Config.Env).Msg("Server running")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
