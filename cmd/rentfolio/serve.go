package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rentfolio/internal/httpapi"
	"rentfolio/internal/migration"
	"rentfolio/internal/scheduler"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the overdue sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			autoMigrate, _ := cmd.Flags().GetBool("migrate")

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET not set in environment or .env file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if autoMigrate {
				applied, err := migration.NewMigrator(a.store.DB()).Up(ctx)
				if err != nil {
					return err
				}
				a.log.Info("migrations applied", zap.Int("count", len(applied)))
			}

			if a.cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			svc := a.services()
			router := httpapi.NewRouter(svc, httpapi.Options{
				JWTSecret:   []byte(a.cfg.JWTSecret),
				CORSOrigins: a.cfg.CORSOrigins,
				Now:         a.now,
			}, a.log)

			var locker scheduler.Locker
			if client := scheduler.NewRedisClient(ctx, a.cfg.RedisAddr, a.log); client != nil {
				defer client.Close()
				locker = scheduler.NewRedisLocker(client)
			}
			sweeper := scheduler.NewSweeper(a.store, svc.Overdue, locker, a.cfg.SweepInterval, a.log).WithClock(a.now)
			go sweeper.Run(ctx)

			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("addr", a.cfg.HTTPAddr))
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

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")

	return cmd
}
