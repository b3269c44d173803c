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

	"ngosocial/internal/config"
	"ngosocial/internal/db"
	"ngosocial/internal/engagement"
	"ngosocial/internal/handlers"
	"ngosocial/internal/logger"
	"ngosocial/internal/router"
	"ngosocial/internal/services"
	"ngosocial/internal/store"
	"ngosocial/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "NGO social platform API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			conn, err := db.Open(cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			return db.Migrate(conn)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.Development(), cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func serve(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	conn, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		return err
	}
	st := store.New(conn)
	cache := utils.GetCache()

	// 异步排名服务
	ranking := services.NewRankingService(st, log)
	ranking.Start(ctx)
	defer ranking.Stop()

	if cfg.Bucket == "" {
		return errors.New("GCS_BUCKET is required")
	}
	objects, err := services.NewGCSStore(ctx, cfg.Bucket, cfg.GCSCredentialsFile)
	if err != nil {
		return err
	}
	defer objects.Close()
	uploader := services.NewUploader(objects, cfg.MaxParallelUploads, cfg.MaxUploadFiles, cfg.CompensateRetries, log)

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	mail := services.NewMailService(&cfg, log)
	defer mail.Wait()

	points := services.NewPoints(st, log)
	commenter := services.NewCommenter(st, points, ranking, cache, log)
	defer commenter.Wait()

	gateway := services.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	projector := engagement.Projector{StrictKind: cfg.StrictOwnerKind}

	r := router.New(router.Deps{
		Store:      st,
		Content:    handlers.NewContent(st, uploader, projector, cache, log),
		Tokens:     tokens,
		Auth:       services.NewAuthService(st, tokens, mail, log),
		Voter:      services.NewVoter(st, ranking, cache, log),
		Membership: services.NewMembership(st, cache, log),
		Commenter:  commenter,
		Payments:   services.NewPaymentService(st, gateway, cache, cfg.Currency, log),
		Log:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
