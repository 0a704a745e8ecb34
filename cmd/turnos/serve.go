package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	_ "github.com/dcic-turnos/turnos-web/docs"
	"github.com/dcic-turnos/turnos-web/internal/api"
	"github.com/dcic-turnos/turnos-web/internal/api/handler"
	"github.com/dcic-turnos/turnos-web/internal/api/session"
	"github.com/dcic-turnos/turnos-web/internal/core/ports"
	"github.com/dcic-turnos/turnos-web/internal/core/service"
	"github.com/dcic-turnos/turnos-web/internal/i18n"
	"github.com/dcic-turnos/turnos-web/internal/infrastructure/backend"
	mongostore "github.com/dcic-turnos/turnos-web/internal/infrastructure/db/mongo"
	redisstore "github.com/dcic-turnos/turnos-web/internal/infrastructure/db/redis"
	"github.com/dcic-turnos/turnos-web/internal/infrastructure/queue"
	"github.com/dcic-turnos/turnos-web/internal/infrastructure/storage/s3store"
	"github.com/dcic-turnos/turnos-web/internal/pkg/config"
	"github.com/dcic-turnos/turnos-web/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the turnos web server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "turnos-web",
		Version: version,
	})

	bundle, err := i18n.Load(cfg.DefaultLocale)
	if err != nil {
		return err
	}

	client := backend.New(backend.Config{
		BaseURL:        cfg.Backend.URL,
		Timeout:        cfg.Backend.Timeout,
		BreakerTimeout: cfg.Backend.BreakerTimeout,
	}, logger.Named("backend"))

	checks := map[string]handler.Check{"backend": client.Ping}

	// --- Cache (optional) ---
	var cache ports.Cache = redisstore.Nop{}
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = redisstore.NewCache(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache enabled")
	}

	// --- Audit trail (optional) ---
	var recorder ports.AuditRecorder = queue.Discard{}
	if cfg.Mongo.URI != "" {
		mc, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Disconnect(disconnectCtx)
		}()
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			log.Warn().Err(err).Msg("audit index creation failed")
		}
		dispatcher := queue.NewDispatcher(cfg.Mongo.AuditWorkers, mongostore.NewAuditRepository(db), logger.Named("audit"))
		dispatcher.Start(ctx)
		recorder = dispatcher
		checks["mongodb"] = func(ctx context.Context) error { return mc.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Int("workers", cfg.Mongo.AuditWorkers).Msg("audit trail enabled")
	}

	// --- Picture storage (optional) ---
	var pictures ports.PictureStore
	if cfg.Storage.Bucket != "" {
		store, err := s3store.New(s3store.Config{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		pictures = store
	} else {
		log.Warn().Msg("STORAGE_BUCKET not set, profile picture uploads disabled")
	}

	// --- Services ---
	svcLog := logger.Named("service")
	rooms := service.NewRoomService(client, cache, cfg.Redis.CacheTTL, recorder, svcLog)
	router, err := api.NewRouter(api.Deps{
		Auth:    service.NewAuthService(client, client, svcLog),
		Profile: service.NewProfileService(client, pictures, recorder, svcLog),
		Rooms:   rooms,
		Shifts:  service.NewShiftService(client, client, client, rooms, cache, cfg.Redis.CacheTTL, recorder, svcLog),
		Codec: session.NewCodec(session.Options{
			Secret:   cfg.Session.Secret,
			TTL:      cfg.Session.TTL,
			HTTPOnly: cfg.Session.HTTPOnly,
			Secure:   cfg.Session.Secure,
		}),
		Bundle: bundle,
		Log:    logger.Named("http"),
		Checks: checks,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend.URL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
