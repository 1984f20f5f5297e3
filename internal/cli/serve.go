package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/restaurant-reservations/internal/config"
	"github.com/iliyamo/restaurant-reservations/internal/database"
	"github.com/iliyamo/restaurant-reservations/internal/handler"
	"github.com/iliyamo/restaurant-reservations/internal/logger"
	"github.com/iliyamo/restaurant-reservations/internal/metrics"
	"github.com/iliyamo/restaurant-reservations/internal/queue"
	"github.com/iliyamo/restaurant-reservations/internal/repository"
	"github.com/iliyamo/restaurant-reservations/internal/router"
	"github.com/iliyamo/restaurant-reservations/internal/service"
	"github.com/iliyamo/restaurant-reservations/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. When QUEUE_CONSUMER_ENABLED is set the event consumer
runs in the same process. SIGINT or SIGTERM drains in-flight requests and
stops both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(load)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	ctx = log.WithFields(ctx, map[string]any{"env": cfg.App.Env, "port": cfg.App.Port})

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error(ctx, "error closing database", err)
		}
	}()
	if cfg.DB.AutoMigrate {
		if err := database.MigrateUp(ctx, db); err != nil {
			return err
		}
	}

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn(ctx, "redis unavailable; rate limiting and caching disabled", nil)
	} else {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := service.Deps{
		Gateway:   repository.NewStore(db),
		Validator: validation.New(policy, time.Now),
		Metrics:   metrics.NewWorkflowMetrics(reg),
		Logger:    log,
	}
	if cfg.Queue.PublishEnabled {
		deps.Publisher = queue.NewPublisher(cfg.Queue.URL)
	}

	e := router.New(router.Handlers{
		Reservations: handler.NewReservationHandler(service.NewReservationService(deps)),
		Tables:       handler.NewTableHandler(service.NewTableService(deps)),
		Auth:         handler.NewAuthHandler(cfg.Auth, time.Now),
	}, router.Options{
		Auth:      cfg.Auth,
		Cache:     cfg.Cache,
		RateLimit: cfg.RateLimit,
		Redis:     rdb,
		Logger:    log,
		Metrics:   metrics.NewHTTPMetrics(reg),
		Gatherer:  reg,
		DB:        db,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(ctx, "starting api server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		log.Info(ctx, "shutting down api server")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Queue.ConsumerEnabled {
		consumer := queue.NewConsumer(cfg.Queue.URL, cfg.Queue.LogDir, log)
		g.Go(func() error { return consumer.Run(gctx) })
	}
	return g.Wait()
}
