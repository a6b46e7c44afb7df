package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/gig-registry/internal/config"
	"github.com/iliyamo/gig-registry/internal/database"
	"github.com/iliyamo/gig-registry/internal/handler"
	"github.com/iliyamo/gig-registry/internal/middleware"
	"github.com/iliyamo/gig-registry/internal/queue"
	"github.com/iliyamo/gig-registry/internal/repository"
	"github.com/iliyamo/gig-registry/internal/router"
	"github.com/iliyamo/gig-registry/internal/service"
)

const logHeader = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
}

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logger := log.New("gig-registry")
	logger.SetHeader(logHeader)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetLevel(levels[cfg.LogLevel])

	policy, err := repository.ParseDeletePolicy(cfg.DeletePolicy)
	if err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Fatalf("open %s database: %v", cfg.DB.Driver, err)
	}
	defer db.Close()
	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatalf("migrate: %v", err)
		}
	}

	opts := []service.Option{service.WithLogger(logger)}
	qcfg := config.LoadQueueConfig()
	if qcfg.Enabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(qcfg.URL, qcfg.Queue, logger)))
		if qcfg.ConsumerEnabled {
			go func() {
				err := queue.StartConsumer(ctx, qcfg.URL, qcfg.Queue, qcfg.LogDir, logger)
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Errorf("registry-consumer stopped: %v", err)
				}
			}()
		}
	}
	reg := service.NewRegistry(db, policy, opts...)

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable: response cache and rate limiting are disabled")
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := log.JSON{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
			}
			if v.Error != nil {
				entry["error"] = v.Error.Error()
				logger.Errorj(entry)
				return nil
			}
			logger.Infoj(entry)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, handler.New(reg),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	addr := ":" + cfg.Port
	logger.Infof("listening on %s (env=%s, db=%s, delete_policy=%s)", addr, cfg.Env, cfg.DB.Driver, policy)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
