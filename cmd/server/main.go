package main // Entry point package

import (
	"context"
	"errors"
	"log" // Logging library
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/exam-seat-allocation/internal/allocation"
	"github.com/iliyamo/exam-seat-allocation/internal/config"   // Internal config loader
	"github.com/iliyamo/exam-seat-allocation/internal/database" // database/sql opener
	"github.com/iliyamo/exam-seat-allocation/internal/handler"
	"github.com/iliyamo/exam-seat-allocation/internal/metrics"
	"github.com/iliyamo/exam-seat-allocation/internal/middleware"
	"github.com/iliyamo/exam-seat-allocation/internal/queue"
	"github.com/iliyamo/exam-seat-allocation/internal/repository"
	"github.com/iliyamo/exam-seat-allocation/internal/router" // Internal router setup
	"github.com/iliyamo/exam-seat-allocation/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBDriver, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	dialect := repository.DialectFor(cfg.DBDriver)
	students := repository.NewStudentRepo(db, dialect)
	rooms := repository.NewRoomRepo(db, dialect)

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	cacheCfg := config.LoadCacheConfig()

	opts := []allocation.Option{
		allocation.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "allocation")),
		allocation.WithRecorder(metrics.NewPrometheus(nil, "")),
	}
	if cfg.AllocSeed != nil {
		opts = append(opts, allocation.WithSeed(*cfg.AllocSeed))
	}
	if cfg.ForbiddenPairs != nil {
		opts = append(opts, allocation.WithForbiddenPairs(cfg.ForbiddenPairs))
	}
	if rdb != nil {
		opts = append(opts, allocation.WithLease(allocation.NewRedisLease(rdb, "", cfg.LeaseTTL)))
	}
	allocator := allocation.New(students, rooms, opts...)

	admin := handler.NewAdminHandler(allocator, students, rooms)
	if rdb != nil {
		admin.Purge = func(ctx context.Context) error {
			_, err := middleware.PurgeCache(ctx, rdb, cacheCfg.Prefix)
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AMQPURL != "" {
		admin.Events = service.NewPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartAllocationConsumer(ctx, cfg.AMQPURL, "logs"); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("allocation-consumer: %v", err)
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	router.RegisterRoutes(e, promhttp.Handler())
	router.RegisterPublic(e, handler.NewPublicHandler(students))
	router.RegisterAdmin(e, admin,
		middleware.NewRedisCache(cacheCfg, rdb),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	addr := ":" + cfg.Port                                                     // Address string with port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
