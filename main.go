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

	"github.com/Zhima-Mochi/storefront/internal/application"
	appauth "github.com/Zhima-Mochi/storefront/internal/application/auth"
	appcatalog "github.com/Zhima-Mochi/storefront/internal/application/catalog"
	appchat "github.com/Zhima-Mochi/storefront/internal/application/chat"
	appinventory "github.com/Zhima-Mochi/storefront/internal/application/inventory"
	apporder "github.com/Zhima-Mochi/storefront/internal/application/order"
	appreview "github.com/Zhima-Mochi/storefront/internal/application/review"
	"github.com/Zhima-Mochi/storefront/internal/config"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/internal/domain/chat"
	dominv "github.com/Zhima-Mochi/storefront/internal/domain/inventory"
	domorder "github.com/Zhima-Mochi/storefront/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/internal/domain/review"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/id"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/kafka"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/memory"
	infraobs "github.com/Zhima-Mochi/storefront/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/persistence/postgres"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/security"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/seed"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/storefront/internal/presentation/http"
	workerpresentation "github.com/Zhima-Mochi/storefront/internal/presentation/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tokenIssuer = "storefront"

// repositories is the storage surface shared by the memory and postgres backends.
type repositories struct {
	accounts  account.Repository
	catalog   catalog.Repository
	orders    domorder.Repository
	reviews   review.Repository
	chat      chat.Repository
	placement domorder.Placement
	close     func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	if err := run(cfg, baseLogger); err != nil {
		baseLogger.Error("storefront_exit", zap.Error(err))
		_ = baseLogger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, baseLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	counters, histograms := prometrics.Instruments(prometrics.New("", reg))

	tel := infraobs.New(
		oteltrace.New(cfg.ServiceName),
		zaplogger.New(baseLogger),
		counters,
		histograms,
	)
	log := tel.Logger().With(observability.F("component", "main"))

	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			log.Warn("storage_close_failed", observability.F("error", err.Error()))
		}
	}()

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		MemoryKiB:   cfg.Argon2MemoryKiB,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: cfg.Argon2Parallelism,
		SaltLength:  security.DefaultArgon2Params().SaltLength,
		KeyLength:   security.DefaultArgon2Params().KeyLength,
	})
	tokens := security.NewJWTIssuer(cfg.TokenSecret, cfg.TokenTTL, tokenIssuer)
	ids := id.NewUUIDGenerator()

	bus := outbox.NewBus(tel, outbox.Options{})
	bus.Start(context.Background())
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := bus.Stop(stopCtx); err != nil {
			log.Warn("outbox_stop_failed", observability.F("error", err.Error()))
		}
	}()

	if len(cfg.KafkaBrokers) > 0 {
		relay := kafka.NewRelay(kafka.NewWriter(kafka.Config{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic}), cfg.KafkaTopic, tel)
		relay.Register(bus,
			domorder.OrderPlacedEvent{}.EventName(),
			domorder.OrderStatusChangedEvent{}.EventName(),
			dominv.LowStockDetectedEvent{}.EventName(),
		)
		defer func() { _ = relay.Close() }()
		log.Info("kafka_relay_enabled", observability.F("brokers", cfg.KafkaBrokers), observability.F("topic", cfg.KafkaTopic))
	}

	var placeOrder application.UseCase[apporder.PlaceOrderInput, *apporder.PlaceOrderResult] = apporder.NewPlaceOrderUseCase(repos.placement, ids, bus, tel)
	services := httppresentation.Services{
		Auth:       appauth.NewService(repos.accounts, hasher, tokens, ids, tel),
		Catalog:    appcatalog.NewService(repos.catalog, repos.reviews, repos.accounts, ids, tel),
		Orders:     apporder.NewService(repos.orders, repos.catalog, repos.accounts, bus, tel),
		PlaceOrder: placeOrder,
		Reviews:    appreview.NewService(repos.reviews, repos.catalog, ids, tel),
		Chat:       appchat.NewService(repos.chat, repos.accounts, ids, tel),
	}

	stockCheck := appinventory.NewCheckStockUseCase(dominv.LowStockPolicy{Threshold: cfg.LowStockThreshold}, bus, tel)
	workerpresentation.NewStockWatcher(bus, stockCheck, tel).Start()

	if cfg.SeedDemoData {
		seeder := seed.NewSeeder(repos.accounts, repos.catalog, repos.reviews, hasher, ids, tel.Logger())
		if _, err := seeder.Run(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	handler := httppresentation.NewHandler(services, cfg.ServiceName,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), tel)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http_server_start", observability.F("addr", server.Addr), observability.F("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http_server_shutdown_error", observability.F("error", err.Error()))
			return err
		}
		log.Info("http_server_stopped")
		return nil
	})
	return g.Wait()
}

func openStorage(ctx context.Context, cfg config.Config, log observability.Logger) (*repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN, postgres.Options{})
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.AutoMigrate(ctx, db); err != nil {
				_ = postgres.Close(db)
				return nil, err
			}
		}
		store := postgres.NewStore(db)
		log.Info("storage_ready", observability.F("driver", cfg.StorageDriver), observability.F("auto_migrate", cfg.AutoMigrate))
		return &repositories{
			accounts:  store.Accounts(),
			catalog:   store.Catalog(),
			orders:    store.Orders(),
			reviews:   store.Reviews(),
			chat:      store.Chat(),
			placement: store.Placement(),
			close:     func() error { return postgres.Close(db) },
		}, nil
	default:
		store := memory.NewStore()
		log.Info("storage_ready", observability.F("driver", config.StorageMemory))
		return &repositories{
			accounts:  store.Accounts(),
			catalog:   store.Catalog(),
			orders:    store.Orders(),
			reviews:   store.Reviews(),
			chat:      store.Chat(),
			placement: store.Placement(),
			close:     func() error { return nil },
		}, nil
	}
}
