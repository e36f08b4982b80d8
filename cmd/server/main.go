package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/events"
	"storefront-service/internal/identity"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/schedule"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	docs, err := openDocumentStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	st := store.New(docs)
	defer st.Close()

	bus := events.NewBus()
	clock := schedule.NewReal()

	writer := store.NewWriter(cfg.Storage.WriteQueue, cfg.Storage.WriteTimeout, service.NewStorageFailureReporter(bus, clock))
	defer writer.Close()

	ctx := context.Background()

	var source catalog.Source = catalog.NewStoreSource(st)
	if cfg.Business.CatalogFile != "" {
		source = catalog.NewFileSource(cfg.Business.CatalogFile)
	}
	catalogService := catalog.NewService(source)
	catalogService.Load(ctx)

	issuer := identity.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	cartService := service.NewCartService(st, writer, bus, catalogService, clock)
	wishlistService := service.NewWishlistService(st, writer, bus, catalogService, clock)
	orderService := service.NewOrderService(st, writer, bus, clock, service.OrderConfig{
		TrackingInterval:         cfg.Business.TrackingInterval,
		DeliveryETA:              cfg.Business.DeliveryETA,
		AllowCancelAfterDelivery: cfg.Business.AllowCancelAfterDelivery,
	})
	defer orderService.Shutdown()
	profileService := service.NewProfileService(st, writer, issuer, clock, service.ProfileConfig{
		DemoEmail:    cfg.Auth.DemoEmail,
		DemoPassword: cfg.Auth.DemoPassword,
		DemoName:     cfg.Auth.DemoName,
		DemoPhone:    cfg.Auth.DemoPhone,
	})
	checkoutService := service.NewCheckoutService(cartService, orderService, profileService)

	if err := orderService.Restore(ctx); err != nil {
		logger.Error("Failed to restore order history", zap.Error(err))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	publisher, err := openEventPublisher(cfg)
	if err != nil {
		logger.Error("Event sink unavailable, events stay in process", zap.String("sink", cfg.Events.Sink), zap.Error(err))
	}
	var forwarder *worker.EventForwarder
	if publisher != nil {
		defer publisher.Close()
		sub, cancel := bus.Subscribe(cfg.Events.BusBuffer)
		forwarder = worker.NewEventForwarder(sub, cancel, publisher)
		go func() {
			if err := forwarder.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Event forwarder error", zap.Error(err))
			}
		}()
		logger.Info("Event forwarding enabled", zap.String("sink", cfg.Events.Sink))
	}

	var commandWorker *worker.CommandWorker
	if cfg.Events.ConsumeCommand {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCommands, cfg.Kafka.ConsumerGroup)
		commandWorker = worker.NewCommandWorker(consumer, orderService)
		go func() {
			if err := commandWorker.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Command worker error", zap.Error(err))
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(api.Services{
		Catalog:  catalogService,
		Carts:    cartService,
		Wishlist: wishlistService,
		Orders:   orderService,
		Checkout: checkoutService,
		Profiles: profileService,
		Resolver: identity.NewResolver(cfg.Auth.JWTSecret, cfg.Auth.TrustUserHeader),
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	orderService.Shutdown()
	writer.Close()

	workerCancel()
	if forwarder != nil {
		forwarder.Stop()
	}
	if commandWorker != nil {
		if err := commandWorker.Stop(); err != nil {
			logger.Error("Error stopping command worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// openDocumentStore selects the storage backend once at startup
func openDocumentStore(cfg *config.Config, logger *zap.Logger) (store.DocumentStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		if cfg.Storage.RunMigrations {
			if err := store.RunMigrations(cfg.Storage.DatabaseURL, logger); err != nil {
				return nil, err
			}
		}
		pg, err := store.NewPostgres(cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connected")
		return pg, nil

	case config.BackendRedis:
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		logger.Info("Redis connected")
		return store.NewRedis(client), nil

	case config.BackendMemory, "":
		logger.Warn("No storage backend configured, data is kept in memory only")
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// openEventPublisher returns nil when no sink is configured
func openEventPublisher(cfg *config.Config) (*broker.EventPublisher, error) {
	switch cfg.Events.Sink {
	case config.SinkKafka:
		return broker.NewEventPublisher(broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)), nil
	case config.SinkRabbitMQ:
		rabbit, err := broker.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, err
		}
		return broker.NewEventPublisher(rabbit), nil
	case config.SinkNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown event sink %q", cfg.Events.Sink)
}
