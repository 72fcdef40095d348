package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mveldsman/storefront-service/internal/config"
	delivery "github.com/mveldsman/storefront-service/internal/delivery/http"
	"github.com/mveldsman/storefront-service/internal/delivery/http/handlers"
	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/infrastructure/gateway"
	"github.com/mveldsman/storefront-service/internal/infrastructure/kafka"
	"github.com/mveldsman/storefront-service/internal/infrastructure/memstore"
	"github.com/mveldsman/storefront-service/internal/infrastructure/metrics"
	"github.com/mveldsman/storefront-service/internal/infrastructure/migrate"
	"github.com/mveldsman/storefront-service/internal/infrastructure/notifier"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres"
	"github.com/mveldsman/storefront-service/internal/infrastructure/postgres/repository"
	"github.com/mveldsman/storefront-service/internal/infrastructure/redisstore"
	"github.com/mveldsman/storefront-service/internal/usecase"
	"github.com/mveldsman/storefront-service/internal/usecase/settlement"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg)

	// Init ledger store: volatile memory by default, postgres when configured
	var productRepo domain.ProductRepository
	var orderRepo domain.OrderRepository
	var cartRepo domain.CartRepository

	switch cfg.StoreDB.Driver {
	case "postgres":
		db := postgres.MustInitDB(cfg)
		if cfg.StoreDB.MigrationsPath != "" {
			if err := migrate.RunMigrations(db, cfg.StoreDB.MigrationsPath); err != nil {
				log.Fatalf("failed to run migrations: %v", err)
			}
		}
		productRepo = repository.NewDefaultProductRepository(db)
		orderRepo = repository.NewDefaultOrderRepository(db)
		cartRepo = nil // carts never live in postgres; filled below
	default:
		store := memstore.NewStore()
		productRepo = store
		orderRepo = store
		cartRepo = store
	}

	// Session carts: redis when enabled, otherwise the memory store
	if cfg.CartRedis.Enabled {
		cartRepo = redisstore.NewCartRepository(
			cfg.CartRedis.Addr,
			cfg.CartRedis.Password,
			cfg.CartRedis.DB,
			cfg.CartRedis.CartTTL,
		)
	}
	if cartRepo == nil {
		cartRepo = memstore.NewStore()
	}

	// Init settlement event publisher
	var publisher settlement.SettlementPublisher
	if cfg.KafkaService.Enabled {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		publisher = kafka.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)
	}

	// Init payment gateway client
	gatewayClient := gateway.NewClient(cfg.PaymentGateway.Sandbox, cfg.PaymentGateway.ValidateTimeout)

	settlementMetrics := metrics.NewSettlementMetrics()

	// Init catalog usecase and seed products
	catalogUsecase := usecase.NewDefaultCatalogUsecase(productRepo)
	if err := catalogUsecase.SeedDefaultCatalog(); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	// Init cart usecase
	cartUsecase := usecase.NewDefaultCartUsecase(cartRepo, productRepo)
	// Init settlement usecase
	settlementUsecase := settlement.NewDefaultSettlementUsecase(
		settlement.Config{
			MerchantID:      cfg.PaymentGateway.MerchantID,
			MerchantKey:     cfg.PaymentGateway.MerchantKey,
			Passphrase:      cfg.PaymentGateway.Passphrase,
			CallbackBaseURL: cfg.PaymentGateway.CallbackBaseURL,
			ProcessURL:      gatewayClient.ProcessURL(),
		},
		productRepo,
		orderRepo,
		cartRepo,
		gatewayClient,
		publisher,
		notifier.NewLogBuyerNotifier(),
		settlementMetrics,
	)

	router := delivery.NewRouter(delivery.Handlers{
		Catalog:  handlers.NewCatalogHandler(catalogUsecase),
		Cart:     handlers.NewCartHandler(cartUsecase),
		Checkout: handlers.NewCheckoutHandler(settlementUsecase, cartUsecase),
		Notify:   handlers.NewNotifyHandler(settlementUsecase),
		Order:    handlers.NewOrderHandler(settlementUsecase),
	})

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	// Periodic stock gauge refresh
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				products, err := productRepo.ListProducts()
				if err != nil {
					slog.Error("stock gauge refresh failed", "error", err.Error())
					continue
				}
				for _, p := range products {
					settlementMetrics.ProductStockGauge.WithLabelValues(p.ID).Set(float64(p.Stock))
				}
			}
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err.Error())
		}
	}()

	log.Printf("storefront server started on %s:%s\n", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func setupLogger(cfg *config.StorefrontConfig) {
	var level slog.Level
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-ch
		cancel()
	}()

	return ctx, cancel
}
