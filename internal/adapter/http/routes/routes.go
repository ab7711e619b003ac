package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "payment_relay/docs" // swag generated
	"payment_relay/internal/adapter/http/handlers"
	"payment_relay/internal/adapter/http/middleware"
	"payment_relay/internal/adapter/persistence/repository"
	"payment_relay/internal/config"
	"payment_relay/internal/domain/entities"
	"payment_relay/internal/infrastructure/database"
	"payment_relay/internal/infrastructure/events"
	"payment_relay/internal/infrastructure/lock"
	"payment_relay/internal/infrastructure/metrics"
	"payment_relay/internal/infrastructure/payments"
	"payment_relay/internal/usecase"
	"payment_relay/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the usecases the HTTP layer dispatches to.
type Dependencies struct {
	Transactions  usecase.ITransactionUseCase
	Verifications usecase.IVerificationUseCase
}

// NewRouter builds the gin engine. Matching is exact: trailing-slash and
// case-fixing redirects are off and unknown method/path pairs get the JSON 404.
func NewRouter(cfg config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false

	setMiddlewares(router, cfg)

	router.GET(PathHealth, handlers.Health)
	router.GET(PathMetrics, gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	th := handlers.NewTransactionHandler(deps.Transactions)
	vh := handlers.NewVerificationHandler(deps.Verifications)
	addRoutes(router.Group(PathAPI), paymentRoutes(th, vh))

	router.NoRoute(handlers.RouteNotFound)
	return router
}

func setMiddlewares(router *gin.Engine, cfg config.Config) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.PrometheusMiddleware())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
}

// Run wires the configured backends and serves until SIGINT/SIGTERM.
func Run(cfg config.Config) error {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("[http][server] listening")
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to startup the application: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("[http][server] shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("[http][server] stopped")
	return nil
}

func buildDependencies(ctx context.Context, cfg config.Config) (Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (Dependencies, func(), error) {
		cleanup()
		return Dependencies{}, func() {}, err
	}

	repo, closeRepo, err := buildOrderRepository(ctx, cfg.Store)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeRepo)

	gateway, err := payments.NewPaystackGateway(payments.PaystackOptions{
		SecretKey: cfg.Paystack.SecretKey,
		BaseURL:   cfg.Paystack.BaseURL,
		Timeout:   cfg.Paystack.Timeout,
		Mock:      cfg.Paystack.Mock,
	})
	if err != nil {
		return fail(err)
	}

	var locker interfaces.IVerificationLocker = lock.NewMemoryLocker()
	if cfg.Redis.Addr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = client.Close() })
		locker = lock.NewRedisLocker(client, cfg.Redis.LockTTL)
	} else {
		log.Warn("[lock] REDIS_ADDR not set; verification lock is process-local")
	}

	var publisher interfaces.IPaymentEventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPaymentEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.PaymentTopic)
		closers = append(closers, func() { _ = kp.Close() })
		publisher = kp
	}

	return Dependencies{
		Transactions:  usecase.NewTransactionUseCase(repo, gateway),
		Verifications: usecase.NewVerificationUseCase(repo, gateway, locker, publisher),
	}, cleanup, nil
}

func buildOrderRepository(ctx context.Context, cfg config.StoreConfig) (interfaces.IOrderRepository, func(), error) {
	switch cfg.Driver {
	case config.StoreDriverMongoDB:
		client, err := database.ConnectMongoDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewOrderMongoRepository(ctx, client, cfg.MongoDB, cfg.MongoCollection)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	case config.StoreDriverMemory:
		log.Warn("[database] STORE_DRIVER=memory; orders are not persisted")
		seed := make([]entities.Order, 0, len(cfg.MemoryOrderIDs))
		for _, id := range cfg.MemoryOrderIDs {
			seed = append(seed, entities.Order{ID: id})
		}
		return repository.NewOrderMemoryRepository(seed...), func() {}, nil
	default:
		client, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewOrderDynamoRepository(client, cfg.OrdersTable, cfg.ReferenceIndex), func() {}, nil
	}
}
