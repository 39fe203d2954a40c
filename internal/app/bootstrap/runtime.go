package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/ordermesh/logistics-service/internal/adapters/cache"
	eventadapter "github.com/ordermesh/logistics-service/internal/adapters/events"
	httpadapter "github.com/ordermesh/logistics-service/internal/adapters/http"
	"github.com/ordermesh/logistics-service/internal/adapters/memory"
	"github.com/ordermesh/logistics-service/internal/adapters/postgres"
	"github.com/ordermesh/logistics-service/internal/adapters/security"
	"github.com/ordermesh/logistics-service/internal/application"
	"github.com/ordermesh/logistics-service/internal/domain"
	"github.com/ordermesh/logistics-service/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	consumer   *eventadapter.ConsumerWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var closers []io.Closer

	var (
		shipments  ports.ShipmentRepository
		eventDedup ports.EventDedupRepository
		outboxRepo ports.OutboxRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, logger, db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		closers = append(closers, sqlDB)
		repos := postgres.NewRepositories(db)
		shipments, eventDedup, outboxRepo = repos.Shipments, repos.EventDedup, repos.Outbox
	} else {
		logger.WarnContext(ctx, "no database configured, using in-memory repositories")
		repos := memory.NewRepositories()
		shipments, eventDedup, outboxRepo = repos.Shipments, repos.EventDedup, repos.Outbox
	}

	var shipmentCache ports.Cache
	if cfg.RedisURL != "" {
		redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		closers = append(closers, redisClient)
		shipmentCache = cacheadapter.NewRedisCache(redisClient)
	}

	verifier, err := security.NewJWTVerifier(cfg.JWTSecret)
	if err != nil {
		closeAll(closers)
		return nil, err
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:   cfg.ServiceID,
			EventDedupTTL: cfg.EventDedupTTL,
			CacheTTL:      cfg.ShipmentCacheTTL,
		},
		Shipments:  shipments,
		EventDedup: eventDedup,
		Outbox:     outboxRepo,
		Cache:      shipmentCache,
	})

	handler := httpadapter.NewHandler(service, verifier)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		closeAll(closers)
		return nil, err
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	dlq := ports.DeadLetterSink(eventadapter.NewLoggingDeadLetterSink(logger))
	workerCount := cfg.ConsumerWorkers
	if workerCount <= 0 {
		workerCount = 1
	}
	var consumers []eventadapter.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			domain.EventShipmentCreated:          domain.EventShipmentCreated,
			domain.EventShipmentStatusChanged:    domain.EventShipmentStatusChanged,
			domain.EventShipmentTrackingAssigned: domain.EventShipmentTrackingAssigned,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			dlq = eventadapter.NewPublisherDeadLetterSink(kafkaPublisher, cfg.KafkaTopicDLQ)
			closers = append(closers, kafkaPublisher)
		}

		// One reader per worker loop; the consumer group spreads partitions
		// across them and no two loops share offset commits.
		for i := 0; i < workerCount; i++ {
			kafkaConsumer, conErr := eventadapter.NewKafkaConsumer(
				cfg.KafkaBrokers,
				cfg.KafkaConsumerGroup,
				[]string{cfg.KafkaTopicOrderPaid},
			)
			if conErr != nil {
				logger.WarnContext(ctx, "kafka consumer disabled, using noop consumer", "error", conErr)
				break
			}
			consumers = append(consumers, kafkaConsumer)
			closers = append(closers, kafkaConsumer)
		}
	}
	if len(consumers) == 0 {
		consumers = []eventadapter.Consumer{eventadapter.NewNoopConsumer()}
	}
	outbox := eventadapter.NewOutboxWorker(logger, outboxRepo, publisher, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
	consumer := eventadapter.NewConsumerWorker(logger, consumers, service, dlq, eventadapter.ConsumerWorkerConfig{
		OrderPaidTopic:      cfg.KafkaTopicOrderPaid,
		FetchWait:           cfg.ConsumerFetchWait,
		MaxDeliveryAttempts: cfg.MaxDeliveryAttempts,
		RetryBackoff:        cfg.RetryBackoff,
	})

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     outbox,
		consumer:   consumer,
		cleanupFn: func(context.Context) {
			closeAll(closers)
		},
	}, nil
}

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Worker mode serves no traffic; release the ports the runtime reserved.
	_ = r.grpcLis.Close()
	errCh := make(chan error, 2)

	go func() {
		if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		r.cleanupFn(context.Background())
		return nil
	case err := <-errCh:
		r.cleanupFn(context.Background())
		return err
	}
}
