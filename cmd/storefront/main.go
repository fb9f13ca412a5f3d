// Storefront 主程序
// 功能：商品目录、卖家、购物车、订单与通知的 REST 服务，以及基于近期订单的需求追踪
// 架构：按上下文划分的 DDD 分层 + Gin + GORM，可选 Redis（租约、限流）与 Kafka（下单事件）
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartmysql "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/storefront/internal/catalog/interfaces/http"
	demandapp "github.com/wyfcoding/storefront/internal/demand/application"
	"github.com/wyfcoding/storefront/internal/demand/infrastructure/adapters"
	demandevents "github.com/wyfcoding/storefront/internal/demand/interfaces/events"
	demandgrpc "github.com/wyfcoding/storefront/internal/demand/interfaces/grpc"
	demandhttp "github.com/wyfcoding/storefront/internal/demand/interfaces/http"
	notificationapp "github.com/wyfcoding/storefront/internal/notification/application"
	notificationdomain "github.com/wyfcoding/storefront/internal/notification/domain"
	notificationmysql "github.com/wyfcoding/storefront/internal/notification/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/internal/notification/infrastructure/sender"
	notificationevents "github.com/wyfcoding/storefront/internal/notification/interfaces/events"
	notificationhttp "github.com/wyfcoding/storefront/internal/notification/interfaces/http"
	orderapp "github.com/wyfcoding/storefront/internal/order/application"
	orderdomain "github.com/wyfcoding/storefront/internal/order/domain"
	"github.com/wyfcoding/storefront/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/storefront/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/storefront/internal/order/interfaces/http"
	sellerapp "github.com/wyfcoding/storefront/internal/seller/application"
	sellermysql "github.com/wyfcoding/storefront/internal/seller/infrastructure/persistence/mysql"
	sellerhttp "github.com/wyfcoding/storefront/internal/seller/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/mq"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "configs/storefront/config.toml", "path to the TOML config file")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// 金额以 JSON 数字输出
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(cfg); err != nil {
		logger.Error(context.Background(), "Storefront exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Get()
	logger.Info(ctx, "Starting Storefront", "service", cfg.Server.Name, "environment", cfg.Server.Environment)

	// 3. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.Database.AutoMigrate || cfg.Server.Environment == "dev" {
		if err := database.Migrate(
			&catalogmysql.ProductModel{},
			&sellermysql.SellerModel{},
			&cartmysql.CartModel{}, &cartmysql.CartItemModel{},
			&ordermysql.OrderModel{}, &ordermysql.OrderItemModel{},
			&notificationmysql.NotificationModel{},
		); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info(ctx, "Database schema migrated")
	}

	// 4. 初始化 Redis（可选）
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled() {
		redisCache, err = cache.New(cache.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return err
		}
		defer redisCache.Close()
	}

	// 5. 初始化限流器
	var limiter ratelimit.RateLimiter = ratelimit.NewLocalRateLimiter()
	if redisCache != nil {
		limiter = ratelimit.NewRedisRateLimiter(redisCache.Client())
	}
	var guarded []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		guarded = append(guarded, middleware.RateLimit(limiter, ratelimit.PerSecond(cfg.RateLimit.QPS, cfg.RateLimit.Burst)))
	}

	// 6. 初始化指标
	m := metrics.New(cfg.Server.Name)

	// 7. 通知上下文
	hub := sender.NewHub(log)
	defer hub.Close()
	senders := []notificationdomain.Sender{hub}
	if cfg.Notification.WebhookURL != "" {
		senders = append(senders, sender.NewWebhookSender(cfg.Notification.WebhookURL, cfg.Notification.WebhookTimeout))
	}
	notifications := notificationapp.NewNotificationService(
		notificationmysql.NewNotificationRepository(database.DB), m, cfg.Notification.Retention, senders...)

	// 8. 商品目录、卖家与购物车
	catalog := catalogapp.NewCatalogService(
		catalogmysql.NewProductRepository(database.DB),
		notificationevents.NewCatalogListener(notifications),
		catalogdomain.NewVocabulary(cfg.Catalog.Categories),
	)
	sellers := sellerapp.NewSellerService(sellermysql.NewSellerRepository(database.DB), catalog)
	carts := cartapp.NewCartService(cartmysql.NewCartRepository(database.DB))

	// 9. 订单与需求追踪
	var producer *mq.KafkaProducer
	kafkaCfg := mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
		MaxRetries:     cfg.Kafka.MaxRetries,
		RetryBackoff:   cfg.Kafka.RetryBackoff,
	}
	if cfg.Kafka.Enabled() {
		producer = mq.NewProducer(kafkaCfg)
		defer producer.Close()
	}

	orderRepo := ordermysql.NewOrderRepository(database.DB)
	orderReads := orderapp.NewOrderQueryService(orderRepo)

	trackerOpts := []demandapp.Option{demandapp.WithMetrics(m)}
	if redisCache != nil {
		trackerOpts = append(trackerOpts,
			demandapp.WithLocker(adapters.NewRedisLocker(redisCache)),
			demandapp.WithReportCache(redisCache),
		)
	}
	tracker := demandapp.NewTracker(demandapp.Config{
		Threshold:      cfg.Demand.Threshold,
		CheckInterval:  cfg.Demand.CheckInterval,
		TrackingWindow: cfg.Demand.TrackingWindow,
		DedupWindow:    cfg.Demand.DedupWindow,
		LockTTL:        cfg.Demand.LockTTL,
		StatsCacheTTL:  cfg.Demand.StatsCacheTTL,
	},
		adapters.NewOrderSource(orderReads),
		adapters.NewCatalogSource(catalog),
		adapters.NewSellerDirectory(sellers),
		adapters.NewNotificationSink(notifications),
		log.With("component", "demand_tracker"),
		trackerOpts...,
	)
	triggers := demandapp.NewTriggerQueue(tracker, cfg.Demand.TriggerDelay, log.With("component", "demand_triggers"))

	// Kafka 可用时下单事件经由主题回流到各副本的消费者，否则直接进入本地队列
	var orderPublishers []orderdomain.EventPublisher
	if producer != nil {
		orderPublishers = append(orderPublishers, messaging.NewKafkaPublisher(producer, cfg.Kafka.OrderTopic))
	} else {
		orderPublishers = append(orderPublishers, demandevents.NewOrderListener(triggers))
	}
	orders := orderapp.NewOrderService(orderRepo, orderPublishers...)

	// 10. HTTP 服务器
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS(), middleware.Metrics(m))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.Server.Name,
			"tracker":   tracker.State(),
			"timestamp": time.Now().Unix(),
		})
	})
	cataloghttp.NewCatalogHandler(catalog).RegisterRoutes(router)
	sellerhttp.NewSellerHandler(sellers).RegisterRoutes(router)
	carthttp.NewCartHandler(carts).RegisterRoutes(router)
	orderhttp.NewOrderHandler(orders).RegisterRoutes(router)
	demandhttp.NewDemandHandler(tracker, guarded...).RegisterRoutes(router)
	notificationhttp.NewNotificationHandler(notifications, hub, guarded...).RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// 11. 后台任务与服务器统一由 errgroup 管理
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.GRPC.Enabled {
		startGRPC(gctx, g, cfg, tracker)
	}

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return m.Serve(gctx, fmt.Sprintf(":%d", cfg.Metrics.Port), cfg.Metrics.Path)
		})
	}

	retention := notificationapp.NewRetentionJob(notifications, log.With("component", "notification_retention"), cfg.Notification.SweepInterval)
	g.Go(func() error {
		retention.Start(gctx)
		return nil
	})

	if cfg.Demand.Enabled {
		g.Go(func() error { return triggers.Run(gctx) })
		g.Go(func() error {
			tracker.Start(gctx)
			<-gctx.Done()
			tracker.Stop()
			return nil
		})
	}

	if producer != nil && cfg.Demand.Enabled {
		consumer := mq.NewConsumer(kafkaCfg, cfg.Kafka.OrderTopic)
		defer consumer.Close()
		dlq := mq.NewDeadLetterQueue(producer, cfg.Kafka.DeadLetterTopic)
		orderEvents := demandevents.NewOrderConsumer(consumer, dlq, triggers, log.With("component", "order_consumer"))
		g.Go(func() error { return orderEvents.Run(gctx) })
	}

	err = g.Wait()
	logger.Info(context.Background(), "Storefront stopped")
	return err
}

// startGRPC 启动只承载健康检查与反射的 gRPC 服务器
func startGRPC(ctx context.Context, g *errgroup.Group, cfg *config.Config, tracker *demandapp.Tracker) {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.GRPCLoggingInterceptor(),
		middleware.GRPCRecoveryInterceptor(),
	))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)
	reporter := demandgrpc.NewHealthReporter(healthServer, tracker, 5*time.Second)

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		logger.Info(ctx, "Starting gRPC server", "addr", addr)
		return server.Serve(listener)
	})
	g.Go(func() error { return reporter.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		healthServer.Shutdown()
		server.GracefulStop()
		return nil
	})
}
