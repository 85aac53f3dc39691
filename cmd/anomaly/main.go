// Package main 异常检测服务启动入口
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"github.com/wyfcoding/pkg/redis"
	"github.com/wyfcoding/salesanalytics/internal/anomaly/application"
	persistence_mysql "github.com/wyfcoding/salesanalytics/internal/anomaly/infrastructure/persistence/mysql"
	persistence_redis "github.com/wyfcoding/salesanalytics/internal/anomaly/infrastructure/persistence/redis"
	eventconsumer "github.com/wyfcoding/salesanalytics/internal/anomaly/interfaces/consumer"
	httpserver "github.com/wyfcoding/salesanalytics/internal/anomaly/interfaces/http"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

var configPath = flag.String("config", "configs/anomaly/config.toml", "config file path")

// Config 服务扩展配置
type Config struct {
	config.Config `mapstructure:",squash"`
	Anomaly       struct {
		DetectionIntervalHours int `mapstructure:"detection_interval_hours" toml:"detection_interval_hours"`
	} `mapstructure:"anomaly" toml:"anomaly"`
}

func main() {
	flag.Parse()

	// 1. Config
	var cfg Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	logCfg := &logging.Config{
		Service:    cfg.Server.Name,
		Module:     "anomaly",
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. Metrics
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)
	if cfg.Metrics.Enabled {
		go metricsImpl.ExposeHTTP(cfg.Metrics.Port)
	}

	// 4. Database
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(&persistence_mysql.AnomalyModel{}, &outbox.Message{}); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Redis
	redisClient, redisCleanup, err := redis.NewClient(&cfg.Data.Redis, logger)
	if err != nil {
		slog.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	defer redisCleanup()

	// 6. Kafka & Outbox
	producer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	outboxProc := outbox.NewProcessor(outboxMgr, func(ctx context.Context, topic, key string, payload []byte) error {
		return producer.PublishToTopic(ctx, topic, []byte(key), payload)
	}, 100, 5*time.Second)
	outboxProc.Start()
	publisher := outbox.NewPublisher(outboxMgr)

	// 7. Repository & Application
	anomalyRepo := persistence_mysql.NewAnomalyRepository(db.RawDB())
	catalog := persistence_mysql.NewChannelCatalog(db.RawDB())
	salesSource := persistence_mysql.NewSalesSource(db.RawDB())
	cache := persistence_redis.NewActiveAnomalyCache(redisClient)

	detectionService := application.NewDetectionService(catalog, salesSource, anomalyRepo, cache, publisher)
	commandService := application.NewAnomalyCommandService(anomalyRepo, cache, publisher)
	queryService := application.NewAnomalyQueryService(anomalyRepo, cache)
	detectionJob := application.NewDetectionJob(detectionService, slog.Default(),
		time.Duration(cfg.Anomaly.DetectionIntervalHours)*time.Hour)

	// 8. Kafka Consumer：销售录入事件
	consumerCfg := cfg.MessageQueue.Kafka
	consumerCfg.GroupID = "anomaly-group"
	consumerCfg.Topic = "sales.daily.recorded"
	salesConsumer := kafka.NewConsumer(&consumerCfg, logger, metricsImpl)
	salesEventHandler := eventconsumer.NewSalesEventHandler(cache)

	// 9. Interfaces
	grpcSrv := grpc.NewServer()
	reflection.Register(grpcSrv)

	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	httpHandler := httpserver.NewAnomalyHandler(queryService, commandService, detectionService)
	httpHandler.RegisterRoutes(r.Group("/api/v1"))

	// 10. Start
	g, ctx := errgroup.WithContext(context.Background())

	salesEventHandler.Subscribe(ctx, salesConsumer)

	g.Go(func() error {
		detectionJob.Start(ctx)
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		slog.Info("gRPC server starting", "addr", addr)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		outboxProc.Stop()
		if producer != nil {
			producer.Close()
		}
		grpcSrv.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
