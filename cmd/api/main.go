package main

import (
	"Devflow/internal/api/config"
	"Devflow/internal/pkg/cron"
	"Devflow/internal/pkg/kafka"
	"Devflow/internal/pkg/logger"
	"Devflow/internal/pkg/mongo"
	"Devflow/internal/pkg/redis"
	"Devflow/internal/repository"
	"Devflow/internal/repository/memory"
	"Devflow/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	cfg := config.Cfg

	// 初始化日志
	if err := logger.InitLogger(cfg.Log); err != nil {
		log.Error("Fatal error: failed to initialize logger", "err", err)
		panic(err)
	}

	// 实体存储
	var store *repository.Store
	var mongoStore *mongo.Store
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("Using in-memory store, data will not survive a restart")
		store = memory.NewStore()
	default:
		mongoStore = mongo.NewStore(cfg.Mongo)
		if err := mongoStore.Connect(context.Background()); err != nil {
			log.Error("Fatal error: failed to create mongo connection", "err", err)
			panic(err)
		}
		store = mongoStore.Repositories()
	}

	// Redis 连接
	cache, err := redis.InitRedis(cfg.Redis)
	if err != nil {
		log.Error("Fatal error: failed to create redis connection", "err", err)
		panic(err)
	}

	// Kafka 生产者
	publisher, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		log.Error("Fatal error: failed to create kafka producer", "err", err)
		panic(err)
	}

	// 依赖注入
	app, err := wire.BuildApplication(store, cache, publisher, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	if err = cron.InitCron(app.CronMgr); err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// HTTP 服务器
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}

	if err = publisher.Close(); err != nil {
		log.Error("Kafka producer close failed", "err", err)
	}
	if err = cache.Close(); err != nil {
		log.Error("Redis close failed", "err", err)
	}
	if mongoStore != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err = mongoStore.Disconnect(disconnectCtx); err != nil {
			log.Error("Mongo disconnect failed", "err", err)
		}
	}
	log.Info("App exited successfully.")
}
