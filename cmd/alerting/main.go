package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/airiq/mockfeed/internal/alarming"
	"github.com/airiq/mockfeed/internal/logging"
	"github.com/airiq/mockfeed/internal/protocol"
	"github.com/airiq/mockfeed/internal/queue"
	"github.com/airiq/mockfeed/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "alerting")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	stateManager := alarming.NewStateManager(redisClient, cfg.Alerting.StateTTL)

	alertProducer := queue.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicAlerts)
	defer alertProducer.Close()

	watcher := alarming.NewWatcher(stateManager, alertProducer, logger)

	consumer := queue.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicReadings, cfg.Alerting.ConsumerGroup)
	defer consumer.Close()

	logger.Info("alerting service running",
		zap.String("topic", cfg.Kafka.TopicReadings),
		zap.String("group", cfg.Alerting.ConsumerGroup))

	// Periodic consumer lag stats
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			stats := consumer.Stats()
			logger.Info("consumer stats",
				zap.Int64("messages", stats.Messages),
				zap.Int64("lag", stats.Lag),
				zap.Int64("errors", stats.Errors))
		}
	}()

	go func() {
		for {
			msg, err := consumer.Consume(ctx)
			if err != nil {
				logger.Warn("failed to consume message", zap.Error(err))
				continue
			}

			batch, err := protocol.DecodeReadingBatch(msg.Value)
			if err != nil {
				logger.Warn("failed to decode reading batch", zap.Error(err))
				consumer.Commit(ctx, msg)
				continue
			}

			if err := watcher.EvaluateBatch(ctx, batch); err != nil {
				logger.Warn("failed to evaluate batch", zap.Error(err))
			}

			if err := consumer.Commit(ctx, msg); err != nil {
				logger.Warn("failed to commit offset", zap.Error(err))
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
}
