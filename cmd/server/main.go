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

	"github.com/airiq/mockfeed/internal/connection"
	"github.com/airiq/mockfeed/internal/geo"
	"github.com/airiq/mockfeed/internal/httpapi"
	"github.com/airiq/mockfeed/internal/logging"
	"github.com/airiq/mockfeed/internal/queue"
	"github.com/airiq/mockfeed/internal/scatter"
	"github.com/airiq/mockfeed/internal/server"
	"github.com/airiq/mockfeed/internal/sim"
	"github.com/airiq/mockfeed/internal/snapshot"
	"github.com/airiq/mockfeed/internal/timer"
	"github.com/airiq/mockfeed/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "server")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Regions: YAML file when configured, built-in demo clusters otherwise
	regions := scatter.DefaultRegions()
	if cfg.Simulator.RegionsPath != "" {
		regions, err = scatter.LoadRegions(cfg.Simulator.RegionsPath)
		if err != nil {
			logger.Fatal("failed to load regions", zap.Error(err))
		}
	}
	logger.Info("regions loaded",
		zap.Int("regions", len(regions)),
		zap.Int("target_sensors", scatter.TargetCount(regions)))

	// Land boundaries are optional; without them placement is unconstrained
	var landIndex *geo.Index
	if cfg.Simulator.BoundariesPath != "" {
		landIndex, err = geo.LoadIndex(cfg.Simulator.BoundariesPath)
		if err != nil {
			logger.Fatal("failed to load boundaries", zap.Error(err))
		}
		logger.Info("land index loaded", zap.Int("features", landIndex.Len()))
	}

	// Kafka is optional for a purely local demo
	var producer *queue.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		if err := queue.CreateTopic(cfg.Kafka.Brokers, cfg.Kafka.TopicReadings, cfg.Kafka.NumPartitions, 1); err != nil {
			logger.Warn("topic creation failed (may already exist)", zap.Error(err))
		}
		producer = queue.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicReadings)
		defer producer.Close()
		logger.Info("kafka producer initialized", zap.String("topic", cfg.Kafka.TopicReadings))
	}

	// Redis snapshot store is optional as well
	var store *snapshot.Store
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		store = snapshot.NewStore(redisClient, 0)
		logger.Info("snapshot store initialized", zap.String("addr", cfg.Redis.Addr))

		if prev, err := store.Load(context.Background()); err != nil {
			logger.Warn("failed to load previous snapshot", zap.Error(err))
		} else if prev != nil {
			logger.Info("previous snapshot found",
				zap.String("run_id", prev.RunID),
				zap.Uint32("seed", prev.Seed),
				zap.Time("updated_at", prev.UpdatedAt))
		}
	}

	timerManager := timer.NewTimerManager()
	timerManager.Start()
	defer timerManager.Stop()

	simulator := sim.New(regions, landIndex, timerManager, producer, store, logger,
		cfg.Simulator.TickMin, cfg.Simulator.TickMax)

	connManager := connection.NewManager(cfg.Feed.MaxSubscribers)
	feedServer := server.NewFeedServer(&cfg.Feed, connManager, timerManager, simulator, logger)
	simulator.AddListener(feedServer.PushUpdate)

	run := simulator.Regenerate(context.Background(), cfg.Simulator.Seed)
	logger.Info("initial generation complete",
		zap.String("run_id", run.RunID),
		zap.Uint32("seed", run.Seed),
		zap.Int("sensors", run.Generated))

	simulator.Start()
	defer simulator.Stop()

	if err := feedServer.Start(); err != nil {
		logger.Fatal("failed to start feed server", zap.Error(err))
	}
	defer feedServer.Stop()

	apiServer := httpapi.NewServer(&cfg.HTTP, simulator, landIndex, logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Periodic operational stats
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			stats := connManager.Stats()
			timerStats := timerManager.Stats()
			logger.Info("server stats",
				zap.Int("subscribers", stats.TotalSubscribers),
				zap.Int("max_subscribers", stats.MaxSubscribers),
				zap.Int("unique_regions", stats.UniqueRegions),
				zap.Int("scheduled_timers", timerStats.ScheduledTasks))
		}
	}()

	logger.Info("mock feed server running",
		zap.Int("feed_port", cfg.Feed.Port),
		zap.Int("http_port", cfg.HTTP.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
}
