package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	kafkain "marketplace/internal/adapters/in/kafka"
	"marketplace/internal/adapters/out/kafkanotify"
	"marketplace/internal/adapters/out/postgres/earningrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/redispub"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	broadcaster, redisClient := createBroadcaster(configs)
	notifier, notifierCloser := createNotifier(configs)

	root, err := cmd.NewCompositionRoot(configs, gormDB, broadcaster, notifier, logger)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	jobManager := jobs.NewJobManager(
		root.CreateRunSettlementPassCommandHandler(),
		configs.SettlementCron,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	startPaymentConsumer(consumerCtx, configs, &root, logger)

	e := echo.New()
	server := httpin.NewServer(
		root.CreateUpdateOrderStatusCommandHandler(),
		root.CreateAddTrackingCommandHandler(),
		root.CreateRunSettlementPassCommandHandler(),
		root.CreateGetOrderQueryHandler(),
		root.CreateGetOrderTimelineQueryHandler(),
		root.CreateListOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil {
			logger.Info("HTTP server stopped", "reason", startErr)
		}
	}()

	waitForShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopConsumer()
	jobManager.StopAll()
	_ = e.Shutdown(shutdownCtx)
	if notifierCloser != nil {
		_ = notifierCloser()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "marketplace"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		KafkaBrokers:               os.Getenv("KAFKA_BROKERS"),
		KafkaConsumerGroup:         envOr("KAFKA_CONSUMER_GROUP", "order-lifecycle"),
		KafkaPaymentConfirmedTopic: envOr("KAFKA_PAYMENT_CONFIRMED_TOPIC", "payment.confirmed"),
		KafkaNotificationTopic:     envOr("KAFKA_NOTIFICATION_TOPIC", "order.notifications"),

		CommissionRateBp: envIntOr("COMMISSION_RATE_BP", 1000),
		EarningHoldDays:  envIntOr("EARNING_HOLD_DAYS", 7),
		SettlementCron:   envOr("SETTLEMENT_CRON", "0 3 * * *"),
		TransitionPolicy: envOr("TRANSITION_POLICY", "lenient"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %v", key, err)
	}
	return n
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.SubOrderDTO{},
		&orderrepo.StatusEventDTO{},
		&earningrepo.EarningDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func createBroadcaster(configs cmd.Config) (ports.Broadcaster, *redis.Client) {
	if configs.RedisAddr == "" {
		return redispub.NoopBroadcaster{}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
	return redispub.NewRedisBroadcaster(client), client
}

func createNotifier(configs cmd.Config) (ports.Notifier, func() error) {
	if configs.KafkaBrokers == "" {
		return kafkanotify.NoopNotifier{}, nil
	}
	notifier := kafkanotify.NewKafkaNotifier(
		strings.Split(configs.KafkaBrokers, ","),
		configs.KafkaNotificationTopic,
	)
	return notifier, notifier.Close
}

func startPaymentConsumer(
	ctx context.Context,
	configs cmd.Config,
	root *cmd.CompositionRoot,
	logger *slog.Logger,
) {
	if configs.KafkaBrokers == "" {
		return
	}

	consumer := kafkain.NewPaymentConfirmedConsumer(
		strings.Split(configs.KafkaBrokers, ","),
		configs.KafkaConsumerGroup,
		configs.KafkaPaymentConfirmedTopic,
		root.CreateUpdateOrderStatusCommandHandler(),
		logger,
	)

	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("Payment consumer stopped", "error", err)
		}
	}()
}

func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
