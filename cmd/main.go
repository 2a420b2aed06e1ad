package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"posture-bot/config"
	"posture-bot/internal/api/rest"
	"posture-bot/internal/api/telegram"
	"posture-bot/internal/container"
	"posture-bot/internal/domain/port"
	"posture-bot/internal/infrastructure/metrics"
	"posture-bot/internal/infrastructure/pose"
	"posture-bot/internal/infrastructure/storage"
	"posture-bot/internal/infrastructure/vision"
	"posture-bot/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger, err := log.NewLogger(log.Options{
		Level:  cfg.LogLevel,
		Dir:    cfg.LogDir,
		AppEnv: cfg.AppEnv,
	})
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	stop()
	if err != nil {
		logger.Errorf("Application stopped: %v", err)
		os.Exit(1)
	}
}

// run собирает зависимости и работает до отмены ctx или ошибки транспорта.
// Отложенные закрытия отрабатывают до возврата.
func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) error {
	// Создаём хранилища
	userRepo := storage.NewMemoryUserRepository()

	var assessmentRepo port.AssessmentRepository = storage.NewMemoryAssessmentRepository()
	if cfg.RedisAddress != "" {
		client, err := storage.NewRedisClient(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		assessmentRepo = storage.NewRedisAssessmentRepository(client, cfg.AssessmentTTL, logger)
	}

	var estimator port.PoseEstimator
	if cfg.PoseServiceURL != "" {
		estimator = pose.NewHTTPEstimator(cfg.PoseServiceURL, cfg.PoseServiceTimeout, logger)
	} else {
		logger.Warn("POSE_SERVICE_URL is not set, photo analysis is disabled")
	}

	recorder := metrics.NewRecorder(reg)

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, assessmentRepo, estimator, vision.NewQualityGate(), recorder, logger)

	errCh := make(chan error, 2)

	if cfg.HTTPPort != "" {
		srv := rest.NewServer(logger, appContainer.AssessmentService, rest.Options{
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
			Gatherer:       gatherer,
			Recorder:       recorder,
		})

		go func() {
			logger.Infof("HTTP API listening on :%s", cfg.HTTPPort)
			errCh <- srv.Listen(":" + cfg.HTTPPort)
		}()
		defer func() {
			if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
				logger.Errorf("HTTP shutdown error: %v", err)
			}
		}()
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, logger)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}

		go func() {
			logger.Info("Bot is running...")
			errCh <- bot.Run(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down...")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}
