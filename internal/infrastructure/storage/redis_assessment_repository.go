package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/port"
)

const (
	assessmentKeyPrefix = "posture:assessment:"
	latestKeyPrefix     = "posture:user:latest:"
)

// RedisOptions параметры подключения к Redis
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // 0 хранит без срока
}

// RedisAssessmentRepository хранит обследования в Redis в виде JSON
type RedisAssessmentRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisClient создаёт клиента и проверяет соединение
func NewRedisClient(ctx context.Context, opts RedisOptions, logger *logrus.Logger) (*redis.Client, error) {
	logger.Infof("Connecting to Redis at %s...", opts.Addr)

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return client, nil
}

// NewRedisAssessmentRepository создаёт хранилище поверх готового клиента
func NewRedisAssessmentRepository(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisAssessmentRepository {
	return &RedisAssessmentRepository{
		client: client,
		ttl:    ttl,
		log:    logger,
	}
}

// Save записывает обследование и ссылку на него как на последнее у пользователя
func (r *RedisAssessmentRepository) Save(ctx context.Context, assessment *entity.Assessment) error {
	data, err := EncodeAssessment(assessment)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, assessmentKey(assessment.ID), data, r.ttl)
	pipe.Set(ctx, latestKey(assessment.UserID), assessment.ID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Errorf("Error saving assessment %s: %v", assessment.ID, err)
		return fmt.Errorf("save assessment %s: %w", assessment.ID, err)
	}

	r.log.Debugf("Saved assessment %s", assessment.ID)
	return nil
}

// Get читает обследование по ID
func (r *RedisAssessmentRepository) Get(ctx context.Context, id string) (*entity.Assessment, error) {
	data, err := r.client.Get(ctx, assessmentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", entity.ErrAssessmentNotFound, id)
	}
	if err != nil {
		r.log.Errorf("Error getting assessment %s: %v", id, err)
		return nil, fmt.Errorf("get assessment %s: %w", id, err)
	}

	return DecodeAssessment(data)
}

// Latest читает последнее обследование пользователя
func (r *RedisAssessmentRepository) Latest(ctx context.Context, userID int64) (*entity.Assessment, error) {
	id, err := r.client.Get(ctx, latestKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: user %d", entity.ErrAssessmentNotFound, userID)
	}
	if err != nil {
		r.log.Errorf("Error getting latest assessment for user %d: %v", userID, err)
		return nil, fmt.Errorf("get latest assessment: %w", err)
	}

	return r.Get(ctx, id)
}

func assessmentKey(id string) string {
	return assessmentKeyPrefix + id
}

func latestKey(userID int64) string {
	return latestKeyPrefix + strconv.FormatInt(userID, 10)
}

var _ port.AssessmentRepository = (*RedisAssessmentRepository)(nil)
