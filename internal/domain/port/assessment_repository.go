package port

import (
	"context"

	"posture-bot/internal/domain/entity"
)

// AssessmentRepository интерфейс хранилища обследований
type AssessmentRepository interface {
	// Save сохраняет обследование и делает его последним для пользователя
	Save(ctx context.Context, assessment *entity.Assessment) error

	// Get возвращает обследование по ID или entity.ErrAssessmentNotFound
	Get(ctx context.Context, id string) (*entity.Assessment, error)

	// Latest возвращает последнее обследование пользователя или entity.ErrAssessmentNotFound
	Latest(ctx context.Context, userID int64) (*entity.Assessment, error)
}
