package port

import (
	"context"

	"posture-bot/internal/domain/entity"
)

// PoseEstimator внешний сервис оценки позы
type PoseEstimator interface {
	// Estimate находит точки на снимке и возвращает их в нормализованных координатах
	// вместе с размером изображения
	Estimate(ctx context.Context, imageData []byte, view entity.View) (*entity.LandmarkSet, error)
}
