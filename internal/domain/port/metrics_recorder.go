package port

import (
	"time"

	"posture-bot/internal/domain/entity"
)

// MetricsRecorder собирает счётчики работы сервиса
type MetricsRecorder interface {
	// ObserveComputation отмечает расчёт метрик ракурса; ok=false если данных не хватило
	ObserveComputation(view entity.View, ok bool)

	// ObserveEstimation отмечает обращение к сервису оценки позы
	ObserveEstimation(view entity.View, duration time.Duration, err error)
}
