package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"posture-bot/internal/domain/entity"
)

const (
	resultOK       = "ok"
	resultNoResult = "no_result"
)

// Recorder пишет счётчики сервиса в Prometheus
type Recorder struct {
	computations     *prometheus.CounterVec
	estimations      *prometheus.HistogramVec
	estimationErrors *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// NewRecorder регистрирует метрики в reg. Для глобального реестра передайте prometheus.DefaultRegisterer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		computations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "posture_computations_total",
			Help: "Number of posture metric computations.",
		}, []string{"view", "result"}),
		estimations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "pose_estimation_duration_seconds",
			Help: "Duration of pose estimation requests.",
		}, []string{"view"}),
		estimationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pose_estimation_errors_total",
			Help: "Number of failed pose estimation requests.",
		}, []string{"view"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_response_time_seconds",
			Help: "Duration of HTTP requests.",
		}, []string{"path"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests.",
		}, []string{"path", "status"}),
	}
}

func (r *Recorder) ObserveComputation(view entity.View, ok bool) {
	result := resultOK
	if !ok {
		result = resultNoResult
	}
	r.computations.WithLabelValues(string(view), result).Inc()
}

func (r *Recorder) ObserveEstimation(view entity.View, duration time.Duration, err error) {
	r.estimations.WithLabelValues(string(view)).Observe(duration.Seconds())
	if err != nil {
		r.estimationErrors.WithLabelValues(string(view)).Inc()
	}
}

// Middleware считает запросы и время ответа. Метка path берётся из шаблона маршрута,
// чтобы идентификаторы обследований не раздували число рядов.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		r.httpDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
		r.httpRequests.WithLabelValues(path, strconv.Itoa(c.Response().StatusCode())).Inc()

		return err
	}
}
