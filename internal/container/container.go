package container

import (
	"github.com/sirupsen/logrus"

	app "posture-bot/internal/application"
	"posture-bot/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	AssessmentService *app.AssessmentService
}

// New собирает сервисы приложения. estimator, checker и recorder могут быть nil.
func New(
	userRepo port.UserRepository,
	assessmentRepo port.AssessmentRepository,
	estimator port.PoseEstimator,
	checker port.PhotoChecker,
	recorder port.MetricsRecorder,
	logger *logrus.Logger,
) *Container {
	return &Container{
		UserService:       app.NewUserService(userRepo),
		AssessmentService: app.NewAssessmentService(assessmentRepo, estimator, checker, recorder, logger),
	}
}
