package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/port"
	"posture-bot/internal/domain/posture"
	"posture-bot/pkg/log"
)

// AssessmentService ведёт обследование: принимает точки, правки оператора и считает метрики
type AssessmentService struct {
	repo      port.AssessmentRepository
	estimator port.PoseEstimator
	checker   port.PhotoChecker
	metrics   port.MetricsRecorder
	log       *logrus.Logger
	now       func() time.Time
	newID     func() string

	// чтение-изменение-запись одного обследования выполняется последовательно
	locks *keyedLocks
}

// NewAssessmentService создаёт сервис обследований. estimator, checker и metrics могут быть nil.
func NewAssessmentService(
	repo port.AssessmentRepository,
	estimator port.PoseEstimator,
	checker port.PhotoChecker,
	metrics port.MetricsRecorder,
	logger *logrus.Logger,
) *AssessmentService {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &AssessmentService{
		repo:      repo,
		estimator: estimator,
		checker:   checker,
		metrics:   metrics,
		log:       logger,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     newKeyedLocks(),
	}
}

// Start создаёт пустое обследование пользователя
func (s *AssessmentService) Start(ctx context.Context, userID int64) (*entity.Assessment, error) {
	a := entity.NewAssessment(s.newID(), userID, s.now())
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	s.log.WithFields(log.Fields{
		"assessment_id": a.ID,
		"user_id":       userID,
	}).Info("Assessment started")

	return a, nil
}

func (s *AssessmentService) Get(ctx context.Context, id string) (*entity.Assessment, error) {
	return s.repo.Get(ctx, id)
}

// Current возвращает последнее обследование пользователя
func (s *AssessmentService) Current(ctx context.Context, userID int64) (*entity.Assessment, error) {
	return s.repo.Latest(ctx, userID)
}

// SubmitLandmarks сохраняет точки ракурса, предварительно вычислив синтетические
func (s *AssessmentService) SubmitLandmarks(ctx context.Context, id string, view entity.View, set entity.LandmarkSet) (*entity.Assessment, error) {
	if _, err := entity.ParseView(string(view)); err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	derived := posture.DeriveSynthetic(set, view)
	a.SetLandmarks(view, derived, s.now())
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	s.log.WithFields(log.Fields{
		"assessment_id": id,
		"view":          view,
		"points":        len(derived.Points),
	}).Info("Landmarks submitted")

	return a, nil
}

// AnalyzePhoto отправляет снимок во внешний сервис оценки позы и сохраняет найденные точки
func (s *AssessmentService) AnalyzePhoto(ctx context.Context, id string, view entity.View, photo []byte) (*entity.Assessment, error) {
	if s.estimator == nil {
		return nil, entity.ErrEstimatorNotConfigured
	}
	if s.checker != nil {
		if err := s.checker.Check(photo); err != nil {
			return nil, err
		}
	}

	started := s.now()
	set, err := s.estimator.Estimate(ctx, photo, view)
	s.metrics.ObserveEstimation(view, s.now().Sub(started), err)
	if err != nil {
		return nil, fmt.Errorf("estimate pose: %w", err)
	}

	return s.SubmitLandmarks(ctx, id, view, *set)
}

// CorrectLandmark переносит точку по указанию оператора.
// После правки базовой точки синтетические точки ракурса пересчитываются,
// правка синтетической точки сохраняется как есть.
func (s *AssessmentService) CorrectLandmark(ctx context.Context, id string, view entity.View, point entity.AnatomicalPoint, x, y float64) (*entity.Assessment, error) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return nil, entity.ErrInvalidCoordinate
	}

	unlock := s.locks.lock(id)
	defer unlock()

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set, ok := a.Landmarks(view)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrViewNotCaptured, view)
	}
	l, ok := set.Get(point)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrLandmarkNotFound, point)
	}
	if !l.Editable {
		return nil, fmt.Errorf("%w: %s", entity.ErrLandmarkNotEditable, point)
	}

	updated := set.WithUpdated(point, x, y)
	if !point.Synthetic() {
		updated = posture.DeriveSynthetic(updated, view)
	}

	a.SetLandmarks(view, updated, s.now())
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}

	s.log.WithFields(log.Fields{
		"assessment_id": id,
		"view":          view,
		"point":         point.String(),
	}).Info("Landmark corrected")

	return a, nil
}

// Evaluate считает метрики по обоим ракурсам обследования
func (s *AssessmentService) Evaluate(ctx context.Context, id string) (*entity.Report, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &entity.Report{AssessmentID: a.ID}
	if set, ok := a.Landmarks(entity.ViewFront); ok {
		report.Front = s.computeFront(set)
	}
	if set, ok := a.Landmarks(entity.ViewRight); ok {
		report.Right = s.computeRight(set)
	}

	return report, nil
}

// Measure считает метрики для набора точек без сохранения.
// Возвращает набор с синтетическими точками и отчёт по ракурсу.
func (s *AssessmentService) Measure(view entity.View, set entity.LandmarkSet) (entity.LandmarkSet, *entity.Report, error) {
	if _, err := entity.ParseView(string(view)); err != nil {
		return entity.LandmarkSet{}, nil, err
	}
	if err := set.Validate(); err != nil {
		return entity.LandmarkSet{}, nil, err
	}

	derived := posture.DeriveSynthetic(set, view)
	report := &entity.Report{}
	switch view {
	case entity.ViewFront:
		report.Front = s.computeFront(derived)
	case entity.ViewRight:
		report.Right = s.computeRight(derived)
	}

	return derived, report, nil
}

func (s *AssessmentService) computeFront(set entity.LandmarkSet) *entity.FrontMetrics {
	m, ok := posture.ComputeFrontMetrics(set)
	s.metrics.ObserveComputation(entity.ViewFront, ok)
	if !ok {
		s.log.Debug("Front metrics skipped: not enough landmarks")
	}
	return m
}

func (s *AssessmentService) computeRight(set entity.LandmarkSet) *entity.RightMetrics {
	m, ok := posture.ComputeRightMetrics(set)
	s.metrics.ObserveComputation(entity.ViewRight, ok)
	if !ok {
		s.log.Debug("Right metrics skipped: not enough landmarks")
	}
	return m
}

type noopRecorder struct{}

func (noopRecorder) ObserveComputation(entity.View, bool) {}
func (noopRecorder) ObserveEstimation(entity.View, time.Duration, error) {}

const lockStripes = 64

// keyedLocks набор мьютексов, выбираемых по хешу ключа.
// Память не растёт с числом обследований.
type keyedLocks struct {
	stripes [lockStripes]sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{}
}

func (k *keyedLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &k.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
