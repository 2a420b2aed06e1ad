package storage

import (
	"context"
	"fmt"
	"sync"

	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/port"
)

// MemoryAssessmentRepository in-memory хранилище обследований
type MemoryAssessmentRepository struct {
	mu          sync.RWMutex
	assessments map[string]*entity.Assessment
	latest      map[int64]string
}

// NewMemoryAssessmentRepository создаёт пустое хранилище
func NewMemoryAssessmentRepository() *MemoryAssessmentRepository {
	return &MemoryAssessmentRepository{
		assessments: make(map[string]*entity.Assessment),
		latest:      make(map[int64]string),
	}
}

// Save сохраняет копию обследования
func (r *MemoryAssessmentRepository) Save(ctx context.Context, assessment *entity.Assessment) error {
	stored, err := cloneAssessment(assessment)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.assessments[stored.ID] = stored
	r.latest[stored.UserID] = stored.ID
	return nil
}

// Get возвращает копию обследования
func (r *MemoryAssessmentRepository) Get(ctx context.Context, id string) (*entity.Assessment, error) {
	r.mu.RLock()
	stored, ok := r.assessments[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrAssessmentNotFound, id)
	}
	return cloneAssessment(stored)
}

// Latest возвращает последнее сохранённое обследование пользователя
func (r *MemoryAssessmentRepository) Latest(ctx context.Context, userID int64) (*entity.Assessment, error) {
	r.mu.RLock()
	id, ok := r.latest[userID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: user %d", entity.ErrAssessmentNotFound, userID)
	}
	return r.Get(ctx, id)
}

var _ port.AssessmentRepository = (*MemoryAssessmentRepository)(nil)
