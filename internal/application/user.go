package app

import (
	"context"

	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginAssessment привязывает пользователя к новому обследованию и ждёт снимок анфас
func (s *UserService) BeginAssessment(ctx context.Context, userID, chatID int64, assessmentID string) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.AssessmentID = assessmentID
	user.SetState(entity.StateAwaitingFrontPhoto)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AwaitPhoto переводит пользователя в ожидание снимка указанного ракурса
func (s *UserService) AwaitPhoto(ctx context.Context, userID, chatID int64, view entity.View) (*entity.User, error) {
	state := entity.StateAwaitingFrontPhoto
	if view == entity.ViewRight {
		state = entity.StateAwaitingRightPhoto
	}
	return s.SetState(ctx, userID, chatID, state)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
