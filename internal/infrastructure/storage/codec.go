package storage

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"posture-bot/internal/domain/entity"
)

// JSON совместим с encoding/json по тегам и поведению omitempty
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeAssessment сериализует обследование для хранения
func EncodeAssessment(a *entity.Assessment) ([]byte, error) {
	data, err := JSON.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode assessment: %w", err)
	}
	return data, nil
}

// DecodeAssessment восстанавливает обследование из хранилища
func DecodeAssessment(data []byte) (*entity.Assessment, error) {
	var a entity.Assessment
	if err := JSON.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	return &a, nil
}

// cloneAssessment глубокая копия через кодек, отвязывает указатели на наборы точек
func cloneAssessment(a *entity.Assessment) (*entity.Assessment, error) {
	data, err := EncodeAssessment(a)
	if err != nil {
		return nil, err
	}
	return DecodeAssessment(data)
}
