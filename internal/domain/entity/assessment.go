package entity

import "time"

// Assessment обследование осанки: два снимка одного человека
type Assessment struct {
	ID        string       `json:"id"`
	UserID    int64        `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Front     *LandmarkSet `json:"front,omitempty"`
	Right     *LandmarkSet `json:"right,omitempty"`
}

// NewAssessment создаёт пустое обследование
func NewAssessment(id string, userID int64, now time.Time) *Assessment {
	return &Assessment{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Landmarks возвращает набор точек для ракурса
func (a *Assessment) Landmarks(view View) (LandmarkSet, bool) {
	var set *LandmarkSet
	switch view {
	case ViewFront:
		set = a.Front
	case ViewRight:
		set = a.Right
	}
	if set == nil {
		return LandmarkSet{}, false
	}
	return *set, true
}

// SetLandmarks сохраняет набор точек для ракурса
func (a *Assessment) SetLandmarks(view View, set LandmarkSet, now time.Time) {
	s := set.Clone()
	switch view {
	case ViewFront:
		a.Front = &s
	case ViewRight:
		a.Right = &s
	}
	a.UpdatedAt = now
}

// Report метрики обследования. nil означает, что данных для ракурса недостаточно.
type Report struct {
	AssessmentID string        `json:"assessment_id"`
	Front        *FrontMetrics `json:"front"`
	Right        *RightMetrics `json:"right"`
}
