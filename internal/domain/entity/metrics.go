package entity

import "posture-bot/internal/domain/geometry"

// LevelName название уровня симметрии во фронтальной плоскости
type LevelName string

const (
	LevelEars      LevelName = "Ears"
	LevelShoulders LevelName = "Shoulders"
	LevelASIS      LevelName = "ASIS"
	LevelKnees     LevelName = "Knees"
	LevelFeet      LevelName = "Feet"
)

// SegmentName название сегмента в сагиттальной плоскости
type SegmentName string

const (
	SegmentKnee     SegmentName = "Knee"
	SegmentHip      SegmentName = "Hip"
	SegmentShoulder SegmentName = "Shoulder"
	SegmentEar      SegmentName = "Ear"
)

// LevelAngle отклонение линии уровня от горизонтали.
// Все точки в пикселях.
type LevelAngle struct {
	Name             LevelName       `json:"name"`
	DeviationDeg     float64         `json:"deviation_deg"`
	BodyDeviationDeg *float64        `json:"body_deviation_deg,omitempty"` // у Feet отсутствует
	YPx              float64         `json:"y_px"`
	Left             geometry.Point2 `json:"left"`
	Right            geometry.Point2 `json:"right"`
	Mid              geometry.Point2 `json:"mid"`
}

// FrontMetrics метрики снимка анфас
type FrontMetrics struct {
	BodyAngleDeg float64         `json:"body_angle_deg"`
	BodyBase     geometry.Point2 `json:"body_base"`
	JugularPx    geometry.Point2 `json:"jugular_px"`
	LevelAngles  []LevelAngle    `json:"level_angles"`
}

// Level возвращает уровень по имени
func (m FrontMetrics) Level(name LevelName) (LevelAngle, bool) {
	for _, l := range m.LevelAngles {
		if l.Name == name {
			return l, true
		}
	}
	return LevelAngle{}, false
}

// SegmentAngle наклон сегмента от вертикали через голеностоп
type SegmentAngle struct {
	Name     SegmentName     `json:"name"`
	AngleDeg float64         `json:"angle_deg"`
	AnchorPx geometry.Point2 `json:"anchor_px"`
}

// RightMetrics метрики снимка в правом профиле
type RightMetrics struct {
	BodyAngleDeg float64           `json:"body_angle_deg"`
	CVADeg       float64           `json:"cva_deg"`
	AnkleBase    geometry.Point2   `json:"ankle_base"`
	EarPx        geometry.Point2   `json:"ear_px"`
	C7Px         geometry.Point2   `json:"c7_px"`
	ChainPoints  []geometry.Point2 `json:"chain_points"`
	Segments     []SegmentAngle    `json:"segments"`
}

// Segment возвращает сегмент по имени
func (m RightMetrics) Segment(name SegmentName) (SegmentAngle, bool) {
	for _, s := range m.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return SegmentAngle{}, false
}
