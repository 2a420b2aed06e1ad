package posture

import (
	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/geometry"
)

var rightSegments = []struct {
	name  entity.SegmentName
	point entity.AnatomicalPoint
}{
	{entity.SegmentKnee, entity.RightKnee},
	{entity.SegmentHip, entity.RightHip},
	{entity.SegmentShoulder, entity.RightShoulder},
	{entity.SegmentEar, entity.RightEar},
}

// ComputeRightMetrics считает краниовертебральный угол и наклоны сегментов
// для снимка в правом профиле. Возвращает false, если нет размеров изображения,
// голеностопа, уха или C7.
func ComputeRightMetrics(set entity.LandmarkSet) (*entity.RightMetrics, bool) {
	if !set.HasImageSize() {
		return nil, false
	}
	ankle, ok := set.Pixel(entity.RightAnkle)
	if !ok {
		return nil, false
	}
	ear, ok := set.Pixel(entity.RightEar)
	if !ok {
		return nil, false
	}
	c7, ok := set.Pixel(entity.RightC7)
	if !ok {
		return nil, false
	}

	chain := []geometry.Point2{ankle}
	for _, p := range []entity.AnatomicalPoint{entity.RightHip, entity.RightShoulder} {
		if px, ok := set.Pixel(p); ok {
			chain = append(chain, px)
		}
	}
	chain = append(chain, ear)

	segments := make([]entity.SegmentAngle, 0, len(rightSegments))
	for _, seg := range rightSegments {
		px, ok := set.Pixel(seg.point)
		if !ok {
			continue
		}
		segments = append(segments, entity.SegmentAngle{
			Name:     seg.name,
			AngleDeg: geometry.AngleBetween(px.Sub(ankle), geometry.Up),
			AnchorPx: px,
		})
	}

	return &entity.RightMetrics{
		BodyAngleDeg: geometry.AngleBetween(ear.Sub(ankle), geometry.Up),
		CVADeg:       geometry.AngleBetween(geometry.Normalize(ear.Sub(c7)), geometry.Right),
		AnkleBase:    ankle,
		EarPx:        ear,
		C7Px:         c7,
		ChainPoints:  chain,
		Segments:     segments,
	}, true
}

// Compute выбирает конвейер по ракурсу. Для снимка анфас заполняется front,
// для профиля right; nil означает, что данных недостаточно.
func Compute(set entity.LandmarkSet, view entity.View) (front *entity.FrontMetrics, right *entity.RightMetrics) {
	switch view {
	case entity.ViewFront:
		front, _ = ComputeFrontMetrics(set)
	case entity.ViewRight:
		right, _ = ComputeRightMetrics(set)
	}
	return front, right
}
