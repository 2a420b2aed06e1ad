package posture

import (
	"math"
	"sort"

	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/geometry"
)

type levelPair struct {
	name  entity.LevelName
	left  entity.AnatomicalPoint
	right entity.AnatomicalPoint
}

// frontLevels уровни сверху вниз
var frontLevels = []levelPair{
	{entity.LevelEars, entity.LeftEar, entity.RightEar},
	{entity.LevelShoulders, entity.LeftShoulder, entity.RightShoulder},
	{entity.LevelASIS, entity.LeftHip, entity.RightHip},
	{entity.LevelKnees, entity.TibialTuberosityLeft, entity.TibialTuberosityRight},
	{entity.LevelFeet, entity.LeftAnkle, entity.RightAnkle},
}

// ComputeFrontMetrics считает наклон оси тела и симметрию уровней для снимка анфас.
// Возвращает false, если нет размеров изображения, голеностопов или яремной вырезки.
func ComputeFrontMetrics(set entity.LandmarkSet) (*entity.FrontMetrics, bool) {
	if !set.HasImageSize() {
		return nil, false
	}
	leftAnkle, ok := set.Pixel(entity.LeftAnkle)
	if !ok {
		return nil, false
	}
	rightAnkle, ok := set.Pixel(entity.RightAnkle)
	if !ok {
		return nil, false
	}
	jugular, ok := set.Pixel(entity.JugularNotch)
	if !ok {
		return nil, false
	}

	base := geometry.Midpoint(leftAnkle, rightAnkle)
	axis := jugular.Sub(base)
	bodyAngle := geometry.AngleBetween(axis, geometry.Up)

	levels := make([]entity.LevelAngle, 0, len(frontLevels))
	for _, pair := range frontLevels {
		left, okL := set.Pixel(pair.left)
		right, okR := set.Pixel(pair.right)
		if !okL || !okR {
			continue
		}

		mid := geometry.Midpoint(left, right)
		levels = append(levels, entity.LevelAngle{
			Name:         pair.name,
			DeviationDeg: levelDeviation(left, right),
			YPx:          mid.Y,
			Left:         left,
			Right:        right,
			Mid:          mid,
		})
	}

	applyBodyDeviation(levels, base, axis, bodyAngle)

	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].YPx < levels[j].YPx
	})

	return &entity.FrontMetrics{
		BodyAngleDeg: bodyAngle,
		BodyBase:     base,
		JugularPx:    jugular,
		LevelAngles:  levels,
	}, true
}

// levelDeviation отклонение линии left-right от горизонтали, свёрнутое в [0, 90]
func levelDeviation(left, right geometry.Point2) float64 {
	raw := math.Atan2(right.Y-left.Y, right.X-left.X) * 180 / math.Pi
	return math.Min(math.Abs(raw), math.Abs(180-math.Abs(raw)))
}

// applyBodyDeviation заполняет BodyDeviationDeg для всех уровней, кроме Feet.
// Уровни обходятся снизу вверх, каждый отрезок оси идёт от пересечения
// предыдущего уровня (первым служит base) к пересечению текущего.
func applyBodyDeviation(levels []entity.LevelAngle, base, axis geometry.Point2, bodyAngle float64) {
	order := make([]int, 0, len(levels))
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i].Name == entity.LevelFeet {
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return levels[order[a]].YPx > levels[order[b]].YPx
	})

	dir := geometry.Normalize(axis)
	if math.Abs(dir.Y) < 1e-6 {
		for _, i := range order {
			levels[i].BodyDeviationDeg = geometry.Float(bodyAngle)
		}
		return
	}

	prev := base
	for _, i := range order {
		t := (levels[i].YPx - base.Y) / dir.Y
		hit := base.Add(dir.Scale(t))
		levels[i].BodyDeviationDeg = geometry.Float(geometry.AngleBetween(hit.Sub(prev), geometry.Up))
		prev = hit
	}
}
