package posture

import (
	"posture-bot/internal/domain/entity"
	"posture-bot/internal/domain/geometry"
)

const (
	// доля пути от колена к голеностопу для бугристости большеберцовой кости
	tibialTuberosityRatio = 0.15
	// смещение яремной вырезки вниз от центра плеч, в долях длины туловища
	jugularDropRatio = 0.07
	// смещение C7 от плеча в долях длины шеи
	c7UpRatio   = 0.30
	c7BackRatio = 0.40
)

// back направление к спине на снимке правого профиля
var back = geometry.Point2{X: -1, Y: 0}

var syntheticByView = map[entity.View][]entity.AnatomicalPoint{
	entity.ViewFront: {entity.TibialTuberosityLeft, entity.TibialTuberosityRight, entity.JugularNotch},
	entity.ViewRight: {entity.RightC7},
}

// SyntheticPoints возвращает синтетические точки ракурса
func SyntheticPoints(view entity.View) []entity.AnatomicalPoint {
	return append([]entity.AnatomicalPoint(nil), syntheticByView[view]...)
}

// DeriveSynthetic возвращает новый набор, в котором синтетические точки ракурса
// заново вычислены из базовых. Точки, для которых не хватает исходных данных,
// просто отсутствуют. Исходный набор не меняется.
func DeriveSynthetic(base entity.LandmarkSet, view entity.View) entity.LandmarkSet {
	out := base.Without(syntheticByView[view]...)

	var derived []entity.Landmark
	switch view {
	case entity.ViewFront:
		derived = deriveFront(base)
	case entity.ViewRight:
		derived = deriveRight(base)
	}

	out.Points = append(out.Points, derived...)
	return out
}

func deriveFront(s entity.LandmarkSet) []entity.Landmark {
	var out []entity.Landmark

	if l, ok := tibialTuberosity(s, entity.TibialTuberosityLeft, entity.LeftKnee, entity.LeftAnkle); ok {
		out = append(out, l)
	}
	if l, ok := tibialTuberosity(s, entity.TibialTuberosityRight, entity.RightKnee, entity.RightAnkle); ok {
		out = append(out, l)
	}
	if l, ok := jugularNotch(s); ok {
		out = append(out, l)
	}

	return out
}

func tibialTuberosity(s entity.LandmarkSet, target, kneePoint, anklePoint entity.AnatomicalPoint) (entity.Landmark, bool) {
	knee, ok := s.Get(kneePoint)
	if !ok {
		return entity.Landmark{}, false
	}
	ankle, ok := s.Get(anklePoint)
	if !ok {
		return entity.Landmark{}, false
	}

	p := geometry.LerpPoint(knee.Normalized(), ankle.Normalized(), tibialTuberosityRatio)
	l := entity.NewLandmark(target, p.X, p.Y)
	l.Z = geometry.LerpOptional(knee.Z, ankle.Z, tibialTuberosityRatio)
	l.Visibility = geometry.LerpOptional(knee.Visibility, ankle.Visibility, tibialTuberosityRatio)
	return l, true
}

func jugularNotch(s entity.LandmarkSet) (entity.Landmark, bool) {
	ls, okLS := s.Get(entity.LeftShoulder)
	rs, okRS := s.Get(entity.RightShoulder)
	lh, okLH := s.Get(entity.LeftHip)
	rh, okRH := s.Get(entity.RightHip)
	if !okLS || !okRS || !okLH || !okRH {
		return entity.Landmark{}, false
	}

	shoulderCenter := geometry.Midpoint(ls.Normalized(), rs.Normalized())
	hipCenter := geometry.Midpoint(lh.Normalized(), rh.Normalized())
	torso := geometry.Distance(shoulderCenter, hipCenter)

	l := entity.NewLandmark(entity.JugularNotch,
		shoulderCenter.X,
		geometry.Clamp01(shoulderCenter.Y+jugularDropRatio*torso),
	)
	l.Z = geometry.LerpOptional(ls.Z, rs.Z, 0.5)
	l.Visibility = geometry.CombineVisibility(ls.Visibility, rs.Visibility, lh.Visibility, rh.Visibility)
	return l, true
}

func deriveRight(s entity.LandmarkSet) []entity.Landmark {
	shoulder, ok := s.Get(entity.RightShoulder)
	if !ok {
		return nil
	}
	ear, ok := s.Get(entity.RightEar)
	if !ok {
		return nil
	}

	neck := geometry.Distance(ear.Normalized(), shoulder.Normalized())
	p := shoulder.Normalized().
		Add(geometry.Up.Scale(c7UpRatio * neck)).
		Add(back.Scale(c7BackRatio * neck))

	l := entity.NewLandmark(entity.RightC7, geometry.Clamp01(p.X), geometry.Clamp01(p.Y))
	if shoulder.Z != nil {
		l.Z = geometry.Float(*shoulder.Z)
	}
	l.Visibility = geometry.CombineVisibility(ear.Visibility, shoulder.Visibility)
	return []entity.Landmark{l}
}
