package posture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"posture-bot/internal/domain/entity"
)

func TestComputeFrontMetrics_Upright(t *testing.T) {
	set := DeriveSynthetic(frontBase(), entity.ViewFront)

	m, ok := ComputeFrontMetrics(set)
	require.True(t, ok)
	require.InDelta(t, 500, m.BodyBase.X, 1e-9)
	require.InDelta(t, 900, m.BodyBase.Y, 1e-9)
	require.InDelta(t, 0, m.BodyAngleDeg, 1e-9)

	names := make([]entity.LevelName, 0, len(m.LevelAngles))
	for _, l := range m.LevelAngles {
		names = append(names, l.Name)
		require.InDelta(t, 0, l.DeviationDeg, 1e-9)
	}
	require.Equal(t, []entity.LevelName{
		entity.LevelEars, entity.LevelShoulders, entity.LevelASIS, entity.LevelKnees, entity.LevelFeet,
	}, names)

	shoulders, ok := m.Level(entity.LevelShoulders)
	require.True(t, ok)
	require.InDelta(t, 300, shoulders.YPx, 1e-9)
	require.InDelta(t, 500, shoulders.Mid.X, 1e-9)
	require.NotNil(t, shoulders.BodyDeviationDeg)
	require.InDelta(t, 0, *shoulders.BodyDeviationDeg, 1e-9)

	feet, ok := m.Level(entity.LevelFeet)
	require.True(t, ok)
	require.Nil(t, feet.BodyDeviationDeg)
}

func TestComputeFrontMetrics_TiltedLevelIsSideIndependent(t *testing.T) {
	set := DeriveSynthetic(frontBase(), entity.ViewFront)
	set = set.With(lm(entity.LeftShoulder, 0.35, 0.28)).With(lm(entity.RightShoulder, 0.65, 0.32))

	m, ok := ComputeFrontMetrics(set)
	require.True(t, ok)
	want := math.Atan2(40, 300) * 180 / math.Pi
	shoulders, _ := m.Level(entity.LevelShoulders)
	require.InDelta(t, want, shoulders.DeviationDeg, 1e-9)

	swapped := set.With(lm(entity.LeftShoulder, 0.65, 0.28)).With(lm(entity.RightShoulder, 0.35, 0.32))
	m2, ok := ComputeFrontMetrics(swapped)
	require.True(t, ok)
	shoulders2, _ := m2.Level(entity.LevelShoulders)
	require.InDelta(t, want, shoulders2.DeviationDeg, 1e-9)
}

func TestComputeFrontMetrics_TiltedAxis(t *testing.T) {
	set := entity.LandmarkSet{
		ImageWidth:  1000,
		ImageHeight: 1000,
		Points: []entity.Landmark{
			lm(entity.LeftAnkle, 0.4, 0.9),
			lm(entity.RightAnkle, 0.6, 0.9),
			lm(entity.JugularNotch, 0.6, 0.3),
			lm(entity.LeftShoulder, 0.45, 0.3),
			lm(entity.RightShoulder, 0.75, 0.3),
			lm(entity.LeftHip, 0.45, 0.55),
			lm(entity.RightHip, 0.65, 0.55),
		},
	}

	m, ok := ComputeFrontMetrics(set)
	require.True(t, ok)
	want := math.Atan2(100, 600) * 180 / math.Pi
	require.InDelta(t, want, m.BodyAngleDeg, 1e-9)

	for _, l := range m.LevelAngles {
		if l.Name == entity.LevelFeet {
			require.Nil(t, l.BodyDeviationDeg)
			continue
		}
		require.NotNil(t, l.BodyDeviationDeg)
		require.InDelta(t, want, *l.BodyDeviationDeg, 1e-9)
	}
}

func TestComputeFrontMetrics_HorizontalAxisFallsBack(t *testing.T) {
	set := entity.LandmarkSet{
		ImageWidth:  1000,
		ImageHeight: 1000,
		Points: []entity.Landmark{
			lm(entity.LeftAnkle, 0.4, 0.9),
			lm(entity.RightAnkle, 0.6, 0.9),
			lm(entity.JugularNotch, 0.9, 0.9),
			lm(entity.LeftShoulder, 0.45, 0.3),
			lm(entity.RightShoulder, 0.75, 0.3),
		},
	}

	m, ok := ComputeFrontMetrics(set)
	require.True(t, ok)
	require.InDelta(t, 90, m.BodyAngleDeg, 1e-9)
	shoulders, _ := m.Level(entity.LevelShoulders)
	require.InDelta(t, 90, *shoulders.BodyDeviationDeg, 1e-9)
}

func TestComputeFrontMetrics_DegenerateAxis(t *testing.T) {
	set := entity.LandmarkSet{
		ImageWidth:  100,
		ImageHeight: 100,
		Points: []entity.Landmark{
			lm(entity.LeftAnkle, 0.5, 0.5),
			lm(entity.RightAnkle, 0.5, 0.5),
			lm(entity.JugularNotch, 0.5, 0.5),
			lm(entity.LeftEar, 0.5, 0.2),
			lm(entity.RightEar, 0.5, 0.2),
		},
	}

	m, ok := ComputeFrontMetrics(set)
	require.True(t, ok)
	require.Equal(t, 0.0, m.BodyAngleDeg)
	ears, _ := m.Level(entity.LevelEars)
	require.Equal(t, 0.0, ears.DeviationDeg)
	require.Equal(t, 0.0, *ears.BodyDeviationDeg)
}

func TestComputeFrontMetrics_MissingLevelSide(t *testing.T) {
	full, ok := ComputeFrontMetrics(DeriveSynthetic(frontBase(), entity.ViewFront))
	require.True(t, ok)

	set := DeriveSynthetic(frontBase().Without(entity.LeftEar), entity.ViewFront)
	m, ok := ComputeFrontMetrics(set)
	require.True(t, ok)

	_, hasEars := m.Level(entity.LevelEars)
	require.False(t, hasEars)
	require.Len(t, m.LevelAngles, len(full.LevelAngles)-1)
	for _, l := range m.LevelAngles {
		other, ok := full.Level(l.Name)
		require.True(t, ok)
		require.Equal(t, other, l)
	}
}

func TestComputeFrontMetrics_NoResult(t *testing.T) {
	derived := DeriveSynthetic(frontBase(), entity.ViewFront)

	tests := []struct {
		name string
		set  entity.LandmarkSet
	}{
		{"no width", func() entity.LandmarkSet { s := derived.Clone(); s.ImageWidth = 0; return s }()},
		{"no height", func() entity.LandmarkSet { s := derived.Clone(); s.ImageHeight = 0; return s }()},
		{"no left ankle", derived.Without(entity.LeftAnkle)},
		{"no right ankle", derived.Without(entity.RightAnkle)},
		{"no jugular notch", frontBase()},
		{"empty", entity.LandmarkSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ComputeFrontMetrics(tt.set)
			require.False(t, ok)
			require.Nil(t, m)
		})
	}
}

func TestComputeFrontMetrics_RangesOnRandomInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		base := entity.LandmarkSet{ImageWidth: uint32(1 + rnd.Intn(4000)), ImageHeight: uint32(1 + rnd.Intn(4000))}
		for _, p := range []entity.AnatomicalPoint{
			entity.LeftEar, entity.RightEar, entity.LeftShoulder, entity.RightShoulder,
			entity.LeftHip, entity.RightHip, entity.LeftKnee, entity.RightKnee,
			entity.LeftAnkle, entity.RightAnkle,
		} {
			base = base.With(lm(p, rnd.Float64(), rnd.Float64()))
		}

		m, ok := ComputeFrontMetrics(DeriveSynthetic(base, entity.ViewFront))
		require.True(t, ok)
		requireAngle(t, m.BodyAngleDeg, 180)
		for _, l := range m.LevelAngles {
			requireAngle(t, l.DeviationDeg, 90)
			if l.BodyDeviationDeg != nil {
				requireAngle(t, *l.BodyDeviationDeg, 180)
			}
		}
		for j := 1; j < len(m.LevelAngles); j++ {
			require.LessOrEqual(t, m.LevelAngles[j-1].YPx, m.LevelAngles[j].YPx)
		}
	}
}

func requireAngle(t *testing.T, v, limit float64) {
	t.Helper()
	require.False(t, math.IsNaN(v))
	require.GreaterOrEqual(t, v, 0.0)
	require.LessOrEqual(t, v, limit+1e-9)
}
