package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"posture-bot/internal/domain/geometry"
)

func sampleSet() LandmarkSet {
	ankle := NewLandmark(LeftAnkle, 0.3, 0.9)
	ankle.Z = geometry.Float(-0.1)
	ankle.Visibility = geometry.Float(0.8)
	return LandmarkSet{
		ImageWidth:  800,
		ImageHeight: 1200,
		Points: []Landmark{
			ankle,
			NewLandmark(RightAnkle, 0.7, 0.9),
			NewLandmark(Nose, 0.5, 0.1),
		},
	}
}

func TestLandmarkSet_Pixel(t *testing.T) {
	s := sampleSet()
	px, ok := s.Pixel(LeftAnkle)
	require.True(t, ok)
	require.InDelta(t, 240, px.X, 1e-9)
	require.InDelta(t, 1080, px.Y, 1e-9)

	_, ok = s.Pixel(RightEar)
	require.False(t, ok)
}

func TestLandmarkSet_WithUpdated(t *testing.T) {
	s := sampleSet()

	updated := s.WithUpdated(LeftAnkle, 0.25, 1.4)
	l, ok := updated.Get(LeftAnkle)
	require.True(t, ok)
	require.Equal(t, 0.25, l.X)
	require.Equal(t, 1.0, l.Y)
	require.Equal(t, -0.1, *l.Z)
	require.Equal(t, 0.8, *l.Visibility)

	require.Equal(t, s.ImageWidth, updated.ImageWidth)
	require.Equal(t, s.ImageHeight, updated.ImageHeight)
	require.Equal(t, s.Points[1], updated.Points[1])
	require.Equal(t, s.Points[2], updated.Points[2])

	// исходный набор не изменился
	orig, _ := s.Get(LeftAnkle)
	require.Equal(t, 0.3, orig.X)
}

func TestLandmarkSet_WithUpdated_Rejected(t *testing.T) {
	s := sampleSet()

	require.Equal(t, s, s.WithUpdated(Nose, 0.2, 0.2))
	require.Equal(t, s, s.WithUpdated(RightEar, 0.2, 0.2))
	require.Equal(t, s, s.WithUpdated(LeftAnkle, math.NaN(), 0.2))
	require.Equal(t, s, s.WithUpdated(LeftAnkle, 0.1, math.Inf(1)))
}

func TestLandmarkSet_WithUpdated_RespectsLandmarkFlag(t *testing.T) {
	s := sampleSet()
	s.Points[1].Editable = false
	require.Equal(t, s, s.WithUpdated(RightAnkle, 0.5, 0.5))
}

func TestLandmarkSet_Validate(t *testing.T) {
	s := sampleSet()
	require.NoError(t, s.Validate())

	s.Points = append(s.Points, NewLandmark(LeftAnkle, 0.1, 0.1))
	require.ErrorIs(t, s.Validate(), ErrDuplicateLandmark)

	bad := LandmarkSet{Points: []Landmark{{Point: 0}}}
	require.ErrorIs(t, bad.Validate(), ErrUnknownPoint)
}

func TestLandmarkSet_WithAndWithout(t *testing.T) {
	s := sampleSet()

	added := s.With(NewLandmark(JugularNotch, 0.5, 0.3))
	require.Len(t, added.Points, 4)
	require.Len(t, s.Points, 3)

	removed := added.Without(JugularNotch, Nose)
	require.Len(t, removed.Points, 2)
	require.False(t, removed.Has(Nose))
	require.True(t, added.Has(Nose))
}

func TestParseView(t *testing.T) {
	v, err := ParseView("Front")
	require.NoError(t, err)
	require.Equal(t, ViewFront, v)

	_, err = ParseView("left")
	require.ErrorIs(t, err, ErrUnknownView)
}
