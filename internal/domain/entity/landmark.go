package entity

import (
	"fmt"
	"math"

	"posture-bot/internal/domain/geometry"
)

// Landmark одна анатомическая точка в нормализованных координатах [0,1]
type Landmark struct {
	Point      AnatomicalPoint `json:"point"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Z          *float64        `json:"z,omitempty"`          // глубина от детектора
	Visibility *float64        `json:"visibility,omitempty"` // уверенность детектора
	Editable   bool            `json:"editable"`
	Code       string          `json:"code"`
}

// NewLandmark создаёт точку со свойствами из каталога
func NewLandmark(point AnatomicalPoint, x, y float64) Landmark {
	return Landmark{
		Point:    point,
		X:        x,
		Y:        y,
		Editable: point.Editable(),
		Code:     point.Code(),
	}
}

// Normalized возвращает координаты точки как вектор
func (l Landmark) Normalized() geometry.Point2 {
	return geometry.Point2{X: l.X, Y: l.Y}
}

// LandmarkSet набор точек одного снимка.
// Хранит только нормализованные координаты, пиксели считаются по запросу.
type LandmarkSet struct {
	ImageWidth  uint32     `json:"image_width"`
	ImageHeight uint32     `json:"image_height"`
	Points      []Landmark `json:"points"`
}

// HasImageSize true, если обе стороны изображения положительны
func (s LandmarkSet) HasImageSize() bool {
	return s.ImageWidth > 0 && s.ImageHeight > 0
}

// Get возвращает точку по идентификатору
func (s LandmarkSet) Get(point AnatomicalPoint) (Landmark, bool) {
	for _, l := range s.Points {
		if l.Point == point {
			return l, true
		}
	}
	return Landmark{}, false
}

// Has сообщает, есть ли точка в наборе
func (s LandmarkSet) Has(point AnatomicalPoint) bool {
	_, ok := s.Get(point)
	return ok
}

// Pixel переводит точку в пиксельные координаты изображения
func (s LandmarkSet) Pixel(point AnatomicalPoint) (geometry.Point2, bool) {
	l, ok := s.Get(point)
	if !ok {
		return geometry.Point2{}, false
	}
	return geometry.Point2{
		X: l.X * float64(s.ImageWidth),
		Y: l.Y * float64(s.ImageHeight),
	}, true
}

// Clone возвращает копию набора с собственным срезом точек
func (s LandmarkSet) Clone() LandmarkSet {
	out := s
	if s.Points != nil {
		out.Points = make([]Landmark, len(s.Points))
		copy(out.Points, s.Points)
	}
	return out
}

// With возвращает набор, в котором точка заменена или добавлена
func (s LandmarkSet) With(l Landmark) LandmarkSet {
	out := s.Clone()
	for i := range out.Points {
		if out.Points[i].Point == l.Point {
			out.Points[i] = l
			return out
		}
	}
	out.Points = append(out.Points, l)
	return out
}

// Without возвращает набор без указанных точек
func (s LandmarkSet) Without(points ...AnatomicalPoint) LandmarkSet {
	out := s
	out.Points = make([]Landmark, 0, len(s.Points))
	for _, l := range s.Points {
		drop := false
		for _, p := range points {
			if l.Point == p {
				drop = true
				break
			}
		}
		if !drop {
			out.Points = append(out.Points, l)
		}
	}
	return out
}

// WithUpdated переносит редактируемую точку в (x, y), ограничивая координаты [0,1].
// Нередактируемая или отсутствующая точка оставляет набор без изменений.
// z и visibility не меняются, синтетические точки не пересчитываются.
func (s LandmarkSet) WithUpdated(point AnatomicalPoint, x, y float64) LandmarkSet {
	if !isFinite(x) || !isFinite(y) {
		return s
	}

	l, ok := s.Get(point)
	if !ok || !l.Editable {
		return s
	}

	l.X = geometry.Clamp01(x)
	l.Y = geometry.Clamp01(y)
	return s.With(l)
}

// Validate проверяет, что точки известны и не повторяются
func (s LandmarkSet) Validate() error {
	seen := make(map[AnatomicalPoint]struct{}, len(s.Points))
	for _, l := range s.Points {
		if !l.Point.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownPoint, int(l.Point))
		}
		if _, dup := seen[l.Point]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateLandmark, l.Point)
		}
		seen[l.Point] = struct{}{}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
