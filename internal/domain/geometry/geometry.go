package geometry

import "math"

// epsilon порог, ниже которого длина вектора считается нулевой
const epsilon = 1e-6

// Point2 точка или вектор на плоскости
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var (
	// Up направление "вверх" в экранных координатах (ось Y смотрит вниз)
	Up = Point2{X: 0, Y: -1}
	// Right горизонталь вправо
	Right = Point2{X: 1, Y: 0}
)

// Add возвращает сумму векторов
func (p Point2) Add(o Point2) Point2 {
	return Point2{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub возвращает разность векторов
func (p Point2) Sub(o Point2) Point2 {
	return Point2{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale умножает вектор на скаляр
func (p Point2) Scale(k float64) Point2 {
	return Point2{X: p.X * k, Y: p.Y * k}
}

// Dot скалярное произведение
func (p Point2) Dot(o Point2) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Len длина вектора
func (p Point2) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance евклидово расстояние между точками
func Distance(a, b Point2) float64 {
	return b.Sub(a).Len()
}

// Midpoint середина отрезка ab
func Midpoint(a, b Point2) Point2 {
	return Point2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Normalize возвращает единичный вектор того же направления.
// Для вырожденного вектора (длина < 1e-6) возвращается нулевой вектор.
func Normalize(v Point2) Point2 {
	l := v.Len()
	if l < epsilon {
		return Point2{}
	}
	return Point2{X: v.X / l, Y: v.Y / l}
}

// AngleBetween угол между векторами в градусах, диапазон [0, 180].
// Если один из векторов почти нулевой, возвращает 0.
func AngleBetween(v1, v2 Point2) float64 {
	l1, l2 := v1.Len(), v2.Len()
	if l1 < epsilon || l2 < epsilon {
		return 0
	}
	// через atan2: для параллельных векторов cross ровно 0, угол ровно 0 или 180
	cross := v1.X*v2.Y - v1.Y*v2.X
	return math.Atan2(math.Abs(cross), v1.Dot(v2)) * 180 / math.Pi
}

// Lerp линейная интерполяция между a и b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpPoint линейная интерполяция между точками
func LerpPoint(a, b Point2, t float64) Point2 {
	return Point2{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// LerpOptional интерполирует необязательные значения.
// Если задано только одно значение, оно возвращается без изменений;
// если не задано ни одного, результат тоже отсутствует.
func LerpOptional(a, b *float64, t float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return Float(*b)
	case b == nil:
		return Float(*a)
	default:
		return Float(Lerp(*a, *b, t))
	}
}

// CombineVisibility минимум из заданных значений, nil если не задано ни одного
func CombineVisibility(values ...*float64) *float64 {
	var result *float64
	for _, v := range values {
		if v == nil {
			continue
		}
		if result == nil || *v < *result {
			result = Float(*v)
		}
	}
	return result
}

// Clamp ограничивает v отрезком [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 ограничивает v отрезком [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Float возвращает указатель на копию значения
func Float(v float64) *float64 {
	return &v
}
