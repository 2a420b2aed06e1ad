package entity

import (
	"fmt"
	"strings"
)

// AnatomicalPoint идентификатор анатомической точки
type AnatomicalPoint int

const (
	Nose AnatomicalPoint = iota + 1
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	TibialTuberosityLeft  // синтетическая
	TibialTuberosityRight // синтетическая
	JugularNotch          // синтетическая
	RightC7               // синтетическая
)

// pointInfo постоянные свойства точки
type pointInfo struct {
	name      string
	code      string
	synthetic bool
	editable  bool
}

var pointCatalog = map[AnatomicalPoint]pointInfo{
	Nose:                  {"NOSE", "NO", false, false},
	LeftEye:               {"LEFT_EYE", "LEY", false, false},
	RightEye:              {"RIGHT_EYE", "REY", false, false},
	LeftEar:               {"LEFT_EAR", "LEA", false, true},
	RightEar:              {"RIGHT_EAR", "REA", false, true},
	LeftShoulder:          {"LEFT_SHOULDER", "LSH", false, true},
	RightShoulder:         {"RIGHT_SHOULDER", "RSH", false, true},
	LeftElbow:             {"LEFT_ELBOW", "LEL", false, false},
	RightElbow:            {"RIGHT_ELBOW", "REL", false, false},
	LeftWrist:             {"LEFT_WRIST", "LWR", false, false},
	RightWrist:            {"RIGHT_WRIST", "RWR", false, false},
	LeftHip:               {"LEFT_HIP", "LHP", false, true},
	RightHip:              {"RIGHT_HIP", "RHP", false, true},
	LeftKnee:              {"LEFT_KNEE", "LKN", false, true},
	RightKnee:             {"RIGHT_KNEE", "RKN", false, true},
	LeftAnkle:             {"LEFT_ANKLE", "LAN", false, true},
	RightAnkle:            {"RIGHT_ANKLE", "RAN", false, true},
	TibialTuberosityLeft:  {"TIBIAL_TUBEROSITY_LEFT", "LTT", true, true},
	TibialTuberosityRight: {"TIBIAL_TUBEROSITY_RIGHT", "RTT", true, true},
	JugularNotch:          {"JUGULAR_NOTCH", "JN", true, true},
	RightC7:               {"RIGHT_C7", "C7", true, true},
}

// AllPoints возвращает все точки в порядке объявления
func AllPoints() []AnatomicalPoint {
	points := make([]AnatomicalPoint, 0, len(pointCatalog))
	for p := Nose; p <= RightC7; p++ {
		points = append(points, p)
	}
	return points
}

// Valid сообщает, входит ли значение в перечисление
func (p AnatomicalPoint) Valid() bool {
	_, ok := pointCatalog[p]
	return ok
}

// String возвращает имя точки в формате обмена (LEFT_ANKLE и т.д.)
func (p AnatomicalPoint) String() string {
	if info, ok := pointCatalog[p]; ok {
		return info.name
	}
	return fmt.Sprintf("AnatomicalPoint(%d)", int(p))
}

// Code короткий код для отображения
func (p AnatomicalPoint) Code() string {
	return pointCatalog[p].code
}

// Synthetic true для точек, которые вычисляются, а не детектируются
func (p AnatomicalPoint) Synthetic() bool {
	return pointCatalog[p].synthetic
}

// Editable true, если оператор может сдвигать точку вручную
func (p AnatomicalPoint) Editable() bool {
	return pointCatalog[p].editable
}

// ParseAnatomicalPoint принимает имя или код точки без учёта регистра
func ParseAnatomicalPoint(s string) (AnatomicalPoint, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for p, info := range pointCatalog {
		if info.name == needle || info.code == needle {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPoint, s)
}

// MarshalText кодирует точку её именем
func (p AnatomicalPoint) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPoint, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText разбирает имя или код точки
func (p *AnatomicalPoint) UnmarshalText(text []byte) error {
	parsed, err := ParseAnatomicalPoint(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
