package app

import (
	"fmt"
	"strings"

	"posture-bot/internal/domain/entity"
)

var levelTitles = map[entity.LevelName]string{
	entity.LevelEars:      "Уши",
	entity.LevelShoulders: "Плечи",
	entity.LevelASIS:      "Таз (ПВПО)",
	entity.LevelKnees:     "Колени",
	entity.LevelFeet:      "Стопы",
}

var segmentTitles = map[entity.SegmentName]string{
	entity.SegmentKnee:     "Колено",
	entity.SegmentHip:      "Таз",
	entity.SegmentShoulder: "Плечо",
	entity.SegmentEar:      "Ухо",
}

const msgNotEnoughLandmarks = "недостаточно точек для расчёта"

// FormatReport формирует текстовую таблицу углов для отправки пользователю
func FormatReport(r *entity.Report) string {
	var b strings.Builder
	writeFront(&b, r.Front)
	b.WriteString("\n")
	writeRight(&b, r.Right)
	return b.String()
}

// FormatFront формирует текст только по снимку анфас
func FormatFront(m *entity.FrontMetrics) string {
	var b strings.Builder
	writeFront(&b, m)
	return b.String()
}

// FormatRight формирует текст только по снимку в профиль
func FormatRight(m *entity.RightMetrics) string {
	var b strings.Builder
	writeRight(&b, m)
	return b.String()
}

func writeFront(b *strings.Builder, m *entity.FrontMetrics) {
	b.WriteString("📐 Анфас\n")
	if m == nil {
		b.WriteString(msgNotEnoughLandmarks + "\n")
		return
	}

	fmt.Fprintf(b, "Наклон оси тела: %.1f°\n", m.BodyAngleDeg)
	if len(m.LevelAngles) == 0 {
		return
	}

	b.WriteString("Уровни (от горизонтали / от оси тела):\n")
	for _, l := range m.LevelAngles {
		if l.BodyDeviationDeg != nil {
			fmt.Fprintf(b, "• %s: %.1f° / %.1f°\n", levelTitles[l.Name], l.DeviationDeg, *l.BodyDeviationDeg)
			continue
		}
		fmt.Fprintf(b, "• %s: %.1f°\n", levelTitles[l.Name], l.DeviationDeg)
	}
}

func writeRight(b *strings.Builder, m *entity.RightMetrics) {
	b.WriteString("📐 Профиль справа\n")
	if m == nil {
		b.WriteString(msgNotEnoughLandmarks + "\n")
		return
	}

	fmt.Fprintf(b, "Краниовертебральный угол: %.1f°\n", m.CVADeg)
	fmt.Fprintf(b, "Наклон тела: %.1f°\n", m.BodyAngleDeg)
	if len(m.Segments) == 0 {
		return
	}

	b.WriteString("Сегменты (от вертикали через голеностоп):\n")
	for _, s := range m.Segments {
		fmt.Fprintf(b, "• %s: %.1f°\n", segmentTitles[s.Name], s.AngleDeg)
	}
}
