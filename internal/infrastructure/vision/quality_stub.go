//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"posture-bot/internal/domain/entity"
)

// QualityGate без OpenCV проверяет только формат и размер снимка
type QualityGate struct {
	MinImageSide int
}

func NewQualityGate() *QualityGate {
	return &QualityGate{MinImageSide: defaultMinImageSide}
}

// Check возвращает ошибку, обёрнутую в entity.ErrPoorPhoto, если снимок не годится
func (g *QualityGate) Check(imageData []byte) error {
	if len(imageData) == 0 {
		return fmt.Errorf("%w: empty image", entity.ErrPoorPhoto)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPoorPhoto, err)
	}
	if cfg.Width < g.MinImageSide || cfg.Height < g.MinImageSide {
		return fmt.Errorf("%w: image is too small (%dx%d)", entity.ErrPoorPhoto, cfg.Width, cfg.Height)
	}

	return nil
}
