package entity

import (
	"fmt"
	"strings"
)

// View ракурс снимка
type View string

const (
	ViewFront View = "front" // анфас
	ViewRight View = "right" // правый профиль
)

// ParseView разбирает название ракурса
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewFront:
		return ViewFront, nil
	case ViewRight:
		return ViewRight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}
