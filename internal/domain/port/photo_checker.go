package port

// PhotoChecker проверяет, пригоден ли снимок для оценки позы
type PhotoChecker interface {
	// Check возвращает ошибку, обёрнутую в entity.ErrPoorPhoto, если снимок не годится
	Check(imageData []byte) error
}
