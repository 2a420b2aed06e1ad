package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu           UserState = "main_menu"            // В главном меню
	StateAwaitingFrontPhoto UserState = "awaiting_front_photo" // Ожидание снимка анфас
	StateAwaitingRightPhoto UserState = "awaiting_right_photo" // Ожидание снимка в профиль
	StateProcessing         UserState = "processing"           // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID           int64     // Telegram User ID
	ChatID       int64     // Telegram Chat ID
	State        UserState // Текущее состояние пользователя
	AssessmentID string    // Текущее обследование, пусто если не начато
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// AwaitedView возвращает ракурс, снимок которого ждёт бот
func (u *User) AwaitedView() (View, bool) {
	switch u.State {
	case StateAwaitingFrontPhoto:
		return ViewFront, true
	case StateAwaitingRightPhoto:
		return ViewRight, true
	default:
		return "", false
	}
}
