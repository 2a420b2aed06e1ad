package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "posture-bot/internal/application"
	"posture-bot/internal/container"
	"posture-bot/internal/domain/entity"
	"posture-bot/pkg/log"
)

const (
	msgStart = `👋 Привет! Я бот для оценки осанки по фотографиям.

📸 Понадобятся два снимка в полный рост: анфас и в правый профиль.

📋 Команды:
/new — начать новое обследование
/report — показать результаты
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /new
2️⃣ Пришлите фото анфас, затем фото в правый профиль
3️⃣ Получите углы наклона уровней тела и краниовертебральный угол

💡 Рекомендации:
• Снимайте в полный рост, стопы должны быть в кадре
• Камера на уровне пояса, без наклона
• Однотонный фон и облегающая одежда

📋 Команды:
/new — новое обследование
/front — переснять анфас
/right — переснять профиль
/report — результаты
/move <front|right> <точка> <x> <y> — поправить точку (координаты 0..1)
/cancel — отменить операцию`

	msgAwaitingFront     = "📸 Отправьте фото анфас в полный рост."
	msgAwaitingRight     = "📸 Теперь отправьте фото в правый профиль."
	msgCancelled         = "❌ Операция отменена. Отправьте /new для нового обследования."
	msgSendCommand       = "📋 Отправьте /new, чтобы начать обследование, или /help для справки."
	msgUnknownCommand    = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing        = "⏳ Обрабатываю изображение..."
	msgNoAssessment      = "ℹ️ Обследование ещё не начато. Отправьте /new."
	msgProcessingError   = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgEstimatorDisabled = "⚠️ Распознавание снимков сейчас недоступно."
	msgPoorPhoto         = "⚠️ Снимок не подходит: слишком маленький, размытый или пересвеченный. Переснимите при хорошем освещении."
	msgInternalError     = "⚠️ Что-то пошло не так. Попробуйте ещё раз."
	msgMoveUsage         = "Использование: /move <front|right> <точка> <x> <y>, например /move front LSH 0.35 0.3"
	msgMoved             = "✅ Точка перенесена."
)

// messenger часть API Telegram, через которую бот отвечает
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	sender      messenger
	download    func(fileID string) ([]byte, error)
	users       *app.UserService
	assessments *app.AssessmentService
	log         *logrus.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	b := &Bot{
		api:         api,
		sender:      api,
		users:       c.UserService,
		assessments: c.AssessmentService,
		log:         logger,
	}
	b.download = b.downloadFile

	return b, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.WithError(err).Error("Error getting user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	if _, ok := user.AwaitedView(); ok {
		b.sendMessage(msg.Chat.ID, b.awaitingMessage(user))
		return
	}
	b.sendMessage(msg.Chat.ID, msgSendCommand)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "new":
		a, err := b.assessments.Start(ctx, user.ID)
		if err != nil {
			b.log.WithError(err).Error("Error starting assessment")
			b.sendMessage(chatID, msgInternalError)
			return
		}
		if _, err := b.users.BeginAssessment(ctx, user.ID, chatID, a.ID); err != nil {
			b.log.WithError(err).Error("Error saving user")
			b.sendMessage(chatID, msgInternalError)
			return
		}
		b.sendMessage(chatID, msgAwaitingFront)

	case "front", "right":
		if user.AssessmentID == "" {
			b.sendMessage(chatID, msgNoAssessment)
			return
		}
		view := entity.View(msg.Command())
		if _, err := b.users.AwaitPhoto(ctx, user.ID, chatID, view); err != nil {
			b.log.WithError(err).Error("Error saving user")
			return
		}
		if view == entity.ViewFront {
			b.sendMessage(chatID, msgAwaitingFront)
		} else {
			b.sendMessage(chatID, msgAwaitingRight)
		}

	case "report":
		if user.AssessmentID == "" {
			b.sendMessage(chatID, msgNoAssessment)
			return
		}
		b.sendReport(ctx, chatID, user.AssessmentID)

	case "move":
		b.handleMove(ctx, msg, user)

	case "cancel":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handleMove(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	if user.AssessmentID == "" {
		b.sendMessage(chatID, msgNoAssessment)
		return
	}

	args, err := parseMoveArgs(msg.CommandArguments())
	if err != nil {
		b.sendMessage(chatID, msgMoveUsage)
		return
	}

	_, err = b.assessments.CorrectLandmark(ctx, user.AssessmentID, args.view, args.point, args.x, args.y)
	switch {
	case err == nil:
		b.sendMessage(chatID, msgMoved)
		b.sendReport(ctx, chatID, user.AssessmentID)
	case errors.Is(err, entity.ErrViewNotCaptured):
		b.sendMessage(chatID, fmt.Sprintf("ℹ️ Снимок %s ещё не обработан.", viewTitle(args.view)))
	case errors.Is(err, entity.ErrLandmarkNotFound):
		b.sendMessage(chatID, fmt.Sprintf("ℹ️ Точка %s не найдена на снимке.", args.point.Code()))
	case errors.Is(err, entity.ErrLandmarkNotEditable):
		b.sendMessage(chatID, fmt.Sprintf("ℹ️ Точку %s нельзя двигать вручную.", args.point.Code()))
	default:
		b.log.WithError(err).Error("Error correcting landmark")
		b.sendMessage(chatID, msgInternalError)
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	view, ok := user.AwaitedView()
	if !ok || user.AssessmentID == "" {
		b.sendMessage(chatID, msgSendCommand)
		return
	}

	previous := user.State
	b.setState(ctx, user, entity.StateProcessing)
	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	fields := log.Fields{
		"user_id":       user.ID,
		"assessment_id": user.AssessmentID,
		"view":          view,
	}

	imageData, err := b.download(photo.FileID)
	if err != nil {
		b.log.WithFields(fields).WithError(err).Error("Error downloading photo")
		b.sendMessage(chatID, msgProcessingError)
		b.setState(ctx, user, previous)
		return
	}

	b.log.WithFields(fields).Infof("Received image: %d bytes", len(imageData))

	a, err := b.assessments.AnalyzePhoto(ctx, user.AssessmentID, view, imageData)
	if err != nil {
		b.log.WithFields(fields).WithError(err).Warn("Error analyzing photo")
		switch {
		case errors.Is(err, entity.ErrEstimatorNotConfigured):
			b.sendMessage(chatID, msgEstimatorDisabled)
		case errors.Is(err, entity.ErrPoorPhoto):
			b.sendMessage(chatID, msgPoorPhoto)
		default:
			b.sendMessage(chatID, msgProcessingError)
		}
		b.setState(ctx, user, previous)
		return
	}

	// анфас готов: показываем его и ждём профиль, если его ещё нет
	if view == entity.ViewFront && a.Right == nil {
		report, err := b.assessments.Evaluate(ctx, a.ID)
		if err == nil {
			b.sendMessage(chatID, app.FormatFront(report.Front))
		}
		b.setState(ctx, user, entity.StateAwaitingRightPhoto)
		b.sendMessage(chatID, msgAwaitingRight)
		return
	}

	b.setState(ctx, user, entity.StateMainMenu)
	b.sendReport(ctx, chatID, a.ID)
}

func (b *Bot) sendReport(ctx context.Context, chatID int64, assessmentID string) {
	report, err := b.assessments.Evaluate(ctx, assessmentID)
	if err != nil {
		b.log.WithError(err).Error("Error evaluating assessment")
		b.sendMessage(chatID, msgInternalError)
		return
	}
	b.sendMessage(chatID, app.FormatReport(report))
}

func (b *Bot) awaitingMessage(user *entity.User) string {
	if user.State == entity.StateAwaitingRightPhoto {
		return msgAwaitingRight
	}
	return msgAwaitingFront
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.users.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		b.log.WithError(err).Error("Error saving user state")
		return
	}
	user.SetState(state)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.log.WithError(err).Error("Error sending message")
	}
}

type moveArgs struct {
	view  entity.View
	point entity.AnatomicalPoint
	x, y  float64
}

// parseMoveArgs разбирает "<ракурс> <точка> <x> <y>", десятичный разделитель точка или запятая
func parseMoveArgs(s string) (moveArgs, error) {
	parts := strings.Fields(s)
	if len(parts) != 4 {
		return moveArgs{}, fmt.Errorf("expected 4 arguments, got %d", len(parts))
	}

	view, err := entity.ParseView(parts[0])
	if err != nil {
		return moveArgs{}, err
	}
	point, err := entity.ParseAnatomicalPoint(parts[1])
	if err != nil {
		return moveArgs{}, err
	}
	x, err := parseCoordinate(parts[2])
	if err != nil {
		return moveArgs{}, err
	}
	y, err := parseCoordinate(parts[3])
	if err != nil {
		return moveArgs{}, err
	}

	return moveArgs{view: view, point: point, x: x, y: y}, nil
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", entity.ErrInvalidCoordinate, s)
	}
	return v, nil
}

func viewTitle(v entity.View) string {
	if v == entity.ViewRight {
		return "в профиль"
	}
	return "анфас"
}
