package rest

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	app "posture-bot/internal/application"
	"posture-bot/internal/domain/entity"
	"posture-bot/pkg/log"
)

const requestTimeout = 10 * time.Second

// estimationTimeout покрывает обращение к сервису оценки позы
const estimationTimeout = 60 * time.Second

type AssessmentHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware *Middleware
	errHandler *ErrorHandler
	service    *app.AssessmentService
}

func NewAssessmentHandler(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware *Middleware,
	service *app.AssessmentService,
) *AssessmentHandler {
	return &AssessmentHandler{
		log:        log,
		validator:  validate,
		middleware: middleware,
		errHandler: NewErrorHandler(log),
		service:    service,
	}
}

func (h *AssessmentHandler) Start(srv fiber.Router) {
	assessments := srv.Group("/assessments")

	assessments.Post("", h.Create)
	assessments.Get("/:id", h.Get)
	assessments.Get("/:id/report", h.Report)

	// точки ракурса: целиком от детектора или правка одной точки оператором
	assessments.Put("/:id/landmarks/:view", h.SubmitLandmarks)
	assessments.Patch("/:id/landmarks/:view/:point", h.CorrectLandmark)
	assessments.Post("/:id/photos/:view", h.AnalyzePhoto)

	srv.Post("/posture/:view", h.Measure)
}

func (h *AssessmentHandler) Create(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	var req CreateAssessmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err)
	}

	a, err := h.service.Start(c, req.UserID)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "create_assessment")
	}

	return ctx.Status(fiber.StatusCreated).JSON(a)
}

func (h *AssessmentHandler) Get(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	a, err := h.service.Get(c, ctx.Params("id"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "get_assessment")
	}

	return ctx.JSON(a)
}

func (h *AssessmentHandler) Report(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	report, err := h.service.Evaluate(c, ctx.Params("id"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "assessment_report")
	}

	return ctx.JSON(report)
}

func (h *AssessmentHandler) SubmitLandmarks(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	view, err := entity.ParseView(ctx.Params("view"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "submit_landmarks")
	}

	req, err := h.bindLandmarkSet(ctx)
	if err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err)
	}
	set, err := req.ToLandmarkSet()
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "submit_landmarks")
	}

	a, err := h.service.SubmitLandmarks(c, ctx.Params("id"), view, set)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "submit_landmarks")
	}

	return ctx.JSON(a)
}

func (h *AssessmentHandler) CorrectLandmark(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(ctx.UserContext(), requestTimeout)
	defer cancel()

	view, err := entity.ParseView(ctx.Params("view"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "correct_landmark")
	}
	point, err := entity.ParseAnatomicalPoint(ctx.Params("point"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "correct_landmark")
	}

	var req MoveLandmarkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err)
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"point":      point.String(),
		"view":       view,
	}).Debug("Processing landmark correction")

	a, err := h.service.CorrectLandmark(c, ctx.Params("id"), view, point, *req.X, *req.Y)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "correct_landmark")
	}

	return ctx.JSON(a)
}

// AnalyzePhoto принимает снимок в теле запроса и отдаёт его сервису оценки позы
func (h *AssessmentHandler) AnalyzePhoto(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(ctx.UserContext(), estimationTimeout)
	defer cancel()

	view, err := entity.ParseView(ctx.Params("view"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "analyze_photo")
	}

	photo := ctx.Body()
	if len(photo) == 0 {
		return h.errHandler.HandleValidationError(ctx, requestID, fiber.NewError(fiber.StatusBadRequest, "empty image body"))
	}

	// fasthttp переиспользует буфер тела после ответа
	data := make([]byte, len(photo))
	copy(data, photo)

	a, err := h.service.AnalyzePhoto(c, ctx.Params("id"), view, data)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "analyze_photo")
	}

	return ctx.JSON(a)
}

// Measure считает метрики по присланным точкам без сохранения обследования
func (h *AssessmentHandler) Measure(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	view, err := entity.ParseView(ctx.Params("view"))
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "measure")
	}

	req, err := h.bindLandmarkSet(ctx)
	if err != nil {
		return h.errHandler.HandleValidationError(ctx, requestID, err)
	}
	set, err := req.ToLandmarkSet()
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "measure")
	}

	derived, report, err := h.service.Measure(view, set)
	if err != nil {
		return h.errHandler.Handle(ctx, requestID, err, "measure")
	}

	return ctx.JSON(MeasureResponse{
		Landmarks: derived,
		Front:     report.Front,
		Right:     report.Right,
	})
}

func (h *AssessmentHandler) bindLandmarkSet(ctx *fiber.Ctx) (LandmarkSetRequest, error) {
	var req LandmarkSetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return req, err
	}
	if err := h.validator.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}
