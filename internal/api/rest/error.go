package rest

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"posture-bot/internal/domain/entity"
	"posture-bot/pkg/log"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{entity.ErrAssessmentNotFound, fiber.StatusNotFound, "ASSESSMENT_NOT_FOUND"},
	{entity.ErrLandmarkNotFound, fiber.StatusNotFound, "LANDMARK_NOT_FOUND"},
	{entity.ErrViewNotCaptured, fiber.StatusNotFound, "VIEW_NOT_CAPTURED"},
	{entity.ErrUnknownView, fiber.StatusBadRequest, "UNKNOWN_VIEW"},
	{entity.ErrUnknownPoint, fiber.StatusBadRequest, "UNKNOWN_POINT"},
	{entity.ErrDuplicateLandmark, fiber.StatusBadRequest, "DUPLICATE_LANDMARK"},
	{entity.ErrInvalidCoordinate, fiber.StatusBadRequest, "INVALID_COORDINATE"},
	{entity.ErrLandmarkNotEditable, fiber.StatusConflict, "LANDMARK_NOT_EDITABLE"},
	{entity.ErrPoorPhoto, fiber.StatusUnprocessableEntity, "POOR_PHOTO"},
	{entity.ErrEstimatorNotConfigured, fiber.StatusServiceUnavailable, "ESTIMATOR_NOT_CONFIGURED"},
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func NewErrorHandler(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle переводит ошибку сервиса в HTTP-ответ
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       c.Path(),
		"operation":  operation,
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			h.logger.WithFields(fields).Warn("Operation failed")
			return c.Status(m.status).JSON(ErrorResponse{Error: err.Error(), Code: m.code})
		}
	}

	h.logger.WithFields(fields).Error("Unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: "internal server error",
		Code:  "INTERNAL",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       c.Path(),
	}).Warn("Validation failed")

	resp := ErrorResponse{Error: "validation failed", Code: "VALIDATION_ERROR", Details: err.Error()}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		resp.Details = verrs[0].Namespace() + " failed on " + verrs[0].Tag()
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

// FiberErrorHandler отвечает JSON на ошибки самого fiber, например 404 маршрута
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
