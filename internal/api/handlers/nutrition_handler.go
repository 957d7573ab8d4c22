package handlers

import (
	"Health-Tracker-Backend/domain"
	"Health-Tracker-Backend/internal/api/presenters"
	"Health-Tracker-Backend/pkg/dailylog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	NutritionHandler interface {
		Analyze(c *fiber.Ctx) error
	}

	nutritionHandler struct {
		dailyLogService dailylog.DailyLogService
		validator       *validator.Validate
	}
)

func NewNutritionHandler(dailyLogService dailylog.DailyLogService, validator *validator.Validate) NutritionHandler {
	return &nutritionHandler{
		dailyLogService: dailyLogService,
		validator:       validator,
	}
}

func (h *nutritionHandler) Analyze(c *fiber.Ctx) error {
	req := new(domain.AnalyzeNutritionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyzeNutrition, err)
	}

	res, err := h.dailyLogService.AnalyzeNutrition(c.Context(), *req)
	if err != nil {
		status, shown := errorStatus(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedAnalyzeNutrition, shown)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAnalyzeNutrition)
}
