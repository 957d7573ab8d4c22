package handlers

import (
	"Health-Tracker-Backend/domain"
	"Health-Tracker-Backend/internal/api/presenters"
	"Health-Tracker-Backend/pkg/dailylog"
	"bytes"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DailyLogHandler interface {
		GetDailyLogs(c *fiber.Ctx) error
		GetTodayLog(c *fiber.Ctx) error
		LogWeight(c *fiber.Ctx) error
		LogActivity(c *fiber.Ctx) error
		LogMeal(c *fiber.Ctx) error
		CalculateMacros(c *fiber.Ctx) error
	}

	dailyLogHandler struct {
		dailyLogService dailylog.DailyLogService
		validator       *validator.Validate
	}

	calculateMacrosBody struct {
		Meals json.RawMessage `json:"meals"`
	}
)

func NewDailyLogHandler(dailyLogService dailylog.DailyLogService, validator *validator.Validate) DailyLogHandler {
	return &dailyLogHandler{
		dailyLogService: dailyLogService,
		validator:       validator,
	}
}

func (h *dailyLogHandler) GetDailyLogs(c *fiber.Ctx) error {
	res, err := h.dailyLogService.ListLogs(c.Context(), userIDFrom(c))
	if err != nil {
		status, shown := errorStatus(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetDailyLogs, shown)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDailyLogs)
}

func (h *dailyLogHandler) GetTodayLog(c *fiber.Ctx) error {
	res, err := h.dailyLogService.GetToday(c.Context(), userIDFrom(c))
	if err != nil {
		status, shown := errorStatus(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedGetDailyLog, shown)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDailyLog)
}

func (h *dailyLogHandler) LogWeight(c *fiber.Ctx) error {
	req := new(domain.LogWeightRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogWeight, err)
	}

	res, err := h.dailyLogService.LogWeight(c.Context(), userIDFrom(c), *req)
	if err != nil {
		status, shown := errorStatus(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedLogWeight, shown)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogWeight)
}

func (h *dailyLogHandler) LogActivity(c *fiber.Ctx) error {
	req := new(domain.LogActivityRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogActivity, err)
	}

	res, err := h.dailyLogService.LogActivity(c.Context(), userIDFrom(c), *req)
	if err != nil {
		status, shown := errorStatus(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedLogActivity, shown)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogActivity)
}

func (h *dailyLogHandler) LogMeal(c *fiber.Ctx) error {
	req := new(domain.LogMealRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogMeal, err)
	}

	res, err := h.dailyLogService.LogMeal(c.Context(), userIDFrom(c), *req)
	if err != nil {
		status, shown := errorStatus(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedLogMeal, shown)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogMeal)
}

// CalculateMacros accepts {"meals": {...}}. A missing meals key or one that
// is not a JSON object is rejected before any estimation happens.
func (h *dailyLogHandler) CalculateMacros(c *fiber.Ctx) error {
	body := new(calculateMacrosBody)
	if err := c.BodyParser(body); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	raw := bytes.TrimSpace(body.Meals)
	if len(raw) == 0 || raw[0] != '{' {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCalculateMacros, domain.ErrMealsRequired)
	}

	meals := new(domain.MealsInput)
	if err := json.Unmarshal(raw, meals); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.dailyLogService.ComputeAndStoreMacros(c.Context(), userIDFrom(c), domain.CalculateMacrosRequest{Meals: meals})
	if err != nil {
		status, shown := errorStatus(err)
		return presenters.ErrorResponse(c, status, domain.MessageFailedCalculateMacros, shown)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCalculateMacros)
}
