package handlers

import (
	"Health-Tracker-Backend/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps a service error onto the HTTP status and the error shown
// to the client. Upstream and database details stay in the server log.
func errorStatus(err error) (int, error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrParseUUID),
		errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, err
	case errors.Is(err, domain.ErrDailyLogNotFound):
		return fiber.StatusNotFound, err
	case errors.Is(err, domain.ErrEstimationFailed):
		return fiber.StatusBadGateway, domain.ErrEstimationFailed
	case errors.Is(err, domain.ErrEstimatorNotConfig):
		return fiber.StatusServiceUnavailable, domain.ErrEstimatorNotConfig
	case errors.Is(err, domain.ErrPersistenceFailed):
		return fiber.StatusInternalServerError, domain.ErrPersistenceFailed
	}
	return fiber.StatusInternalServerError, errors.New(domain.MessageFailedProcessRequest)
}

func userIDFrom(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}
