package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fitfam/fitfam/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) LogProgress(c *fiber.Ctx) error {
	payload := progressPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	input, familyID, fields := validateProgressPayload(payload)
	if len(fields) > 0 {
		return validationError(c, fields)
	}

	record, err := handler.progressService.LogWorkout(c.UserContext(), currentUser(c).ID, familyID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotMember):
			return apiError(c, fiber.StatusForbidden, "not a member of this family")
		case errors.Is(err, services.ErrFamilyInactive):
			return apiError(c, fiber.StatusBadRequest, "family is not active")
		case errors.Is(err, services.ErrAlreadyLoggedToday):
			return apiError(c, fiber.StatusBadRequest, "You have already updated today's progress.")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to save progress")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"progress": record})
}

func (handler *Handler) ListProgress(c *fiber.Ctx) error {
	page := parsePositiveQueryInt(c, "page", 1)
	limit := parsePositiveQueryInt(c, "limit", 10)

	var familyID *uint
	if raw := strings.TrimSpace(c.Query("familyId")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			return apiError(c, fiber.StatusBadRequest, "invalid family id")
		}
		value := uint(parsed)
		familyID = &value
	}

	result, err := handler.progressService.ListProgress(currentUser(c).ID, familyID, page, limit)
	if err != nil {
		if errors.Is(err, services.ErrNotMember) {
			return apiError(c, fiber.StatusForbidden, "not a member of this family")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to load progress")
	}
	return c.JSON(result)
}
