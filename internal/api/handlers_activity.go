package api

import (
	"errors"

	"github.com/fitfam/fitfam/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetActivity(c *fiber.Ctx) error {
	familyID, err := parseFamilyIDQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "familyId is required")
	}
	months := parsePositiveQueryInt(c, "months", 3)

	report, err := handler.progressService.BuildActivity(c.UserContext(), currentUser(c).ID, familyID, months)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotMember):
			return apiError(c, fiber.StatusForbidden, "not a member of this family")
		case errors.Is(err, services.ErrFamilyInactive):
			return apiError(c, fiber.StatusBadRequest, "family is not active")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to load activity")
		}
	}
	return c.JSON(report)
}
