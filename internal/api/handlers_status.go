package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/fitfam/fitfam/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetFamilyStatus(c *fiber.Ctx) error {
	familyID, err := parseFamilyIDQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "familyId is required")
	}

	period := strings.TrimSpace(c.Query("period"))
	if period == "" {
		period = services.DefaultStatusPeriod
	}

	report, err := handler.progressService.BuildFamilyStatus(c.UserContext(), currentUser(c).ID, familyID, period)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotMember):
			return apiError(c, fiber.StatusForbidden, "not a member of this family")
		case errors.Is(err, services.ErrFamilyInactive):
			return apiError(c, fiber.StatusBadRequest, "family is not active")
		case errors.Is(err, services.ErrNoMembers):
			return apiError(c, fiber.StatusNotFound, "no family members found")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to load family status")
		}
	}
	return c.JSON(report)
}

func parseFamilyIDQuery(c *fiber.Ctx) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Query("familyId")), 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid family id")
	}
	return uint(parsed), nil
}
