package api

import (
	"errors"
	"strings"
	"time"

	"github.com/fitfam/fitfam/internal/services"
	"github.com/gofiber/fiber/v2"
)

type familyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Goal        string `json:"goal"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type joinFamilyInput struct {
	InviteCode string `json:"inviteCode"`
}

func (handler *Handler) CreateFamily(c *fiber.Ctx) error {
	input := familyInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	fields := make([]fieldError, 0)
	if strings.TrimSpace(input.Name) == "" {
		fields = append(fields, fieldError{Field: "name", Message: "name is required"})
	}
	startDate, err := parseOptionalDate(input.StartDate, handler.location)
	if err != nil {
		fields = append(fields, fieldError{Field: "startDate", Message: "startDate must be YYYY-MM-DD"})
	}
	endDate, err := parseOptionalDate(input.EndDate, handler.location)
	if err != nil {
		fields = append(fields, fieldError{Field: "endDate", Message: "endDate must be YYYY-MM-DD"})
	}
	if len(fields) > 0 {
		return validationError(c, fields)
	}

	family, err := handler.familyService.CreateFamily(c.UserContext(), currentUser(c).ID, services.FamilyInput{
		Name:        input.Name,
		Description: input.Description,
		Goal:        input.Goal,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create family")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"family": family})
}

func (handler *Handler) JoinFamily(c *fiber.Ctx) error {
	input := joinFamilyInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.InviteCode) == "" {
		return validationError(c, []fieldError{{Field: "inviteCode", Message: "inviteCode is required"}})
	}

	family, err := handler.familyService.JoinFamily(c.UserContext(), currentUser(c).ID, input.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteCodeNotFound):
			return apiError(c, fiber.StatusNotFound, "invalid invite code")
		case errors.Is(err, services.ErrAlreadyMember):
			return apiError(c, fiber.StatusBadRequest, "already a member of this family")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to join family")
		}
	}
	return c.JSON(fiber.Map{"family": family})
}

func (handler *Handler) ListFamilies(c *fiber.Ctx) error {
	families, err := handler.familyService.ListFamiliesForUser(currentUser(c).ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load families")
	}
	return c.JSON(fiber.Map{"families": families})
}

func (handler *Handler) GetFamily(c *fiber.Ctx) error {
	familyID, err := parseFamilyIDParam(c, "familyId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid family id")
	}

	detail, err := handler.familyService.LoadFamilyDetail(currentUser(c).ID, familyID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFamilyNotFound):
			return apiError(c, fiber.StatusNotFound, "family not found")
		case errors.Is(err, services.ErrNotMember):
			return apiError(c, fiber.StatusForbidden, "not a member of this family")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to load family")
		}
	}
	return c.JSON(fiber.Map{"family": detail})
}

func parseOptionalDate(raw string, location *time.Location) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, location)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
