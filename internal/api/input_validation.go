package api

import (
	"encoding/json"
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/fitfam/fitfam/internal/services"
	"github.com/gofiber/fiber/v2"
)

var passwordLengthRegex = regexp.MustCompile(`^.{8,}$`)
var passwordUpperRegex = regexp.MustCompile(`\p{Lu}`)
var passwordLowerRegex = regexp.MustCompile(`\p{Ll}`)
var passwordDigitRegex = regexp.MustCompile(`\d`)
var checkInTimeRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// looseString tolerates clients that send numeric JSON where a string is
// expected (e.g. {"caloriesBurned": 250} next to {"caloriesBurned": "250"}).
type looseString string

func (value *looseString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*value = ""
		return nil
	}
	if raw[0] == '"' {
		var parsed string
		if err := json.Unmarshal(data, &parsed); err != nil {
			return err
		}
		*value = looseString(strings.TrimSpace(parsed))
		return nil
	}
	*value = looseString(raw)
	return nil
}

func (value looseString) String() string {
	return string(value)
}

type credentialsInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return credentialsInput{}, err
	}

	credentials.Name = strings.TrimSpace(credentials.Name)
	credentials.Email = strings.ToLower(strings.TrimSpace(credentials.Email))
	credentials.Password = strings.TrimSpace(credentials.Password)
	return credentials, nil
}

func validateRegistrationInput(credentials credentialsInput) []fieldError {
	fields := make([]fieldError, 0)

	if credentials.Name == "" {
		fields = append(fields, fieldError{Field: "name", Message: "name is required"})
	}
	if credentials.Email == "" {
		fields = append(fields, fieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(credentials.Email); err != nil {
		fields = append(fields, fieldError{Field: "email", Message: "email is invalid"})
	}
	if err := validatePasswordStrength(credentials.Password); err != nil {
		fields = append(fields, fieldError{Field: "password", Message: err.Error()})
	}

	return fields
}

func validatePasswordStrength(password string) error {
	if !passwordLengthRegex.MatchString(password) {
		return errors.New("password must be at least 8 characters")
	}
	if passwordUpperRegex.MatchString(password) &&
		passwordLowerRegex.MatchString(password) &&
		passwordDigitRegex.MatchString(password) {
		return nil
	}
	return errors.New("password must contain upper and lower case letters and a digit")
}

type progressPayload struct {
	Progress       string      `json:"progress"`
	CheckInTime    looseString `json:"checkInTime"`
	CaloriesBurned looseString `json:"caloriesBurned"`
	WorkoutType    string      `json:"workoutType"`
	Duration       looseString `json:"duration"`
	Rating         looseString `json:"rating"`
	FamilyID       looseString `json:"familyId"`
}

// validateProgressPayload checks every field and reports all failures in a
// single pass instead of bailing at the first bad one.
func validateProgressPayload(payload progressPayload) (services.ProgressWriteInput, uint, []fieldError) {
	fields := make([]fieldError, 0)
	input := services.ProgressWriteInput{
		WorkoutType:     strings.TrimSpace(payload.WorkoutType),
		OverallRating:   payload.Rating.String(),
		ProgressDetails: strings.TrimSpace(payload.Progress),
	}

	familyID := uint(0)
	if payload.FamilyID == "" {
		fields = append(fields, fieldError{Field: "familyId", Message: "familyId is required"})
	} else if parsed, err := strconv.ParseUint(payload.FamilyID.String(), 10, 32); err != nil || parsed == 0 {
		fields = append(fields, fieldError{Field: "familyId", Message: "familyId must be a positive integer"})
	} else {
		familyID = uint(parsed)
	}

	if payload.CheckInTime == "" {
		fields = append(fields, fieldError{Field: "checkInTime", Message: "checkInTime is required"})
	} else if match := checkInTimeRegex.FindStringSubmatch(payload.CheckInTime.String()); match == nil {
		fields = append(fields, fieldError{Field: "checkInTime", Message: "checkInTime must be HH:MM"})
	} else {
		input.CheckInHour, _ = strconv.Atoi(match[1])
		input.CheckInMinute, _ = strconv.Atoi(match[2])
	}

	if input.WorkoutType == "" {
		fields = append(fields, fieldError{Field: "workoutType", Message: "workoutType is required"})
	}

	if payload.Duration == "" {
		fields = append(fields, fieldError{Field: "duration", Message: "duration is required"})
	} else if parsed, err := strconv.Atoi(payload.Duration.String()); err != nil || parsed <= 0 {
		fields = append(fields, fieldError{Field: "duration", Message: "duration must be a positive number of minutes"})
	} else {
		input.WorkoutDuration = parsed
	}

	if payload.CaloriesBurned == "" {
		fields = append(fields, fieldError{Field: "caloriesBurned", Message: "caloriesBurned is required"})
	} else if parsed, err := strconv.Atoi(payload.CaloriesBurned.String()); err != nil || parsed < 0 {
		fields = append(fields, fieldError{Field: "caloriesBurned", Message: "caloriesBurned must be a non-negative number"})
	} else {
		input.CaloriesBurnt = parsed
	}

	if input.OverallRating == "" {
		fields = append(fields, fieldError{Field: "rating", Message: "rating is required"})
	}

	return input, familyID, fields
}

func parsePositiveQueryInt(c *fiber.Ctx, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func parseFamilyIDParam(c *fiber.Ctx, name string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid family id")
	}
	return uint(parsed), nil
}
