package api

import (
	"time"

	"github.com/fitfam/fitfam/internal/models"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if fields := validateRegistrationInput(credentials); len(fields) > 0 {
		return validationError(c, fields)
	}

	exists, err := handler.authService.RegistrationEmailExists(credentials.Email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	user := models.User{
		Email:        credentials.Email,
		Name:         credentials.Name,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().In(handler.location),
	}
	if err := handler.authService.CreateUser(&user); err != nil {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil || credentials.Email == "" || credentials.Password == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	limiterKey := loginLimiterKey(c, credentials.Email)
	if handler.loginLimiter.tooManyRecent(limiterKey, time.Now(), loginAttemptLimit, loginAttemptWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.FindByNormalizedEmail(credentials.Email)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, time.Now(), loginAttemptWindow)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		handler.loginLimiter.addFailure(limiterKey, time.Now(), loginAttemptWindow)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	handler.loginLimiter.reset(limiterKey)
	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"user": user})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CurrentUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": currentUser(c)})
}
