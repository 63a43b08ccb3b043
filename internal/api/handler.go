package api

import (
	"time"

	"github.com/fitfam/fitfam/internal/db"
	"github.com/fitfam/fitfam/internal/services"
	"gorm.io/gorm"
)

const (
	authCookieName = "fitfam_auth"
	contextUserKey = "currentUser"

	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour

	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool

	repositories    *db.Repositories
	authService     *services.AuthService
	familyService   *services.FamilyService
	progressService *services.ProgressService

	loginLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, secret string, civilNow services.CivilNowSource, location *time.Location, cookieSecure bool) *Handler {
	if location == nil {
		location = time.UTC
	}

	repositories := db.NewRepositories(database)
	return &Handler{
		secretKey:       []byte(secret),
		location:        location,
		cookieSecure:    cookieSecure,
		repositories:    repositories,
		authService:     services.NewAuthService(repositories.Users),
		familyService:   services.NewFamilyService(repositories.Families, repositories.Memberships, repositories.Users, civilNow, location),
		progressService: services.NewProgressService(repositories.Progress, repositories.Memberships, repositories.Families, repositories.Users, civilNow, location),
		loginLimiter:    newAttemptLimiter(),
	}
}
