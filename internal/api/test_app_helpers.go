package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fitfam/fitfam/internal/clock"
	"github.com/fitfam/fitfam/internal/db"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// fixedCivilNow pins the resolved civil time; tests roll the day by mutating
// the shared value.
type fixedCivilNow struct {
	civil *clock.CivilTime
}

func (source fixedCivilNow) Now(context.Context) clock.CivilTime {
	return *source.civil
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *clock.CivilTime) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "fitfam-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	civil := &clock.CivilTime{Year: 2026, Month: 5, Day: 3, Hour: 10}
	handler := NewHandler(database, "test-secret-key", fixedCivilNow{civil: civil}, time.UTC, false)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, database, civil
}

func jsonRequest(t *testing.T, method string, path string, payload any, authCookie string) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}
	return request
}

func doJSON(t *testing.T, app *fiber.App, request *http.Request, expectedStatus int) map[string]any {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if response.StatusCode != expectedStatus {
		t.Fatalf("%s %s expected status %d, got %d: %s",
			request.Method, request.URL.Path, expectedStatus, response.StatusCode, string(body))
	}

	decoded := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("decode body %q: %v", string(body), err)
		}
	}
	return decoded
}

func registerAndExtractAuthCookie(t *testing.T, app *fiber.App, name string, email string, password string) string {
	t.Helper()

	request := jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	}, "")

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected register status 201, got %d: %s", response.StatusCode, string(body))
	}

	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			return cookie.Name + "=" + cookie.Value
		}
	}

	t.Fatal("auth cookie is missing in register response")
	return ""
}

func createTestFamily(t *testing.T, app *fiber.App, authCookie string, name string) (uint, string) {
	t.Helper()

	body := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/families", map[string]any{
		"name": name,
	}, authCookie), http.StatusCreated)

	family, ok := body["family"].(map[string]any)
	if !ok {
		t.Fatalf("create family response missing family: %v", body)
	}
	id, ok := family["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("create family response missing id: %v", family)
	}
	inviteCode, _ := family["inviteCode"].(string)
	if inviteCode == "" {
		t.Fatalf("create family response missing invite code: %v", family)
	}
	return uint(id), inviteCode
}

func validProgressPayload() map[string]any {
	return map[string]any{
		"checkInTime":    "07:30",
		"workoutType":    "running",
		"duration":       "45",
		"caloriesBurned": 320,
		"rating":         "great",
		"progress":       "5k around the park",
	}
}
