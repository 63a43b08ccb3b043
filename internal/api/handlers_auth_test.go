package api

import (
	"net/http"
	"testing"
)

func TestRegisterValidationListsEveryFailingField(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)

	body := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email":    "not-an-email",
		"password": "weak",
	}, ""), http.StatusBadRequest)

	fields, ok := body["fields"].([]any)
	if !ok {
		t.Fatalf("expected fields list, got %v", body)
	}

	failing := make(map[string]bool, len(fields))
	for _, entry := range fields {
		field := entry.(map[string]any)
		failing[field["field"].(string)] = true
	}
	for _, name := range []string{"name", "email", "password"} {
		if !failing[name] {
			t.Fatalf("expected %s in failing fields, got %v", name, failing)
		}
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	registerAndExtractAuthCookie(t, app, "Asha", "dupe@example.com", "StrongPass1")

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Asha Again",
		"email":    "DUPE@example.com",
		"password": "StrongPass1",
	}, ""), http.StatusConflict)
}

func TestLoginAndCurrentUser(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	registerAndExtractAuthCookie(t, app, "Asha", "login@example.com", "StrongPass1")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "login@example.com",
		"password": "StrongPass1",
	}, ""), -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", response.StatusCode)
	}

	authCookie := ""
	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			authCookie = cookie.Name + "=" + cookie.Value
		}
	}
	if authCookie == "" {
		t.Fatal("auth cookie missing in login response")
	}

	me := doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/auth/me", nil, authCookie), http.StatusOK)
	user, ok := me["user"].(map[string]any)
	if !ok {
		t.Fatalf("me response missing user: %v", me)
	}
	if user["email"] != "login@example.com" {
		t.Fatalf("unexpected current user: %v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	registerAndExtractAuthCookie(t, app, "Asha", "creds@example.com", "StrongPass1")

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "creds@example.com",
		"password": "WrongPass1",
	}, ""), http.StatusUnauthorized)

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "StrongPass1",
	}, ""), http.StatusUnauthorized)
}

func TestLoginThrottlesRepeatedFailures(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	registerAndExtractAuthCookie(t, app, "Asha", "throttle@example.com", "StrongPass1")

	payload := map[string]any{
		"email":    "throttle@example.com",
		"password": "WrongPass1",
	}
	for attempt := 0; attempt < loginAttemptLimit; attempt++ {
		doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", payload, ""), http.StatusUnauthorized)
	}

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", payload, ""), http.StatusTooManyRequests)

	// The throttle is per account; other accounts still log in.
	registerAndExtractAuthCookie(t, app, "Bilal", "other@example.com", "StrongPass1")
	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "other@example.com",
		"password": "StrongPass1",
	}, ""), http.StatusOK)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)

	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/auth/me", nil, ""), http.StatusUnauthorized)
	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/families", nil, ""), http.StatusUnauthorized)
	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/progress", nil, ""), http.StatusUnauthorized)
	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/auth/me", nil, authCookieName+"=garbage"), http.StatusUnauthorized)
}

func TestLogoutClearsSession(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	authCookie := registerAndExtractAuthCookie(t, app, "Asha", "logout@example.com", "StrongPass1")

	response, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth/logout", nil, authCookie), -1)
	if err != nil {
		t.Fatalf("logout request failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected logout status 200, got %d", response.StatusCode)
	}

	cleared := false
	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected logout to clear the auth cookie")
	}
}
