package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/fitfam/fitfam/internal/models"
)

func TestCreateJoinAndListFamilies(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	adminCookie := registerAndExtractAuthCookie(t, app, "Asha", "admin@example.com", "StrongPass1")
	familyID, inviteCode := createTestFamily(t, app, adminCookie, "Sharma Squad")

	memberCookie := registerAndExtractAuthCookie(t, app, "Bilal", "member@example.com", "StrongPass1")
	joined := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/families/join", map[string]any{
		"inviteCode": inviteCode,
	}, memberCookie), http.StatusOK)
	joinedFamily := joined["family"].(map[string]any)
	if joinedFamily["id"] != float64(familyID) {
		t.Fatalf("expected joined family %d, got %v", familyID, joinedFamily["id"])
	}

	listing := doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/families", nil, memberCookie), http.StatusOK)
	families, ok := listing["families"].([]any)
	if !ok || len(families) != 1 {
		t.Fatalf("expected one family in listing, got %v", listing)
	}
	entry := families[0].(map[string]any)
	if entry["role"] != models.RoleMember {
		t.Fatalf("expected member role in listing, got %v", entry["role"])
	}

	detailPath := fmt.Sprintf("/api/families/%d", familyID)
	detail := doJSON(t, app, jsonRequest(t, http.MethodGet, detailPath, nil, adminCookie), http.StatusOK)
	family := detail["family"].(map[string]any)
	if family["userRole"] != models.RoleAdmin {
		t.Fatalf("expected admin caller role, got %v", family["userRole"])
	}
	members, ok := family["members"].([]any)
	if !ok || len(members) != 2 {
		t.Fatalf("expected 2 members in detail, got %v", family["members"])
	}
}

func TestJoinFamilyErrors(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	adminCookie := registerAndExtractAuthCookie(t, app, "Asha", "join-admin@example.com", "StrongPass1")
	_, inviteCode := createTestFamily(t, app, adminCookie, "Join Errors")

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/families/join", map[string]any{
		"inviteCode": "NOPE9999",
	}, adminCookie), http.StatusNotFound)

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/families/join", map[string]any{
		"inviteCode": inviteCode,
	}, adminCookie), http.StatusBadRequest)

	doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/families/join", map[string]any{}, adminCookie), http.StatusBadRequest)
}

func TestFamilyDetailVisibility(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	adminCookie := registerAndExtractAuthCookie(t, app, "Asha", "vis-admin@example.com", "StrongPass1")
	familyID, _ := createTestFamily(t, app, adminCookie, "Visibility")

	outsiderCookie := registerAndExtractAuthCookie(t, app, "Omar", "vis-outsider@example.com", "StrongPass1")
	detailPath := fmt.Sprintf("/api/families/%d", familyID)
	doJSON(t, app, jsonRequest(t, http.MethodGet, detailPath, nil, outsiderCookie), http.StatusForbidden)

	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/families/9999", nil, adminCookie), http.StatusNotFound)
	doJSON(t, app, jsonRequest(t, http.MethodGet, "/api/families/zero", nil, adminCookie), http.StatusBadRequest)
}

func TestCreateFamilyValidatesInput(t *testing.T) {
	t.Parallel()

	app, _, _ := newTestApp(t)
	authCookie := registerAndExtractAuthCookie(t, app, "Asha", "family-input@example.com", "StrongPass1")

	body := doJSON(t, app, jsonRequest(t, http.MethodPost, "/api/families", map[string]any{
		"startDate": "03-05-2026",
	}, authCookie), http.StatusBadRequest)

	fields, ok := body["fields"].([]any)
	if !ok {
		t.Fatalf("expected fields list, got %v", body)
	}
	failing := make(map[string]bool, len(fields))
	for _, entry := range fields {
		field := entry.(map[string]any)
		failing[field["field"].(string)] = true
	}
	if !failing["name"] || !failing["startDate"] {
		t.Fatalf("expected name and startDate failures, got %v", failing)
	}
}
