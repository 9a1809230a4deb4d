package api_test

import (
	"net/http"
	"testing"

	"github.com/jobtrail/jobtrail/pkg/models"
)

func TestUsers_Me(t *testing.T) {
	r, repo := newTestRouter(t)
	seedUser(t, repo, "cand-1", models.RoleCandidate)
	candTok := tokenFor(t, "cand-1", models.RoleCandidate)

	var me models.User
	if status := doJSON(t, r, http.MethodGet, "/v1/users/me", candTok, nil, &me); status != http.StatusOK {
		t.Fatalf("me: %d", status)
	}
	if me.ID != "cand-1" || me.PasswordHash != "" {
		t.Fatalf("unexpected profile: %+v", me)
	}

	// token for a user that no longer exists
	ghostTok := tokenFor(t, "ghost", models.RoleCandidate)
	if status := doJSON(t, r, http.MethodGet, "/v1/users/me", ghostTok, nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing profile, got %d", status)
	}
}

func TestUsers_GetVisibility(t *testing.T) {
	r, repo := newTestRouter(t)
	seedUser(t, repo, "cand-1", models.RoleCandidate)
	seedUser(t, repo, "cand-2", models.RoleCandidate)

	candTok := tokenFor(t, "cand-1", models.RoleCandidate)
	adminTok := tokenFor(t, "admin-1", models.RoleAdmin)

	if status := doJSON(t, r, http.MethodGet, "/v1/users/cand-1", candTok, nil, nil); status != http.StatusOK {
		t.Fatalf("self get: %d", status)
	}
	if status := doJSON(t, r, http.MethodGet, "/v1/users/cand-2", candTok, nil, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 reading another profile, got %d", status)
	}
	if status := doJSON(t, r, http.MethodGet, "/v1/users/cand-2", adminTok, nil, nil); status != http.StatusOK {
		t.Fatalf("admin get: %d", status)
	}
	if status := doJSON(t, r, http.MethodGet, "/v1/users/nope", adminTok, nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", status)
	}
}

func TestUsers_Update(t *testing.T) {
	r, repo := newTestRouter(t)
	seedUser(t, repo, "cand-1", models.RoleCandidate)
	candTok := tokenFor(t, "cand-1", models.RoleCandidate)

	var updated models.User
	if status := doJSON(t, r, http.MethodPut, "/v1/users/cand-1", candTok, map[string]any{
		"name": "Jane Doe", "headline": "Backend engineer",
	}, &updated); status != http.StatusOK {
		t.Fatalf("update: %d", status)
	}
	if updated.Name != "Jane Doe" || updated.Headline != "Backend engineer" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.PasswordHash != "" {
		t.Fatalf("hash leaked in response")
	}

	if status := doJSON(t, r, http.MethodPut, "/v1/users/cand-1", candTok, map[string]any{
		"password": "short",
	}, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", status)
	}

	if status := doJSON(t, r, http.MethodPut, "/v1/users/cand-1", candTok, map[string]any{}, nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", status)
	}

	// not self, not admin
	otherTok := tokenFor(t, "cand-2", models.RoleCandidate)
	if status := doJSON(t, r, http.MethodPut, "/v1/users/cand-1", otherTok, map[string]any{
		"name": "Mallory",
	}, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign update, got %d", status)
	}
}

func TestAdmin_ListingsRequireAdmin(t *testing.T) {
	r, repo := newTestRouter(t)
	seedUser(t, repo, "cand-1", models.RoleCandidate)
	seedUser(t, repo, "rec-1", models.RoleRecruiter)

	candTok := tokenFor(t, "cand-1", models.RoleCandidate)
	recTok := tokenFor(t, "rec-1", models.RoleRecruiter)
	adminTok := tokenFor(t, "admin-1", models.RoleAdmin)

	createJob(t, r, recTok, map[string]any{"title": "A", "company": "Acme", "location": "Paris"})
	if status := doJSON(t, r, http.MethodPost, "/v1/applications", candTok, map[string]any{
		"title": "B", "company": "Globex", "location": "Lyon",
	}, nil); status != http.StatusCreated {
		t.Fatalf("create: %d", status)
	}

	for _, path := range []string{"/v1/admin/users", "/v1/admin/jobs", "/v1/admin/applications"} {
		if status := doJSON(t, r, http.MethodGet, path, candTok, nil, nil); status != http.StatusForbidden {
			t.Fatalf("%s: expected 403 for candidate, got %d", path, status)
		}
	}

	var users []models.User
	if status := doJSON(t, r, http.MethodGet, "/v1/admin/users", adminTok, nil, &users); status != http.StatusOK {
		t.Fatalf("admin users: %d", status)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("hash leaked for %s", u.ID)
		}
	}

	var jobs []models.Job
	if status := doJSON(t, r, http.MethodGet, "/v1/admin/jobs", adminTok, nil, &jobs); status != http.StatusOK {
		t.Fatalf("admin jobs: %d", status)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	var apps []models.JobApplication
	if status := doJSON(t, r, http.MethodGet, "/v1/admin/applications", adminTok, nil, &apps); status != http.StatusOK {
		t.Fatalf("admin applications: %d", status)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
}
