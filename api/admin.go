package api

import (
	"net/http"

	"github.com/jobtrail/jobtrail/pkg/models"
	"github.com/jobtrail/jobtrail/pkg/repository"
)

// AdminHandler exposes the platform-wide listings. Every endpoint is
// admin-only; job and application deletion for admins goes through the
// regular handlers, which already honor the admin role.
type AdminHandler struct {
	appRepo  repository.ApplicationRepo
	jobRepo  repository.JobRepo
	userRepo repository.UserRepo
}

func NewAdminHandler(ar repository.ApplicationRepo, jr repository.JobRepo, ur repository.UserRepo) *AdminHandler {
	return &AdminHandler{appRepo: ar, jobRepo: jr, userRepo: ur}
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	_, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return false
	}
	if role != models.RoleAdmin {
		http.Error(w, "permission denied", http.StatusForbidden)
		return false
	}
	return true
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	users, err := h.userRepo.ListAllUsers(r.Context())
	if err != nil {
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *AdminHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	jobs, err := h.jobRepo.ListAllJobs(r.Context())
	if err != nil {
		http.Error(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	writeJSON(w, jobs, http.StatusOK)
}

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	apps, err := h.appRepo.ListAllApplications(r.Context())
	if err != nil {
		http.Error(w, "failed to list applications", http.StatusInternalServerError)
		return
	}
	if apps == nil {
		apps = []models.JobApplication{}
	}
	writeJSON(w, apps, http.StatusOK)
}
