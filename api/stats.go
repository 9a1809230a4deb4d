package api

import (
	"net/http"

	"github.com/jobtrail/jobtrail/internal/stats"
	"github.com/jobtrail/jobtrail/pkg/models"
	"github.com/jobtrail/jobtrail/pkg/repository"
)

type StatsHandler struct {
	appRepo  repository.ApplicationRepo
	jobRepo  repository.JobRepo
	userRepo repository.UserRepo
}

func NewStatsHandler(ar repository.ApplicationRepo, jr repository.JobRepo, ur repository.UserRepo) *StatsHandler {
	return &StatsHandler{appRepo: ar, jobRepo: jr, userRepo: ur}
}

// Get computes the dashboard for the caller's role. The data is scoped
// first (own applications, own postings, or everything for admins) and
// then folded by the stats package.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	ctx := r.Context()

	switch role {
	case models.RoleCandidate:
		apps, err := h.appRepo.ListByUser(ctx, actorID)
		if err != nil {
			http.Error(w, "failed to load applications", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stats.Candidate(apps), http.StatusOK)

	case models.RoleRecruiter:
		apps, err := h.appRepo.ListByRecruiter(ctx, actorID)
		if err != nil {
			http.Error(w, "failed to load applications", http.StatusInternalServerError)
			return
		}
		jobs, err := h.jobRepo.ListJobsByRecruiter(ctx, actorID)
		if err != nil {
			http.Error(w, "failed to load jobs", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stats.Recruiter(apps, jobs), http.StatusOK)

	case models.RoleAdmin:
		users, err := h.userRepo.ListAllUsers(ctx)
		if err != nil {
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}
		jobs, err := h.jobRepo.ListAllJobs(ctx)
		if err != nil {
			http.Error(w, "failed to load jobs", http.StatusInternalServerError)
			return
		}
		apps, err := h.appRepo.ListAllApplications(ctx)
		if err != nil {
			http.Error(w, "failed to load applications", http.StatusInternalServerError)
			return
		}
		writeJSON(w, stats.Platform(users, jobs, apps), http.StatusOK)

	default:
		http.Error(w, "permission denied", http.StatusForbidden)
	}
}
