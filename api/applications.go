package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/jobtrail/jobtrail/internal/engine"
	"github.com/jobtrail/jobtrail/internal/validate"
	"github.com/jobtrail/jobtrail/pkg/models"
	"github.com/jobtrail/jobtrail/pkg/repository"
)

type ApplicationsHandler struct {
	engine    *engine.Engine
	appRepo   repository.ApplicationRepo
	validator *validate.Validator
}

func NewApplicationsHandler(e *engine.Engine, ar repository.ApplicationRepo, v *validate.Validator) *ApplicationsHandler {
	return &ApplicationsHandler{engine: e, appRepo: ar, validator: v}
}

type createApplicationRequest struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	ContractType    string   `json:"contractType"`
	JobURL          string   `json:"jobUrl"`
	Notes           string   `json:"notes"`
	Documents       []string `json:"documents"`
	CVURL           string   `json:"cvUrl"`
	CVFileName      string   `json:"cvFileName"`
	JobID           string   `json:"jobId"`
	ApplicationDate string   `json:"applicationDate"`
}

func (h *ApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	if role != models.RoleCandidate {
		http.Error(w, "only candidates create applications", http.StatusForbidden)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	if err := h.validator.Check(ctx, "application_create", body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req createApplicationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	in := engine.CreateInput{
		Title:        strings.TrimSpace(req.Title),
		Company:      strings.TrimSpace(req.Company),
		Location:     strings.TrimSpace(req.Location),
		ContractType: models.ContractType(req.ContractType),
		JobURL:       req.JobURL,
		Notes:        req.Notes,
		Documents:    req.Documents,
		CVURL:        req.CVURL,
		CVFileName:   req.CVFileName,
		JobID:        req.JobID,
	}
	if req.ApplicationDate != "" {
		t, err := time.Parse(time.RFC3339, req.ApplicationDate)
		if err != nil {
			http.Error(w, "invalid applicationDate", http.StatusBadRequest)
			return
		}
		in.ApplicationDate = t
	}

	app, err := h.engine.CreateApplication(ctx, actorID, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, app, http.StatusCreated)
}

// List returns the caller's applications: a candidate's own, or the
// applications received by a recruiter. Filters apply in memory.
func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	var (
		apps []models.JobApplication
		err  error
	)
	if role == models.RoleRecruiter {
		apps, err = h.appRepo.ListByRecruiter(ctx, actorID)
	} else {
		apps, err = h.appRepo.ListByUser(ctx, actorID)
	}
	if err != nil {
		http.Error(w, "failed to list applications", http.StatusInternalServerError)
		return
	}

	filters, ferr := parseFilters(r)
	if ferr != nil {
		http.Error(w, ferr.Error(), http.StatusBadRequest)
		return
	}
	apps = filterApplications(apps, filters)
	if apps == nil {
		apps = []models.JobApplication{}
	}
	writeJSON(w, apps, http.StatusOK)
}

func (h *ApplicationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	app, err := h.appRepo.GetApplicationByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load application", http.StatusInternalServerError)
		return
	}
	// Access for the applicant, the recruiter, or an admin.
	if app == nil || (app.UserID != actorID && app.RecruiterID != actorID && role != models.RoleAdmin) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

type updateApplicationRequest struct {
	Title           *string   `json:"title"`
	Company         *string   `json:"company"`
	Location        *string   `json:"location"`
	ContractType    *string   `json:"contractType"`
	JobURL          *string   `json:"jobUrl"`
	Notes           *string   `json:"notes"`
	Documents       *[]string `json:"documents"`
	CVURL           *string   `json:"cvUrl"`
	CVFileName      *string   `json:"cvFileName"`
	ApplicationDate *string   `json:"applicationDate"`
	Status          *string   `json:"status"`
	Note            string    `json:"note"`
}

func (h *ApplicationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	var req updateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	update := engine.Update{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		JobURL:      req.JobURL,
		Notes:       req.Notes,
		Documents:   req.Documents,
		CVURL:       req.CVURL,
		CVFileName:  req.CVFileName,
		HistoryNote: req.Note,
	}
	if req.ContractType != nil {
		ct := models.ContractType(*req.ContractType)
		update.ContractType = &ct
	}
	if req.ApplicationDate != nil {
		t, err := time.Parse(time.RFC3339, *req.ApplicationDate)
		if err != nil {
			http.Error(w, "invalid applicationDate", http.StatusBadRequest)
			return
		}
		update.ApplicationDate = &t
	}
	if req.Status != nil {
		st, err := models.ParseStatus(*req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		update.Status = &st
	}

	app, err := h.engine.Commit(r.Context(), id, actorID, role, update)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, app, http.StatusOK)
}

// FollowUp bumps the follow-up counter through the regular commit path,
// so the same candidate lock applies.
func (h *ApplicationsHandler) FollowUp(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	app, err := h.appRepo.GetApplicationByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load application", http.StatusInternalServerError)
		return
	}
	if app == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	now := time.Now().UTC()
	count := app.FollowUpCount + 1
	update := engine.Update{LastFollowUp: &now, FollowUpCount: &count}
	out, err := h.engine.Commit(r.Context(), id, actorID, role, update)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *ApplicationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.engine.Delete(r.Context(), id, actorID); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationsHandler) History(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	app, err := h.appRepo.GetApplicationByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load application", http.StatusInternalServerError)
		return
	}
	if app == nil || (app.UserID != actorID && app.RecruiterID != actorID && role != models.RoleAdmin) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	entries, err := h.engine.History(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if entries == nil {
		entries = []models.ApplicationHistory{}
	}
	writeJSON(w, entries, http.StatusOK)
}

func parseFilters(r *http.Request) (models.ApplicationFilters, error) {
	q := r.URL.Query()
	var f models.ApplicationFilters
	if s := q.Get("status"); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	if ct := q.Get("contractType"); ct != "" {
		f.ContractType = models.ContractType(ct)
	}
	if sd := q.Get("startDate"); sd != "" {
		t, err := time.Parse(time.RFC3339, sd)
		if err != nil {
			return f, err
		}
		f.StartDate = t
	}
	if ed := q.Get("endDate"); ed != "" {
		t, err := time.Parse(time.RFC3339, ed)
		if err != nil {
			return f, err
		}
		f.EndDate = t
	}
	f.SearchQuery = q.Get("q")
	return f, nil
}

// filterApplications applies the filters in memory, including the
// title/company text search.
func filterApplications(apps []models.JobApplication, f models.ApplicationFilters) []models.JobApplication {
	query := strings.ToLower(f.SearchQuery)
	out := make([]models.JobApplication, 0, len(apps))
	for _, app := range apps {
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		if f.ContractType != "" && app.ContractType != f.ContractType {
			continue
		}
		if !f.StartDate.IsZero() && app.ApplicationDate.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && app.ApplicationDate.After(f.EndDate) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(app.Title), query) &&
			!strings.Contains(strings.ToLower(app.Company), query) {
			continue
		}
		out = append(out, app)
	}
	return out
}
