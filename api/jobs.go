package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jobtrail/jobtrail/internal/engine"
	"github.com/jobtrail/jobtrail/internal/validate"
	"github.com/jobtrail/jobtrail/pkg/models"
	"github.com/jobtrail/jobtrail/pkg/repository"
)

type JobsHandler struct {
	engine    *engine.Engine
	jobRepo   repository.JobRepo
	validator *validate.Validator
}

func NewJobsHandler(e *engine.Engine, jr repository.JobRepo, v *validate.Validator) *JobsHandler {
	return &JobsHandler{engine: e, jobRepo: jr, validator: v}
}

type createJobRequest struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Salary       string   `json:"salary"`
	JobURL       string   `json:"jobUrl"`
	Requirements []string `json:"requirements"`
	Benefits     []string `json:"benefits"`
	Remote       bool     `json:"remote"`
	PostedDate   string   `json:"postedDate"`
	Deadline     string   `json:"applicationDeadline"`
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	if err := h.validator.Check(ctx, "job_create", body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req createJobRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	in := engine.JobInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Type:         models.JobType(req.Type),
		Description:  req.Description,
		Salary:       req.Salary,
		JobURL:       req.JobURL,
		Requirements: req.Requirements,
		Benefits:     req.Benefits,
		Remote:       req.Remote,
	}
	if req.PostedDate != "" {
		t, err := time.Parse(time.RFC3339, req.PostedDate)
		if err != nil {
			http.Error(w, "invalid postedDate", http.StatusBadRequest)
			return
		}
		in.PostedDate = t
	}
	if req.Deadline != "" {
		t, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			http.Error(w, "invalid applicationDeadline", http.StatusBadRequest)
			return
		}
		in.Deadline = t
	}

	job, err := h.engine.CreateJob(ctx, actorID, role, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, job, http.StatusCreated)
}

// List is role-based: recruiters see their own postings, everyone else
// sees the active (non-archived) board.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	var (
		jobs []models.Job
		err  error
	)
	if role == models.RoleRecruiter {
		jobs, err = h.jobRepo.ListJobsByRecruiter(ctx, actorID)
	} else {
		jobs, err = h.jobRepo.ListActiveJobs(ctx)
	}
	if err != nil {
		http.Error(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	writeJSON(w, jobs, http.StatusOK)
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := actorFromContext(r.Context()); !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	job, err := h.jobRepo.GetJobByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, job, http.StatusOK)
}

type updateJobRequest struct {
	Title        *string   `json:"title"`
	Company      *string   `json:"company"`
	Location     *string   `json:"location"`
	Type         *string   `json:"type"`
	Description  *string   `json:"description"`
	Salary       *string   `json:"salary"`
	JobURL       *string   `json:"jobUrl"`
	Requirements *[]string `json:"requirements"`
	Benefits     *[]string `json:"benefits"`
	Remote       *bool     `json:"remote"`
	Deadline     *string   `json:"applicationDeadline"`
}

func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	update := engine.JobUpdate{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Salary:       req.Salary,
		JobURL:       req.JobURL,
		Requirements: req.Requirements,
		Benefits:     req.Benefits,
		Remote:       req.Remote,
	}
	if req.Type != nil {
		jt := models.JobType(*req.Type)
		update.Type = &jt
	}
	if req.Deadline != nil {
		t, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			http.Error(w, "invalid applicationDeadline", http.StatusBadRequest)
			return
		}
		update.Deadline = &t
	}

	job, err := h.engine.UpdateJob(r.Context(), id, actorID, role, update)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, job, http.StatusOK)
}

type archiveJobRequest struct {
	Archived bool `json:"archived"`
}

func (h *JobsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	req := archiveJobRequest{Archived: true}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
	}

	if err := h.engine.ArchiveJob(r.Context(), id, actorID, role, req.Archived); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]

	if err := h.engine.DeleteJob(r.Context(), id, actorID, role); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyRequest struct {
	Notes      string   `json:"notes"`
	Documents  []string `json:"documents"`
	CVURL      string   `json:"cvUrl"`
	CVFileName string   `json:"cvFileName"`
}

// Apply creates an application against the posting. The engine copies
// the posting's descriptive fields and rejects a second application to
// the same job.
func (h *JobsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	actorID, role, ok := actorFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	if role != models.RoleCandidate {
		http.Error(w, "only candidates apply to jobs", http.StatusForbidden)
		return
	}
	id := mux.Vars(r)["id"]

	var req applyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
	}

	in := engine.CreateInput{
		JobID:      id,
		Notes:      req.Notes,
		Documents:  req.Documents,
		CVURL:      req.CVURL,
		CVFileName: req.CVFileName,
	}
	app, err := h.engine.CreateApplication(r.Context(), actorID, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, app, http.StatusCreated)
}
