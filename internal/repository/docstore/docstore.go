// Package docstore implements the typed repositories over the generic
// document store. Listings are sorted in memory, the way the original
// clients did to avoid composite indexes in the hosted store.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jobtrail/jobtrail/internal/store"
	"github.com/jobtrail/jobtrail/pkg/models"
	"github.com/jobtrail/jobtrail/pkg/repository"
)

// DocRepo implements the repository interfaces over a store.Store.
type DocRepo struct {
	docs   store.Store
	logger *slog.Logger
}

// Ensure DocRepo implements the public interfaces.
var _ repository.ApplicationRepo = (*DocRepo)(nil)
var _ repository.JobRepo = (*DocRepo)(nil)
var _ repository.HistoryRepo = (*DocRepo)(nil)
var _ repository.UserRepo = (*DocRepo)(nil)

func New(docs store.Store, logger *slog.Logger) *DocRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocRepo{docs: docs, logger: logger}
}

// Application methods

func (r *DocRepo) PutApplication(ctx context.Context, app *models.JobApplication) error {
	if app == nil {
		return fmt.Errorf("application is nil")
	}
	return r.docs.Put(ctx, store.Applications, app.ID, app)
}

func (r *DocRepo) GetApplicationByID(ctx context.Context, id string) (*models.JobApplication, error) {
	raw, err := r.docs.Get(ctx, store.Applications, id)
	if err != nil || raw == nil {
		return nil, err
	}
	var app models.JobApplication
	if err := store.Decode(raw, &app); err != nil {
		return nil, fmt.Errorf("decode application %s: %w", id, err)
	}
	return &app, nil
}

func (r *DocRepo) ListByUser(ctx context.Context, userID string) ([]models.JobApplication, error) {
	return r.findApplications(ctx, store.Filter{"userId": userID})
}

func (r *DocRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobApplication, error) {
	return r.findApplications(ctx, store.Filter{"recruiterId": recruiterID})
}

func (r *DocRepo) ListAllApplications(ctx context.Context) ([]models.JobApplication, error) {
	return r.findApplications(ctx, store.Filter{})
}

func (r *DocRepo) findApplications(ctx context.Context, filter store.Filter) ([]models.JobApplication, error) {
	raws, err := r.docs.Find(ctx, store.Applications, filter)
	if err != nil {
		return nil, err
	}
	apps := make([]models.JobApplication, 0, len(raws))
	for _, raw := range raws {
		var app models.JobApplication
		if err := store.Decode(raw, &app); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].ApplicationDate.After(apps[j].ApplicationDate)
	})
	return apps, nil
}

func (r *DocRepo) CountByJob(ctx context.Context, jobID string) (int, error) {
	raws, err := r.docs.Find(ctx, store.Applications, store.Filter{"jobId": jobID})
	if err != nil {
		return 0, err
	}
	return len(raws), nil
}

func (r *DocRepo) HasUserApplied(ctx context.Context, userID, jobID string) (bool, error) {
	raws, err := r.docs.Find(ctx, store.Applications, store.Filter{"userId": userID, "jobId": jobID})
	if err != nil {
		return false, err
	}
	return len(raws) > 0, nil
}

func (r *DocRepo) PatchApplication(ctx context.Context, id string, fields map[string]any) error {
	return r.docs.Patch(ctx, store.Applications, id, fields)
}

func (r *DocRepo) DeleteApplication(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, store.Applications, id)
}

// Job methods

func (r *DocRepo) PutJob(ctx context.Context, job *models.Job) error {
	if job == nil {
		return fmt.Errorf("job is nil")
	}
	return r.docs.Put(ctx, store.Jobs, job.ID, job)
}

func (r *DocRepo) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	raw, err := r.docs.Get(ctx, store.Jobs, id)
	if err != nil || raw == nil {
		return nil, err
	}
	var job models.Job
	if err := store.Decode(raw, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (r *DocRepo) ListActiveJobs(ctx context.Context) ([]models.Job, error) {
	return r.findJobs(ctx, store.Filter{"archived": false})
}

func (r *DocRepo) ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error) {
	return r.findJobs(ctx, store.Filter{"recruiterId": recruiterID})
}

func (r *DocRepo) ListAllJobs(ctx context.Context) ([]models.Job, error) {
	return r.findJobs(ctx, store.Filter{})
}

func (r *DocRepo) findJobs(ctx context.Context, filter store.Filter) ([]models.Job, error) {
	raws, err := r.docs.Find(ctx, store.Jobs, filter)
	if err != nil {
		return nil, err
	}
	jobs := make([]models.Job, 0, len(raws))
	for _, raw := range raws {
		var job models.Job
		if err := store.Decode(raw, &job); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].PostedDate.After(jobs[j].PostedDate)
	})
	return jobs, nil
}

func (r *DocRepo) PatchJob(ctx context.Context, id string, fields map[string]any) error {
	return r.docs.Patch(ctx, store.Jobs, id, fields)
}

func (r *DocRepo) DeleteJob(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, store.Jobs, id)
}

// History methods

func (r *DocRepo) Record(ctx context.Context, entry *models.ApplicationHistory) error {
	if entry == nil {
		return fmt.Errorf("history entry is nil")
	}
	return r.docs.Put(ctx, store.History, entry.ID, entry)
}

func (r *DocRepo) ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationHistory, error) {
	raws, err := r.docs.Find(ctx, store.History, store.Filter{"applicationId": applicationID})
	if err != nil {
		return nil, err
	}
	entries := make([]models.ApplicationHistory, 0, len(raws))
	for _, raw := range raws {
		var e models.ApplicationHistory
		if err := store.Decode(raw, &e); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ChangedAt.After(entries[j].ChangedAt)
	})
	return entries, nil
}

// User methods

func (r *DocRepo) PutUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	return r.docs.Put(ctx, store.Users, u.ID, u)
}

func (r *DocRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	raw, err := r.docs.Get(ctx, store.Users, id)
	if err != nil || raw == nil {
		return nil, err
	}
	var u models.User
	if err := store.Decode(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &u, nil
}

func (r *DocRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	raws, err := r.docs.Find(ctx, store.Users, store.Filter{"email": email})
	if err != nil || len(raws) == 0 {
		return nil, err
	}
	var u models.User
	if err := store.Decode(raws[0], &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (r *DocRepo) ListAllUsers(ctx context.Context) ([]models.User, error) {
	raws, err := r.docs.Find(ctx, store.Users, store.Filter{})
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(raws))
	for _, raw := range raws {
		var u models.User
		if err := store.Decode(raw, &u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *DocRepo) PatchUser(ctx context.Context, id string, fields map[string]any) error {
	return r.docs.Patch(ctx, store.Users, id, fields)
}
