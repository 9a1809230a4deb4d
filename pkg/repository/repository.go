package repository

import (
	"context"

	"github.com/jobtrail/jobtrail/pkg/models"
)

// Repository interfaces for domain entities. These are the public
// contracts consumers should depend on; concrete implementations live
// under internal/. Getters return nil (not an error) when the entity is
// absent, matching keyed-document-store semantics.

type ApplicationRepo interface {
	PutApplication(ctx context.Context, app *models.JobApplication) error
	GetApplicationByID(ctx context.Context, id string) (*models.JobApplication, error)
	// ListByUser returns the candidate's applications newest-first by
	// application date.
	ListByUser(ctx context.Context, userID string) ([]models.JobApplication, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.JobApplication, error)
	ListAllApplications(ctx context.Context) ([]models.JobApplication, error)
	CountByJob(ctx context.Context, jobID string) (int, error)
	HasUserApplied(ctx context.Context, userID, jobID string) (bool, error)
	PatchApplication(ctx context.Context, id string, fields map[string]any) error
	DeleteApplication(ctx context.Context, id string) error
}

type JobRepo interface {
	PutJob(ctx context.Context, job *models.Job) error
	GetJobByID(ctx context.Context, id string) (*models.Job, error)
	// ListActiveJobs returns non-archived postings newest-first by
	// posted date, for candidate browsing.
	ListActiveJobs(ctx context.Context) ([]models.Job, error)
	ListJobsByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error)
	ListAllJobs(ctx context.Context) ([]models.Job, error)
	PatchJob(ctx context.Context, id string, fields map[string]any) error
	DeleteJob(ctx context.Context, id string) error
}

// HistoryRepo is the append-only status-transition ledger. There are no
// update or delete operations by design of the audit trail.
type HistoryRepo interface {
	Record(ctx context.Context, entry *models.ApplicationHistory) error
	// ListByApplication returns entries newest-first.
	ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationHistory, error)
}

type UserRepo interface {
	PutUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListAllUsers(ctx context.Context) ([]models.User, error)
	PatchUser(ctx context.Context, id string, fields map[string]any) error
}
