package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail/pkg/models"
)

// Job mutation guards: a posting is created, edited and archived only by
// its owning recruiter (or an admin), and cannot be deleted while any
// application references it.

// JobInput is the payload for a new posting.
type JobInput struct {
	Title        string
	Company      string
	Location     string
	Type         models.JobType
	Description  string
	Salary       string
	JobURL       string
	Requirements []string
	Benefits     []string
	Remote       bool
	PostedDate   time.Time
	Deadline     time.Time
}

// CreateJob creates a posting owned by the acting recruiter.
func (e *Engine) CreateJob(ctx context.Context, actorID string, role models.Role, in JobInput) (*models.Job, error) {
	if role != models.RoleRecruiter && role != models.RoleAdmin {
		return nil, ErrPermissionDenied
	}
	now := time.Now().UTC()
	job := &models.Job{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Company:      in.Company,
		Location:     in.Location,
		Type:         in.Type,
		Description:  in.Description,
		Salary:       in.Salary,
		JobURL:       in.JobURL,
		Requirements: in.Requirements,
		Benefits:     in.Benefits,
		Remote:       in.Remote,
		RecruiterID:  actorID,
		PostedDate:   in.PostedDate,
		Deadline:     in.Deadline,
		Archived:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if job.PostedDate.IsZero() {
		job.PostedDate = now
	}
	if err := e.jobs.PutJob(ctx, job); err != nil {
		return nil, storeErr("put job", err)
	}
	return job, nil
}

// JobUpdate carries proposed posting edits. Nil means unchanged.
type JobUpdate struct {
	Title        *string
	Company      *string
	Location     *string
	Type         *models.JobType
	Description  *string
	Salary       *string
	JobURL       *string
	Requirements *[]string
	Benefits     *[]string
	Remote       *bool
	Deadline     *time.Time
}

func (u JobUpdate) fields() map[string]any {
	f := map[string]any{}
	if u.Title != nil {
		f["title"] = *u.Title
	}
	if u.Company != nil {
		f["company"] = *u.Company
	}
	if u.Location != nil {
		f["location"] = *u.Location
	}
	if u.Type != nil {
		f["type"] = *u.Type
	}
	if u.Description != nil {
		f["description"] = *u.Description
	}
	if u.Salary != nil {
		f["salary"] = *u.Salary
	}
	if u.JobURL != nil {
		f["jobUrl"] = *u.JobURL
	}
	if u.Requirements != nil {
		f["requirements"] = *u.Requirements
	}
	if u.Benefits != nil {
		f["benefits"] = *u.Benefits
	}
	if u.Remote != nil {
		f["remote"] = *u.Remote
	}
	if u.Deadline != nil {
		f["applicationDeadline"] = u.Deadline.UTC()
	}
	return f
}

// UpdateJob applies posting edits after the ownership check.
func (e *Engine) UpdateJob(ctx context.Context, id, actorID string, role models.Role, update JobUpdate) (*models.Job, error) {
	job, err := e.loadOwnedJob(ctx, id, actorID, role)
	if err != nil {
		return nil, err
	}

	fields := update.fields()
	fields["updatedAt"] = time.Now().UTC()
	if err := e.jobs.PatchJob(ctx, job.ID, fields); err != nil {
		return nil, storeErr("patch job", err)
	}

	out, err := e.jobs.GetJobByID(ctx, id)
	if err != nil {
		return nil, storeErr("reload job", err)
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

// ArchiveJob sets the archived flag. A restricted field update subject
// to the same ownership check as edits, not a deletion.
func (e *Engine) ArchiveJob(ctx context.Context, id, actorID string, role models.Role, archived bool) error {
	job, err := e.loadOwnedJob(ctx, id, actorID, role)
	if err != nil {
		return err
	}
	fields := map[string]any{"archived": archived, "updatedAt": time.Now().UTC()}
	if err := e.jobs.PatchJob(ctx, job.ID, fields); err != nil {
		return storeErr("patch job", err)
	}
	return nil
}

// DeleteJob removes a posting. Blocked while applications reference it;
// such postings can only be archived.
func (e *Engine) DeleteJob(ctx context.Context, id, actorID string, role models.Role) error {
	job, err := e.loadOwnedJob(ctx, id, actorID, role)
	if err != nil {
		return err
	}
	ok, err := e.CanDeleteJob(ctx, job.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrHasApplications
	}
	if err := e.jobs.DeleteJob(ctx, job.ID); err != nil {
		return storeErr("delete job", err)
	}
	return nil
}

// CanDeleteJob reports whether no application references the posting.
func (e *Engine) CanDeleteJob(ctx context.Context, jobID string) (bool, error) {
	n, err := e.apps.CountByJob(ctx, jobID)
	if err != nil {
		return false, storeErr("count applications", err)
	}
	return n == 0, nil
}

// loadOwnedJob loads the posting and enforces the owner-or-admin rule.
func (e *Engine) loadOwnedJob(ctx context.Context, id, actorID string, role models.Role) (*models.Job, error) {
	job, err := e.jobs.GetJobByID(ctx, id)
	if err != nil {
		return nil, storeErr("load job", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	if job.RecruiterID != actorID && role != models.RoleAdmin {
		return nil, ErrPermissionDenied
	}
	return job, nil
}
