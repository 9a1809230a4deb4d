// Package engine implements the application status lifecycle: who may
// move a JobApplication through TO_APPLY -> SENT -> INTERVIEW ->
// {ACCEPTED|REFUSED}, how field edits are gated, and how every
// transition is recorded in the history ledger.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail/internal/notify"
	"github.com/jobtrail/jobtrail/pkg/models"
	"github.com/jobtrail/jobtrail/pkg/repository"
)

// Engine validates and commits state transitions and field edits on
// applications. It is stateless between calls; each operation is one
// load -> validate -> write sequence against the record store. The
// store offers no multi-document transactions, so two concurrent
// commits against the same application are last-write-wins.
type Engine struct {
	apps     repository.ApplicationRepo
	jobs     repository.JobRepo
	history  repository.HistoryRepo
	notifier notify.Notifier
	logger   *slog.Logger
}

func New(apps repository.ApplicationRepo, jobs repository.JobRepo, history repository.HistoryRepo, notifier notify.Notifier, logger *slog.Logger) *Engine {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{apps: apps, jobs: jobs, history: history, notifier: notifier, logger: logger}
}

// CreateInput is the payload for a new application. JobID switches the
// entry path: set, the application is created against the posting
// (descriptive fields copied, recruiterId denormalized, status SENT);
// empty, it is a manually tracked application starting at TO_APPLY.
type CreateInput struct {
	Title           string
	Company         string
	Location        string
	ContractType    models.ContractType
	JobURL          string
	Notes           string
	Documents       []string
	CVURL           string
	CVFileName      string
	JobID           string
	ApplicationDate time.Time
}

// CreateApplication creates an application owned by the acting candidate.
func (e *Engine) CreateApplication(ctx context.Context, actorID string, in CreateInput) (*models.JobApplication, error) {
	now := time.Now().UTC()
	app := &models.JobApplication{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Company:         in.Company,
		Location:        in.Location,
		ContractType:    in.ContractType,
		JobURL:          in.JobURL,
		Notes:           in.Notes,
		Documents:       in.Documents,
		CVURL:           in.CVURL,
		CVFileName:      in.CVFileName,
		UserID:          actorID,
		Status:          models.StatusToApply,
		ApplicationDate: in.ApplicationDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = now
	}
	if app.ContractType == "" {
		app.ContractType = models.ContractOther
	}

	if in.JobID != "" {
		applied, err := e.apps.HasUserApplied(ctx, actorID, in.JobID)
		if err != nil {
			return nil, storeErr("check existing application", err)
		}
		if applied {
			return nil, ErrDuplicateApplication
		}
		job, err := e.jobs.GetJobByID(ctx, in.JobID)
		if err != nil {
			return nil, storeErr("load job", err)
		}
		if job == nil {
			return nil, ErrNotFound
		}
		app.JobID = job.ID
		app.RecruiterID = job.RecruiterID
		app.Title = job.Title
		app.Company = job.Company
		app.Location = job.Location
		app.JobURL = job.JobURL
		app.Status = models.StatusSent
	}

	if err := e.apps.PutApplication(ctx, app); err != nil {
		return nil, storeErr("put application", err)
	}

	if app.Status == models.StatusSent {
		e.recordTransition(ctx, app, "", app.Status, actorID, "")
		e.fireNotification(ctx, app, "", app.Status, actorID)
	}
	return app, nil
}

// Update carries proposed field updates for a commit. Nil pointers mean
// "leave unchanged".
type Update struct {
	Title           *string
	Company         *string
	Location        *string
	ContractType    *models.ContractType
	JobURL          *string
	Notes           *string
	Documents       *[]string
	CVURL           *string
	CVFileName      *string
	ApplicationDate *time.Time
	LastFollowUp    *time.Time
	FollowUpCount   *int
	Status          *models.Status
	// HistoryNote is attached to the ledger entry when the commit
	// includes a status change.
	HistoryNote string
}

func (u Update) fields() map[string]any {
	f := map[string]any{}
	set := func(key string, v any) { f[key] = v }
	if u.Title != nil {
		set("title", *u.Title)
	}
	if u.Company != nil {
		set("company", *u.Company)
	}
	if u.Location != nil {
		set("location", *u.Location)
	}
	if u.ContractType != nil {
		set("contractType", *u.ContractType)
	}
	if u.JobURL != nil {
		set("jobUrl", *u.JobURL)
	}
	if u.Notes != nil {
		set("notes", *u.Notes)
	}
	if u.Documents != nil {
		set("documents", *u.Documents)
	}
	if u.CVURL != nil {
		set("cvUrl", *u.CVURL)
	}
	if u.CVFileName != nil {
		set("cvFileName", *u.CVFileName)
	}
	if u.ApplicationDate != nil {
		set("applicationDate", u.ApplicationDate.UTC())
	}
	if u.LastFollowUp != nil {
		set("lastFollowUp", u.LastFollowUp.UTC())
	}
	if u.FollowUpCount != nil {
		set("followUpCount", *u.FollowUpCount)
	}
	if u.Status != nil {
		set("status", *u.Status)
	}
	return f
}

// Commit validates and applies an update on behalf of the actor,
// appending a history entry and firing a notification when the status
// changed. The actor is always passed in explicitly; the engine never
// reads ambient identity.
func (e *Engine) Commit(ctx context.Context, id, actorID string, role models.Role, update Update) (*models.JobApplication, error) {
	app, err := e.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, storeErr("load application", err)
	}
	if app == nil {
		return nil, ErrNotFound
	}

	rel, err := e.resolveRelationship(ctx, app, actorID, role)
	if err != nil {
		return nil, err
	}

	statusChanged := update.Status != nil && *update.Status != app.Status

	switch rel.Kind {
	case RelNone:
		return nil, ErrPermissionDenied
	case RelCandidate:
		// Candidates may only touch an application they have not sent
		// yet, and the only transition they own is submitting it.
		if app.Status != models.StatusToApply {
			return nil, ErrLocked
		}
		if statusChanged && *update.Status != models.StatusSent {
			return nil, ErrInvalidTransition
		}
	case RelRecruiterDirect, RelRecruiterViaJob, RelAdmin:
		if statusChanged {
			if err := validateTransition(app.Status, *update.Status); err != nil {
				return nil, err
			}
		}
	}

	fields := update.fields()
	fields["updatedAt"] = time.Now().UTC()
	if rel.NeedsPatch {
		// Self-healing of legacy records missing the denormalized
		// recruiterId.
		fields["recruiterId"] = actorID
	}

	if err := e.apps.PatchApplication(ctx, id, fields); err != nil {
		return nil, storeErr("patch application", err)
	}

	if statusChanged {
		e.recordTransition(ctx, app, app.Status, *update.Status, actorID, update.HistoryNote)
		refreshed := *app
		refreshed.Status = *update.Status
		e.fireNotification(ctx, &refreshed, app.Status, *update.Status, actorID)
	}

	out, err := e.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, storeErr("reload application", err)
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

// validateTransition is the recruiter/admin transition table. It
// operates purely on status codes.
func validateTransition(from, to models.Status) error {
	if from.Terminal() {
		return ErrInvalidTransition
	}
	switch to {
	case models.StatusInterview:
		// Any non-terminal, non-interview source may move to interview.
		if from == models.StatusInterview {
			return ErrInvalidTransition
		}
		return nil
	case models.StatusAccepted, models.StatusRefused:
		if from != models.StatusInterview {
			return ErrInvalidTransition
		}
		return nil
	}
	// TO_APPLY and SENT are candidate-side states; recruiters and
	// admins never move an application back into them.
	return ErrInvalidTransition
}

// Delete removes an application. Only the owning candidate may delete,
// and only while the application is still unlocked.
func (e *Engine) Delete(ctx context.Context, id, actorID string) error {
	app, err := e.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return storeErr("load application", err)
	}
	if app == nil {
		return ErrNotFound
	}
	if app.UserID != actorID {
		return ErrPermissionDenied
	}
	switch app.Status {
	case models.StatusInterview, models.StatusAccepted, models.StatusRefused:
		return ErrLocked
	}
	if err := e.apps.DeleteApplication(ctx, id); err != nil {
		return storeErr("delete application", err)
	}
	return nil
}

// History returns the application's ledger entries, newest first.
func (e *Engine) History(ctx context.Context, applicationID string) ([]models.ApplicationHistory, error) {
	entries, err := e.history.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, storeErr("load history", err)
	}
	return entries, nil
}

// recordTransition appends one ledger entry per committed transition.
// Failures are logged, not propagated: the commit already happened and
// must be reported to the caller.
func (e *Engine) recordTransition(ctx context.Context, app *models.JobApplication, oldStatus, newStatus models.Status, changedBy, notes string) {
	entry := &models.ApplicationHistory{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     changedBy,
		ChangedAt:     time.Now().UTC(),
		Notes:         notes,
	}
	if err := e.history.Record(ctx, entry); err != nil {
		e.logger.Error("record history entry", "applicationId", app.ID, "err", err)
	}
}

// fireNotification hands the event to the notifier. Best effort: any
// failure here is logged and never rolls back the commit.
func (e *Engine) fireNotification(ctx context.Context, app *models.JobApplication, oldStatus, newStatus models.Status, changedBy string) {
	ev := notify.Event{
		ApplicationID: app.ID,
		CandidateID:   app.UserID,
		RecruiterID:   app.RecruiterID,
		Title:         app.Title,
		Company:       app.Company,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     changedBy,
		ChangedAt:     time.Now().UTC(),
	}
	if err := e.notifier.StatusChanged(ctx, ev); err != nil {
		e.logger.Error("dispatch status notification", "applicationId", app.ID, "err", err)
	}
}
