package engine

import (
	"context"

	"github.com/jobtrail/jobtrail/pkg/models"
)

// RelationshipKind tags how an actor relates to an application.
type RelationshipKind int

const (
	// RelNone: no relationship; the actor may not touch the record.
	RelNone RelationshipKind = iota
	// RelCandidate: the actor is the owning candidate (userId).
	RelCandidate
	// RelRecruiterDirect: the actor matches the denormalized recruiterId.
	RelRecruiterDirect
	// RelRecruiterViaJob: the actor owns the originating job but the
	// application's recruiterId is missing or stale; the caller should
	// patch recruiterId to repair the record.
	RelRecruiterViaJob
	// RelAdmin: unrestricted ownership-wise; transitions still apply.
	RelAdmin
)

// Relationship is the resolved actor/application relation consumed
// uniformly by commit and delete.
type Relationship struct {
	Kind RelationshipKind
	// NeedsPatch is set for RelRecruiterViaJob: the commit should write
	// recruiterId back onto the application (legacy-data repair).
	NeedsPatch bool
}

// resolveRelationship decides what the actor is to this application.
// When recruiterId is absent or does not match, ownership falls back to
// the originating job (Job Ownership Guard); absence of both
// recruiterId and jobId is an unresolvable permission failure.
func (e *Engine) resolveRelationship(ctx context.Context, app *models.JobApplication, actorID string, role models.Role) (Relationship, error) {
	if role == models.RoleAdmin {
		return Relationship{Kind: RelAdmin}, nil
	}
	if app.UserID == actorID {
		return Relationship{Kind: RelCandidate}, nil
	}
	if app.RecruiterID == actorID {
		return Relationship{Kind: RelRecruiterDirect}, nil
	}
	if app.JobID == "" {
		return Relationship{Kind: RelNone}, nil
	}

	job, err := e.jobs.GetJobByID(ctx, app.JobID)
	if err != nil {
		return Relationship{}, storeErr("load job", err)
	}
	if job == nil || job.RecruiterID != actorID {
		return Relationship{Kind: RelNone}, nil
	}
	return Relationship{Kind: RelRecruiterViaJob, NeedsPatch: true}, nil
}
