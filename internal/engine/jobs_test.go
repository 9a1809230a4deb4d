package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jobtrail/jobtrail/internal/engine"
	"github.com/jobtrail/jobtrail/pkg/models"
)

func TestCreateJob_RoleGate(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	if _, err := eng.CreateJob(ctx, "cand-1", models.RoleCandidate, engine.JobInput{Title: "Dev"}); !errors.Is(err, engine.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for candidate, got %v", err)
	}

	job, err := eng.CreateJob(ctx, "rec-1", models.RoleRecruiter, engine.JobInput{
		Title: "Dev", Company: "Acme", Location: "Paris", Type: models.JobFullTime,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if job.RecruiterID != "rec-1" {
		t.Fatalf("expected owner rec-1, got %s", job.RecruiterID)
	}
	if job.Archived {
		t.Fatalf("new job must not be archived")
	}
	if job.PostedDate.IsZero() {
		t.Fatalf("expected postedDate default")
	}
}

func TestUpdateJob_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	eng, repo := newTestEngine(t)
	job := seedJob(t, repo, models.Job{ID: "job-1", Title: "Dev", Company: "Acme", Location: "Paris", RecruiterID: "rec-1"})

	if _, err := eng.UpdateJob(ctx, job.ID, "rec-2", models.RoleRecruiter, engine.JobUpdate{Title: strPtr("Hacked")}); !errors.Is(err, engine.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for foreign recruiter, got %v", err)
	}

	out, err := eng.UpdateJob(ctx, job.ID, "rec-1", models.RoleRecruiter, engine.JobUpdate{Title: strPtr("Senior Dev")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Title != "Senior Dev" {
		t.Fatalf("expected title updated, got %q", out.Title)
	}

	// admins edit any posting
	out, err = eng.UpdateJob(ctx, job.ID, "admin-1", models.RoleAdmin, engine.JobUpdate{Salary: strPtr("55k")})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if out.Salary != "55k" {
		t.Fatalf("expected salary updated, got %q", out.Salary)
	}
}

func TestUpdateJob_NotFound(t *testing.T) {
	eng, _ := newTestEngine(t)
	if _, err := eng.UpdateJob(context.Background(), "missing", "rec-1", models.RoleRecruiter, engine.JobUpdate{}); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestArchiveJob(t *testing.T) {
	ctx := context.Background()
	eng, repo := newTestEngine(t)
	job := seedJob(t, repo, models.Job{ID: "job-1", Title: "Dev", Company: "Acme", Location: "Paris", RecruiterID: "rec-1"})

	if err := eng.ArchiveJob(ctx, job.ID, "rec-1", models.RoleRecruiter, true); err != nil {
		t.Fatalf("archive: %v", err)
	}
	stored, _ := repo.GetJobByID(ctx, job.ID)
	if !stored.Archived {
		t.Fatalf("expected archived flag set")
	}

	// archived postings drop out of the active listing
	active, err := repo.ListActiveJobs(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	for _, j := range active {
		if j.ID == job.ID {
			t.Fatalf("archived job still listed as active")
		}
	}

	// and can be un-archived
	if err := eng.ArchiveJob(ctx, job.ID, "rec-1", models.RoleRecruiter, false); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	stored, _ = repo.GetJobByID(ctx, job.ID)
	if stored.Archived {
		t.Fatalf("expected archived flag cleared")
	}
}

func TestDeleteJob_BlockedByApplications(t *testing.T) {
	ctx := context.Background()
	eng, repo := newTestEngine(t)
	job := seedJob(t, repo, models.Job{ID: "job-1", Title: "Dev", Company: "Acme", Location: "Paris", RecruiterID: "rec-1"})
	seedApplication(t, repo, models.JobApplication{
		ID: "app-1", Title: "Dev", Company: "Acme", Location: "Paris",
		UserID: "cand-1", RecruiterID: "rec-1", JobID: job.ID, Status: models.StatusSent,
	})

	ok, err := eng.CanDeleteJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("can delete: %v", err)
	}
	if ok {
		t.Fatalf("expected CanDeleteJob false with applications")
	}

	if err := eng.DeleteJob(ctx, job.ID, "rec-1", models.RoleRecruiter); !errors.Is(err, engine.ErrHasApplications) {
		t.Fatalf("expected ErrHasApplications, got %v", err)
	}
	if stored, _ := repo.GetJobByID(ctx, job.ID); stored == nil {
		t.Fatalf("job deleted despite guard")
	}

	// once the application is gone, deletion is allowed
	if err := repo.DeleteApplication(ctx, "app-1"); err != nil {
		t.Fatalf("delete app: %v", err)
	}
	if err := eng.DeleteJob(ctx, job.ID, "rec-1", models.RoleRecruiter); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if stored, _ := repo.GetJobByID(ctx, job.ID); stored != nil {
		t.Fatalf("expected job gone")
	}
}

func TestDeleteJob_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	eng, repo := newTestEngine(t)
	job := seedJob(t, repo, models.Job{ID: "job-1", Title: "Dev", Company: "Acme", Location: "Paris", RecruiterID: "rec-1"})

	if err := eng.DeleteJob(ctx, job.ID, "rec-2", models.RoleRecruiter); !errors.Is(err, engine.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := eng.DeleteJob(ctx, job.ID, "admin-1", models.RoleAdmin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
