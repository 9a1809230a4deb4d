package models_test

import (
	"testing"

	"github.com/jobtrail/jobtrail/pkg/models"
)

func TestParseStatus(t *testing.T) {
	for _, st := range models.AllStatuses {
		got, err := models.ParseStatus(string(st))
		if err != nil {
			t.Fatalf("parse %s: %v", st, err)
		}
		if got != st {
			t.Fatalf("expected %s, got %s", st, got)
		}
	}
	if _, err := models.ParseStatus("PENDING"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	// labels are display text, not codes
	if _, err := models.ParseStatus("Envoyée"); err == nil {
		t.Fatalf("expected error for display label as code")
	}
}

func TestStatusLabels(t *testing.T) {
	cases := map[models.Status]string{
		models.StatusToApply:   "À postuler",
		models.StatusSent:      "Envoyée",
		models.StatusInterview: "Entretien",
		models.StatusAccepted:  "Acceptée",
		models.StatusRefused:   "Refus",
	}
	for st, want := range cases {
		if got := st.Label(); got != want {
			t.Fatalf("%s: expected %q, got %q", st, want, got)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := map[models.Status]bool{
		models.StatusToApply:   false,
		models.StatusSent:      false,
		models.StatusInterview: false,
		models.StatusAccepted:  true,
		models.StatusRefused:   true,
	}
	for st, want := range terminal {
		if st.Terminal() != want {
			t.Fatalf("%s: expected terminal=%v", st, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []string{"ADMIN", "RECRUITER", "CANDIDATE"} {
		if _, err := models.ParseRole(r); err != nil {
			t.Fatalf("parse %s: %v", r, err)
		}
	}
	if _, err := models.ParseRole("SUPERUSER"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestUserSanitized(t *testing.T) {
	u := models.User{ID: "u1", Email: "a@b.c", PasswordHash: "hash"}
	s := u.Sanitized()
	if s.PasswordHash != "" {
		t.Fatalf("expected hash stripped")
	}
	if u.PasswordHash != "hash" {
		t.Fatalf("original mutated")
	}
}
