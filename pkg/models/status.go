package models

import "fmt"

// Status is the machine-readable lifecycle code of a JobApplication.
// Display labels are kept separate so the transition rules never depend
// on user-facing text.
type Status string

const (
	StatusToApply   Status = "TO_APPLY"
	StatusSent      Status = "SENT"
	StatusInterview Status = "INTERVIEW"
	StatusAccepted  Status = "ACCEPTED"
	StatusRefused   Status = "REFUSED"
)

var statusLabels = map[Status]string{
	StatusToApply:   "À postuler",
	StatusSent:      "Envoyée",
	StatusInterview: "Entretien",
	StatusAccepted:  "Acceptée",
	StatusRefused:   "Refus",
}

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusToApply, StatusSent, StatusInterview, StatusAccepted, StatusRefused}

// ParseStatus validates a status code coming from a client or the store.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Label returns the human display label for the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRefused
}

// Role of an authenticated actor.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleRecruiter Role = "RECRUITER"
	RoleCandidate Role = "CANDIDATE"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleRecruiter, RoleCandidate:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ContractType of a JobApplication.
type ContractType string

const (
	ContractCDI        ContractType = "CDI"
	ContractCDD        ContractType = "CDD"
	ContractStage      ContractType = "STAGE"
	ContractAlternance ContractType = "ALTERNANCE"
	ContractFreelance  ContractType = "FREELANCE"
	ContractInterim    ContractType = "INTERIM"
	ContractOther      ContractType = "OTHER"
)

// JobType of a posting.
type JobType string

const (
	JobFullTime   JobType = "FULL_TIME"
	JobPartTime   JobType = "PART_TIME"
	JobContract   JobType = "CONTRACT"
	JobInternship JobType = "INTERNSHIP"
	JobFreelance  JobType = "FREELANCE"
	JobTemporary  JobType = "TEMPORARY"
)
