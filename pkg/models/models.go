package models

import "time"

// Domain entities stored as JSON documents. Field names match the data
// already written by existing clients (camelCase), so collections can be
// read back without a migration. Optional fields carry omitempty and are
// stripped before writes.

// JobApplication is one candidate's pursuit of one role.
type JobApplication struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Company      string       `json:"company"`
	Location     string       `json:"location"`
	ContractType ContractType `json:"contractType"`
	JobURL       string       `json:"jobUrl,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Documents    []string     `json:"documents,omitempty"`
	CVURL        string       `json:"cvUrl,omitempty"`
	CVFileName   string       `json:"cvFileName,omitempty"`

	UserID      string `json:"userId"`
	RecruiterID string `json:"recruiterId,omitempty"`
	JobID       string `json:"jobId,omitempty"`

	Status          Status    `json:"status"`
	ApplicationDate time.Time `json:"applicationDate"`
	LastFollowUp    time.Time `json:"lastFollowUp,omitzero"`
	FollowUpCount   int       `json:"followUpCount,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Job is a recruiter's posting.
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Type         JobType   `json:"type"`
	Description  string    `json:"description,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	JobURL       string    `json:"jobUrl,omitempty"`
	Requirements []string  `json:"requirements,omitempty"`
	Benefits     []string  `json:"benefits,omitempty"`
	Remote       bool      `json:"remote,omitempty"`
	RecruiterID  string    `json:"recruiterId"`
	PostedDate   time.Time `json:"postedDate"`
	Deadline     time.Time `json:"applicationDeadline,omitzero"`
	Archived     bool      `json:"archived"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ApplicationHistory is one append-only audit entry. Entries are never
// mutated or deleted after being written.
type ApplicationHistory struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	OldStatus     Status    `json:"oldStatus,omitempty"`
	NewStatus     Status    `json:"newStatus"`
	ChangedBy     string    `json:"changedBy"`
	ChangedAt     time.Time `json:"changedAt"`
	Notes         string    `json:"notes,omitempty"`
}

// User of the platform. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Company      string    `json:"company,omitempty"`
	Headline     string    `json:"headline,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Sanitized returns a copy safe to serialize in API responses.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// ApplicationFilters narrows candidate application listings.
type ApplicationFilters struct {
	Status       Status
	ContractType ContractType
	StartDate    time.Time
	EndDate      time.Time
	SearchQuery  string
}
