// Package stats folds already-scoped application and job lists into
// dashboard numbers. Pure functions, single pass, no I/O.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/jobtrail/jobtrail/pkg/models"
)

// MonthCount is one bucket of the month-keyed evolution series.
type MonthCount struct {
	Date  string `json:"date"` // YYYY-MM
	Count int    `json:"count"`
}

// CandidateStats summarizes one candidate's applications.
type CandidateStats struct {
	Total       int                   `json:"total"`
	ByStatus    map[models.Status]int `json:"byStatus"`
	Interviews  int                   `json:"interviews"`
	SuccessRate float64               `json:"successRate"`
	Evolution   []MonthCount          `json:"evolution"`
}

// Candidate computes the candidate dashboard numbers.
func Candidate(apps []models.JobApplication) CandidateStats {
	s := CandidateStats{
		Total:     len(apps),
		ByStatus:  emptyByStatus(),
		Evolution: []MonthCount{},
	}
	for _, app := range apps {
		s.ByStatus[app.Status]++
	}

	// Interviews obtained: currently interviewing plus accepted.
	s.Interviews = s.ByStatus[models.StatusInterview] + s.ByStatus[models.StatusAccepted]

	// Success rate over applications that left TO_APPLY; 0 when none.
	sent := s.ByStatus[models.StatusSent] + s.ByStatus[models.StatusInterview] +
		s.ByStatus[models.StatusAccepted] + s.ByStatus[models.StatusRefused]
	if sent > 0 {
		s.SuccessRate = round2(float64(s.ByStatus[models.StatusAccepted]) / float64(sent) * 100)
	}

	s.Evolution = evolution(apps, 0)
	return s
}

// JobCount ranks a posting by received applications.
type JobCount struct {
	JobID string `json:"jobId"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// RecruiterStats summarizes a recruiter's postings and received
// applications.
type RecruiterStats struct {
	TotalJobs             int          `json:"totalJobs"`
	TotalApplications     int          `json:"totalApplications"`
	PendingApplications   int          `json:"pendingApplications"`
	InterviewApplications int          `json:"interviewApplications"`
	AcceptedApplications  int          `json:"acceptedApplications"`
	RefusedApplications   int          `json:"refusedApplications"`
	ResponseRate          float64      `json:"responseRate"`
	AvgProcessingDays     int          `json:"avgProcessingDays"`
	Evolution             []MonthCount `json:"evolution"`
	TopJobs               []JobCount   `json:"topJobs"`
}

// Recruiter computes the recruiter dashboard numbers. The evolution
// series is trimmed to the last six months.
func Recruiter(apps []models.JobApplication, jobs []models.Job) RecruiterStats {
	s := RecruiterStats{
		TotalJobs:         len(jobs),
		TotalApplications: len(apps),
		Evolution:         []MonthCount{},
		TopJobs:           []JobCount{},
	}

	responded := 0
	processingDays := 0
	processed := 0
	perJob := map[string]int{}
	for _, app := range apps {
		switch app.Status {
		case models.StatusToApply, models.StatusSent:
			s.PendingApplications++
		case models.StatusInterview:
			s.InterviewApplications++
		case models.StatusAccepted:
			s.AcceptedApplications++
		case models.StatusRefused:
			s.RefusedApplications++
		}
		if app.Status != models.StatusSent {
			responded++
			if !app.UpdatedAt.IsZero() {
				days := int(math.Floor(app.UpdatedAt.Sub(app.ApplicationDate).Hours() / 24))
				processingDays += days
				processed++
			}
		}
		if app.JobID != "" {
			perJob[app.JobID]++
		}
	}

	if len(apps) > 0 {
		s.ResponseRate = round2(float64(responded) / float64(len(apps)) * 100)
	}
	if processed > 0 {
		s.AvgProcessingDays = int(math.Round(float64(processingDays) / float64(processed)))
	}

	s.Evolution = evolution(apps, 6)

	titles := make(map[string]string, len(jobs))
	for _, j := range jobs {
		titles[j.ID] = j.Title
	}
	for id, count := range perJob {
		title, ok := titles[id]
		if !ok {
			continue
		}
		s.TopJobs = append(s.TopJobs, JobCount{JobID: id, Title: title, Count: count})
	}
	sort.Slice(s.TopJobs, func(i, j int) bool {
		if s.TopJobs[i].Count != s.TopJobs[j].Count {
			return s.TopJobs[i].Count > s.TopJobs[j].Count
		}
		return s.TopJobs[i].JobID < s.TopJobs[j].JobID
	})
	if len(s.TopJobs) > 5 {
		s.TopJobs = s.TopJobs[:5]
	}
	return s
}

// PlatformStats is the admin-wide overview.
type PlatformStats struct {
	TotalUsers        int                   `json:"totalUsers"`
	UsersByRole       map[models.Role]int   `json:"usersByRole"`
	TotalJobs         int                   `json:"totalJobs"`
	ArchivedJobs      int                   `json:"archivedJobs"`
	TotalApplications int                   `json:"totalApplications"`
	ByStatus          map[models.Status]int `json:"byStatus"`
}

// Platform computes platform-wide counts for the admin dashboard.
func Platform(users []models.User, jobs []models.Job, apps []models.JobApplication) PlatformStats {
	s := PlatformStats{
		TotalUsers:        len(users),
		UsersByRole:       map[models.Role]int{},
		TotalJobs:         len(jobs),
		TotalApplications: len(apps),
		ByStatus:          emptyByStatus(),
	}
	for _, u := range users {
		s.UsersByRole[u.Role]++
	}
	for _, j := range jobs {
		if j.Archived {
			s.ArchivedJobs++
		}
	}
	for _, app := range apps {
		s.ByStatus[app.Status]++
	}
	return s
}

// evolution buckets applications by application month, ascending. When
// lastN > 0 the series is trimmed to the trailing buckets.
func evolution(apps []models.JobApplication, lastN int) []MonthCount {
	buckets := map[string]int{}
	for _, app := range apps {
		d := app.ApplicationDate
		key := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		buckets[key]++
	}
	out := make([]MonthCount, 0, len(buckets))
	for k, v := range buckets {
		out = append(out, MonthCount{Date: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if lastN > 0 && len(out) > lastN {
		out = out[len(out)-lastN:]
	}
	return out
}

func emptyByStatus() map[models.Status]int {
	m := make(map[models.Status]int, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		m[st] = 0
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
