package client

import (
	"sort"
	"strings"

	"github.com/justsurfingit/jobtracker-web/internal/models"
)

// Sort keys for the jobs table.
const (
	SortPosted  = "posted"
	SortTitle   = "title"
	SortCompany = "company"
	SortScore   = "score"
)

// JobFilter is the jobs table toolbar state.
type JobFilter struct {
	Query  string
	Status string
	Sort   string
	Desc   bool
}

// Match reports whether job passes the filter.
func (f JobFilter) Match(job models.Job) bool {
	if f.Status != "" && job.DisplayStatus() != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(job.Title), q) {
		return true
	}
	return strings.Contains(strings.ToLower(job.CompanyName()), q)
}

// FilterJobs returns the jobs passing f, sorted by f.Sort. The input is not
// modified.
func FilterJobs(jobs []models.Job, f JobFilter) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	SortJobs(out, f.Sort, f.Desc)
	return out
}

// SortJobs sorts in place. Unknown keys keep the backend order. Jobs without a
// match score sort after scored ones in either direction.
func SortJobs(jobs []models.Job, key string, desc bool) {
	var less func(a, b models.Job) bool
	switch key {
	case SortPosted:
		// posted_at is ISO 8601, so string order is time order
		less = func(a, b models.Job) bool { return a.PostedAt < b.PostedAt }
	case SortTitle:
		less = func(a, b models.Job) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortCompany:
		less = func(a, b models.Job) bool { return strings.ToLower(a.CompanyName()) < strings.ToLower(b.CompanyName()) }
	case SortScore:
		sort.SliceStable(jobs, func(i, j int) bool {
			a, b := jobs[i].MatchScore, jobs[j].MatchScore
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			if desc {
				return *a > *b
			}
			return *a < *b
		})
		return
	default:
		return
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		if desc {
			return less(jobs[j], jobs[i])
		}
		return less(jobs[i], jobs[j])
	})
}
