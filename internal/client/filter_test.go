package client

import (
	"testing"

	"github.com/justsurfingit/jobtracker-web/internal/models"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func sampleJobs() []models.Job {
	return []models.Job{
		{ID: 1, Title: "Go Developer", Company: ptr("Stripe"), ApplicationStatus: "applied", PostedAt: "2025-01-03T10:00:00", MatchScore: ptr(0.4)},
		{ID: 2, Title: "SRE", Company: ptr("acme"), ApplicationStatus: "interviewing", PostedAt: "2025-01-01T10:00:00"},
		{ID: 3, Title: "backend engineer", ApplicationStatus: "ghosted", PostedAt: "2025-01-02T10:00:00", MatchScore: ptr(0.9)},
	}
}

func ids(jobs []models.Job) []int {
	out := make([]int, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestFilterJobs(t *testing.T) {
	tests := []struct {
		name   string
		filter JobFilter
		want   []int
	}{
		{"everything", JobFilter{}, []int{1, 2, 3}},
		{"title case-insensitive", JobFilter{Query: "DEVELOPER"}, []int{1}},
		{"company", JobFilter{Query: "Acme"}, []int{2}},
		{"unknown status shows as applied", JobFilter{Status: "applied"}, []int{1, 3}},
		{"query and status", JobFilter{Query: "e", Status: "interviewing"}, []int{2}},
		{"posted ascending", JobFilter{Sort: SortPosted}, []int{2, 3, 1}},
		{"posted descending", JobFilter{Sort: SortPosted, Desc: true}, []int{1, 3, 2}},
		{"title", JobFilter{Sort: SortTitle}, []int{3, 1, 2}},
		{"company blank first", JobFilter{Sort: SortCompany}, []int{3, 2, 1}},
		{"score descending unscored last", JobFilter{Sort: SortScore, Desc: true}, []int{3, 1, 2}},
		{"score ascending unscored last", JobFilter{Sort: SortScore}, []int{1, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := sampleJobs()
			assert.Equal(t, tt.want, ids(FilterJobs(jobs, tt.filter)))
			assert.Equal(t, []int{1, 2, 3}, ids(jobs))
		})
	}
}

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "gpt-4o", DefaultModel("openai"))
	assert.Equal(t, "gemini-2.0-flash-exp", DefaultModel("gemini"))
	assert.Equal(t, "gpt-4o", DefaultModel("nope"))

	assert.Equal(t, "gemini-pro", ResolveModel("gemini", "gemini-pro"))
	assert.Equal(t, "claude-3-5-sonnet-20241022", ResolveModel("anthropic", "gpt-4o"))
}
