package models

import "encoding/json"

// User is the account returned by the backend login and register routes.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is the body of /api/auth/login and /api/auth/register.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Job statuses the dashboard knows about. The backend may return others; they
// are displayed as applied.
const (
	StatusApplied       = "applied"
	StatusInterviewing  = "interviewing"
	StatusOfferReceived = "offer_received"
	StatusRejected      = "rejected"
)

// KnownStatuses lists the statuses in pipeline order.
var KnownStatuses = []string{StatusApplied, StatusInterviewing, StatusOfferReceived, StatusRejected}

// IsKnownStatus reports whether s is one of KnownStatuses.
func IsKnownStatus(s string) bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

type Job struct {
	ID                int      `json:"job_id"`
	Title             string   `json:"title"`
	Company           *string  `json:"company"`
	Description       string   `json:"description_text"`
	ApplicationStatus string   `json:"application_status"`
	ResumeID          *int     `json:"resume_id"`
	PostedAt          string   `json:"posted_at"`
	MatchScore        *float64 `json:"match_score"`
}

// CompanyName returns the company or "" when the backend has none.
func (j Job) CompanyName() string {
	if j.Company == nil {
		return ""
	}
	return *j.Company
}

// DisplayStatus folds unknown statuses into applied.
func (j Job) DisplayStatus() string {
	if IsKnownStatus(j.ApplicationStatus) {
		return j.ApplicationStatus
	}
	return StatusApplied
}

// JobDetail is a Job plus the generated artifacts stored with it.
type JobDetail struct {
	Job
	RecruiterMessage  *string         `json:"recruiter_message"`
	ReferralMessage   *string         `json:"referral_message"`
	ResumeSuggestions json.RawMessage `json:"resume_suggestions"`
}

type JobSubmitResponse struct {
	JobID  int    `json:"job_id"`
	Status string `json:"status"`
}

type Resume struct {
	ID         int    `json:"resume_id"`
	Name       string `json:"name"`
	UploadedAt string `json:"uploaded_at"`
}

type ParseSummary struct {
	Name            string `json:"name,omitempty"`
	EducationCount  int    `json:"education_count"`
	ExperienceCount int    `json:"experience_count"`
}

type ResumeUploadResponse struct {
	ResumeID     int          `json:"resume_id"`
	ParseSummary ParseSummary `json:"parse_summary"`
}

// Settings is the AI provider configuration. The stored key is only ever
// returned masked.
type Settings struct {
	AIProvider      string `json:"ai_provider"`
	APIKeyMasked    string `json:"api_key_masked,omitempty"`
	ModelPreference string `json:"model_preference,omitempty"`
}

type ConnectionTestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type MatchDetails struct {
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceMatch float64 `json:"experience_match"`
	OverallFit      float64 `json:"overall_fit"`
}

type MatchScore struct {
	JobID         int           `json:"job_id"`
	ResumeID      int           `json:"resume_id"`
	Score         float64       `json:"score"`
	MissingSkills []string      `json:"missing_skills"`
	Details       *MatchDetails `json:"details,omitempty"`
}

type ResumeImprovement struct {
	OriginalBullet string `json:"original_bullet"`
	ImprovedBullet string `json:"improved_bullet"`
}

type ResumeImproveResponse struct {
	ResumeID     int                 `json:"resume_id"`
	Improvements []ResumeImprovement `json:"improvements"`
	NewBullets   []string            `json:"new_bullets"`
}

type MessageResponse struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
}

type History struct {
	Resumes []struct {
		ResumeID   int    `json:"resume_id"`
		UploadedAt string `json:"uploaded_at"`
	} `json:"resumes"`
	Jobs []struct {
		JobID    int     `json:"job_id"`
		Title    string  `json:"title"`
		Company  *string `json:"company"`
		PostedAt string  `json:"posted_at"`
	} `json:"jobs"`
	Recommendations []struct {
		ID        int    `json:"id"`
		JobID     int    `json:"job_id"`
		ResumeID  int    `json:"resume_id"`
		CreatedAt string `json:"created_at"`
	} `json:"recommendations"`
}
