package dtos

// LoginRequest is the body of the relay's credential sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
	Name     string `json:"name"`
}

// JobSubmission is forwarded to the backend unchanged. ResumeID is encoded as
// null when no resume is attached.
type JobSubmission struct {
	Title       string `json:"job_title" validate:"required"`
	Company     string `json:"company"`
	Description string `json:"description" validate:"required"`
	ResumeID    *int   `json:"resume_id"`
}

type StatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// SettingsUpdate leaves the stored key untouched when APIKey is empty.
type SettingsUpdate struct {
	AIProvider      string `json:"ai_provider" validate:"required"`
	APIKey          string `json:"api_key,omitempty"`
	ModelPreference string `json:"model_preference,omitempty"`
}

type ConnectionTest struct {
	AIProvider      string `json:"ai_provider" validate:"required"`
	APIKey          string `json:"api_key" validate:"required"`
	ModelPreference string `json:"model_preference,omitempty"`
}

type RecruiterMessageRequest struct {
	ResumeID       int    `json:"resume_id" validate:"required"`
	JobID          int    `json:"job_id" validate:"required"`
	RecipientName  string `json:"recipient_name,omitempty"`
	RecipientEmail string `json:"recipient_email,omitempty" validate:"omitempty,email"`
}
