package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"golang.org/x/oauth2"
)

const (
	// DefaultAIContent is the improve slider's starting position.
	DefaultAIContent = 50

	MsgAIContentRange = "AI content percentage must be between 0 and 100"
	MsgPickResumeJob  = "Please select a resume and a job"
	MsgRecipientEmail = "Please enter a valid email address"
)

func pairQuery(resumeID, jobID int) url.Values {
	return url.Values{
		"resume_id": {strconv.Itoa(resumeID)},
		"job_id":    {strconv.Itoa(jobID)},
	}
}

// MatchScore is GET /api/match-score.
func (c *Client) MatchScore(ctx context.Context, sess *Session, resumeID, jobID int) (*models.MatchScore, error) {
	if resumeID <= 0 || jobID <= 0 {
		return nil, apierr.Validation(MsgPickResumeJob)
	}
	var out models.MatchScore
	err := c.exec(ctx, sess, nil, func(ctx context.Context, tok *oauth2.Token) error {
		r := request{
			method:   http.MethodGet,
			path:     "/api/match-score",
			query:    pairQuery(resumeID, jobID),
			timeout:  generationTimeout,
			fallback: "Failed to calculate match score",
		}
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ImproveResume is POST /api/resume/improve. The backend reads its arguments
// from the query string, so they are sent there and repeated in the body.
func (c *Client) ImproveResume(ctx context.Context, sess *Session, resumeID, jobID, aiContent int) (*models.ResumeImproveResponse, error) {
	if resumeID <= 0 || jobID <= 0 {
		return nil, apierr.Validation(MsgPickResumeJob)
	}
	if aiContent < 0 || aiContent > 100 {
		return nil, apierr.Validation(MsgAIContentRange)
	}
	payload := map[string]int{"resume_id": resumeID, "job_id": jobID, "ai_content_percentage": aiContent}
	r, err := jsonRequest(http.MethodPost, "/api/resume/improve", payload, generationTimeout, "Failed to generate improvements")
	if err != nil {
		return nil, err
	}
	r.query = pairQuery(resumeID, jobID)
	r.query.Set("ai_content_percentage", strconv.Itoa(aiContent))

	var out models.ResumeImproveResponse
	err = c.exec(ctx, sess, nil, func(ctx context.Context, tok *oauth2.Token) error {
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RecruiterMessage is POST /api/message/recruiter. When an email is given the
// backend also sends the message.
func (c *Client) RecruiterMessage(ctx context.Context, sess *Session, req dtos.RecruiterMessageRequest) (*models.MessageResponse, error) {
	req.RecipientName = strings.TrimSpace(req.RecipientName)
	req.RecipientEmail = strings.TrimSpace(req.RecipientEmail)
	if req.ResumeID <= 0 || req.JobID <= 0 {
		return nil, apierr.Validation(MsgPickResumeJob)
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, apierr.Validation(MsgRecipientEmail)
	}
	r, err := jsonRequest(http.MethodPost, "/api/message/recruiter", req, generationTimeout, "Failed to generate message")
	if err != nil {
		return nil, err
	}
	var out models.MessageResponse
	err = c.exec(ctx, sess, nil, func(ctx context.Context, tok *oauth2.Token) error {
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History is GET /api/user/history.
func (c *Client) History(ctx context.Context, sess *Session) (*models.History, error) {
	var out models.History
	err := c.exec(ctx, sess, nil, func(ctx context.Context, tok *oauth2.Token) error {
		r := request{method: http.MethodGet, path: "/api/user/history", timeout: readTimeout, fallback: "Failed to load history"}
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
