package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"golang.org/x/oauth2"
)

// Messages shown inline by the job forms.
const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgStatusFailed   = "Failed to update status. Please try again."
	MsgUnknownStatus  = "Please choose a valid status"
)

// NewJob is what the add-job form collects.
type NewJob struct {
	Title       string
	Company     string
	Description string
	ResumeID    *int
}

// Submission normalizes the form: fields are trimmed, a blank company becomes
// "Unknown" and a missing resume is sent as null.
func (j NewJob) Submission() dtos.JobSubmission {
	return dtos.JobSubmission{
		Title:       strings.TrimSpace(j.Title),
		Company:     companyOrUnknown(j.Company),
		Description: strings.TrimSpace(j.Description),
		ResumeID:    j.ResumeID,
	}
}

// ListJobs is GET /api/job/list.
func (c *Client) ListJobs(ctx context.Context, sess *Session) ([]models.Job, error) {
	return c.listJobs(ctx, sess, nil)
}

func (c *Client) listJobs(ctx context.Context, sess *Session, op *Op) ([]models.Job, error) {
	var jobs []models.Job
	err := c.exec(ctx, sess, op, func(ctx context.Context, tok *oauth2.Token) error {
		var raw []byte
		r := request{method: http.MethodGet, path: "/api/job/list", timeout: readTimeout, fallback: "Failed to load jobs"}
		if err := c.direct(ctx, tok, r, &raw); err != nil {
			return err
		}
		var err error
		jobs, err = decodeList[models.Job](raw, "jobs")
		if err != nil {
			return apierr.Unexpected(err)
		}
		return nil
	})
	return jobs, err
}

// JobDetails is GET /api/job/{id}/details.
func (c *Client) JobDetails(ctx context.Context, sess *Session, jobID int) (*models.JobDetail, error) {
	var out models.JobDetail
	err := c.exec(ctx, sess, nil, func(ctx context.Context, tok *oauth2.Token) error {
		r := request{
			method:   http.MethodGet,
			path:     fmt.Sprintf("/api/job/%d/details", jobID),
			timeout:  readTimeout,
			fallback: "Failed to load job details",
		}
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitJob validates the form and submits it through the relay. Blank title
// or description is rejected before any network call.
func (c *Client) SubmitJob(ctx context.Context, sess *Session, job NewJob) (*models.JobSubmitResponse, error) {
	return c.submitJob(ctx, sess, nil, job)
}

func (c *Client) submitJob(ctx context.Context, sess *Session, op *Op, job NewJob) (*models.JobSubmitResponse, error) {
	sub := job.Submission()
	if err := c.validate.Struct(sub); err != nil {
		return nil, apierr.Validation(MsgRequiredFields)
	}
	r, err := jsonRequest(http.MethodPost, "/api/job/submit", sub, submitTimeout, "Failed to submit job")
	if err != nil {
		return nil, err
	}
	var out models.JobSubmitResponse
	err = c.exec(ctx, sess, op, func(ctx context.Context, _ *oauth2.Token) error {
		return c.proxied(ctx, sess, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateJobStatus is PATCH /api/job/status through the relay.
func (c *Client) UpdateJobStatus(ctx context.Context, sess *Session, jobID int, status string) error {
	return c.updateJobStatus(ctx, sess, nil, jobID, status)
}

func (c *Client) updateJobStatus(ctx context.Context, sess *Session, op *Op, jobID int, status string) error {
	upd := dtos.StatusUpdate{Status: strings.TrimSpace(status)}
	if err := c.validate.Struct(upd); err != nil || !models.IsKnownStatus(upd.Status) {
		return apierr.Validation(MsgUnknownStatus)
	}
	r, err := jsonRequest(http.MethodPatch, "/api/job/status", upd, statusTimeout, "Failed to update status")
	if err != nil {
		return err
	}
	r.query = url.Values{"job_id": {strconv.Itoa(jobID)}}
	return c.exec(ctx, sess, op, func(ctx context.Context, _ *oauth2.Token) error {
		return c.proxied(ctx, sess, r, nil)
	})
}
