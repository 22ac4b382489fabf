package client

import (
	"context"
	"errors"
	"sync"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// View is a copy of the dashboard state for rendering.
type View struct {
	Jobs    []models.Job
	Resumes []models.Resume
	// Error is the last failed load or action, shown above the table.
	Error string
	// StatusError is shown next to the status control.
	StatusError string
}

// Dashboard holds the job and resume lists of one signed-in user. Each
// control has its own Op, so a control is disabled only while its own
// operation runs. Whichever response lands last is what the lists show.
type Dashboard struct {
	client *Client
	sess   *Session

	JobsOp      *Op
	ResumesOp   *Op
	StatusOp    *Op
	AddJobOp    *Op
	AddResumeOp *Op

	mu   sync.Mutex
	view View
}

func NewDashboard(c *Client, sess *Session) *Dashboard {
	return &Dashboard{
		client:      c,
		sess:        sess,
		JobsOp:      NewOp("jobs"),
		ResumesOp:   NewOp("resumes"),
		StatusOp:    NewOp("status"),
		AddJobOp:    NewOp("add-job"),
		AddResumeOp: NewOp("add-resume"),
	}
}

// View returns a snapshot of the current state.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.view
	v.Jobs = append([]models.Job(nil), d.view.Jobs...)
	v.Resumes = append([]models.Resume(nil), d.view.Resumes...)
	return v
}

// Refresh loads jobs and resumes concurrently. A list that fails to load
// keeps its previous contents and the banner shows why; a clean reload
// clears the banner. A list already loading is left to finish on its own.
func (d *Dashboard) Refresh(ctx context.Context) error {
	var g errgroup.Group
	errs := make([]error, 2)
	g.Go(func() error { errs[0] = d.refreshJobs(ctx); return nil })
	g.Go(func() error { errs[1] = d.refreshResumes(ctx); return nil })
	_ = g.Wait()

	var inFlight error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, ErrInFlight):
			inFlight = err
		default:
			d.setError(apierr.MessageOf(err, "Failed to load dashboard"))
			return err
		}
	}
	if inFlight != nil {
		return inFlight
	}
	d.setError("")
	return nil
}

func (d *Dashboard) refreshJobs(ctx context.Context) error {
	jobs, err := d.client.listJobs(ctx, d.sess, d.JobsOp)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.view.Jobs = jobs
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) refreshResumes(ctx context.Context) error {
	resumes, err := d.client.listResumes(ctx, d.sess, d.ResumesOp)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.view.Resumes = resumes
	d.mu.Unlock()
	return nil
}

// ChangeStatus updates one job's status. On failure the list is left as it
// was and StatusError is set.
func (d *Dashboard) ChangeStatus(ctx context.Context, jobID int, status string) error {
	err := d.client.updateJobStatus(ctx, d.sess, d.StatusOp, jobID, status)
	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		switch {
		case errors.Is(err, ErrInFlight):
		case apierr.KindOf(err) == apierr.KindValidation:
			d.view.StatusError = apierr.MessageOf(err, MsgUnknownStatus)
		default:
			log.Debug().Err(err).Int("job_id", jobID).Msg("status update failed")
			d.view.StatusError = MsgStatusFailed
		}
		return err
	}
	d.view.StatusError = ""
	for i := range d.view.Jobs {
		if d.view.Jobs[i].ID == jobID {
			d.view.Jobs[i].ApplicationStatus = status
		}
	}
	return nil
}

// AddJob submits the form and reloads the job list.
func (d *Dashboard) AddJob(ctx context.Context, job NewJob) (*models.JobSubmitResponse, error) {
	out, err := d.client.submitJob(ctx, d.sess, d.AddJobOp, job)
	if err != nil {
		return nil, err
	}
	d.reloaded(d.refreshJobs(ctx), "Failed to load jobs")
	return out, nil
}

// AddResume uploads a file and reloads the resume list. The quota is checked
// against the resumes currently shown.
func (d *Dashboard) AddResume(ctx context.Context, u Upload) (*models.ResumeUploadResponse, error) {
	d.mu.Lock()
	existing := len(d.view.Resumes)
	d.mu.Unlock()

	out, err := d.client.uploadResume(ctx, d.sess, d.AddResumeOp, existing, u)
	if err != nil {
		return nil, err
	}
	d.reloaded(d.refreshResumes(ctx), "Failed to load resumes")
	return out, nil
}

// reloaded reports a refetch after an add. A reload already running through
// Refresh will deliver the list itself, so ErrInFlight is not a failure.
func (d *Dashboard) reloaded(err error, fallback string) {
	if err != nil && !errors.Is(err, ErrInFlight) {
		d.setError(apierr.MessageOf(err, fallback))
	}
}

func (d *Dashboard) setError(msg string) {
	d.mu.Lock()
	d.view.Error = msg
	d.mu.Unlock()
}
