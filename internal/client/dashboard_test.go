package client

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/config"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func listHandlers(s *stack, jobs []map[string]any, resumes int) {
	s.mux.HandleFunc("GET /api/job/list", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, jobs)
	}))
	s.mux.HandleFunc("GET /api/resume/list", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		out := make([]map[string]any, resumes)
		for i := range out {
			out[i] = map[string]any{"resume_id": i + 1, "name": "cv.pdf"}
		}
		writeJSON(w, http.StatusOK, map[string]any{"resumes": out})
	}))
}

func TestDashboard_Refresh(t *testing.T) {
	s := newStack(t)
	listHandlers(s, []map[string]any{{"job_id": 1, "title": "Go", "application_status": "applied"}}, 2)
	d := NewDashboard(s.client, s.signIn())

	require.NoError(t, d.Refresh(context.Background()))

	v := d.View()
	assert.Len(t, v.Jobs, 1)
	assert.Len(t, v.Resumes, 2)
	assert.Empty(t, v.Error)
	assert.Equal(t, 2, s.count("relay /api/auth/token"))
}

func TestDashboard_ChangeStatusTimeoutKeepsList(t *testing.T) {
	s := newStack(t, func(c *config.Config) { c.Timeouts.JobStatus = 30 * time.Millisecond })
	listHandlers(s, []map[string]any{{"job_id": 1, "title": "Go", "application_status": "applied"}}, 0)
	s.mux.HandleFunc("PATCH /api/job/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	d := NewDashboard(s.client, s.signIn())
	require.NoError(t, d.Refresh(context.Background()))

	err := d.ChangeStatus(context.Background(), 1, models.StatusInterviewing)

	e, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, e.Status)
	assert.Equal(t, apierr.MsgTimeout, e.Message)
	v := d.View()
	assert.Equal(t, MsgStatusFailed, v.StatusError)
	assert.Equal(t, models.StatusApplied, v.Jobs[0].ApplicationStatus)
	assert.False(t, d.StatusOp.Busy())
}

func TestDashboard_ChangeStatusMerges(t *testing.T) {
	s := newStack(t)
	listHandlers(s, []map[string]any{
		{"job_id": 1, "title": "Go", "application_status": "applied"},
		{"job_id": 2, "title": "Rust", "application_status": "applied"},
	}, 0)
	s.mux.HandleFunc("PATCH /api/job/{id}/status", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}))
	d := NewDashboard(s.client, s.signIn())
	require.NoError(t, d.Refresh(context.Background()))

	require.NoError(t, d.ChangeStatus(context.Background(), 2, models.StatusOfferReceived))

	v := d.View()
	assert.Equal(t, models.StatusApplied, v.Jobs[0].ApplicationStatus)
	assert.Equal(t, models.StatusOfferReceived, v.Jobs[1].ApplicationStatus)
	assert.Empty(t, v.StatusError)
}

func TestDashboard_AddJobRefetches(t *testing.T) {
	s := newStack(t)
	listHandlers(s, nil, 0)
	s.mux.HandleFunc("POST /api/job/submit", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"job_id": 4, "status": "processing"})
	}))
	d := NewDashboard(s.client, s.signIn())

	out, err := d.AddJob(context.Background(), NewJob{Title: "Go", Description: "Go"})
	require.NoError(t, err)
	assert.Equal(t, 4, out.JobID)
	assert.Equal(t, 1, s.count("backend /api/job/list"))
}

func TestDashboard_AddResumeQuotaMakesNoCall(t *testing.T) {
	s := newStack(t)
	listHandlers(s, nil, MaxResumes)
	d := NewDashboard(s.client, s.signIn())
	require.NoError(t, d.Refresh(context.Background()))
	before := s.total()

	_, err := d.AddResume(context.Background(), Upload{Name: "cv.pdf", Data: pdfBytes})

	e, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgResumeQuota, e.Message)
	assert.Equal(t, before, s.total())
}

func TestDashboard_AddResumeUploadsMultipart(t *testing.T) {
	s := newStack(t)
	listHandlers(s, nil, 1)
	var got []byte
	var gotType string
	s.mux.HandleFunc("POST /api/resume/upload", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if !assert.NoError(t, err) {
			return
		}
		part, err := multipart.NewReader(r.Body, params["boundary"]).NextPart()
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "resume", part.FormName())
		assert.Equal(t, "cv.pdf", part.FileName())
		gotType = part.Header.Get("Content-Type")
		got, _ = io.ReadAll(part)
		writeJSON(w, http.StatusOK, map[string]any{"resume_id": 2, "parse_summary": map[string]any{"education_count": 1}})
	}))
	d := NewDashboard(s.client, s.signIn())

	out, err := d.AddResume(context.Background(), Upload{Name: "/tmp/cv.pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, 2, out.ResumeID)
	assert.True(t, bytes.Equal(pdfBytes, got))
	assert.Equal(t, mimePDF, gotType)
	assert.Len(t, d.View().Resumes, 1)
}

func TestUpload_Check(t *testing.T) {
	tests := []struct {
		name     string
		upload   Upload
		existing int
		want     string
	}{
		{"quota", Upload{Name: "cv.pdf", Data: pdfBytes}, MaxResumes, MsgResumeQuota},
		{"too large", Upload{Name: "cv.pdf", Data: append(append([]byte{}, pdfBytes...), make([]byte, MaxResumeSize)...)}, 0, MsgResumeSize},
		{"plain text", Upload{Name: "cv.txt", Data: []byte("just some text")}, 0, MsgResumeType},
		{"renamed text", Upload{Name: "cv.pdf", Data: []byte("just some text")}, 0, MsgResumeType},
		{"pdf", Upload{Name: "cv.pdf", Data: pdfBytes}, MaxResumes - 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.upload.Check(tt.existing)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, apierr.MessageOf(err, ""))
		})
	}
}

func TestDashboard_RetryClearsBanner(t *testing.T) {
	s := newStack(t)
	var calls atomic.Int32
	s.mux.HandleFunc("GET /api/job/list", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "db down"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"job_id": 1, "title": "Go"}})
	}))
	s.mux.HandleFunc("GET /api/resume/list", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	}))
	d := NewDashboard(s.client, s.signIn())

	require.Error(t, d.Refresh(context.Background()))
	assert.Equal(t, "db down", d.View().Error)

	require.NoError(t, d.Refresh(context.Background()))
	v := d.View()
	assert.Len(t, v.Jobs, 1)
	assert.Empty(t, v.Error)
}

func TestDashboard_AddJobWhileListLoading(t *testing.T) {
	s := newStack(t)
	listHandlers(s, nil, 0)
	s.mux.HandleFunc("POST /api/job/submit", s.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"job_id": 4, "status": "processing"})
	}))
	d := NewDashboard(s.client, s.signIn())
	d.JobsOp.state.Store(int32(StateCallingBackend))

	_, err := d.AddJob(context.Background(), NewJob{Title: "Go", Description: "Go"})
	require.NoError(t, err)
	assert.Empty(t, d.View().Error)
	assert.Zero(t, s.count("backend /api/job/list"))
}

func TestDashboard_ChangeStatusInvalidStatus(t *testing.T) {
	s := newStack(t)
	listHandlers(s, []map[string]any{{"job_id": 1, "title": "Go", "application_status": "applied"}}, 0)
	d := NewDashboard(s.client, s.signIn())
	require.NoError(t, d.Refresh(context.Background()))
	before := s.total()

	err := d.ChangeStatus(context.Background(), 1, "ghosted")

	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
	assert.Equal(t, MsgUnknownStatus, d.View().StatusError)
	assert.Equal(t, before, s.total())
}
