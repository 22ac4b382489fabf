package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"golang.org/x/oauth2"
)

const (
	// MaxResumes is how many resumes an account may hold.
	MaxResumes = 5
	// MaxResumeSize is the upload limit in bytes.
	MaxResumeSize = 5 << 20

	MsgResumeQuota = "Maximum 5 resumes allowed. Please delete an existing resume first."
	MsgResumeSize  = "File size must be less than 5MB"
	MsgResumeType  = "Please upload a PDF or DOCX file"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Upload is a resume file picked by the user.
type Upload struct {
	Name string
	Data []byte
}

// Check applies the local upload rules given how many resumes already exist.
// It returns the detected content type.
func (u Upload) Check(existing int) (string, error) {
	if existing >= MaxResumes {
		return "", apierr.Validation(MsgResumeQuota)
	}
	if len(u.Data) > MaxResumeSize {
		return "", apierr.Validation(MsgResumeSize)
	}
	mt := mimetype.Detect(u.Data)
	switch {
	case mt.Is(mimePDF):
		return mimePDF, nil
	case mt.Is(mimeDOCX):
		return mimeDOCX, nil
	case mt.Is("application/zip") && strings.EqualFold(filepath.Ext(u.Name), ".docx"):
		// minimal docx archives sniff as plain zip
		return mimeDOCX, nil
	}
	return "", apierr.Validation(MsgResumeType)
}

// ListResumes is GET /api/resume/list.
func (c *Client) ListResumes(ctx context.Context, sess *Session) ([]models.Resume, error) {
	return c.listResumes(ctx, sess, nil)
}

func (c *Client) listResumes(ctx context.Context, sess *Session, op *Op) ([]models.Resume, error) {
	var resumes []models.Resume
	err := c.exec(ctx, sess, op, func(ctx context.Context, tok *oauth2.Token) error {
		var raw []byte
		r := request{method: http.MethodGet, path: "/api/resume/list", timeout: readTimeout, fallback: "Failed to load resumes"}
		if err := c.direct(ctx, tok, r, &raw); err != nil {
			return err
		}
		var err error
		resumes, err = decodeList[models.Resume](raw, "resumes")
		if err != nil {
			return apierr.Unexpected(err)
		}
		return nil
	})
	return resumes, err
}

// UploadResume posts the file as multipart field "resume". existing is the
// number of resumes the user already has; the quota is enforced locally
// before any network call.
func (c *Client) UploadResume(ctx context.Context, sess *Session, existing int, u Upload) (*models.ResumeUploadResponse, error) {
	return c.uploadResume(ctx, sess, nil, existing, u)
}

func (c *Client) uploadResume(ctx context.Context, sess *Session, op *Op, existing int, u Upload) (*models.ResumeUploadResponse, error) {
	contentType, err := u.Check(existing)
	if err != nil {
		return nil, err
	}
	body, formType, err := multipartBody(u, contentType)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	var out models.ResumeUploadResponse
	err = c.exec(ctx, sess, op, func(ctx context.Context, tok *oauth2.Token) error {
		r := request{
			method:      http.MethodPost,
			path:        "/api/resume/upload",
			body:        body,
			contentType: formType,
			timeout:     writeTimeout,
			fallback:    "Failed to upload resume",
		}
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(u Upload, contentType string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, filepath.Base(u.Name)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
