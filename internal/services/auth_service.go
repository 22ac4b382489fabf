package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"github.com/justsurfingit/jobtracker-web/internal/telemetry"
)

// credentialTimeout bounds the login and register exchanges.
const credentialTimeout = 15 * time.Second

// AuthService exchanges credentials with the backend. The relay never checks
// passwords itself.
type AuthService struct {
	BaseURL string
	Client  *http.Client
}

// NewAuthService returns an exchanger for baseURL. A nil client means a traced
// client over http.DefaultTransport.
func NewAuthService(baseURL string, client *http.Client) *AuthService {
	if client == nil {
		client = telemetry.Client()
	}
	return &AuthService{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

// Login calls POST /api/auth/login.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*models.AuthResponse, error) {
	return s.exchange(ctx, "/api/auth/login", req, "Login failed")
}

// Register calls POST /api/auth/register.
func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) (*models.AuthResponse, error) {
	return s.exchange(ctx, "/api/auth/register", req, "Registration failed")
}

func (s *AuthService) exchange(ctx context.Context, path string, payload any, fallback string) (*models.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, credentialTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apierr.Unexpected(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.FromTransport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierr.Rejected(resp.StatusCode, data, fallback)
	}
	var out models.AuthResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apierr.Unexpected(err)
	}
	if out.Token == "" || out.User == nil {
		return nil, apierr.Unexpected(errors.New("backend auth response is missing token or user"))
	}
	return &out, nil
}
