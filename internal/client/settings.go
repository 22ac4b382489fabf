package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"golang.org/x/oauth2"
)

// Provider is an AI provider the settings page offers.
type Provider struct {
	ID     string
	Name   string
	KeyURL string
	// Models are newest first; the first is the default.
	Models []string
}

// Providers is the settings catalogue in display order.
var Providers = []Provider{
	{
		ID:     "openai",
		Name:   "OpenAI",
		KeyURL: "https://platform.openai.com/api-keys",
		Models: []string{
			"gpt-4o", "gpt-4o-mini", "o1-preview", "o1-mini", "gpt-4-turbo",
			"gpt-4-turbo-preview", "gpt-4-0125-preview", "gpt-4-1106-preview", "gpt-4", "gpt-3.5-turbo",
		},
	},
	{
		ID:     "anthropic",
		Name:   "Anthropic Claude",
		KeyURL: "https://console.anthropic.com/settings/keys",
		Models: []string{
			"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022", "claude-3-5-sonnet-20240620",
			"claude-3-opus-20240229", "claude-3-sonnet-20240229", "claude-3-haiku-20240307",
		},
	},
	{
		ID:     "gemini",
		Name:   "Google Gemini",
		KeyURL: "https://aistudio.google.com/app/apikey",
		Models: []string{
			"gemini-2.0-flash-exp", "gemini-1.5-pro-latest", "gemini-1.5-flash-latest",
			"gemini-1.5-pro", "gemini-1.5-flash", "gemini-pro",
		},
	},
}

const (
	defaultProvider = "openai"
	fallbackModel   = "gpt-4o"

	MsgProviderRequired = "Please select a provider"
	MsgKeyRequired      = "Please enter an API key"
)

// LookupProvider finds a provider by id.
func LookupProvider(id string) (Provider, bool) {
	for _, p := range Providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// DefaultModel returns the provider's newest model.
func DefaultModel(provider string) string {
	p, ok := LookupProvider(provider)
	if !ok || len(p.Models) == 0 {
		return fallbackModel
	}
	return p.Models[0]
}

// ResolveModel keeps model when the provider offers it and otherwise returns
// the provider default. Switching provider goes through here.
func ResolveModel(provider, model string) string {
	if p, ok := LookupProvider(provider); ok {
		for _, m := range p.Models {
			if m == model {
				return m
			}
		}
	}
	return DefaultModel(provider)
}

// GetSettings is GET /api/settings. Missing fields are filled with defaults.
func (c *Client) GetSettings(ctx context.Context, sess *Session) (*models.Settings, error) {
	var out models.Settings
	err := c.exec(ctx, sess, nil, func(ctx context.Context, tok *oauth2.Token) error {
		r := request{method: http.MethodGet, path: "/api/settings", timeout: readTimeout, fallback: "Failed to load settings"}
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	if out.AIProvider == "" {
		out.AIProvider = defaultProvider
	}
	if out.ModelPreference == "" {
		out.ModelPreference = DefaultModel(out.AIProvider)
	}
	return &out, nil
}

// SaveSettings is PUT /api/settings. An empty key keeps the stored one.
func (c *Client) SaveSettings(ctx context.Context, sess *Session, upd dtos.SettingsUpdate) (*models.Settings, error) {
	upd.AIProvider = strings.TrimSpace(upd.AIProvider)
	upd.APIKey = strings.TrimSpace(upd.APIKey)
	if err := c.validate.Struct(upd); err != nil {
		return nil, apierr.Validation(MsgProviderRequired)
	}
	upd.ModelPreference = ResolveModel(upd.AIProvider, upd.ModelPreference)
	r, err := jsonRequest(http.MethodPut, "/api/settings", upd, writeTimeout, "Failed to save settings")
	if err != nil {
		return nil, err
	}
	var out models.Settings
	err = c.exec(ctx, sess, nil, func(ctx context.Context, tok *oauth2.Token) error {
		return c.direct(ctx, tok, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TestConnection checks a provider key through the relay. A backend answer
// with success false is returned as a result, not an error.
func (c *Client) TestConnection(ctx context.Context, sess *Session, t dtos.ConnectionTest) (*models.ConnectionTestResponse, error) {
	t.AIProvider = strings.TrimSpace(t.AIProvider)
	t.APIKey = strings.TrimSpace(t.APIKey)
	if t.AIProvider == "" {
		return nil, apierr.Validation(MsgProviderRequired)
	}
	if err := c.validate.Struct(t); err != nil {
		return nil, apierr.Validation(MsgKeyRequired)
	}
	if t.ModelPreference != "" {
		t.ModelPreference = ResolveModel(t.AIProvider, t.ModelPreference)
	}
	r, err := jsonRequest(http.MethodPost, "/api/settings/test", t, testTimeout, "Connection test failed")
	if err != nil {
		return nil, err
	}
	var out models.ConnectionTestResponse
	err = c.exec(ctx, sess, nil, func(ctx context.Context, _ *oauth2.Token) error {
		return c.proxied(ctx, sess, r, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
