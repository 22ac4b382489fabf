package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/auth"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"github.com/justsurfingit/jobtracker-web/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler owns the session lifecycle and the token minting endpoint.
type AuthHandler struct {
	Store       *auth.SessionStore
	Minter      *auth.Minter
	AuthService *services.AuthService
}

func NewAuthHandler(store *auth.SessionStore, minter *auth.Minter, svc *services.AuthService) *AuthHandler {
	return &AuthHandler{Store: store, Minter: minter, AuthService: svc}
}

// Token is GET /api/auth/token. It mints a fresh backend token on every call.
func (h *AuthHandler) Token(c *gin.Context) {
	sess := requireSession(c, "Not authenticated")
	if sess == nil {
		return
	}
	token, _, err := h.Minter.Mint(sess)
	if err != nil {
		log.Error().Err(err).Msg("token mint failed")
		writeError(c, apierr.MintFailure("Failed to get token", err), nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Login is POST /api/auth/login. Credentials are checked by the backend; on
// success the returned identity becomes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	resp, err := h.AuthService.Login(c.Request.Context(), req)
	if err != nil {
		e, _ := apierr.As(err)
		if e != nil && e.Kind == apierr.KindBackendRejected {
			writeError(c, apierr.Unauthenticated("Invalid email or password", nil), nil)
			return
		}
		h.fail(c, err)
		return
	}
	h.establish(c, resp)
}

// Register is POST /api/auth/register. The backend's own message (for
// example a duplicate email) is passed through.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	resp, err := h.AuthService.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.establish(c, resp)
}

// Logout is POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Store.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session is GET /api/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	sess := requireSession(c, "Not authenticated")
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sessionUser(sess)})
}

func (h *AuthHandler) establish(c *gin.Context, resp *models.AuthResponse) {
	sess := &auth.Session{
		Subject:     strconv.Itoa(resp.User.ID),
		Email:       resp.User.Email,
		Name:        resp.User.Name,
		AccessToken: resp.Token,
	}
	if err := h.Store.Save(c.Writer, sess); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sessionUser(sess)})
}

func (h *AuthHandler) fail(c *gin.Context, err error) {
	e, ok := apierr.As(err)
	if !ok {
		e = apierr.Unexpected(err)
	}
	log.Warn().Err(err).Str("kind", e.Kind.String()).Msg("auth exchange failed")
	writeError(c, e, nil)
}

func sessionUser(s *auth.Session) gin.H {
	return gin.H{"id": s.Subject, "email": s.Email, "name": s.Name}
}
