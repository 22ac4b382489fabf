package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtracker-web/internal/auth"
	"github.com/justsurfingit/jobtracker-web/internal/config"
	"github.com/justsurfingit/jobtracker-web/internal/logging"
	"github.com/justsurfingit/jobtracker-web/internal/services"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config *config.Config
	Store  *auth.SessionStore
	Minter *auth.Minter
	Proxy  *services.ProxyService
	Auth   *services.AuthService
}

// NewRouter builds the relay's gin engine. Every route lives under
// cfg.BasePath.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(logging.Middleware())
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
	}))

	if len(d.Config.CORSOrigins) > 0 {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = d.Config.CORSOrigins
		cc.AllowCredentials = true
		cc.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
		cc.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
		r.Use(cors.New(cc))
	}

	authHandler := NewAuthHandler(d.Store, d.Minter, d.Auth)
	proxyHandler := NewProxyHandler(d.Minter, d.Proxy, DefaultProxyRoutes(d.Config.Timeouts))

	base := r.Group(d.Config.BasePath)
	base.GET("/health", HealthCheck)

	api := base.Group("/api", SessionMiddleware(d.Store))
	{
		api.GET("/auth/token", authHandler.Token)
		api.GET("/auth/session", authHandler.Session)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/job/submit", proxyHandler.SubmitJob)
		api.PATCH("/job/status", proxyHandler.UpdateJobStatus)
		api.POST("/settings/test", proxyHandler.TestSettings)
	}

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(staticOrNotFound(d.Config.BasePath, d.Config.StaticDir))
	return r
}

// HealthCheck is GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// staticOrNotFound serves the exported front end from dir under basePath.
// API paths never fall through to files.
func staticOrNotFound(basePath, dir string) gin.HandlerFunc {
	var files http.Handler
	if dir != "" {
		files = http.StripPrefix(basePath, http.FileServer(http.Dir(dir)))
	}
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		servable := files != nil &&
			(c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) &&
			strings.HasPrefix(p, basePath+"/") &&
			!strings.HasPrefix(p, basePath+"/api/")
		if !servable {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}
