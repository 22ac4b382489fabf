package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtracker-web/internal/auth"
	"github.com/justsurfingit/jobtracker-web/internal/config"
	"github.com/justsurfingit/jobtracker-web/internal/handlers"
	"github.com/justsurfingit/jobtracker-web/internal/logging"
	"github.com/justsurfingit/jobtracker-web/internal/services"
	"github.com/justsurfingit/jobtracker-web/internal/telemetry"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Environment Variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.TraceEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}

	// 2. Session cookies and backend tokens
	store, err := auth.NewSessionStore(auth.StoreOptions{
		Secret: cfg.SessionSecret,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.CookieSecure,
		Path:   cfg.BasePath + "/",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("SESSION_SECRET must be set")
	}
	minter := auth.NewMinter(cfg.TokenSecret)

	// 3. Backend clients
	proxy := services.NewProxyService(cfg.APIURL, nil)
	authService := services.NewAuthService(cfg.APIURL, nil)

	// 4. Router
	r := handlers.NewRouter(handlers.Deps{
		Config: cfg,
		Store:  store,
		Minter: minter,
		Proxy:  proxy,
		Auth:   authService,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           telemetry.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Str("api_url", cfg.APIURL).Str("base_path", cfg.BasePath).Msg("relay starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("relay shutting down")
		return errors.Join(srv.Shutdown(shutdownCtx), shutdownTracing(shutdownCtx))
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
