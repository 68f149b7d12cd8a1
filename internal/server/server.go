package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"opentitles/api/internal/errreport"
	"opentitles/api/internal/metrics"
	"opentitles/api/internal/models"
	"opentitles/api/internal/server/api"
	"opentitles/api/internal/server/storage"
)

// HealthPath is the liveness endpoint probed by the healthcheck command.
const HealthPath = "/health"

const (
	shutdownTimeout   = 30 * time.Second
	healthPingTimeout = 2 * time.Second
	legacyPathPrefix  = "/opentitles"
)

// Options carries everything the HTTP layer needs. Store and Media are required.
type Options struct {
	BasePath      string
	Media         *models.MediaDefinition
	Store         storage.Store
	Metrics       *metrics.Metrics
	TelemetryAuth string
	Reporter      errreport.Reporter
	Logger        zerolog.Logger

	// SuggestionOptions are passed to the suggestions handler.
	SuggestionOptions []api.SuggestionsOption
}

// Server is the assembled HTTP handler plus the background work it owns.
type Server struct {
	handler     http.Handler
	suggestions *api.SuggestionsHandler
	logger      zerolog.Logger
}

// New wires routes and middleware.
func New(opts Options) *Server {
	logger := opts.Logger.With().Str("service", "opentitles-api").Logger()
	if opts.Reporter == nil {
		opts.Reporter = errreport.Nop{}
	}

	mediaHandler := api.NewMediaHandler(opts.Media, opts.BasePath)
	articlesHandler := api.NewArticlesHandler(opts.Store, opts.Reporter)
	suggestionsHandler := api.NewSuggestionsHandler(opts.Store, opts.Reporter, opts.Metrics, opts.SuggestionOptions...)

	base := opts.BasePath
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base+"/country", mediaHandler.ListCountries)
	mux.HandleFunc("GET "+base+"/country/{country}/org", mediaHandler.ListOrgs)
	mux.HandleFunc("GET "+base+"/country/{country}/org/{org}", mediaHandler.GetOrg)
	mux.HandleFunc("GET "+base+"/country/{country}/org/{org}/article", articlesHandler.ListRecent)
	mux.HandleFunc("GET "+base+"/country/{country}/org/{org}/article/{id}", articlesHandler.Get)
	mux.HandleFunc("POST "+base+"/suggest", suggestionsHandler.Submit)
	mux.HandleFunc("GET "+base+"/suggest", suggestionsHandler.List)

	mux.HandleFunc("GET "+legacyPathPrefix+"/article/{org}/{id}", articlesHandler.GetLegacy)
	// Incomplete legacy lookups get a 400 rather than a 404.
	mux.HandleFunc("GET "+legacyPathPrefix+"/article/", articlesHandler.GetLegacy)
	mux.HandleFunc("POST "+legacyPathPrefix+"/suggest", suggestionsHandler.Submit)
	mux.HandleFunc("GET "+legacyPathPrefix+"/suggest", suggestionsHandler.ListLegacy)

	mux.HandleFunc("GET "+HealthPath, healthCheckHandler(opts.Store))

	if opts.TelemetryAuth != "" && opts.Metrics != nil {
		mux.Handle("GET "+base+"/metrics", opts.Metrics.Handler(opts.TelemetryAuth))
		logger.Info().Str("path", base+"/metrics").Msg("Metrics endpoint enabled")
	} else {
		logger.Info().Msg("Metrics endpoint disabled")
	}

	// Metrics wraps the mux directly so it sees the matched route pattern.
	h := opts.Metrics.Middleware(mux)

	h = cors.New(cors.Options{
		AllowOriginFunc:  func(string) bool { return true },
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	}).Handler(h)

	h = hlog.NewHandler(logger)(h)
	h = hlog.MethodHandler("method")(h)
	h = hlog.URLHandler("url")(h)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		idReq, _ := hlog.IDFromRequest(r)

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("req_id", idReq.String()).
			Msg("HTTP Request")
	})(h)

	return &Server{
		handler:     h,
		suggestions: suggestionsHandler,
		logger:      logger,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Drain waits for background suggestion writes to finish.
func (s *Server) Drain(ctx context.Context) error {
	return s.suggestions.Wait(ctx)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully and drains background writes.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", ln.Addr().String()).Msg("API Server ready")
		err := httpServer.Serve(ln)
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			if err := httpServer.Close(); err != nil {
				s.logger.Error().Err(err).Msg("HTTP server force close error")
			}
		} else {
			s.logger.Info().Msg("HTTP server shutdown complete")
		}
		if err := <-serverErr; err != nil {
			s.logger.Error().Err(err).Msg("Serve error during shutdown")
		}

		if err := s.Drain(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("Background suggestion writes did not finish")
		}
	}

	s.logger.Info().Msg("Server exiting")
	return nil
}

// RunServer binds listenAddr and serves until SIGINT or SIGTERM. A bind
// failure is returned immediately.
func RunServer(opts Options, listenAddr string) error {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return New(opts).Serve(ctx, ln)
}

// healthCheckHandler answers 200 OK while the store responds to a ping.
func healthCheckHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r)

		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed: store unreachable")
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("Error writing health check response")
		}
	}
}
