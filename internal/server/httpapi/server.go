// Package httpapi exposes the authentication service over HTTP. The
// refresh token never appears in response bodies: it travels in a
// secure, http-only, same-site-strict cookie scoped to the refresh
// endpoint path, with a lifetime matching the server-side expiry window.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/eventspark/auth-service/internal/logging"
	"github.com/eventspark/auth-service/internal/server/services"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth/refresh"

	shutdownTimeout = 5 * time.Second
)

type Server struct {
	address         string
	service         *services.AuthService
	refreshValidity time.Duration
	logger          logging.Logger
}

func NewServer(address string, service *services.AuthService, refreshValidity time.Duration, logger logging.Logger) *Server {
	return &Server{
		address:         address,
		service:         service,
		refreshValidity: refreshValidity,
		logger:          logger.With("module", "http_server"),
	}
}

// Router builds the route table. Exposed separately so tests can drive
// handlers without binding a socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/auth").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/credentials", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/credentials/password", s.handleChangePassword).Methods(http.MethodPut)
	api.HandleFunc("/credentials/email", s.handleChangeEmail).Methods(http.MethodPut)

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
