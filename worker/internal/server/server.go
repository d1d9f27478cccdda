package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/seedpass/common/consul"
	"github.com/ykhdr/seedpass/common/http/middleware"
	"github.com/ykhdr/seedpass/pkg/messages"
	"github.com/ykhdr/seedpass/worker/config"
	"github.com/ykhdr/seedpass/worker/internal/passgen"
	"github.com/ykhdr/seedpass/worker/internal/store/jobstore"
	"github.com/ykhdr/seedpass/worker/pkg/worker"
)

const (
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 5 * time.Second
)

type deriver interface {
	Derive(ctx context.Context, req *messages.DeriveRequest) (*messages.DeriveResponse, error)
}

type Server struct {
	l            zerolog.Logger
	cfg          *config.WorkerConfig
	svc          deriver
	jobs         jobstore.Store
	consulClient consul.Client
}

func NewServer(cfg *config.WorkerConfig, svc deriver, jobs jobstore.Store, consulClient consul.Client) *Server {
	return &Server{
		cfg:          cfg,
		svc:          svc,
		jobs:         jobs,
		consulClient: consulClient,
		l: log.With().
			Str("domain", "server").
			Str("type", "http").
			Logger(),
	}
}

// Start serves until ctx is done, registering the worker in consul while the
// listener is up.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr())
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	srv := &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	serviceId, err := s.consulClient.RegisterService(worker.ServiceName, s.cfg.AdvertiseAddress, s.cfg.ServerPort)
	if err != nil {
		_ = ln.Close()
		s.l.Warn().Err(err).Msg("error register service in consul")
		return err
	}
	defer func() {
		if err := s.consulClient.DeregisterService(serviceId); err != nil {
			s.l.Warn().Err(err).Msg("error deregister service in consul")
		}
	}()

	errC := make(chan error, 1)
	go func() {
		errC <- srv.Serve(ln)
	}()
	s.l.Info().Str("address", s.cfg.Url()).Msg("worker is running")

	select {
	case err := <-errC:
		s.l.Error().Err(err).Msg("worker server failed")
		return errors.Wrap(err, "worker server failed")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	s.l.Debug().Msg("worker server stopped")
	return nil
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(s.l))
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.ApplicationJsonContentTypeMiddleware())
	api.HandleFunc("/derive", s.handleDerive).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}", s.handleJob).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.l.Warn().Err(err).Msg("failed to write health response")
	}
}

func (s *Server) handleDerive(w http.ResponseWriter, r *http.Request) {
	var req messages.DeriveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.l.Warn().Err(err).Msg("invalid request")
		s.writeJSON(w, http.StatusBadRequest, &messages.DeriveResponse{Error: "invalid request body"})
		return
	}
	resp, err := s.svc.Derive(r.Context(), &req)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, resp)
	case passgen.IsClientError(err):
		s.writeJSON(w, http.StatusBadRequest, resp)
	default:
		s.writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, jobstore.ErrNotFound):
		http.Error(w, "job not found", http.StatusNotFound)
	case err != nil:
		s.l.Warn().Err(err).Msg("failed to load job")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		s.writeJSON(w, http.StatusOK, job)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.Warn().Err(err).Msg("failed to encode response")
	}
}
