package passgen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/seedpass/pkg/derive"
	"github.com/ykhdr/seedpass/pkg/messages"
	"github.com/ykhdr/seedpass/worker/config"
	"github.com/ykhdr/seedpass/worker/internal/store/jobstore"
)

var ErrLimitExceeded = errors.New("request exceeds worker limits")

// Service validates requests against the worker limits, derives passwords and
// records a job per request.
type Service struct {
	l        zerolog.Logger
	cfg      *config.DeriveConfig
	derivers map[derive.Algorithm]*derive.Deriver
	jobs     jobstore.Store
	now      func() time.Time
}

func NewService(cfg *config.DeriveConfig, jobs jobstore.Store) (*Service, error) {
	l := log.With().
		Str("domain", "passgen").
		Logger()
	derivers := make(map[derive.Algorithm]*derive.Deriver)
	for _, a := range []derive.Algorithm{derive.SHA512, derive.BLAKE2b512, derive.SHA3512} {
		d, err := derive.New(derive.WithAlgorithm(a), derive.WithLogger(l))
		if err != nil {
			return nil, err
		}
		derivers[a] = d
	}
	return &Service{
		l:        l,
		cfg:      cfg,
		derivers: derivers,
		jobs:     jobs,
		now:      time.Now,
	}, nil
}

// IsClientError reports whether err was caused by the request rather than by
// the worker.
func IsClientError(err error) bool {
	return errors.Is(err, derive.ErrInvalidParameter) ||
		errors.Is(err, derive.ErrUnknownAlgorithm) ||
		errors.Is(err, ErrLimitExceeded)
}

// Derive handles one request. The returned response always carries the job id;
// on failure it also carries the error text.
func (s *Service) Derive(ctx context.Context, req *messages.DeriveRequest) (*messages.DeriveResponse, error) {
	job := &jobstore.Job{
		ID:          uuid.NewString(),
		RequestId:   req.RequestId,
		Status:      jobstore.StatusNew,
		Length:      req.Length,
		Repetitions: req.Repetitions,
		Workers:     req.Workers,
		Algorithm:   req.Algorithm,
		CreatedAt:   s.now(),
	}
	resp := &messages.DeriveResponse{Id: job.ID, RequestId: req.RequestId}
	l := s.l.With().Str("job-id", job.ID).Str("req-id", req.RequestId).Logger()

	d, dreq, err := s.prepare(req)
	if err == nil {
		job.Workers = dreq.Workers()
		job.Algorithm = d.Algorithm().String()
		job.Status = jobstore.StatusInProgress
	}
	if serr := s.jobs.Save(ctx, job); serr != nil {
		l.Warn().Err(serr).Msg("failed to save job")
	}
	if err == nil {
		l.Debug().
			Uint64("length", job.Length).
			Uint64("repetitions", job.Repetitions).
			Uint64("workers", job.Workers).
			Msg("deriving password")
		resp.Password, err = d.Derive(dreq)
	}

	status, reason := jobstore.StatusReady, ""
	if err != nil {
		status, reason = jobstore.StatusError, err.Error()
		resp.Error = reason
		l.Warn().Err(err).Msg("derivation failed")
	}
	if ferr := s.jobs.Finish(ctx, job.ID, status, reason, s.now()); ferr != nil {
		l.Warn().Err(ferr).Msg("failed to finish job")
	}
	return resp, err
}

func (s *Service) prepare(req *messages.DeriveRequest) (*derive.Deriver, *derive.Request, error) {
	algorithm, err := derive.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, nil, err
	}
	if req.Algorithm == "" {
		algorithm, _ = derive.ParseAlgorithm(s.cfg.Algorithm)
	}
	workers := req.Workers
	if workers == 0 {
		workers = s.cfg.Workers
	}
	switch {
	case req.Length > s.cfg.MaxLength:
		return nil, nil, errors.Wrapf(ErrLimitExceeded, "length %d > %d", req.Length, s.cfg.MaxLength)
	case req.Repetitions > s.cfg.MaxRepetitions:
		return nil, nil, errors.Wrapf(ErrLimitExceeded, "repetitions %d > %d", req.Repetitions, s.cfg.MaxRepetitions)
	case workers > s.cfg.MaxWorkers:
		return nil, nil, errors.Wrapf(ErrLimitExceeded, "workers %d > %d", workers, s.cfg.MaxWorkers)
	}
	dreq, err := derive.NewRequest([]byte(req.Seed), req.Length, req.Repetitions, workers)
	if err != nil {
		return nil, nil, err
	}
	return s.derivers[algorithm], dreq, nil
}
