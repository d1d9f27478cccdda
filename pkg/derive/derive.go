package derive

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Deriver computes passwords. The zero configuration uses SHA-512 and logs
// nothing. A Deriver holds no per-request state and may be used concurrently.
type Deriver struct {
	l         zerolog.Logger
	algorithm Algorithm
	chunk     chunkFunc
}

type Option func(*Deriver)

// WithLogger sets the logger that receives planning and worker progress at
// debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Deriver) {
		d.l = l
	}
}

func WithAlgorithm(a Algorithm) Option {
	return func(d *Deriver) {
		d.algorithm = a
	}
}

func New(opts ...Option) (*Deriver, error) {
	d := &Deriver{
		l:         zerolog.Nop(),
		algorithm: DefaultAlgorithm(),
	}
	for _, opt := range opts {
		opt(d)
	}
	newHash, err := d.algorithm.newHash()
	if err != nil {
		return nil, err
	}
	d.chunk = chunkHasher(newHash)
	d.l = d.l.With().
		Str("domain", "derive").
		Str("algorithm", d.algorithm.String()).
		Logger()
	return d, nil
}

func (d *Deriver) Algorithm() Algorithm {
	return d.algorithm
}

// Derive returns the password for req. One worker runs on the calling
// goroutine; more workers split the chunks into contiguous ranges. The output
// does not depend on the worker count.
func (d *Deriver) Derive(req *Request) (string, error) {
	if req == nil {
		return "", errors.Wrap(ErrInvalidParameter, "nil request")
	}
	if err := req.validate(); err != nil {
		return "", err
	}
	plan := PlanFor(req)
	d.l.Debug().
		Uint64("length", req.length).
		Uint64("repetitions", req.repetitions).
		Uint64("chunks", plan.Chunks).
		Uint64("workers", plan.Workers).
		Msg("derivation planned")

	var exec executor
	if req.workers == 1 {
		exec = newSequentialExecutor(d.l, d.chunk)
	} else {
		exec = newParallelExecutor(d.l, d.chunk)
	}
	out, err := exec.execute(req, plan)
	if err != nil {
		return "", errors.Wrap(err, "derive password")
	}
	return out[:req.length], nil
}

// DerivePassword derives with the default algorithm.
func DerivePassword(seed []byte, length, repetitions, workers uint64) (string, error) {
	req, err := NewRequest(seed, length, repetitions, workers)
	if err != nil {
		return "", err
	}
	d, err := New()
	if err != nil {
		return "", err
	}
	return d.Derive(req)
}
