package derive

import (
	"math"

	"github.com/pkg/errors"
)

// MaxLength is the longest password a Request accepts. The assembled output
// must fit in an int-sized buffer on every platform.
const MaxLength = math.MaxInt32 / ChunkSize * ChunkSize

// Request is a validated set of derivation parameters. It is immutable after
// NewRequest and safe to share between goroutines.
type Request struct {
	seed        []byte
	length      uint64
	repetitions uint64
	workers     uint64
}

// NewRequest copies seed and checks that length, repetitions and workers are
// all at least one and that length does not exceed MaxLength.
func NewRequest(seed []byte, length, repetitions, workers uint64) (*Request, error) {
	r := &Request{
		seed:        append([]byte(nil), seed...),
		length:      length,
		repetitions: repetitions,
		workers:     workers,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Request) validate() error {
	switch {
	case r.length == 0:
		return errors.Wrap(ErrInvalidParameter, "target length must be positive")
	case r.length > MaxLength:
		return errors.Wrapf(ErrInvalidParameter, "target length %d exceeds %d", r.length, MaxLength)
	case r.repetitions == 0:
		return errors.Wrap(ErrInvalidParameter, "repetition count must be positive")
	case r.workers == 0:
		return errors.Wrap(ErrInvalidParameter, "worker count must be positive")
	}
	return nil
}

func (r *Request) Length() uint64      { return r.length }
func (r *Request) Repetitions() uint64 { return r.repetitions }
func (r *Request) Workers() uint64     { return r.workers }

func (r *Request) task(index uint64) Task {
	return Task{
		Index:       index,
		Seed:        r.seed,
		Length:      r.length,
		Repetitions: r.repetitions,
	}
}
