package derive

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrWorkerFailure    = errors.New("worker failure")
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")
)

// WorkerError reports a panic raised while a worker was hashing its range.
type WorkerError struct {
	Worker int
	Range  Range
	Value  any
	Stack  []byte
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed on chunks %s: %v", e.Worker, e.Range, e.Value)
}

func (e *WorkerError) Unwrap() error {
	return ErrWorkerFailure
}
