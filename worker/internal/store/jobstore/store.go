package jobstore

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("job not found")

type Store interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	Finish(ctx context.Context, id string, status Status, errorReason string, finishedAt time.Time) error
}

type memoryStore struct {
	m    sync.RWMutex
	data map[string]*Job
}

// NewMemoryStore keeps jobs for the lifetime of the process.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]*Job)}
}

func (s *memoryStore) Save(_ context.Context, job *Job) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.data[job.ID] = job.Copy()
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*Job, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	job, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.Copy(), nil
}

func (s *memoryStore) Finish(_ context.Context, id string, status Status, errorReason string, finishedAt time.Time) error {
	s.m.Lock()
	defer s.m.Unlock()
	job, ok := s.data[id]
	if !ok {
		return ErrNotFound
	}
	job.Status = status
	job.ErrorReason = errorReason
	job.FinishedAt = finishedAt
	return nil
}
