package derive

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestParallel_ReassemblesByIndexNotArrival(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash := d.chunk
	// earlier chunks finish last
	d.chunk = func(task Task) Result {
		time.Sleep(time.Duration(10-task.Index) * time.Millisecond)
		runtime.Gosched()
		return hash(task)
	}
	req, err := NewRequest([]byte("order"), 10*ChunkSize, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := d.Derive(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := derive(t, "order", 10*ChunkSize, 2, 1); got != want {
		t.Fatalf("parallel output depends on completion order")
	}
}

func TestParallel_EachChunkHashedOnce(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash := d.chunk
	counts := make([]atomic.Int32, ChunkCount(1000))
	d.chunk = func(task Task) Result {
		counts[task.Index].Add(1)
		return hash(task)
	}
	req, err := NewRequest([]byte("count"), 1000, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := d.Derive(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range counts {
		if n := counts[i].Load(); n != 1 {
			t.Fatalf("chunk %d hashed %d times", i, n)
		}
	}
}

func TestParallel_WorkerPanicFailsWholeDerivation(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash := d.chunk
	d.chunk = func(task Task) Result {
		if task.Index == 3 {
			panic("disk on fire")
		}
		return hash(task)
	}
	req, err := NewRequest([]byte("boom"), 6*ChunkSize, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := d.Derive(req)
	if out != "" {
		t.Fatalf("expected no partial output, got %q", out)
	}
	if !errors.Is(err, ErrWorkerFailure) {
		t.Fatalf("expected ErrWorkerFailure, got %v", err)
	}
	var werr *WorkerError
	if !errors.As(err, &werr) {
		t.Fatalf("expected *WorkerError in chain, got %T", err)
	}
	if werr.Worker != 1 || werr.Range != (Range{Start: 2, End: 4}) || werr.Value != "disk on fire" {
		t.Fatalf("unexpected worker error: %+v", werr)
	}
	if len(werr.Stack) == 0 {
		t.Fatalf("expected stack trace")
	}
}
