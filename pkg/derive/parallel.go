package derive

import (
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type parallelExecutor struct {
	l     zerolog.Logger
	chunk chunkFunc
}

func newParallelExecutor(l zerolog.Logger, chunk chunkFunc) *parallelExecutor {
	return &parallelExecutor{
		chunk: chunk,
		l: l.With().
			Str("executor", "parallel").
			Logger(),
	}
}

// execute hashes every range of the plan on its own goroutine. Each goroutine
// writes only the slots of its own range, and Wait is the only barrier, so the
// slots need no locking and are read in index order afterwards.
func (e *parallelExecutor) execute(req *Request, plan Plan) (string, error) {
	if plan.Workers < req.workers {
		e.l.Debug().
			Uint64("requested", req.workers).
			Uint64("workers", plan.Workers).
			Msg("reduced worker count to chunk count")
	}
	slots := make([]string, plan.Chunks)

	var g errgroup.Group
	for w, r := range plan.Ranges {
		g.Go(func() error {
			return e.work(req, w, r, slots)
		})
	}
	if err := g.Wait(); err != nil {
		e.l.Error().Err(err).Msg("derivation aborted")
		return "", err
	}

	var sb strings.Builder
	sb.Grow(int(plan.Chunks) * ChunkSize)
	for _, s := range slots {
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (e *parallelExecutor) work(req *Request, worker int, r Range, slots []string) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &WorkerError{Worker: worker, Range: r, Value: v, Stack: debug.Stack()}
		}
	}()
	e.l.Debug().Int("worker", worker).Stringer("range", r).Msg("worker started")
	for i := r.Start; i < r.End; i++ {
		slots[i] = e.chunk(req.task(i)).Segment
	}
	e.l.Debug().Int("worker", worker).Msg("worker finished")
	return nil
}
