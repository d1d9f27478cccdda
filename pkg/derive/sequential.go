package derive

import (
	"strings"

	"github.com/rs/zerolog"
)

type executor interface {
	execute(req *Request, plan Plan) (string, error)
}

type sequentialExecutor struct {
	l     zerolog.Logger
	chunk chunkFunc
}

func newSequentialExecutor(l zerolog.Logger, chunk chunkFunc) *sequentialExecutor {
	return &sequentialExecutor{
		chunk: chunk,
		l: l.With().
			Str("executor", "sequential").
			Logger(),
	}
}

func (e *sequentialExecutor) execute(req *Request, plan Plan) (string, error) {
	e.l.Debug().Uint64("chunks", plan.Chunks).Msg("hashing chunks")
	var sb strings.Builder
	sb.Grow(int(plan.Chunks) * ChunkSize)
	for i := uint64(0); i < plan.Chunks; i++ {
		sb.WriteString(e.chunk(req.task(i)).Segment)
	}
	return sb.String(), nil
}
