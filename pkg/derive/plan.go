package derive

import "fmt"

// ChunkSize is the number of password characters one chunk contributes. A
// 64-byte digest encodes to at most 79 base-94 digits.
const ChunkSize = 75

// ChunkCount is ceil(length / ChunkSize), never less than one.
func ChunkCount(length uint64) uint64 {
	n := length / ChunkSize
	if length%ChunkSize != 0 || n == 0 {
		n++
	}
	return n
}

// Range is the half-open chunk index interval [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) Len() uint64 {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Plan describes how a request is split between workers.
type Plan struct {
	Chunks  uint64
	Workers uint64
	Ranges  []Range
}

// PlanFor computes the chunk count and the partition of a request.
func PlanFor(r *Request) Plan {
	chunks := ChunkCount(r.length)
	ranges := Partition(chunks, r.workers)
	return Plan{
		Chunks:  chunks,
		Workers: uint64(len(ranges)),
		Ranges:  ranges,
	}
}

// Partition splits [0, chunks) into contiguous ranges, one per worker. The
// worker count is clamped to [1, chunks]. The first chunks%workers ranges get
// one extra index.
func Partition(chunks, workers uint64) []Range {
	if chunks == 0 {
		return nil
	}
	if workers == 0 {
		workers = 1
	}
	if workers > chunks {
		workers = chunks
	}
	base, extra := chunks/workers, chunks%workers
	ranges := make([]Range, 0, workers)
	var start uint64
	for w := uint64(0); w < workers; w++ {
		size := base
		if w < extra {
			size++
		}
		ranges = append(ranges, Range{Start: start, End: start + size})
		start += size
	}
	return ranges
}
