package derive

import (
	"hash"
	"strconv"
	"strings"

	"github.com/ykhdr/seedpass/pkg/base94"
)

// Task identifies one chunk of a request. Seed is shared and must not be
// modified.
type Task struct {
	Index       uint64
	Seed        []byte
	Length      uint64
	Repetitions uint64
}

// Result is the encoded segment of one chunk, exactly ChunkSize characters.
type Result struct {
	Index   uint64
	Segment string
}

type chunkFunc func(Task) Result

func chunkHasher(newHash func() hash.Hash) chunkFunc {
	return func(t Task) Result {
		return hashChunk(newHash(), t)
	}
}

func hashChunk(h hash.Hash, t Task) Result {
	var num [20]byte
	h.Write(t.Seed)
	h.Write(strconv.AppendUint(num[:0], t.Index, 10))
	h.Write(strconv.AppendUint(num[:0], t.Length, 10))
	for i := uint64(0); i < t.Repetitions; i++ {
		h.Write(strconv.AppendUint(num[:0], i, 10))
	}
	return Result{Index: t.Index, Segment: segment(h.Sum(nil))}
}

// segment encodes a digest and fits it to ChunkSize. Missing high-order digits
// are zero digits.
func segment(sum []byte) string {
	enc, _ := base94.Encode(sum, base94.MaxBase)
	if len(enc) < ChunkSize {
		enc += strings.Repeat(base94.Alphabet[:1], ChunkSize-len(enc))
	}
	return enc[:ChunkSize]
}
