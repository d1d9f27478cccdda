// Package derive turns a low-entropy seed into a fixed-length password over the
// 94 printable ASCII characters.
//
// The password is built from fixed-size chunks. Chunk i is the base-94 encoding
// of a digest over the seed, the decimal chunk index, the decimal target length
// and the decimals 0..repetitions-1, cut to ChunkSize characters. Chunks depend
// only on those inputs, so they can be computed on any number of goroutines and
// the result is the same for every worker count.
package derive
