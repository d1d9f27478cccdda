// Package base94 encodes byte strings over the 94 printable ASCII characters
// '!' through '~'.
//
// The input is read as a little-endian unsigned integer and digits are emitted
// least-significant first. Encode(nil, n) and the encoding of an all-zero input
// are both the empty string.
package base94

import (
	"math/big"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

const (
	// Alphabet is the digit set, in digit order.
	Alphabet = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

	MinBase = 2
	MaxBase = len(Alphabet)
)

var (
	ErrInvalidBase = errors.New("base must be between 2 and 94")
	ErrInvalidChar = errors.New("character outside of alphabet")
)

func checkBase(base int) error {
	if base < MinBase || base > MaxBase {
		return errors.Wrapf(ErrInvalidBase, "base %d", base)
	}
	return nil
}

// Encode returns data as a string of base-N digits.
func Encode(data []byte, base int) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	num := new(big.Int).SetBytes(reversed(data))
	radix := big.NewInt(int64(base))
	rem := new(big.Int)

	var sb strings.Builder
	sb.Grow(EncodedLen(len(data), base))
	for num.Sign() > 0 {
		num.QuoRem(num, radix, rem)
		sb.WriteByte(Alphabet[rem.Int64()])
	}
	return sb.String(), nil
}

// Decode is the inverse of Encode. Trailing zero digits ('!') carry no value,
// so the result is the shortest byte string that encodes to s.
func Decode(s string, base int) ([]byte, error) {
	if err := checkBase(base); err != nil {
		return nil, err
	}
	num := new(big.Int)
	radix := big.NewInt(int64(base))
	digit := new(big.Int)
	for i := len(s) - 1; i >= 0; i-- {
		d := strings.IndexByte(Alphabet[:base], s[i])
		if d < 0 {
			return nil, errors.Wrapf(ErrInvalidChar, "%q at offset %d", s[i], i)
		}
		num.Mul(num, radix)
		num.Add(num, digit.SetInt64(int64(d)))
	}
	return reversed(num.Bytes()), nil
}

// EncodedLen is an upper bound on the encoded length of n input bytes.
func EncodedLen(n, base int) int {
	perDigit := bits.Len(uint(base)) - 1
	if perDigit < 1 {
		perDigit = 1
	}
	return (n*8 + perDigit - 1) / perDigit
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
