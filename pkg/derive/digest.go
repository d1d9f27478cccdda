package derive

import (
	"crypto/sha512"
	"hash"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

type Algorithm string

const (
	SHA512     Algorithm = "sha512"
	BLAKE2b512 Algorithm = "blake2b-512"
	SHA3512    Algorithm = "sha3-512"
)

func DefaultAlgorithm() Algorithm {
	return SHA512
}

// ParseAlgorithm maps a configuration name to an Algorithm. The empty name
// selects the default.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case "":
		return DefaultAlgorithm(), nil
	case SHA512, BLAKE2b512, SHA3512:
		return a, nil
	default:
		return "", errors.Wrapf(ErrUnknownAlgorithm, "%q", name)
	}
}

func (a Algorithm) String() string {
	return string(a)
}

func (a Algorithm) newHash() (func() hash.Hash, error) {
	switch a {
	case SHA512:
		return sha512.New, nil
	case BLAKE2b512:
		return func() hash.Hash {
			// unkeyed, cannot fail
			h, _ := blake2b.New512(nil)
			return h
		}, nil
	case SHA3512:
		return sha3.New512, nil
	default:
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "%q", string(a))
	}
}
