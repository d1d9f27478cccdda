package kdl

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sblinch/kdl-go"
)

// UnmarshalFile decodes the KDL document at path over defaultCfg, so values
// missing from the file keep their defaults.
func UnmarshalFile[T any](path string, defaultCfg T) (T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultCfg, err
	}
	return Unmarshal(data, defaultCfg)
}

func Unmarshal[T any](data []byte, defaultCfg T) (T, error) {
	var nilT T
	if err := kdl.Unmarshal(data, &defaultCfg); err != nil {
		return nilT, errors.Wrap(err, "decode kdl")
	}
	return defaultCfg, nil
}
