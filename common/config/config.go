package config

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/seedpass/common/internal/kdl"
)

const DefaultConfigPath = "./config/config.kdl"

type validator interface {
	Validate() error
}

// InitializeConfig loads the KDL file named by args[0], or DefaultConfigPath
// when args is empty, over defaultCfg. A missing default file is not an error.
// The global logger is configured from the result.
func InitializeConfig[T any](args []string, defaultCfg T) (*T, error) {
	configPath, explicit := DefaultConfigPath, false
	if len(args) > 0 {
		configPath, explicit = args[0], true
	}
	config, err := kdl.UnmarshalFile[T](configPath, defaultCfg)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		config = defaultCfg
	default:
		return nil, errors.Wrapf(err, "load config %s", configPath)
	}
	if v, ok := any(&config).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid config")
		}
	}
	setupLogger(&config, os.Stdout)
	log.Debug().Str("path", configPath).Msg("config initialized")
	return &config, nil
}
