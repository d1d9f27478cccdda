package config

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/seedpass/common/amqp"
	"github.com/ykhdr/seedpass/common/config"
	"github.com/ykhdr/seedpass/common/consul"
	"github.com/ykhdr/seedpass/common/store/mongo"
	"github.com/ykhdr/seedpass/pkg/derive"
	wnet "github.com/ykhdr/seedpass/worker/internal/net"
)

type DeriveConfig struct {
	Workers        uint64 `kdl:"workers"`
	MaxWorkers     uint64 `kdl:"max-workers"`
	Algorithm      string `kdl:"algorithm"`
	MaxLength      uint64 `kdl:"max-length"`
	MaxRepetitions uint64 `kdl:"max-repetitions"`
}

// WorkerConfig is loaded from KDL. The amqp, consul and mongodb blocks are
// optional; leaving one out disables that integration.
type WorkerConfig struct {
	config.LogConfig
	ServerPort       int            `kdl:"server-port"`
	AdvertiseAddress string         `kdl:"advertise-address"`
	DeriveConfig     *DeriveConfig  `kdl:"derive"`
	AmqpConfig       *amqp.Config   `kdl:"amqp"`
	ConsulConfig     *consul.Config `kdl:"consul"`
	MongoDBConfig    *mongo.Config  `kdl:"mongodb"`
}

func DefaultConfig() *WorkerConfig {
	workers := uint64(runtime.NumCPU())
	return &WorkerConfig{
		LogConfig:  config.LogConfig{LogLevel: "info"},
		ServerPort: 8080,
		DeriveConfig: &DeriveConfig{
			Workers:        workers,
			MaxWorkers:     4 * workers,
			Algorithm:      derive.DefaultAlgorithm().String(),
			MaxLength:      4096,
			MaxRepetitions: 1_000_000,
		},
	}
}

func InitializeConfig(args []string) (*WorkerConfig, error) {
	cfg, err := config.InitializeConfig[WorkerConfig](args, *DefaultConfig())
	if err != nil {
		return nil, err
	}
	if cfg.AdvertiseAddress == "" {
		addr, err := wnet.FindAvailableIPv4Addr()
		if err != nil {
			log.Warn().Err(err).Msg("no routable address found, advertising loopback")
			cfg.AdvertiseAddress = "127.0.0.1"
		} else {
			cfg.AdvertiseAddress = addr.String()
		}
	}
	return cfg, nil
}

func (c *WorkerConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func (c *WorkerConfig) Url() string {
	return fmt.Sprintf("%s:%d", c.AdvertiseAddress, c.ServerPort)
}

func (c *WorkerConfig) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return errors.Errorf("server-port %d out of range", c.ServerPort)
	}
	if c.DeriveConfig == nil {
		return errors.New("derive block is required")
	}
	if err := c.DeriveConfig.Validate(); err != nil {
		return errors.Wrap(err, "derive")
	}
	if c.AmqpConfig != nil {
		if c.AmqpConfig.URI == "" {
			return errors.New("amqp: uri is required")
		}
		if c.AmqpConfig.ConsumerConfig == nil || c.AmqpConfig.ConsumerConfig.Queue == "" {
			return errors.New("amqp: consumer queue is required")
		}
		if c.AmqpConfig.PublisherConfig == nil {
			return errors.New("amqp: publisher block is required")
		}
	}
	if c.MongoDBConfig != nil && c.MongoDBConfig.Database == "" {
		return errors.New("mongodb: database is required")
	}
	return nil
}

func (c *DeriveConfig) Validate() error {
	if _, err := derive.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	switch {
	case c.Workers == 0:
		return errors.New("workers must be positive")
	case c.MaxWorkers < c.Workers:
		return errors.New("max-workers must not be below workers")
	case c.MaxLength == 0:
		return errors.New("max-length must be positive")
	case c.MaxRepetitions == 0:
		return errors.New("max-repetitions must be positive")
	}
	return nil
}
