package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const defaultConnectTimeout = 10 * time.Second

// NewClient connects and pings the server. Driver command and connection
// events are forwarded to zerolog at debug level.
func NewClient(ctx context.Context, cfg *ClientConfig) (*mongo.Client, error) {
	opts := options.
		Client().
		ApplyURI(cfg.URI).
		SetLoggerOptions(options.
			Logger().
			SetSink(newLogger(log.Logger)).
			SetComponentLevel(options.LogComponentCommand, options.LogLevelDebug).
			SetComponentLevel(options.LogComponentConnection, options.LogLevelDebug)).
		SetBSONOptions(&options.BSONOptions{
			UseJSONStructTags: true,
			NilSliceAsEmpty:   true,
		})
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongodb")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}
	return client, nil
}
