package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/ykhdr/seedpass/common/amqp"
	"github.com/ykhdr/seedpass/common/consul"
	"github.com/ykhdr/seedpass/common/store/mongo"
	"github.com/ykhdr/seedpass/worker/config"
	"github.com/ykhdr/seedpass/worker/internal/passgen"
	"github.com/ykhdr/seedpass/worker/internal/server"
	"github.com/ykhdr/seedpass/worker/internal/store/jobstore"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.InitializeConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing config")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var consulClient consul.Client = consul.Noop{}
	if cfg.ConsulConfig != nil {
		if consulClient, err = consul.NewClient(cfg.ConsulConfig); err != nil {
			log.Fatal().Err(err).Msg("Error initializing consul client")
		}
	}

	jobs := jobstore.NewMemoryStore()
	if cfg.MongoDBConfig != nil {
		mongoClient, err := mongo.NewClient(ctx, &cfg.MongoDBConfig.ClientConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing mongo client")
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		jobs = jobstore.NewMongoStore(mongoClient.Database(cfg.MongoDBConfig.Database))
	}

	svc, err := passgen.NewService(cfg.DeriveConfig, jobs)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing passgen service")
	}

	group, gCtx := errgroup.WithContext(ctx)
	srv := server.NewServer(cfg, svc, jobs, consulClient)
	group.Go(func() error {
		return srv.Start(gCtx)
	})
	if cfg.AmqpConfig != nil {
		amqpConn, err := amqp.Dial(gCtx, cfg.AmqpConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing amqp connection")
		}
		defer func() { _ = amqpConn.Close() }()
		listener := passgen.NewQueueListener(cfg.AmqpConfig, svc, amqpConn)
		group.Go(func() error {
			return listener.Start(gCtx)
		})
	}
	if err = group.Wait(); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Worker failed")
	}
}
