package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func main() {
	log := logrus.New()

	cfg, err := LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.WithField("url", cfg.MongoURL).Info("connecting to MongoDB")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		log.WithError(err).Fatal("connect to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.WithError(err).Fatal("ping MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("disconnect from MongoDB")
		}
	}()

	store := NewStore(client.Database(cfg.DBName))
	if err := seedDatabase(ctx, store, log); err != nil {
		log.WithError(err).Fatal("seed database")
	}

	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	srv := newServer(cfg, log, store, ping)

	log.WithField("addr", cfg.Addr).Info("StyleHub API listening")
	if err := srv.router().Run(cfg.Addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
