package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"blogapi/config"
	"blogapi/internal/db"
	"blogapi/internal/records"
	"blogapi/internal/server"
	"blogapi/internal/store"
)

func main() {
	logger := logrus.New()
	logger.Formatter = &logrus.JSONFormatter{}

	cfg := config.Load()
	ctx := context.Background()

	client, err := db.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		logger.WithError(err).Error("cannot connect to MongoDB")
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			logger.WithError(err).Error("cannot disconnect from MongoDB")
		}
	}()

	database := client.Database(cfg.Mongo.Database)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.WithError(err).Error("cannot create indexes")
		os.Exit(1)
	}

	postRecords := records.NewPostRecords(
		store.NewMongoCollection(database.Collection("posts")),
		records.PostDefaults{
			Tag:      cfg.Post.DefaultTag,
			Image:    cfg.Post.PlaceholderImage,
			PageSize: cfg.Post.PageSize,
		})
	userRecords := records.NewUserRecords(
		store.NewMongoCollection(database.Collection("users")))

	s := server.New(cfg, logger, postRecords, userRecords)
	if err := s.Start(); err != nil {
		logger.WithError(err).Error("server has been stopped")
		os.Exit(1)
	}
}
