package main

import (
	"github.com/sirupsen/logrus"

	"workhive-api/internal/auth"
	"workhive-api/internal/config"
	"workhive-api/internal/database"
	"workhive-api/internal/realtime"
	"workhive-api/internal/routes"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.SeedAdmin(db, cfg, log); err != nil {
		log.WithError(err).Fatal("failed to seed admin account")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	hub := realtime.NewHub()

	ginRoutes := routes.SetupRoutes(routes.Deps{
		DB:     db,
		Tokens: tokens,
		Hub:    hub,
		Cfg:    cfg,
		Log:    log,
	})

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("server starting")
	if err := ginRoutes.Run(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
