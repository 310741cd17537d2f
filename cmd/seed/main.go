package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"github.com/GlebRadaev/crowdfund/internal/config"
	"github.com/GlebRadaev/crowdfund/internal/seed"
	"github.com/GlebRadaev/crowdfund/pkg/auth"
	"github.com/GlebRadaev/crowdfund/pkg/clients"
	"github.com/GlebRadaev/crowdfund/pkg/lamports"
	"github.com/GlebRadaev/crowdfund/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.NewSeed()
	if err := logger.InitLogger(cfg.LogLvl, "seed"); err != nil {
		log.Fatal().Err(err).Msg("Can't init logger")
	}

	seeder := seed.New(cfg.BaseURL, clients.NewHTTPClient(), auth.NewJWTService(cfg.JWTSecret), cfg.Workers)
	seeded, err := seeder.Run(ctx, cfg.Campaigns)
	if err != nil {
		log.Error().Err(err).Msg("Seeding failed")
		zap.L().Fatal("Seeding failed: ", zap.Error(err))
	}

	for _, s := range seeded {
		zap.L().Info("campaign seeded",
			zap.String("campaignID", s.CampaignID),
			zap.String("goal_sol", lamports.ToSOL(s.Goal)),
			zap.Int64("deadline", s.Deadline),
			zap.Int("backers", len(s.Backers)))
	}
	zap.L().Info("Seed data created successfully")
}
