package service

import (
	"github.com/GlebRadaev/crowdfund/internal/handlers/campaign"
	"github.com/GlebRadaev/crowdfund/internal/repo"
	"github.com/GlebRadaev/crowdfund/internal/service/campaignservice"
)

type Services struct {
	CampaignService campaign.Service
}

func New(repo *repo.Repositories, publisher campaignservice.Publisher) *Services {
	campaignService := campaignservice.New(repo.CampaignRepo, repo.ContributionRepo, repo.TxManager, publisher)

	return &Services{
		CampaignService: campaignService,
	}
}
