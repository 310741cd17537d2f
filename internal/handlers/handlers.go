package handlers

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/crowdfund/docs"
	campaignhandlers "github.com/GlebRadaev/crowdfund/internal/handlers/campaign"
	"github.com/GlebRadaev/crowdfund/internal/service"
	"github.com/GlebRadaev/crowdfund/pkg/auth"
)

type CampaignHandler interface {
	Initialize(w http.ResponseWriter, r *http.Request)
	ListCampaigns(w http.ResponseWriter, r *http.Request)
	GetCampaign(w http.ResponseWriter, r *http.Request)
	GetContributions(w http.ResponseWriter, r *http.Request)
	GetStake(w http.ResponseWriter, r *http.Request)
	Contribute(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	Refund(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	CampaignHandler CampaignHandler
	jwtService      auth.JWTServiceInterface
}

func New(s *service.Services, jwtService auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		CampaignHandler: campaignhandlers.New(s.CampaignService),
		jwtService:      jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/campaigns", func(r chi.Router) {
		r.Get("/", h.CampaignHandler.ListCampaigns)
		r.Get("/{campaignID}", h.CampaignHandler.GetCampaign)
		r.Get("/{campaignID}/contributions", h.CampaignHandler.GetContributions)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(h.jwtService))
			r.Post("/", h.CampaignHandler.Initialize)
			r.Get("/{campaignID}/stake", h.CampaignHandler.GetStake)
			r.Post("/{campaignID}/contribute", h.CampaignHandler.Contribute)
			r.Post("/{campaignID}/withdraw", h.CampaignHandler.Withdraw)
			r.Post("/{campaignID}/refund", h.CampaignHandler.Refund)
		})
	})

	return r
}
