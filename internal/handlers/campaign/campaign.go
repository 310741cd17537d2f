package campaign

//go:generate mockgen -source=campaign.go -destination=mock_campaign.go -package=campaign

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/crowdfund/internal/domain"
	"github.com/GlebRadaev/crowdfund/internal/dto"
	"github.com/GlebRadaev/crowdfund/internal/service/campaignservice"
	"github.com/GlebRadaev/crowdfund/pkg/auth"
	"github.com/GlebRadaev/crowdfund/pkg/lamports"
	"github.com/GlebRadaev/crowdfund/pkg/utils"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Service interface {
	Initialize(ctx context.Context, creator string, goal int64, deadline time.Time) (*domain.Campaign, error)
	Contribute(ctx context.Context, campaignID, contributor string, amount int64) (*domain.Receipt, error)
	Withdraw(ctx context.Context, campaignID, caller string) (*domain.Payout, error)
	Refund(ctx context.Context, campaignID, contributor string) (*domain.Payout, error)
	GetCampaign(ctx context.Context, campaignID string) (*domain.CampaignSummary, error)
	ListCampaigns(ctx context.Context, limit int) ([]domain.CampaignSummary, error)
	GetContributions(ctx context.Context, campaignID string) ([]domain.Contribution, error)
	GetStake(ctx context.Context, campaignID, contributor string) (int64, error)
}

type CampaignHandler struct {
	campaignService Service
}

func New(campaignService Service) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{campaignservice.ErrInvalidParameters, http.StatusBadRequest, "InvalidParameters"},
	{campaignservice.ErrInvalidAmount, http.StatusBadRequest, "InvalidAmount"},
	{campaignservice.ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
	{campaignservice.ErrCampaignNotFound, http.StatusNotFound, "CampaignNotFound"},
	{campaignservice.ErrAlreadyInitialized, http.StatusConflict, "AlreadyInitialized"},
	{campaignservice.ErrAlreadyFinalized, http.StatusConflict, "AlreadyFinalized"},
	{campaignservice.ErrCampaignClosed, http.StatusUnprocessableEntity, "CampaignClosed"},
	{campaignservice.ErrNotYetEligible, http.StatusUnprocessableEntity, "NotYetEligible"},
	{campaignservice.ErrNothingToRefund, http.StatusUnprocessableEntity, "NothingToRefund"},
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			utils.RespondWithCode(w, kind.status, kind.code, kind.err.Error())
			return
		}
	}
	utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return account, ok
}

// Initialize godoc
//
//	@Summary		Open a campaign
//	@Description	Open the caller's campaign with a goal in lamports and a unix deadline. One campaign per creator.
//	@Tags			Campaigns
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.InitializeCampaignRequestDTO	true	"Goal and deadline"
//	@Success		201		{object}	dto.CampaignResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid parameters"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		409		{object}	utils.Response	"Campaign already initialized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns [post]
func (h *CampaignHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	creator, ok := caller(w, r)
	if !ok {
		return
	}

	var req dto.InitializeCampaignRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	campaign, err := h.campaignService.Initialize(r.Context(), creator, req.Goal, time.Unix(req.Deadline, 0))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toCampaignDTO(*campaign))
}

// ListCampaigns godoc
//
//	@Summary		List campaigns
//	@Description	Newest campaigns first with their resolved status.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			limit	query		int	false	"Max campaigns (default 50, max 500)"
//	@Success		200		{array}		dto.CampaignResponseDTO
//	@Success		204		{object}	utils.Response	"No campaigns"
//	@Failure		400		{object}	utils.Response	"Invalid limit"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns [get]
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}

	summaries, err := h.campaignService.ListCampaigns(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if len(summaries) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Campaigns not found")
		return
	}

	response := make([]dto.CampaignResponseDTO, len(summaries))
	for i, s := range summaries {
		response[i] = toCampaignDTO(s.Campaign)
		response[i].Status = string(s.Status)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetCampaign godoc
//
//	@Summary		Campaign summary
//	@Description	Campaign state with resolved status and the lamports still held in its vault.
//	@Tags			Campaigns
//	@Produce		json
//	@Param			campaignID	path		string	true	"Campaign id (creator account)"
//	@Success		200			{object}	dto.CampaignResponseDTO
//	@Failure		404			{object}	utils.Response	"Campaign not found"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns/{campaignID} [get]
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	summary, err := h.campaignService.GetCampaign(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	response := toCampaignDTO(summary.Campaign)
	response.Status = string(summary.Status)
	vault := summary.VaultBalance
	response.VaultBalance = &vault
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetContributions godoc
//
//	@Summary		Contribution audit trail
//	@Tags			Campaigns
//	@Produce		json
//	@Param			campaignID	path		string	true	"Campaign id"
//	@Success		200			{array}		dto.ContributionResponseDTO
//	@Success		204			{object}	utils.Response	"No contributions"
//	@Failure		404			{object}	utils.Response	"Campaign not found"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns/{campaignID}/contributions [get]
func (h *CampaignHandler) GetContributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.campaignService.GetContributions(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if len(contributions) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Contributions not found")
		return
	}

	response := make([]dto.ContributionResponseDTO, len(contributions))
	for i, c := range contributions {
		response[i] = dto.ContributionResponseDTO{
			Contributor: c.Contributor,
			Amount:      c.Amount,
			AmountSOL:   lamports.ToSOL(c.Amount),
			Refunded:    c.Refunded,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// GetStake godoc
//
//	@Summary		Caller's stake
//	@Description	Cumulative amount the caller has contributed to the campaign, zero when none.
//	@Tags			Campaigns
//	@Security		BearerAuth
//	@Produce		json
//	@Param			campaignID	path		string	true	"Campaign id"
//	@Success		200			{object}	dto.StakeResponseDTO
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns/{campaignID}/stake [get]
func (h *CampaignHandler) GetStake(w http.ResponseWriter, r *http.Request) {
	contributor, ok := caller(w, r)
	if !ok {
		return
	}
	campaignID := chi.URLParam(r, "campaignID")

	amount, err := h.campaignService.GetStake(r.Context(), campaignID, contributor)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.StakeResponseDTO{
		CampaignID:  campaignID,
		Contributor: contributor,
		Amount:      amount,
		AmountSOL:   lamports.ToSOL(amount),
	})
}

// Contribute godoc
//
//	@Summary		Contribute lamports
//	@Tags			Campaigns
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			campaignID	path		string					true	"Campaign id"
//	@Param			request		body		dto.ContributeRequestDTO	true	"Amount in lamports"
//	@Success		200			{object}	dto.ReceiptResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid amount"
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		404			{object}	utils.Response	"Campaign not found"
//	@Failure		422			{object}	utils.Response	"Campaign closed"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns/{campaignID}/contribute [post]
func (h *CampaignHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	contributor, ok := caller(w, r)
	if !ok {
		return
	}

	var req dto.ContributeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.campaignService.Contribute(r.Context(), chi.URLParam(r, "campaignID"), contributor, req.Amount)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ReceiptResponseDTO{
		CampaignID:     receipt.CampaignID,
		Contributor:    receipt.Contributor,
		Amount:         receipt.Amount,
		AmountSOL:      lamports.ToSOL(receipt.Amount),
		Stake:          receipt.Stake,
		TotalRaised:    receipt.TotalRaised,
		TotalRaisedSOL: lamports.ToSOL(receipt.TotalRaised),
	})
}

// Withdraw godoc
//
//	@Summary		Creator withdraws the raised funds
//	@Description	Pays the whole raised amount to the creator once the deadline passed with the goal met. Succeeds once.
//	@Tags			Campaigns
//	@Security		BearerAuth
//	@Produce		json
//	@Param			campaignID	path		string	true	"Campaign id"
//	@Success		200			{object}	dto.PayoutResponseDTO
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		403			{object}	utils.Response	"Caller is not the creator"
//	@Failure		404			{object}	utils.Response	"Campaign not found"
//	@Failure		409			{object}	utils.Response	"Already finalized"
//	@Failure		422			{object}	utils.Response	"Not yet eligible"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns/{campaignID}/withdraw [post]
func (h *CampaignHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}

	payout, err := h.campaignService.Withdraw(r.Context(), chi.URLParam(r, "campaignID"), account)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toPayoutDTO(*payout))
}

// Refund godoc
//
//	@Summary		Contributor reclaims the stake
//	@Description	Returns the caller's full stake once the deadline passed with the goal missed. Succeeds once per contributor.
//	@Tags			Campaigns
//	@Security		BearerAuth
//	@Produce		json
//	@Param			campaignID	path		string	true	"Campaign id"
//	@Success		200			{object}	dto.PayoutResponseDTO
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		404			{object}	utils.Response	"Campaign not found"
//	@Failure		422			{object}	utils.Response	"Not yet eligible or nothing to refund"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/campaigns/{campaignID}/refund [post]
func (h *CampaignHandler) Refund(w http.ResponseWriter, r *http.Request) {
	account, ok := caller(w, r)
	if !ok {
		return
	}

	payout, err := h.campaignService.Refund(r.Context(), chi.URLParam(r, "campaignID"), account)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toPayoutDTO(*payout))
}

func toCampaignDTO(c domain.Campaign) dto.CampaignResponseDTO {
	return dto.CampaignResponseDTO{
		ID:             c.ID,
		Creator:        c.Creator,
		Goal:           c.Goal,
		GoalSOL:        lamports.ToSOL(c.Goal),
		Deadline:       c.DeadlineUnix,
		TotalRaised:    c.TotalRaised,
		TotalRaisedSOL: lamports.ToSOL(c.TotalRaised),
		Finalized:      c.Finalized,
		CreatedAt:      c.CreatedAt,
	}
}

func toPayoutDTO(p domain.Payout) dto.PayoutResponseDTO {
	return dto.PayoutResponseDTO{
		CampaignID: p.CampaignID,
		Recipient:  p.Recipient,
		Amount:     p.Amount,
		AmountSOL:  lamports.ToSOL(p.Amount),
		Kind:       string(p.Kind),
	}
}
