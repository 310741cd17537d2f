package campaignservice

//go:generate mockgen -source=campaignservice.go -destination=mock_campaignservice.go -package=campaignservice

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/crowdfund/internal/domain"
	"github.com/GlebRadaev/crowdfund/internal/pg"
)

type CampaignRepo interface {
	Create(ctx context.Context, campaign *domain.Campaign) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, limit int) ([]domain.Campaign, error)
	AddRaised(ctx context.Context, id string, amount int64) (int64, error)
	Finalize(ctx context.Context, id string) (bool, error)
}

type ContributionRepo interface {
	GetAmount(ctx context.Context, campaignID, contributor string) (int64, error)
	Record(ctx context.Context, campaignID, contributor string, amount int64) (*domain.Contribution, error)
	MarkRefunded(ctx context.Context, campaignID, contributor string) (int64, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Contribution, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

var (
	ErrInvalidParameters  = errors.New("invalid campaign parameters")
	ErrAlreadyInitialized = errors.New("campaign already initialized")
	ErrCampaignClosed     = errors.New("campaign is closed for contributions")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnauthorized       = errors.New("caller is not the campaign creator")
	ErrNotYetEligible     = errors.New("campaign outcome does not allow this operation yet")
	ErrAlreadyFinalized   = errors.New("campaign already finalized")
	ErrNothingToRefund    = errors.New("nothing to refund")
	ErrCampaignNotFound   = errors.New("campaign not found")
)

type Service struct {
	campaigns     CampaignRepo
	contributions ContributionRepo
	txManager     pg.TXManager
	publisher     Publisher
	now           func() time.Time
}

func New(campaigns CampaignRepo, contributions ContributionRepo, txManager pg.TXManager, publisher Publisher) *Service {
	return &Service{
		campaigns:     campaigns,
		contributions: contributions,
		txManager:     txManager,
		publisher:     publisher,
		now:           time.Now,
	}
}

// Initialize opens a campaign keyed by its creator. Deadlines are kept in whole
// seconds, so one inside the current second is already in the past.
func (s *Service) Initialize(ctx context.Context, creator string, goal int64, deadline time.Time) (*domain.Campaign, error) {
	now := s.now()
	if !validIdentity(creator) || goal <= 0 || deadline.Unix() <= now.Unix() {
		zap.L().Info("rejected campaign parameters",
			zap.String("creator", creator), zap.Int64("goal", goal), zap.Time("deadline", deadline))
		return nil, ErrInvalidParameters
	}

	campaign := &domain.Campaign{
		ID:           creator,
		Creator:      creator,
		Goal:         goal,
		DeadlineUnix: deadline.Unix(),
		CreatedAt:    now.UTC(),
	}
	created, err := s.campaigns.Create(ctx, campaign)
	if err != nil {
		zap.L().Error("failed to create campaign", zap.Error(err))
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyInitialized
	}

	s.publish(ctx, domain.EventInitialized, campaign.ID, creator, goal)
	return campaign, nil
}

func (s *Service) Contribute(ctx context.Context, campaignID, contributor string, amount int64) (*domain.Receipt, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !validIdentity(contributor) {
		return nil, ErrInvalidParameters
	}

	var receipt *domain.Receipt
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		campaign, err := s.campaigns.GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}
		if campaign.Finalized || !s.now().Before(campaign.Deadline()) {
			return ErrCampaignClosed
		}
		if campaign.TotalRaised > math.MaxInt64-amount {
			return ErrInvalidAmount
		}

		contribution, err := s.contributions.Record(ctx, campaignID, contributor, amount)
		if err != nil {
			return err
		}
		total, err := s.campaigns.AddRaised(ctx, campaignID, amount)
		if err != nil {
			return err
		}
		receipt = &domain.Receipt{
			CampaignID:  campaignID,
			Contributor: contributor,
			Amount:      amount,
			Stake:       contribution.Amount,
			TotalRaised: total,
		}
		return nil
	})
	if err != nil {
		s.logFailure("contribute rejected", campaignID, err)
		return nil, err
	}

	s.publish(ctx, domain.EventContributed, campaignID, contributor, amount)
	return receipt, nil
}

// Withdraw pays the whole raised amount to the creator once the goal was met.
func (s *Service) Withdraw(ctx context.Context, campaignID, caller string) (*domain.Payout, error) {
	var payout *domain.Payout
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		campaign, err := s.campaigns.GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}
		if caller != campaign.Creator {
			return ErrUnauthorized
		}
		if domain.Resolve(*campaign, s.now()) != domain.StatusSucceeded {
			return ErrNotYetEligible
		}
		flipped, err := s.campaigns.Finalize(ctx, campaignID)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrAlreadyFinalized
		}
		payout = &domain.Payout{
			CampaignID: campaignID,
			Recipient:  campaign.Creator,
			Amount:     campaign.TotalRaised,
			Kind:       domain.PayoutWithdraw,
		}
		return nil
	})
	if err != nil {
		s.logFailure("withdraw rejected", campaignID, err)
		return nil, err
	}

	s.publish(ctx, domain.EventWithdrawn, campaignID, caller, payout.Amount)
	return payout, nil
}

// Refund returns the contributor's stake after a missed goal. The first refund
// also latches the campaign as finalized.
func (s *Service) Refund(ctx context.Context, campaignID, contributor string) (*domain.Payout, error) {
	if !validIdentity(contributor) {
		return nil, ErrNothingToRefund
	}

	var payout *domain.Payout
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		campaign, err := s.campaigns.GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}
		if domain.Resolve(*campaign, s.now()) != domain.StatusFailed {
			return ErrNotYetEligible
		}
		amount, err := s.contributions.MarkRefunded(ctx, campaignID, contributor)
		if err != nil {
			return err
		}
		if amount == 0 {
			return ErrNothingToRefund
		}
		if _, err := s.campaigns.Finalize(ctx, campaignID); err != nil {
			return err
		}
		payout = &domain.Payout{
			CampaignID: campaignID,
			Recipient:  contributor,
			Amount:     amount,
			Kind:       domain.PayoutRefund,
		}
		return nil
	})
	if err != nil {
		s.logFailure("refund rejected", campaignID, err)
		return nil, err
	}

	s.publish(ctx, domain.EventRefunded, campaignID, contributor, payout.Amount)
	return payout, nil
}

func (s *Service) GetCampaign(ctx context.Context, campaignID string) (*domain.CampaignSummary, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		zap.L().Error("failed to get campaign", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	contributions, err := s.contributions.ListByCampaign(ctx, campaignID)
	if err != nil {
		zap.L().Error("failed to list contributions", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}

	status := domain.Resolve(*campaign, s.now())
	return &domain.CampaignSummary{
		Campaign:     *campaign,
		Status:       status,
		VaultBalance: domain.VaultBalance(*campaign, status, contributions),
	}, nil
}

func (s *Service) ListCampaigns(ctx context.Context, limit int) ([]domain.CampaignSummary, error) {
	campaigns, err := s.campaigns.List(ctx, limit)
	if err != nil {
		zap.L().Error("failed to list campaigns", zap.Error(err))
		return nil, err
	}

	now := s.now()
	summaries := make([]domain.CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		summaries = append(summaries, domain.CampaignSummary{
			Campaign: c,
			Status:   domain.Resolve(c, now),
		})
	}
	return summaries, nil
}

func (s *Service) GetContributions(ctx context.Context, campaignID string) ([]domain.Contribution, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		zap.L().Error("failed to get campaign", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	contributions, err := s.contributions.ListByCampaign(ctx, campaignID)
	if err != nil {
		zap.L().Error("failed to list contributions", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}
	return contributions, nil
}

// GetStake returns the contributor's cumulative deposit, zero when none.
func (s *Service) GetStake(ctx context.Context, campaignID, contributor string) (int64, error) {
	if !validIdentity(contributor) {
		return 0, nil
	}
	amount, err := s.contributions.GetAmount(ctx, campaignID, contributor)
	if err != nil {
		zap.L().Error("failed to get stake", zap.String("campaignID", campaignID), zap.Error(err))
		return 0, err
	}
	return amount, nil
}

// validIdentity rejects empty accounts and accounts carrying NUL, which
// PostgreSQL text columns cannot hold.
func validIdentity(account string) bool {
	return account != "" && !strings.ContainsRune(account, 0)
}

func (s *Service) publish(ctx context.Context, eventType domain.EventType, campaignID, account string, amount int64) {
	event := domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		CampaignID: campaignID,
		Account:    account,
		Amount:     amount,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		zap.L().Error("failed to publish event",
			zap.String("type", string(eventType)), zap.String("campaignID", campaignID), zap.Error(err))
	}
}

func (s *Service) logFailure(msg, campaignID string, err error) {
	if isRejection(err) {
		zap.L().Info(msg, zap.String("campaignID", campaignID), zap.Error(err))
		return
	}
	zap.L().Error(msg, zap.String("campaignID", campaignID), zap.Error(err))
}

func isRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidParameters, ErrAlreadyInitialized, ErrCampaignClosed, ErrInvalidAmount,
		ErrUnauthorized, ErrNotYetEligible, ErrAlreadyFinalized, ErrNothingToRefund, ErrCampaignNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
