package contributionrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/crowdfund/internal/domain"
	"github.com/GlebRadaev/crowdfund/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// GetAmount returns the cumulative deposit of contributor, 0 when there is none.
func (r *Repository) GetAmount(ctx context.Context, campaignID, contributor string) (int64, error) {
	query := `
		SELECT amount
		FROM contributions
		WHERE campaign_id = $1 AND contributor = $2
	`
	var amount int64
	err := r.db.QueryRow(ctx, query, campaignID, contributor).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		zap.L().Error("failed to get contribution amount", zap.String("campaignID", campaignID), zap.Error(err))
		return 0, err
	}
	return amount, nil
}

// Record adds amount to the contributor's stake, creating the row on first contact.
func (r *Repository) Record(ctx context.Context, campaignID, contributor string, amount int64) (*domain.Contribution, error) {
	query := `
		INSERT INTO contributions (campaign_id, contributor, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (campaign_id, contributor)
		DO UPDATE SET amount = contributions.amount + EXCLUDED.amount, updated_at = now()
		RETURNING campaign_id, contributor, amount, refunded
	`
	var c domain.Contribution
	err := r.db.QueryRow(ctx, query, campaignID, contributor, amount).Scan(&c.CampaignID, &c.Contributor, &c.Amount, &c.Refunded)
	if err != nil {
		zap.L().Error("can't record contribution", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}
	return &c, nil
}

// MarkRefunded sets refunded on a positive, not yet refunded stake and returns
// the refunded amount. It returns 0 when there is nothing to refund.
func (r *Repository) MarkRefunded(ctx context.Context, campaignID, contributor string) (int64, error) {
	query := `
		UPDATE contributions
		SET refunded = TRUE, updated_at = now()
		WHERE campaign_id = $1 AND contributor = $2 AND refunded = FALSE AND amount > 0
		RETURNING amount
	`
	var amount int64
	err := r.db.QueryRow(ctx, query, campaignID, contributor).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		zap.L().Error("failed to mark contribution refunded", zap.String("campaignID", campaignID), zap.Error(err))
		return 0, err
	}
	return amount, nil
}

func (r *Repository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Contribution, error) {
	query := `
		SELECT campaign_id, contributor, amount, refunded
		FROM contributions
		WHERE campaign_id = $1
		ORDER BY created_at ASC, contributor ASC
	`
	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		zap.L().Error("failed to fetch contributions", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var contributions []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.CampaignID, &c.Contributor, &c.Amount, &c.Refunded); err != nil {
			zap.L().Error("failed to scan contribution row", zap.Error(err))
			return nil, err
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("failed to iterate contributions", zap.Error(err))
		return nil, err
	}
	return contributions, nil
}
