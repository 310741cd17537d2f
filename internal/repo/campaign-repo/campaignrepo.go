package campaignrepo

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

// Create inserts the campaign unless its key is taken and reports whether it did.
func (r *Repository) Create(ctx context.Context, campaign *domain.Campaign) (bool, error) {
	query := `
		INSERT INTO campaigns (id, creator, goal, deadline_unix, total_raised, finalized, created_at)
		VALUES ($1, $2, $3, $4, 0, FALSE, $5)
		ON CONFLICT (id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, campaign.ID, campaign.Creator, campaign.Goal, campaign.DeadlineUnix, campaign.CreatedAt)
	if err != nil {
		zap.L().Error("can't create campaign", zap.String("campaignID", campaign.ID), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `
		SELECT id, creator, goal, deadline_unix, total_raised, finalized, created_at
		FROM campaigns
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetForUpdate locks the campaign row until the surrounding transaction ends.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `
		SELECT id, creator, goal, deadline_unix, total_raised, finalized, created_at
		FROM campaigns
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanOne(ctx, query, id)
}

func (r *Repository) scanOne(ctx context.Context, query, id string) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Creator, &c.Goal, &c.DeadlineUnix, &c.TotalRaised, &c.Finalized, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get campaign", zap.String("campaignID", id), zap.Error(err))
		return nil, err
	}
	return &c, nil
}

func (r *Repository) List(ctx context.Context, limit int) ([]domain.Campaign, error) {
	query := `
		SELECT id, creator, goal, deadline_unix, total_raised, finalized, created_at
		FROM campaigns
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("failed to list campaigns", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		err := rows.Scan(&c.ID, &c.Creator, &c.Goal, &c.DeadlineUnix, &c.TotalRaised, &c.Finalized, &c.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan campaign row", zap.Error(err))
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("failed to iterate campaigns", zap.Error(err))
		return nil, err
	}
	return campaigns, nil
}

// AddRaised increments total_raised and returns the new total.
func (r *Repository) AddRaised(ctx context.Context, id string, amount int64) (int64, error) {
	query := `
		UPDATE campaigns
		SET total_raised = total_raised + $2
		WHERE id = $1
		RETURNING total_raised
	`
	var total int64
	if err := r.db.QueryRow(ctx, query, id, amount).Scan(&total); err != nil {
		zap.L().Error("failed to add raised amount", zap.String("campaignID", id), zap.Error(err))
		return 0, err
	}
	return total, nil
}

// Finalize flips finalized from false to true and reports whether this call did it.
func (r *Repository) Finalize(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE campaigns
		SET finalized = TRUE
		WHERE id = $1 AND finalized = FALSE
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("failed to finalize campaign", zap.String("campaignID", id), zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
