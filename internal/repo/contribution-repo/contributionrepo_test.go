package contributionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/crowdfund/internal/domain"
)

var contributionColumns = []string{"campaign_id", "contributor", "amount", "refunded"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestRepository_GetAmount(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT amount FROM contributions WHERE campaign_id = $1 AND contributor = $2`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		amount    int64
	}{
		{
			name: "Existing stake",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("alice", "x").
					WillReturnRows(pgxmock.NewRows([]string{"amount"}).AddRow(int64(600)))
			},
			amount: 600,
		},
		{
			name: "Absent stake is zero",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("alice", "x").WillReturnError(pgx.ErrNoRows)
			},
			amount: 0,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("alice", "x").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			amount, err := repo.GetAmount(context.Background(), "alice", "x")

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.amount, amount)
		})
	}
}

func TestRepository_Record(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
		INSERT INTO contributions (campaign_id, contributor, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (campaign_id, contributor)
		DO UPDATE SET amount = contributions.amount + EXCLUDED.amount, updated_at = now()
		RETURNING campaign_id, contributor, amount, refunded`)

	tests := []struct {
		name      string
		amount    int64
		mockSetup func()
		expectErr bool
		result    *domain.Contribution
	}{
		{
			name:   "First contribution",
			amount: 600,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("alice", "x", int64(600)).
					WillReturnRows(pgxmock.NewRows(contributionColumns).AddRow("alice", "x", int64(600), false))
			},
			result: &domain.Contribution{CampaignID: "alice", Contributor: "x", Amount: 600},
		},
		{
			name:   "Repeated contribution accumulates",
			amount: 150,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("alice", "x", int64(150)).
					WillReturnRows(pgxmock.NewRows(contributionColumns).AddRow("alice", "x", int64(750), false))
			},
			result: &domain.Contribution{CampaignID: "alice", Contributor: "x", Amount: 750},
		},
		{
			name:   "Database error",
			amount: 150,
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("alice", "x", int64(150)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			result, err := repo.Record(context.Background(), "alice", "x", tt.amount)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_MarkRefunded(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`
		UPDATE contributions
		SET refunded = TRUE, updated_at = now()
		WHERE campaign_id = $1 AND contributor = $2 AND refunded = FALSE AND amount > 0
		RETURNING amount`)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		amount    int64
	}{
		{
			name: "Refunds the stake",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs("alice", "x").
					WillReturnRows(pgxmock.NewRows([]string{"amount"}).AddRow(int64(600)))
			},
			amount: 600,
		},
		{
			name: "Already refunded or absent",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("alice", "x").WillReturnError(pgx.ErrNoRows)
			},
			amount: 0,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("alice", "x").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			amount, err := repo.MarkRefunded(context.Background(), "alice", "x")

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.amount, amount)
		})
	}
}

func TestRepository_ListByCampaign(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta(`SELECT campaign_id, contributor, amount, refunded FROM contributions WHERE campaign_id = $1 ORDER BY created_at ASC, contributor ASC`)

	mock.ExpectQuery(query).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(contributionColumns).
			AddRow("alice", "x", int64(600), true).
			AddRow("alice", "y", int64(300), false))

	result, err := repo.ListByCampaign(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Equal(t, []domain.Contribution{
		{CampaignID: "alice", Contributor: "x", Amount: 600, Refunded: true},
		{CampaignID: "alice", Contributor: "y", Amount: 300},
	}, result)

	mock.ExpectQuery(query).WithArgs("alice").WillReturnError(errors.New("database error"))

	result, err = repo.ListByCampaign(context.Background(), "alice")
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
