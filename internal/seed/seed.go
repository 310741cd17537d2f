// Package seed fills a running ledger with sample campaigns through its HTTP API.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/crowdfund/internal/dto"
	"github.com/GlebRadaev/crowdfund/pkg/lamports"
)

const tokenTTL = time.Hour

var backerAmounts = []string{"0.1", "0.15"}

type Client interface {
	Post(url string, headers http.Header, body []byte) (statusCode int, respBody []byte, err error)
}

type TokenIssuer interface {
	GenerateJWT(account string, expirationTime time.Time) (string, error)
}

type Seeded struct {
	CampaignID string
	Goal       int64
	Deadline   int64
	Backers    []dto.ReceiptResponseDTO
}

type Seeder struct {
	baseURL    string
	client     Client
	tokens     TokenIssuer
	workerPool WorkerPoolI
	now        func() time.Time
}

func New(baseURL string, client Client, tokens TokenIssuer, workers int) *Seeder {
	return &Seeder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     client,
		tokens:     tokens,
		workerPool: NewWorkerPool(workers),
		now:        time.Now,
	}
}

// Run opens one campaign per fresh creator, the i-th with goal 0.5 + i*0.25 SOL
// and a deadline 300 + i*60 seconds out, and backs each with two fresh backers.
// A Seeder runs once: its worker pool is closed on return.
func (s *Seeder) Run(ctx context.Context, campaigns int) ([]Seeded, error) {
	defer s.workerPool.Close()

	results := make([]Seeded, campaigns)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < campaigns; i++ {
		i := i
		done := s.workerPool.Submit(ctx, func(ctx context.Context) error {
			seeded, err := s.seedCampaign(ctx, i)
			if err != nil {
				return fmt.Errorf("campaign %d: %w", i+1, err)
			}
			results[i] = *seeded
			return nil
		})
		g.Go(func() error { return <-done })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Seeder) seedCampaign(ctx context.Context, idx int) (*Seeded, error) {
	creator := "creator-" + uuid.NewString()
	goal := lamports.FromFloat(0.5 + float64(idx)*0.25)
	deadline := s.now().Unix() + 300 + int64(idx)*60

	zap.L().Info("creating campaign",
		zap.Int("n", idx+1), zap.String("goal_sol", lamports.ToSOL(goal)), zap.Int64("deadline", deadline))

	var campaign dto.CampaignResponseDTO
	err := s.post(ctx, creator, "/api/campaigns", dto.InitializeCampaignRequestDTO{Goal: goal, Deadline: deadline}, http.StatusCreated, &campaign)
	if err != nil {
		return nil, err
	}

	seeded := &Seeded{CampaignID: campaign.ID, Goal: goal, Deadline: deadline}
	for b, sol := range backerAmounts {
		backer := "backer-" + uuid.NewString()
		amount, err := lamports.FromSOL(sol)
		if err != nil {
			return nil, err
		}
		zap.L().Info("backer contributing",
			zap.Int("backer", b+1), zap.String("amount_sol", lamports.ToSOL(amount)), zap.Int("campaign", idx+1))

		var receipt dto.ReceiptResponseDTO
		path := "/api/campaigns/" + campaign.ID + "/contribute"
		if err := s.post(ctx, backer, path, dto.ContributeRequestDTO{Amount: amount}, http.StatusOK, &receipt); err != nil {
			return nil, err
		}
		seeded.Backers = append(seeded.Backers, receipt)
	}
	return seeded, nil
}

func (s *Seeder) post(ctx context.Context, account, path string, payload interface{}, want int, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	token, err := s.tokens.GenerateJWT(account, s.now().Add(tokenTTL))
	if err != nil {
		return fmt.Errorf("mint token for %s: %w", account, err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)
	status, respBody, err := s.client.Post(s.baseURL+path, headers, body)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	if status != want {
		return fmt.Errorf("post %s: unexpected status %d: %s", path, status, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
