package dto

import "time"

type InitializeCampaignRequestDTO struct {
	Goal     int64 `json:"goal" example:"1000000000"`
	Deadline int64 `json:"deadline" example:"1767225600"`
}

type ContributeRequestDTO struct {
	Amount int64 `json:"amount" example:"150000000"`
}

type CampaignResponseDTO struct {
	ID             string    `json:"id" example:"alice"`
	Creator        string    `json:"creator" example:"alice"`
	Goal           int64     `json:"goal" example:"1000000000"`
	GoalSOL        string    `json:"goal_sol" example:"1"`
	Deadline       int64     `json:"deadline" example:"1767225600"`
	TotalRaised    int64     `json:"total_raised" example:"250000000"`
	TotalRaisedSOL string    `json:"total_raised_sol" example:"0.25"`
	Finalized      bool      `json:"finalized" example:"false"`
	Status         string    `json:"status,omitempty" example:"ACTIVE"`
	VaultBalance   *int64    `json:"vault_balance,omitempty" example:"250000000"`
	CreatedAt      time.Time `json:"created_at" example:"2024-06-01T12:00:00Z"`
}

type ReceiptResponseDTO struct {
	CampaignID     string `json:"campaign_id" example:"alice"`
	Contributor    string `json:"contributor" example:"bob"`
	Amount         int64  `json:"amount" example:"150000000"`
	AmountSOL      string `json:"amount_sol" example:"0.15"`
	Stake          int64  `json:"stake" example:"250000000"`
	TotalRaised    int64  `json:"total_raised" example:"400000000"`
	TotalRaisedSOL string `json:"total_raised_sol" example:"0.4"`
}

type PayoutResponseDTO struct {
	CampaignID string `json:"campaign_id" example:"alice"`
	Recipient  string `json:"recipient" example:"alice"`
	Amount     int64  `json:"amount" example:"1000000000"`
	AmountSOL  string `json:"amount_sol" example:"1"`
	Kind       string `json:"kind" example:"withdraw"`
}

type ContributionResponseDTO struct {
	Contributor string `json:"contributor" example:"bob"`
	Amount      int64  `json:"amount" example:"150000000"`
	AmountSOL   string `json:"amount_sol" example:"0.15"`
	Refunded    bool   `json:"refunded" example:"false"`
}

type StakeResponseDTO struct {
	CampaignID  string `json:"campaign_id" example:"alice"`
	Contributor string `json:"contributor" example:"bob"`
	Amount      int64  `json:"amount" example:"150000000"`
	AmountSOL   string `json:"amount_sol" example:"0.15"`
}
