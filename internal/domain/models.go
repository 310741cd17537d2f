package domain

import "time"

type Campaign struct {
	ID           string    `db:"id"`
	Creator      string    `db:"creator"`
	Goal         int64     `db:"goal"`
	DeadlineUnix int64     `db:"deadline_unix"`
	TotalRaised  int64     `db:"total_raised"`
	Finalized    bool      `db:"finalized"`
	CreatedAt    time.Time `db:"created_at"`
}

func (c Campaign) Deadline() time.Time {
	return time.Unix(c.DeadlineUnix, 0).UTC()
}

type Contribution struct {
	CampaignID  string `db:"campaign_id"`
	Contributor string `db:"contributor"`
	Amount      int64  `db:"amount"`
	Refunded    bool   `db:"refunded"`
}

// Claim is what the contributor could still get back on refund.
func (c Contribution) Claim() int64 {
	if c.Refunded {
		return 0
	}
	return c.Amount
}

type PayoutKind string

const (
	PayoutWithdraw PayoutKind = "withdraw"
	PayoutRefund   PayoutKind = "refund"
)

// Payout is a transfer the ledger has committed to and the caller must execute.
type Payout struct {
	CampaignID string
	Recipient  string
	Amount     int64
	Kind       PayoutKind
}

type Receipt struct {
	CampaignID  string
	Contributor string
	Amount      int64
	Stake       int64
	TotalRaised int64
}

type CampaignSummary struct {
	Campaign
	Status       Status
	VaultBalance int64
}

type EventType string

const (
	EventInitialized EventType = "campaign.initialized"
	EventContributed EventType = "campaign.contributed"
	EventWithdrawn   EventType = "campaign.withdrawn"
	EventRefunded    EventType = "campaign.refunded"
)

type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	CampaignID string    `json:"campaign_id"`
	Account    string    `json:"account"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
