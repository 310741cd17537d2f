package domain

import "time"

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Resolve decides the campaign outcome at now. Once the deadline has passed the
// result only depends on TotalRaised, which can no longer change.
// Reaching the goal exactly counts as success.
func Resolve(c Campaign, now time.Time) Status {
	if now.Unix() < c.DeadlineUnix {
		return StatusActive
	}
	if c.TotalRaised >= c.Goal {
		return StatusSucceeded
	}
	return StatusFailed
}

// VaultBalance returns the lamports still held for the campaign: every claim
// not yet refunded, or nothing once the creator has withdrawn.
func VaultBalance(c Campaign, status Status, contributions []Contribution) int64 {
	if status == StatusSucceeded && c.Finalized {
		return 0
	}
	var held int64
	for _, ct := range contributions {
		held += ct.Claim()
	}
	return held
}
