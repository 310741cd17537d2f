package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	deadline := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	campaign := Campaign{Goal: 1000, DeadlineUnix: deadline.Unix()}

	tests := []struct {
		name     string
		raised   int64
		now      time.Time
		expected Status
	}{
		{
			name:     "Before deadline goal met is still active",
			raised:   5000,
			now:      deadline.Add(-time.Second),
			expected: StatusActive,
		},
		{
			name:     "At deadline goal met exactly succeeds",
			raised:   1000,
			now:      deadline,
			expected: StatusSucceeded,
		},
		{
			name:     "After deadline goal exceeded succeeds",
			raised:   1500,
			now:      deadline.Add(time.Minute),
			expected: StatusSucceeded,
		},
		{
			name:     "After deadline goal missed fails",
			raised:   999,
			now:      deadline.Add(time.Minute),
			expected: StatusFailed,
		},
		{
			name:     "Nothing raised fails",
			raised:   0,
			now:      deadline,
			expected: StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := campaign
			c.TotalRaised = tt.raised
			assert.Equal(t, tt.expected, Resolve(c, tt.now))
		})
	}
}

func TestResolveIsMonotonicAfterDeadline(t *testing.T) {
	deadline := time.Unix(1_700_000_000, 0)
	c := Campaign{Goal: 10, TotalRaised: 9, DeadlineUnix: deadline.Unix()}

	first := Resolve(c, deadline)
	for _, later := range []time.Duration{time.Second, time.Hour, 24 * 365 * time.Hour} {
		assert.Equal(t, first, Resolve(c, deadline.Add(later)))
	}
}

func TestVaultBalance(t *testing.T) {
	c := Campaign{TotalRaised: 900}
	contributions := []Contribution{
		{Contributor: "x", Amount: 600, Refunded: true},
		{Contributor: "y", Amount: 300},
	}

	assert.Equal(t, int64(300), VaultBalance(c, StatusFailed, contributions))

	c.Finalized = true
	c.TotalRaised = 1000
	assert.Equal(t, int64(0), VaultBalance(c, StatusSucceeded, nil))
	assert.Equal(t, int64(1000), VaultBalance(Campaign{TotalRaised: 1000}, StatusSucceeded, []Contribution{
		{Contributor: "x", Amount: 600},
		{Contributor: "y", Amount: 400},
	}))
}

func TestContributionClaim(t *testing.T) {
	assert.Equal(t, int64(50), Contribution{Amount: 50}.Claim())
	assert.Equal(t, int64(0), Contribution{Amount: 50, Refunded: true}.Claim())
}
