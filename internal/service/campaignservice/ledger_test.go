package campaignservice

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/GlebRadaev/crowdfund/internal/domain"
	leveldbrepo "github.com/GlebRadaev/crowdfund/internal/repo/leveldb-repo"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// LedgerSuite drives the service against an in-memory LevelDB ledger.
type LedgerSuite struct {
	suite.Suite
	store     *leveldbrepo.Store
	service   *Service
	publisher *recordingPublisher
	clock     time.Time
	start     time.Time
	ctx       context.Context
}

func TestLedger(t *testing.T) {
	suite.Run(t, &LedgerSuite{})
}

func (s *LedgerSuite) SetupTest() {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	s.Require().NoError(err)
	s.store = leveldbrepo.New(db)
	s.publisher = &recordingPublisher{}
	s.service = New(s.store.Campaigns(), s.store.Contributions(), s.store, s.publisher)
	s.start = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.clock = s.start
	s.service.now = func() time.Time { return s.clock }
	s.ctx = context.Background()
}

func (s *LedgerSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *LedgerSuite) initialize(creator string, goal int64) {
	_, err := s.service.Initialize(s.ctx, creator, goal, s.start.Add(60*time.Second))
	s.Require().NoError(err)
}

func (s *LedgerSuite) contribute(contributor string, amount int64) {
	_, err := s.service.Contribute(s.ctx, "C", contributor, amount)
	s.Require().NoError(err)
}

func (s *LedgerSuite) afterDeadline() {
	s.clock = s.start.Add(61 * time.Second)
}

func (s *LedgerSuite) summary() *domain.CampaignSummary {
	summary, err := s.service.GetCampaign(s.ctx, "C")
	s.Require().NoError(err)
	return summary
}

func (s *LedgerSuite) assertTotalMatchesContributions() {
	summary := s.summary()
	contributions, err := s.service.GetContributions(s.ctx, "C")
	s.Require().NoError(err)
	var sum int64
	for _, c := range contributions {
		sum += c.Amount
	}
	s.Equal(summary.TotalRaised, sum)
}

func (s *LedgerSuite) TestMissedGoalRefundsEveryone() {
	s.initialize("C", 1000)
	s.contribute("X", 600)
	s.contribute("Y", 300)
	s.afterDeadline()
	s.Equal(domain.StatusFailed, s.summary().Status)

	payout, err := s.service.Refund(s.ctx, "C", "X")
	s.Require().NoError(err)
	s.Equal(&domain.Payout{CampaignID: "C", Recipient: "X", Amount: 600, Kind: domain.PayoutRefund}, payout)

	payout, err = s.service.Refund(s.ctx, "C", "Y")
	s.Require().NoError(err)
	s.Equal(int64(300), payout.Amount)

	_, err = s.service.Withdraw(s.ctx, "C", "C")
	s.ErrorIs(err, ErrNotYetEligible)

	summary := s.summary()
	s.True(summary.Finalized)
	s.Equal(int64(900), summary.TotalRaised)
	s.Zero(summary.VaultBalance)
	s.assertTotalMatchesContributions()
}

func (s *LedgerSuite) TestGoalMetCreatorWithdraws() {
	s.initialize("C", 1000)
	s.contribute("X", 600)
	s.contribute("Y", 400)
	s.afterDeadline()

	payout, err := s.service.Withdraw(s.ctx, "C", "C")
	s.Require().NoError(err)
	s.Equal(&domain.Payout{CampaignID: "C", Recipient: "C", Amount: 1000, Kind: domain.PayoutWithdraw}, payout)

	_, err = s.service.Refund(s.ctx, "C", "X")
	s.ErrorIs(err, ErrNotYetEligible)

	_, err = s.service.Withdraw(s.ctx, "C", "C")
	s.ErrorIs(err, ErrAlreadyFinalized)

	summary := s.summary()
	s.Equal(domain.StatusSucceeded, summary.Status)
	s.Zero(summary.VaultBalance)
}

func (s *LedgerSuite) TestLateContributionIsRejected() {
	s.initialize("C", 1000)
	s.contribute("X", 250)
	s.afterDeadline()

	_, err := s.service.Contribute(s.ctx, "C", "X", 100)
	s.ErrorIs(err, ErrCampaignClosed)
	s.Equal(int64(250), s.summary().TotalRaised)

	stake, err := s.service.GetStake(s.ctx, "C", "X")
	s.Require().NoError(err)
	s.Equal(int64(250), stake)
}

func (s *LedgerSuite) TestSecondInitializeIsRejected() {
	s.initialize("C", 1000)

	_, err := s.service.Initialize(s.ctx, "C", 5, s.start.Add(time.Hour))
	s.ErrorIs(err, ErrAlreadyInitialized)
	s.Equal(int64(1000), s.summary().Goal)
}

func (s *LedgerSuite) TestRepeatedContributionsAccumulate() {
	s.initialize("C", 1000)

	receipt, err := s.service.Contribute(s.ctx, "C", "X", 100)
	s.Require().NoError(err)
	s.Equal(int64(100), receipt.Stake)

	receipt, err = s.service.Contribute(s.ctx, "C", "X", 50)
	s.Require().NoError(err)
	s.Equal(int64(150), receipt.Stake)
	s.Equal(int64(150), receipt.TotalRaised)

	contributions, err := s.service.GetContributions(s.ctx, "C")
	s.Require().NoError(err)
	s.Len(contributions, 1)
}

func (s *LedgerSuite) TestRefundOnlyOnce() {
	s.initialize("C", 1000)
	s.contribute("X", 600)
	s.afterDeadline()

	_, err := s.service.Refund(s.ctx, "C", "X")
	s.Require().NoError(err)

	_, err = s.service.Refund(s.ctx, "C", "X")
	s.ErrorIs(err, ErrNothingToRefund)

	_, err = s.service.Refund(s.ctx, "C", "Z")
	s.ErrorIs(err, ErrNothingToRefund)
}

func (s *LedgerSuite) TestRefundReturnsExactlyWhatWasPaid() {
	s.initialize("C", 1000)
	deposits := map[string][]int64{
		"X": {10, 20, 30},
		"Y": {7},
		"Z": {100, 1},
	}
	paid := map[string]int64{}
	for who, amounts := range deposits {
		for _, a := range amounts {
			s.contribute(who, a)
			paid[who] += a
		}
	}
	s.afterDeadline()

	for who, want := range paid {
		payout, err := s.service.Refund(s.ctx, "C", who)
		s.Require().NoError(err)
		s.Equal(want, payout.Amount, who)
	}
	s.assertTotalMatchesContributions()
}

func (s *LedgerSuite) TestWithdrawByStrangerIsRejected() {
	s.initialize("C", 100)
	s.contribute("X", 100)
	s.afterDeadline()

	_, err := s.service.Withdraw(s.ctx, "C", "X")
	s.ErrorIs(err, ErrUnauthorized)
	s.False(s.summary().Finalized)
}

func (s *LedgerSuite) TestEventsPublishedAfterCommit() {
	s.initialize("C", 1000)
	s.contribute("X", 600)
	s.afterDeadline()
	_, err := s.service.Contribute(s.ctx, "C", "X", 1)
	s.Error(err)
	_, err = s.service.Refund(s.ctx, "C", "X")
	s.Require().NoError(err)

	var types []domain.EventType
	for _, e := range s.publisher.events {
		types = append(types, e.Type)
	}
	s.Equal([]domain.EventType{domain.EventInitialized, domain.EventContributed, domain.EventRefunded}, types)
}

func TestConcurrentContributionsKeepTotal(t *testing.T) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	store := leveldbrepo.New(db)
	defer store.Close()

	service := New(store.Campaigns(), store.Contributions(), store, &recordingPublisher{})
	start := time.Now()
	service.now = func() time.Time { return start }
	ctx := context.Background()
	_, err = service.Initialize(ctx, "C", 1_000_000, start.Add(time.Hour))
	require.NoError(t, err)

	contributors := []string{"X", "Y", "Z"}
	const rounds = 30
	var wg sync.WaitGroup
	for _, who := range contributors {
		for i := 0; i < rounds; i++ {
			wg.Add(1)
			go func(who string) {
				defer wg.Done()
				_, err := service.Contribute(ctx, "C", who, 3)
				assert.NoError(t, err)
			}(who)
		}
	}
	wg.Wait()

	summary, err := service.GetCampaign(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, int64(len(contributors)*rounds*3), summary.TotalRaised)
	for _, who := range contributors {
		stake, err := service.GetStake(ctx, "C", who)
		require.NoError(t, err)
		assert.Equal(t, int64(rounds*3), stake)
	}
}

// newConcurrentLedger opens campaign C with goal 1000 and lets the given
// contributions in before moving the clock past the deadline.
func newConcurrentLedger(t *testing.T, contributions map[string]int64) *Service {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	store := leveldbrepo.New(db)
	t.Cleanup(func() { store.Close() })

	service := New(store.Campaigns(), store.Contributions(), store, &recordingPublisher{})
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var clock atomic.Value
	clock.Store(start)
	service.now = func() time.Time { return clock.Load().(time.Time) }

	ctx := context.Background()
	_, err = service.Initialize(ctx, "C", 1000, start.Add(time.Minute))
	require.NoError(t, err)
	for who, amount := range contributions {
		_, err := service.Contribute(ctx, "C", who, amount)
		require.NoError(t, err)
	}
	clock.Store(start.Add(2 * time.Minute))
	return service
}

func TestConcurrentWithdrawPaysOnce(t *testing.T) {
	service := newConcurrentLedger(t, map[string]int64{"X": 600, "Y": 400})
	ctx := context.Background()

	const callers = 50
	var paid, finalized atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payout, err := service.Withdraw(ctx, "C", "C")
			if err != nil {
				assert.ErrorIs(t, err, ErrAlreadyFinalized)
				finalized.Add(1)
				return
			}
			assert.Equal(t, int64(1000), payout.Amount)
			paid.Add(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), paid.Load())
	assert.Equal(t, int64(callers-1), finalized.Load())

	summary, err := service.GetCampaign(ctx, "C")
	require.NoError(t, err)
	assert.True(t, summary.Finalized)
	assert.Zero(t, summary.VaultBalance)
}

func TestConcurrentRefundPaysOnce(t *testing.T) {
	service := newConcurrentLedger(t, map[string]int64{"X": 600, "Y": 300})
	ctx := context.Background()

	const callers = 50
	var paid, rejected atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payout, err := service.Refund(ctx, "C", "X")
			if err != nil {
				assert.ErrorIs(t, err, ErrNothingToRefund)
				rejected.Add(1)
				return
			}
			assert.Equal(t, int64(600), payout.Amount)
			paid.Add(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), paid.Load())
	assert.Equal(t, int64(callers-1), rejected.Load())

	summary, err := service.GetCampaign(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, int64(300), summary.VaultBalance)
	assert.Equal(t, int64(900), summary.TotalRaised)
}
