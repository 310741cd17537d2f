// Package leveldbrepo keeps the ledger in an embedded LevelDB database.
//
// Every mutation runs inside a goleveldb transaction. LevelDB allows a single
// open transaction at a time, so mutation units are serialized across all
// campaigns; reads outside a transaction see the last committed state.
package leveldbrepo

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"

	"github.com/GlebRadaev/crowdfund/internal/domain"
	"github.com/GlebRadaev/crowdfund/internal/pg"
)

const (
	campaignPrefix     = "campaign\x00"
	contributionPrefix = "contribution\x00"
)

var errCampaignMissing = errors.New("campaign does not exist")

type kv interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	Put(key, value []byte, wo *opt.WriteOptions) error
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

type txKey struct{}

type Store struct {
	db *leveldb.DB
}

func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", path, err)
	}
	return New(db), nil
}

func New(db *leveldb.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Begin implements pg.TXManager on top of a LevelDB transaction.
func (s *Store) Begin(ctx context.Context, fn pg.TransactionalFn) error {
	if _, ok := ctx.Value(txKey{}).(*leveldb.Transaction); ok {
		return fn(ctx)
	}

	tr, err := s.db.OpenTransaction()
	if err != nil {
		zap.L().Error("can't open leveldb transaction", zap.Error(err))
		return fmt.Errorf("open transaction: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tr)); err != nil {
		tr.Discard()
		return err
	}
	if err := tr.Commit(); err != nil {
		tr.Discard()
		zap.L().Error("can't commit leveldb transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) conn(ctx context.Context) kv {
	if tr, ok := ctx.Value(txKey{}).(*leveldb.Transaction); ok {
		return tr
	}
	return s.db
}

func (s *Store) Campaigns() *CampaignRepository {
	return &CampaignRepository{store: s}
}

func (s *Store) Contributions() *ContributionRepository {
	return &ContributionRepository{store: s}
}

type campaignRecord struct {
	ID           string    `json:"id"`
	Creator      string    `json:"creator"`
	Goal         int64     `json:"goal"`
	DeadlineUnix int64     `json:"deadline_unix"`
	TotalRaised  int64     `json:"total_raised"`
	Finalized    bool      `json:"finalized"`
	CreatedAt    time.Time `json:"created_at"`
}

type contributionRecord struct {
	CampaignID  string    `json:"campaign_id"`
	Contributor string    `json:"contributor"`
	Amount      int64     `json:"amount"`
	Refunded    bool      `json:"refunded"`
	CreatedAt   time.Time `json:"created_at"`
}

func campaignKey(id string) []byte {
	return []byte(campaignPrefix + id)
}

// contributionsOf length-prefixes the campaign id so that no pair of
// (campaign, contributor) strings can produce the same key.
func contributionsOf(campaignID string) []byte {
	key := binary.AppendUvarint([]byte(contributionPrefix), uint64(len(campaignID)))
	return append(key, campaignID...)
}

func contributionKey(campaignID, contributor string) []byte {
	return append(contributionsOf(campaignID), contributor...)
}

func get(db kv, key []byte, dst interface{}) (bool, error) {
	data, err := db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func put(db kv, key []byte, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return db.Put(key, data, nil)
}

type CampaignRepository struct {
	store *Store
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) (bool, error) {
	created := false
	err := r.store.Begin(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		var existing campaignRecord
		found, err := get(db, campaignKey(campaign.ID), &existing)
		if err != nil || found {
			return err
		}
		rec := campaignRecord{
			ID:           campaign.ID,
			Creator:      campaign.Creator,
			Goal:         campaign.Goal,
			DeadlineUnix: campaign.DeadlineUnix,
			CreatedAt:    campaign.CreatedAt,
		}
		if err := put(db, campaignKey(campaign.ID), rec); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		zap.L().Error("can't create campaign", zap.String("campaignID", campaign.ID), zap.Error(err))
		return false, err
	}
	return created, nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	var rec campaignRecord
	found, err := get(r.store.conn(ctx), campaignKey(id), &rec)
	if err != nil {
		zap.L().Error("failed to get campaign", zap.String("campaignID", id), zap.Error(err))
		return nil, err
	}
	if !found {
		return nil, nil
	}
	c := rec.toDomain()
	return &c, nil
}

// GetForUpdate is GetByID: the open transaction already excludes other writers.
func (r *CampaignRepository) GetForUpdate(ctx context.Context, id string) (*domain.Campaign, error) {
	return r.GetByID(ctx, id)
}

func (r *CampaignRepository) List(ctx context.Context, limit int) ([]domain.Campaign, error) {
	it := r.store.conn(ctx).NewIterator(util.BytesPrefix([]byte(campaignPrefix)), nil)
	defer it.Release()

	var campaigns []domain.Campaign
	for it.Next() {
		var rec campaignRecord
		if err := json.Unmarshal(it.Value(), &rec); err != nil {
			zap.L().Error("failed to decode campaign", zap.ByteString("key", it.Key()), zap.Error(err))
			return nil, err
		}
		campaigns = append(campaigns, rec.toDomain())
	}
	if err := it.Error(); err != nil {
		zap.L().Error("failed to iterate campaigns", zap.Error(err))
		return nil, err
	}

	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	if limit > 0 && len(campaigns) > limit {
		campaigns = campaigns[:limit]
	}
	return campaigns, nil
}

func (r *CampaignRepository) AddRaised(ctx context.Context, id string, amount int64) (int64, error) {
	var total int64
	err := r.update(ctx, id, func(rec *campaignRecord) bool {
		rec.TotalRaised += amount
		total = rec.TotalRaised
		return true
	})
	if err != nil {
		zap.L().Error("failed to add raised amount", zap.String("campaignID", id), zap.Error(err))
		return 0, err
	}
	return total, nil
}

func (r *CampaignRepository) Finalize(ctx context.Context, id string) (bool, error) {
	flipped := false
	err := r.update(ctx, id, func(rec *campaignRecord) bool {
		if rec.Finalized {
			return false
		}
		rec.Finalized = true
		flipped = true
		return true
	})
	if err != nil {
		zap.L().Error("failed to finalize campaign", zap.String("campaignID", id), zap.Error(err))
		return false, err
	}
	return flipped, nil
}

// update applies mutate to the stored campaign and writes it back when mutate returns true.
func (r *CampaignRepository) update(ctx context.Context, id string, mutate func(rec *campaignRecord) bool) error {
	return r.store.Begin(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		var rec campaignRecord
		found, err := get(db, campaignKey(id), &rec)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", errCampaignMissing, id)
		}
		if !mutate(&rec) {
			return nil
		}
		return put(db, campaignKey(id), rec)
	})
}

func (rec campaignRecord) toDomain() domain.Campaign {
	return domain.Campaign{
		ID:           rec.ID,
		Creator:      rec.Creator,
		Goal:         rec.Goal,
		DeadlineUnix: rec.DeadlineUnix,
		TotalRaised:  rec.TotalRaised,
		Finalized:    rec.Finalized,
		CreatedAt:    rec.CreatedAt,
	}
}

type ContributionRepository struct {
	store *Store
}

func (r *ContributionRepository) GetAmount(ctx context.Context, campaignID, contributor string) (int64, error) {
	c, err := r.Get(ctx, campaignID, contributor)
	if err != nil || c == nil {
		return 0, err
	}
	return c.Amount, nil
}

func (r *ContributionRepository) Get(ctx context.Context, campaignID, contributor string) (*domain.Contribution, error) {
	var rec contributionRecord
	found, err := get(r.store.conn(ctx), contributionKey(campaignID, contributor), &rec)
	if err != nil {
		zap.L().Error("failed to get contribution", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}
	if !found {
		return nil, nil
	}
	c := rec.toDomain()
	return &c, nil
}

func (r *ContributionRepository) Record(ctx context.Context, campaignID, contributor string, amount int64) (*domain.Contribution, error) {
	var result domain.Contribution
	err := r.store.Begin(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		key := contributionKey(campaignID, contributor)
		var rec contributionRecord
		found, err := get(db, key, &rec)
		if err != nil {
			return err
		}
		if !found {
			rec = contributionRecord{
				CampaignID:  campaignID,
				Contributor: contributor,
				CreatedAt:   time.Now().UTC(),
			}
		}
		rec.Amount += amount
		if err := put(db, key, rec); err != nil {
			return err
		}
		result = rec.toDomain()
		return nil
	})
	if err != nil {
		zap.L().Error("can't record contribution", zap.String("campaignID", campaignID), zap.Error(err))
		return nil, err
	}
	return &result, nil
}

func (r *ContributionRepository) MarkRefunded(ctx context.Context, campaignID, contributor string) (int64, error) {
	var refunded int64
	err := r.store.Begin(ctx, func(ctx context.Context) error {
		db := r.store.conn(ctx)
		key := contributionKey(campaignID, contributor)
		var rec contributionRecord
		found, err := get(db, key, &rec)
		if err != nil || !found || rec.Refunded || rec.Amount <= 0 {
			return err
		}
		rec.Refunded = true
		if err := put(db, key, rec); err != nil {
			return err
		}
		refunded = rec.Amount
		return nil
	})
	if err != nil {
		zap.L().Error("failed to mark contribution refunded", zap.String("campaignID", campaignID), zap.Error(err))
		return 0, err
	}
	return refunded, nil
}

func (r *ContributionRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Contribution, error) {
	it := r.store.conn(ctx).NewIterator(util.BytesPrefix(contributionsOf(campaignID)), nil)
	defer it.Release()

	var records []contributionRecord
	for it.Next() {
		var rec contributionRecord
		if err := json.Unmarshal(it.Value(), &rec); err != nil {
			zap.L().Error("failed to decode contribution", zap.ByteString("key", it.Key()), zap.Error(err))
			return nil, err
		}
		records = append(records, rec)
	}
	if err := it.Error(); err != nil {
		zap.L().Error("failed to iterate contributions", zap.Error(err))
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].Contributor < records[j].Contributor
	})

	var contributions []domain.Contribution
	for _, rec := range records {
		contributions = append(contributions, rec.toDomain())
	}
	return contributions, nil
}

func (rec contributionRecord) toDomain() domain.Contribution {
	return domain.Contribution{
		CampaignID:  rec.CampaignID,
		Contributor: rec.Contributor,
		Amount:      rec.Amount,
		Refunded:    rec.Refunded,
	}
}
