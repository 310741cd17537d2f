package repo

import (
	"github.com/GlebRadaev/crowdfund/internal/pg"
	campaignrepo "github.com/GlebRadaev/crowdfund/internal/repo/campaign-repo"
	contributionrepo "github.com/GlebRadaev/crowdfund/internal/repo/contribution-repo"
	leveldbrepo "github.com/GlebRadaev/crowdfund/internal/repo/leveldb-repo"
	"github.com/GlebRadaev/crowdfund/internal/service/campaignservice"
)

type Repositories struct {
	CampaignRepo     campaignservice.CampaignRepo
	ContributionRepo campaignservice.ContributionRepo
	TxManager        pg.TXManager
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		CampaignRepo:     campaignrepo.New(conn),
		ContributionRepo: contributionrepo.New(conn),
		TxManager:        txManager,
	}
}

// NewLevelDB backs every repository with the embedded store, which is also
// its own transaction manager.
func NewLevelDB(store *leveldbrepo.Store) *Repositories {
	return &Repositories{
		CampaignRepo:     store.Campaigns(),
		ContributionRepo: store.Contributions(),
		TxManager:        store,
	}
}
