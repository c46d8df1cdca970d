package provider

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/merge"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/sample"
)

// Company holds company tariff impacts grouped by industry and sub-industry.
type Company struct {
	*Provider[models.CompanyDataset]
}

func newCompany(store Store[models.CompanyDataset], log *logrus.Logger) *Company {
	p := newProvider(models.KindCompany, store, models.CompanyDataset.Clone, log)
	p.snap = models.Snapshot[models.CompanyDataset]{Data: sample.Company(), LastUpdated: p.now()}

	return &Company{Provider: p}
}

// Upload upserts the companies in t into the current dataset.
func (c *Company) Upload(ctx context.Context, t *ingest.Table) (merge.Result[models.CompanyDataset], error) {
	return c.apply(ctx, func(current models.CompanyDataset) (merge.Result[models.CompanyDataset], error) {
		return merge.Company(current, t.Rows(), merge.Options{Now: c.now})
	})
}

// Industry returns the companies of one industry.
func (c *Company) Industry(id string) (models.IndustryCompanies, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ind, ok := c.snap.Data[id]
	if !ok {
		return models.IndustryCompanies{}, false
	}

	return models.CompanyDataset{id: ind}.Clone()[id], true
}
