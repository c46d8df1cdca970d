package provider

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/merge"
	"github.com/tradelens/tradelens/internal/models"
)

// Industry holds the industry tariff-impact table. It starts empty.
type Industry struct {
	*Provider[models.IndustryDataset]
}

func newIndustry(store Store[models.IndustryDataset], log *logrus.Logger) *Industry {
	p := newProvider(models.KindIndustry, store, models.IndustryDataset.Clone, log)
	p.snap = models.Snapshot[models.IndustryDataset]{Data: models.IndustryDataset{}}

	return &Industry{Provider: p}
}

// Upload replaces the industry table with the one built from t.
func (i *Industry) Upload(ctx context.Context, t *ingest.Table) (merge.Result[models.IndustryDataset], error) {
	return i.apply(ctx, func(models.IndustryDataset) (merge.Result[models.IndustryDataset], error) {
		return merge.Industry(t.Rows(), merge.Options{Now: i.now})
	})
}

// Find returns the industry with id.
func (i *Industry) Find(id string) (models.IndustryRecord, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	for _, rec := range i.snap.Data {
		if rec.ID == id {
			return models.IndustryDataset{rec}.Clone()[0], true
		}
	}

	return models.IndustryRecord{}, false
}
