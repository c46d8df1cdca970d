package provider

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/merge"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/persist"
	"github.com/tradelens/tradelens/internal/sample"
)

// Macro holds GDP growth and trade balance series per country, plus the
// country the dashboard is currently showing.
type Macro struct {
	*Provider[models.MacroDataset]

	selMu    sync.RWMutex
	selected string
	updated  map[string]time.Time
}

func newMacro(store Store[models.MacroDataset], log *logrus.Logger) *Macro {
	m := &Macro{
		Provider: newProvider(models.KindMacro, store, models.MacroDataset.Clone, log),
		selected: models.CountryAll,
		updated:  map[string]time.Time{},
	}
	m.snap = models.Snapshot[models.MacroDataset]{Data: sample.Macro(), LastUpdated: m.now()}

	return m
}

// Load reads the dataset and stamps every country it holds with the load time.
func (m *Macro) Load(ctx context.Context) persist.Source {
	src := m.Provider.Load(ctx)
	snap := m.Snapshot()

	m.selMu.Lock()
	m.updated = make(map[string]time.Time, len(snap.Data))
	for country := range snap.Data {
		m.updated[country] = snap.LastUpdated
	}
	m.selMu.Unlock()

	return src
}

// SelectCountry changes the country targeted by non-bulk uploads and returned by Selected.
func (m *Macro) SelectCountry(code string) error {
	c := models.NormalizeCountry(code)
	if !models.IsValidCountry(c) {
		return fmt.Errorf("%w: %q", models.ErrUnknownCountry, code)
	}

	m.selMu.Lock()
	m.selected = c
	m.selMu.Unlock()

	return nil
}

// SelectedCountry returns the selected country code.
func (m *Macro) SelectedCountry() string {
	m.selMu.RLock()
	defer m.selMu.RUnlock()

	return m.selected
}

// Selected returns the series of the selected country. Only a country with no
// entry at all falls back to the built-in sample series; a country holding just
// one series gets an empty other series.
func (m *Macro) Selected() models.CountryData {
	country := m.SelectedCountry()

	m.mu.RLock()
	cd, ok := m.snap.Data[country]
	m.mu.RUnlock()

	if !ok {
		return models.CountryData{
			GDPGrowth:    sample.GDPGrowth(),
			TradeBalance: sample.TradeBalance(),
		}
	}

	return models.CountryData{
		GDPGrowth:    slices.Clone(cd.GDPGrowth),
		TradeBalance: slices.Clone(cd.TradeBalance),
	}
}

// CountriesWithData returns the countries present in the snapshot, sorted.
func (m *Macro) CountriesWithData() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snap.Data.Countries()
}

// LastUpdated returns when each country's series last changed.
func (m *Macro) LastUpdated() map[string]time.Time {
	m.selMu.RLock()
	defer m.selMu.RUnlock()

	return maps.Clone(m.updated)
}

// UploadGDP merges GDP growth rows. A bulk upload routes rows by their
// country column; otherwise the selected country's series is replaced.
func (m *Macro) UploadGDP(ctx context.Context, t *ingest.Table, bulk bool) (merge.Result[models.MacroDataset], error) {
	return m.upload(ctx, t.Rows(), bulk, merge.GDP)
}

// UploadTrade merges trade balance rows, with the same routing as UploadGDP.
func (m *Macro) UploadTrade(ctx context.Context, t *ingest.Table, bulk bool) (merge.Result[models.MacroDataset], error) {
	return m.upload(ctx, t.Rows(), bulk, merge.Trade)
}

type macroMerge func(models.MacroDataset, iter.Seq[ingest.Row], merge.Options) (merge.Result[models.MacroDataset], error)

func (m *Macro) upload(ctx context.Context, rows iter.Seq[ingest.Row], bulk bool, fold macroMerge) (merge.Result[models.MacroDataset], error) {
	opts := merge.Options{Bulk: bulk, Country: m.SelectedCountry(), Now: m.now}

	res, err := m.apply(ctx, func(current models.MacroDataset) (merge.Result[models.MacroDataset], error) {
		return fold(current, rows, opts)
	})
	if err != nil {
		return res, err
	}

	m.selMu.Lock()
	for _, country := range res.Touched {
		m.updated[country] = res.MergedAt
	}
	m.selMu.Unlock()

	return res, nil
}
