package merge

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
)

// GDP replaces GDP growth series in current. In bulk mode every country named
// by a row has its series replaced; otherwise only opts.Country is replaced.
// The trade series of each touched country is kept.
func GDP(current models.MacroDataset, rows iter.Seq[ingest.Row], opts Options) (Result[models.MacroDataset], error) {
	return mergeMacro(current, rows, opts, GDPRowFrom,
		func(r GDPRow) (string, int) { return r.Country, r.Record.Year },
		func(cd *models.CountryData, rs []GDPRow) {
			cd.GDPGrowth = make([]models.GDPGrowthRecord, len(rs))
			for i, r := range rs {
				cd.GDPGrowth[i] = r.Record
			}
		})
}

// Trade replaces trade balance series in current, with the same country
// rules as GDP.
func Trade(current models.MacroDataset, rows iter.Seq[ingest.Row], opts Options) (Result[models.MacroDataset], error) {
	return mergeMacro(current, rows, opts, TradeRowFrom,
		func(r TradeRow) (string, int) { return r.Country, r.Record.Year },
		func(cd *models.CountryData, rs []TradeRow) {
			cd.TradeBalance = make([]models.TradeBalanceRecord, len(rs))
			for i, r := range rs {
				cd.TradeBalance[i] = r.Record
			}
		})
}

func mergeMacro[R any](
	current models.MacroDataset,
	rows iter.Seq[ingest.Row],
	opts Options,
	convert func(ingest.Row) (R, error),
	key func(R) (country string, year int),
	assign func(*models.CountryData, []R),
) (Result[models.MacroDataset], error) {
	target := models.NormalizeCountry(opts.Country)
	if target == "" {
		target = models.CountryAll
	}

	if !opts.Bulk && !models.IsValidCountry(target) {
		return Result[models.MacroDataset]{}, fmt.Errorf("%w: %q", models.ErrUnknownCountry, opts.Country)
	}

	var t tally
	buckets := map[string][]R{}

	bucketed := func(row ingest.Row) (R, error) {
		r, err := convert(row)
		if err != nil {
			return r, err
		}

		country := target
		if opts.Bulk {
			country, _ = key(r)
			if country == "" {
				country = models.CountryAll
			}
			if !models.IsValidCountry(country) {
				return r, fmt.Errorf("line %d: %w: %q", row.Line, models.ErrUnknownCountry, country)
			}
		}

		buckets[country] = append(buckets[country], r)

		return r, nil
	}

	convertAll(rows, bucketed, &t)

	if err := t.err(models.KindMacro, MacroRequired); err != nil {
		return Result[models.MacroDataset]{}, err
	}

	out := current.Clone()
	touched := make([]string, 0, len(buckets))

	for country, rs := range buckets {
		slices.SortStableFunc(rs, func(a, b R) int {
			_, ya := key(a)
			_, yb := key(b)
			return cmp.Compare(ya, yb)
		})

		cd := out[country]
		if cd.GDPGrowth == nil {
			cd.GDPGrowth = []models.GDPGrowthRecord{}
		}
		if cd.TradeBalance == nil {
			cd.TradeBalance = []models.TradeBalanceRecord{}
		}
		assign(&cd, rs)
		out[country] = cd

		touched = append(touched, country)
	}

	slices.Sort(touched)

	return Result[models.MacroDataset]{
		Data:     out,
		Applied:  t.applied,
		Dropped:  t.dropped,
		Touched:  touched,
		MergedAt: opts.now(),
	}, nil
}
