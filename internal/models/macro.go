package models

import (
	"maps"
	"slices"
)

// GDPGrowthRecord is one year of GDP growth broken into its components, in percent.
type GDPGrowthRecord struct {
	Year        int     `json:"year"`
	Consumption float64 `json:"consumption"`
	Investment  float64 `json:"investment"`
	Government  float64 `json:"government"`
	NetExports  float64 `json:"netExports"`
	GDPGrowth   float64 `json:"gdpGrowth"`
	TradeVolume float64 `json:"tradeVolume"`
	Country     string  `json:"country,omitempty"`
}

// TradeBalanceRecord is one year of exports and imports in USD billions.
// Imports are stored as negative values.
type TradeBalanceRecord struct {
	Year    int     `json:"year"`
	Exports float64 `json:"exports"`
	Imports float64 `json:"imports"`
	Balance float64 `json:"balance"`
	Country string  `json:"country,omitempty"`
}

// CountryData holds both macro series for one country.
type CountryData struct {
	GDPGrowth    []GDPGrowthRecord    `json:"gdpGrowth"`
	TradeBalance []TradeBalanceRecord `json:"tradeBalance"`
}

// MacroDataset maps a country code to its series.
type MacroDataset map[string]CountryData

// Countries returns the country codes present, sorted.
func (d MacroDataset) Countries() []string {
	return slices.Sorted(maps.Keys(d))
}

// Clone returns a deep copy of the dataset.
func (d MacroDataset) Clone() MacroDataset {
	out := make(MacroDataset, len(d))
	for k, v := range d {
		out[k] = CountryData{
			GDPGrowth:    slices.Clone(v.GDPGrowth),
			TradeBalance: slices.Clone(v.TradeBalance),
		}
	}

	return out
}

// IsEmpty reports whether no country holds any series.
func (d MacroDataset) IsEmpty() bool {
	for _, v := range d {
		if len(v.GDPGrowth) > 0 || len(v.TradeBalance) > 0 {
			return false
		}
	}

	return true
}
