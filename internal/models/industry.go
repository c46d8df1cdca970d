package models

import (
	"slices"
	"strings"
)

// RiskLevel grades how exposed an industry is to tariff changes.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ParseRiskLevel maps free text onto a RiskLevel. Empty or unknown text yields RiskMedium.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "high":
		return RiskHigh
	default:
		return RiskMedium
	}
}

// SubIndustryRecord is a product line inside an industry.
type SubIndustryRecord struct {
	Name      string   `json:"name"`
	Impact    float64  `json:"impact"`
	Companies []string `json:"companies"`
}

// IndustryRecord is the tariff exposure of one industry.
type IndustryRecord struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	ExportValue   float64             `json:"exportValue"`
	ImportValue   float64             `json:"importValue"`
	TariffImpact  float64             `json:"tariffImpact"`
	GDPImpact     float64             `json:"gdpImpact"`
	RiskLevel     RiskLevel           `json:"riskLevel"`
	SubIndustries []SubIndustryRecord `json:"subIndustries"`
	Country       string              `json:"country,omitempty"`
}

// IndustryDataset is the ordered list of industries.
type IndustryDataset []IndustryRecord

// Clone returns a deep copy of the dataset.
func (d IndustryDataset) Clone() IndustryDataset {
	if d == nil {
		return nil
	}

	out := make(IndustryDataset, len(d))
	for i, rec := range d {
		rec.SubIndustries = slices.Clone(rec.SubIndustries)
		for j := range rec.SubIndustries {
			rec.SubIndustries[j].Companies = slices.Clone(rec.SubIndustries[j].Companies)
		}
		out[i] = rec
	}

	return out
}

// IsEmpty reports whether the dataset holds no industries.
func (d IndustryDataset) IsEmpty() bool { return len(d) == 0 }
