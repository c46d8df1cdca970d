package models

import (
	"maps"
	"slices"
)

// CompanyRecord is the tariff exposure of one company.
type CompanyRecord struct {
	Name          string   `json:"name"`
	Impact        float64  `json:"impact"`
	MarketCap     float64  `json:"marketCap"`
	Revenue       float64  `json:"revenue"`
	EmployeeCount float64  `json:"employeeCount"`
	MainMarkets   []string `json:"mainMarkets"`
}

// CompanySubIndustry groups companies under a sub-industry name.
type CompanySubIndustry struct {
	Name      string          `json:"name"`
	Companies []CompanyRecord `json:"companies"`
}

// IndustryCompanies holds the companies of one industry.
type IndustryCompanies struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	SubIndustries []CompanySubIndustry `json:"subIndustries"`
}

// CompanyDataset maps an industry id to its companies.
type CompanyDataset map[string]IndustryCompanies

// IndustryIDs returns the industry ids present, sorted.
func (d CompanyDataset) IndustryIDs() []string {
	return slices.Sorted(maps.Keys(d))
}

// Clone returns a deep copy of the dataset.
func (d CompanyDataset) Clone() CompanyDataset {
	out := make(CompanyDataset, len(d))
	for id, ind := range d {
		subs := make([]CompanySubIndustry, len(ind.SubIndustries))
		for i, sub := range ind.SubIndustries {
			companies := make([]CompanyRecord, len(sub.Companies))
			for j, c := range sub.Companies {
				c.MainMarkets = slices.Clone(c.MainMarkets)
				companies[j] = c
			}
			subs[i] = CompanySubIndustry{Name: sub.Name, Companies: companies}
		}
		ind.SubIndustries = subs
		out[id] = ind
	}

	return out
}

// IsEmpty reports whether the dataset holds no industries.
func (d CompanyDataset) IsEmpty() bool { return len(d) == 0 }

// CompanyCount returns the number of company records across all industries.
func (d CompanyDataset) CompanyCount() int {
	n := 0
	for _, ind := range d {
		for _, sub := range ind.SubIndustries {
			n += len(sub.Companies)
		}
	}

	return n
}
