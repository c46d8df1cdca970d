package export

import (
	"cmp"
	"slices"

	"github.com/tradelens/tradelens/internal/models"
)

// CompanySheet renders one row per company, ordered by industry name,
// sub-industry name, then company name. An empty dataset yields the template.
func CompanySheet(d models.CompanyDataset) Sheet {
	if d.CompanyCount() == 0 {
		return Template(TemplateCompany)
	}

	s := Sheet{Name: "Company Impact", FileName: "Company_Impact.csv", Header: CompanyColumns}

	ids := d.IndustryIDs()
	slices.SortStableFunc(ids, func(a, b string) int {
		return cmp.Or(cmp.Compare(d[a].Name, d[b].Name), cmp.Compare(a, b))
	})

	for _, id := range ids {
		ind := d[id]

		subs := slices.Clone(ind.SubIndustries)
		slices.SortStableFunc(subs, func(a, b models.CompanySubIndustry) int { return cmp.Compare(a.Name, b.Name) })

		for _, sub := range subs {
			companies := slices.Clone(sub.Companies)
			slices.SortStableFunc(companies, func(a, b models.CompanyRecord) int { return cmp.Compare(a.Name, b.Name) })

			for _, c := range companies {
				s.Rows = append(s.Rows, []string{
					id, ind.Name, sub.Name, c.Name,
					num(c.Impact), num(c.MarketCap), num(c.Revenue), num(c.EmployeeCount),
					joinList(c.MainMarkets),
				})
			}
		}
	}

	return s
}
