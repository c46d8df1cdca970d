package export

import (
	"cmp"
	"slices"

	"github.com/tradelens/tradelens/internal/models"
)

// IndustrySheet renders one row per sub-industry, or one row for an industry
// without sub-industries. Rows are ordered by industry name, id, then
// sub-industry name. Export and import values are written on the first row of
// each industry only, so re-importing the sheet does not double them.
// An empty dataset yields the template.
func IndustrySheet(d models.IndustryDataset) Sheet {
	if d.IsEmpty() {
		return Template(TemplateIndustry)
	}

	s := Sheet{Name: "Industry Impact", FileName: "Industry_Impact.csv", Header: IndustryColumns}

	inds := slices.Clone(d)
	slices.SortStableFunc(inds, func(a, b models.IndustryRecord) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	for _, ind := range inds {
		subs := slices.Clone(ind.SubIndustries)
		slices.SortStableFunc(subs, func(a, b models.SubIndustryRecord) int { return cmp.Compare(a.Name, b.Name) })

		base := func(first bool) []string {
			exp, imp := "", ""
			if first {
				exp, imp = num(ind.ExportValue), num(ind.ImportValue)
			}
			return []string{
				ind.ID, ind.Name, exp, imp, num(ind.TariffImpact), num(ind.GDPImpact),
				string(ind.RiskLevel), ind.Country,
			}
		}

		if len(subs) == 0 {
			s.Rows = append(s.Rows, append(base(true), "", "", ""))
			continue
		}

		for i, sub := range subs {
			s.Rows = append(s.Rows, append(base(i == 0), sub.Name, num(sub.Impact), joinList(sub.Companies)))
		}
	}

	return s
}
