package export

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tradelens/tradelens/internal/models"
)

// Series selects one of the two macro series.
type Series string

// Macro series.
const (
	SeriesGDP   Series = "gdp"
	SeriesTrade Series = "trade"
)

// ParseSeries validates s.
func ParseSeries(s string) (Series, bool) {
	switch Series(s) {
	case SeriesGDP, SeriesTrade:
		return Series(s), true
	default:
		return "", false
	}
}

// baseGDP is the notional economy size, in USD billions, used by the GDP report.
var baseGDP = decimal.NewFromInt(100)

// MacroSheet renders one series of the macro dataset, one row per country and
// year, ordered by country then year. An empty series yields the template.
func MacroSheet(d models.MacroDataset, series Series) Sheet {
	if series == SeriesTrade {
		return tradeSheet(d)
	}

	return gdpSheet(d)
}

func gdpSheet(d models.MacroDataset) Sheet {
	s := Sheet{Name: "GDP Growth", FileName: "GDP_Growth_Components.csv", Header: GDPColumns}

	for _, country := range d.Countries() {
		recs := slices.Clone(d[country].GDPGrowth)
		slices.SortStableFunc(recs, func(a, b models.GDPGrowthRecord) int { return cmp.Compare(a.Year, b.Year) })

		for _, r := range recs {
			s.Rows = append(s.Rows, []string{
				strconv.Itoa(r.Year), num(r.Consumption), num(r.Investment), num(r.Government),
				num(r.NetExports), num(r.GDPGrowth), num(r.TradeVolume), country,
			})
		}
	}

	if len(s.Rows) == 0 {
		return Template(TemplateGDP)
	}

	return s
}

func tradeSheet(d models.MacroDataset) Sheet {
	s := Sheet{Name: "Trade Balance", FileName: "Trade_Balance_Trends.csv", Header: TradeColumns}

	for _, country := range d.Countries() {
		recs := slices.Clone(d[country].TradeBalance)
		slices.SortStableFunc(recs, func(a, b models.TradeBalanceRecord) int { return cmp.Compare(a.Year, b.Year) })

		for _, r := range recs {
			s.Rows = append(s.Rows, []string{
				strconv.Itoa(r.Year), num(r.Exports), num(r.Imports), num(r.Balance), country,
			})
		}
	}

	if len(s.Rows) == 0 {
		return Template(TemplateTrade)
	}

	return s
}

// GDPReport renders the GDP components of one country as absolute values
// against a base economy of 100, rounded to one decimal place.
func GDPReport(country string, recs []models.GDPGrowthRecord) Sheet {
	s := Sheet{
		Name:     "GDP Components",
		FileName: "GDP_Growth_Components.csv",
		Header:   []string{"country", "year", "consumption", "investment", "government", "netExports", "tradeVolume"},
	}

	for _, r := range recs {
		s.Rows = append(s.Rows, []string{
			country, strconv.Itoa(r.Year),
			absolute(r.Consumption), absolute(r.Investment), absolute(r.Government), absolute(r.NetExports),
			num(r.TradeVolume),
		})
	}

	return s
}

// TradeReport renders the trade balance of one country with a leading country column.
func TradeReport(country string, recs []models.TradeBalanceRecord) Sheet {
	s := Sheet{
		Name:     "Trade Balance",
		FileName: "Trade_Balance.csv",
		Header:   []string{"country", "year", "exports", "imports", "balance"},
	}

	for _, r := range recs {
		s.Rows = append(s.Rows, []string{
			country, strconv.Itoa(r.Year), num(r.Exports), num(r.Imports), num(r.Balance),
		})
	}

	return s
}

func absolute(pct float64) string {
	v := decimal.NewFromFloat(pct).Mul(baseGDP).Div(decimal.NewFromInt(100)).Round(1)
	return v.String()
}
