package merge

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
)

// GDPRow is a validated GDP growth line.
type GDPRow struct {
	Country string
	Record  models.GDPGrowthRecord
}

// TradeRow is a validated trade balance line.
type TradeRow struct {
	Country string
	Record  models.TradeBalanceRecord
}

// IndustryRow is a validated industry line. Product is nil when the line carries no sub-industry.
type IndustryRow struct {
	Record  models.IndustryRecord
	Product *models.SubIndustryRecord
}

// CompanyRow is a validated company line.
type CompanyRow struct {
	IndustryID   string
	IndustryName string
	Bucket       string
	Company      models.CompanyRecord
}

// GDPRowFrom converts a parsed row into a GDPRow.
func GDPRowFrom(r ingest.Row) (GDPRow, error) {
	year, err := yearOf(r)
	if err != nil {
		return GDPRow{}, err
	}

	country := models.NormalizeCountry(r.Text("country"))

	return GDPRow{
		Country: country,
		Record: models.GDPGrowthRecord{
			Year:        year,
			Consumption: r.NumberOr("consumption", 0),
			Investment:  r.NumberOr("investment", 0),
			Government:  r.NumberOr("government", 0),
			NetExports:  r.NumberOr("netExports", 0),
			GDPGrowth:   r.NumberOr("gdpGrowth", 0),
			TradeVolume: r.NumberOr("tradeVolume", 0),
			Country:     country,
		},
	}, nil
}

// TradeRowFrom converts a parsed row into a TradeRow. A missing balance is
// derived as exports plus imports, imports being negative.
func TradeRowFrom(r ingest.Row) (TradeRow, error) {
	year, err := yearOf(r)
	if err != nil {
		return TradeRow{}, err
	}

	country := models.NormalizeCountry(r.Text("country"))
	exports := r.NumberOr("exports", 0)
	imports := r.NumberOr("imports", 0)

	balance, ok := r.Number("balance")
	if !ok {
		balance = exports + imports
	}

	return TradeRow{
		Country: country,
		Record: models.TradeBalanceRecord{
			Year:    year,
			Exports: exports,
			Imports: imports,
			Balance: balance,
			Country: country,
		},
	}, nil
}

// IndustryRowFrom converts a parsed row into an IndustryRow.
func IndustryRowFrom(r ingest.Row) (IndustryRow, error) {
	id, name := r.Text("id"), r.Text("name")
	if id == "" || name == "" {
		return IndustryRow{}, fmt.Errorf("line %d: %w: id and name", r.Line, ErrMissingField)
	}

	out := IndustryRow{
		Record: models.IndustryRecord{
			ID:            id,
			Name:          name,
			ExportValue:   r.NumberOr("exportValue", 0),
			ImportValue:   r.NumberOr("importValue", 0),
			TariffImpact:  r.NumberOr("tariffImpact", 0),
			GDPImpact:     r.NumberOr("gdpImpact", 0),
			RiskLevel:     models.ParseRiskLevel(r.Text("riskLevel")),
			SubIndustries: []models.SubIndustryRecord{},
			Country:       models.NormalizeCountry(r.Text("country")),
		},
	}

	product := firstText(r, "productName", "subIndustryName")
	if product != "" {
		impact := r.NumberOr("productImpact", r.NumberOr("subIndustryImpact", 0))
		out.Product = &models.SubIndustryRecord{
			Name:      product,
			Impact:    impact,
			Companies: SplitList(r.Text("companies")),
		}
	}

	return out, nil
}

// CompanyRowFrom converts a parsed row into a CompanyRow. The bucket is the
// sub-industry name, else the industry name.
func CompanyRowFrom(r ingest.Row) (CompanyRow, error) {
	industryID, companyName := r.Text("industryId"), r.Text("companyName")
	if industryID == "" || companyName == "" {
		return CompanyRow{}, fmt.Errorf("line %d: %w: industryId and companyName", r.Line, ErrMissingField)
	}

	industryName := r.Text("industryName")
	if industryName == "" {
		industryName = capitalize(industryID)
	}

	bucket := r.Text("subIndustryName")
	if bucket == "" {
		bucket = industryName
	}

	size := r.NumberOr("employeeCount", r.NumberOr("freeCashFlow", 0))

	return CompanyRow{
		IndustryID:   industryID,
		IndustryName: industryName,
		Bucket:       bucket,
		Company: models.CompanyRecord{
			Name:          companyName,
			Impact:        r.NumberOr("impact", 0),
			MarketCap:     r.NumberOr("marketCap", 0),
			Revenue:       r.NumberOr("revenue", 0),
			EmployeeCount: size,
			MainMarkets:   SplitList(r.Text("mainMarkets")),
		},
	}, nil
}

// SplitList splits a comma-joined cell into trimmed, non-empty items.
func SplitList(s string) []string {
	out := []string{}
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func yearOf(r ingest.Row) (int, error) {
	v, ok := r.Number("year")
	if !ok {
		return 0, fmt.Errorf("line %d: %w: year", r.Line, ErrMissingField)
	}

	return int(math.Round(v)), nil
}

func firstText(r ingest.Row, keys ...string) string {
	for _, k := range keys {
		if v := r.Text(k); v != "" {
			return v
		}
	}

	return ""
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(first)) + s[size:]
}
