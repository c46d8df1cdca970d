// Package export renders dataset snapshots as CSV or XLSX sheets.
//
// Every renderer sorts its rows by a fixed key so the same snapshot always
// produces the same bytes.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column headers per sheet.
var (
	GDPColumns      = []string{"year", "consumption", "investment", "government", "netExports", "gdpGrowth", "tradeVolume", "country"}
	TradeColumns    = []string{"year", "exports", "imports", "balance", "country"}
	IndustryColumns = []string{"id", "name", "exportValue", "importValue", "tariffImpact", "gdpImpact", "riskLevel", "country", "productName", "productImpact", "companies"}
	CompanyColumns  = []string{"industryId", "industryName", "subIndustryName", "companyName", "impact", "marketCap", "revenue", "employeeCount", "mainMarkets"}
)

// Sheet is a named table ready to be written.
type Sheet struct {
	Name     string
	FileName string
	Header   []string
	Rows     [][]string
}

// WriteCSV writes the sheet header and rows as CSV. List cells containing commas are quoted.
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := cw.WriteAll(s.Rows); err != nil {
		return fmt.Errorf("writing %s rows: %w", s.Name, err)
	}

	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
