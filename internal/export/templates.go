package export

import (
	"bytes"
	"embed"
	"encoding/csv"
	"fmt"
)

//go:embed templates/*.csv
var templateFS embed.FS

// TemplateName identifies a bundled example upload.
type TemplateName string

// Bundled templates.
const (
	TemplateGDP      TemplateName = "gdp"
	TemplateTrade    TemplateName = "trade"
	TemplateIndustry TemplateName = "industry"
	TemplateCompany  TemplateName = "company"
)

// TemplateNames lists every bundled template.
var TemplateNames = []TemplateName{TemplateGDP, TemplateTrade, TemplateIndustry, TemplateCompany}

var templateFiles = map[TemplateName]string{
	TemplateGDP:      "GDP_Growth_Components.csv",
	TemplateTrade:    "Trade_Balance_Trends.csv",
	TemplateIndustry: "Industry_Impact_Template.csv",
	TemplateCompany:  "Company_Impact_Template.csv",
}

// Template returns the bundled example for name. It panics on an unknown
// name; the set is fixed at build time.
func Template(name TemplateName) Sheet {
	s, err := loadTemplate(name)
	if err != nil {
		panic(err)
	}

	return s
}

// TemplateBytes returns the bundled example exactly as shipped.
func TemplateBytes(name TemplateName) ([]byte, error) {
	data, err := templateFS.ReadFile("templates/" + string(name) + ".csv")
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}

	return data, nil
}

func loadTemplate(name TemplateName) (Sheet, error) {
	data, err := TemplateBytes(name)
	if err != nil {
		return Sheet{}, err
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("parsing template %q: %w", name, err)
	}

	return Sheet{
		Name:     string(name) + " template",
		FileName: templateFiles[name],
		Header:   records[0],
		Rows:     records[1:],
	}, nil
}
