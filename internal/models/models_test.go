package models_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tradelens/tradelens/internal/models"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Kind
		wantErr bool
	}{
		{in: "macro", want: models.KindMacro},
		{in: " Industry ", want: models.KindIndustry},
		{in: "COMPANY", want: models.KindCompany},
		{in: "gdp", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := models.ParseKind(tc.in)
			if tc.wantErr {
				if !errors.Is(err, models.ErrUnknownKind) {
					t.Fatalf("expected ErrUnknownKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestKind_StorageNames(t *testing.T) {
	cases := map[models.Kind][3]string{
		models.KindMacro:    {"asean_trade_data", "gdp-data.json", "{}"},
		models.KindIndustry: {"asean_industry_data", "industry-data.json", "[]"},
		models.KindCompany:  {"asean_company_data", "company-data.json", "{}"},
	}

	for kind, want := range cases {
		if got := kind.LocalKey(); got != want[0] {
			t.Errorf("%s LocalKey: expected %q, got %q", kind, want[0], got)
		}
		if got := kind.FileName(); got != want[1] {
			t.Errorf("%s FileName: expected %q, got %q", kind, want[1], got)
		}
		if got := string(kind.EmptyDocument()); got != want[2] {
			t.Errorf("%s EmptyDocument: expected %q, got %q", kind, want[2], got)
		}
	}
}

func TestIsValidCountry(t *testing.T) {
	for _, c := range []string{"all", "Vietnam", " laos "} {
		if !models.IsValidCountry(c) {
			t.Errorf("expected %q to be valid", c)
		}
	}
	for _, c := range []string{"", "japan", "usa"} {
		if models.IsValidCountry(c) {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestParseRiskLevel(t *testing.T) {
	tests := map[string]models.RiskLevel{
		"":        models.RiskMedium,
		"low":     models.RiskLow,
		"HIGH":    models.RiskHigh,
		"Medium":  models.RiskMedium,
		"extreme": models.RiskMedium,
	}

	for in, want := range tests {
		if got := models.ParseRiskLevel(in); got != want {
			t.Errorf("ParseRiskLevel(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestMacroDataset_CloneIsDeep(t *testing.T) {
	orig := models.MacroDataset{
		"all": {GDPGrowth: []models.GDPGrowthRecord{{Year: 2020, GDPGrowth: 2.1}}},
	}

	cp := orig.Clone()
	cp["all"].GDPGrowth[0].GDPGrowth = 9.9

	if orig["all"].GDPGrowth[0].GDPGrowth != 2.1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestCompanyDataset_CloneIsDeep(t *testing.T) {
	orig := models.CompanyDataset{
		"tech": {ID: "tech", Name: "Technology", SubIndustries: []models.CompanySubIndustry{
			{Name: "Software", Companies: []models.CompanyRecord{{Name: "SAP", MainMarkets: []string{"Germany"}}}},
		}},
	}

	cp := orig.Clone()
	cp["tech"].SubIndustries[0].Companies[0].MainMarkets[0] = "US"
	cp["tech"].SubIndustries[0].Companies[0].Impact = -1

	got := orig["tech"].SubIndustries[0].Companies[0]
	if got.MainMarkets[0] != "Germany" || got.Impact != 0 {
		t.Errorf("mutating the clone changed the original: %+v", got)
	}

	if orig.CompanyCount() != 1 {
		t.Errorf("expected 1 company, got %d", orig.CompanyCount())
	}
}

func TestIsEmpty(t *testing.T) {
	if !(models.MacroDataset{"all": {}}).IsEmpty() {
		t.Error("macro dataset with empty series should be empty")
	}
	if (models.IndustryDataset{{ID: "x"}}).IsEmpty() {
		t.Error("industry dataset with one record should not be empty")
	}
	if !(models.CompanyDataset{}).IsEmpty() {
		t.Error("empty company dataset should be empty")
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("upload: %w", &models.ValidationError{
		Kind:     models.KindIndustry,
		Required: []string{"id", "name"},
		Dropped:  3,
	})

	if !models.IsValidation(err) {
		t.Fatal("expected IsValidation to unwrap the error")
	}

	if !strings.Contains(err.Error(), "at least id, name columns") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name string
		kind models.Kind
		body string
		ok   bool
	}{
		{"macro object", models.KindMacro, `{"all":{"gdpGrowth":[{"year":2020}],"tradeBalance":[]}}`, true},
		{"macro empty object", models.KindMacro, `{}`, true},
		{"macro array", models.KindMacro, `[]`, false},
		{"industry array", models.KindIndustry, `[{"id":"steel","name":"Steel","subIndustries":[]}]`, true},
		{"industry object", models.KindIndustry, `{"id":"steel"}`, false},
		{"company object", models.KindCompany, `{"tech":{"id":"tech","name":"Technology","subIndustries":[]}}`, true},
		{"company wrong field type", models.KindCompany, `{"tech":{"id":7}}`, false},
		{"null", models.KindCompany, `null`, false},
		{"garbage", models.KindIndustry, `{{`, false},
		{"unknown kind", models.Kind("oil"), `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := models.ValidateDocument(tt.kind, []byte(tt.body))
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected an error")
			}
			if !tt.ok && tt.kind != "oil" && !errors.Is(err, models.ErrInvalidDocument) {
				t.Errorf("error %v does not wrap ErrInvalidDocument", err)
			}
		})
	}
}

func TestCountryName(t *testing.T) {
	if got := models.CountryName("all"); got != "All ASEAN Countries" {
		t.Errorf("CountryName(all) = %q", got)
	}
	if got := models.CountryName(" Vietnam "); got != "Vietnam" {
		t.Errorf("CountryName(Vietnam) = %q", got)
	}
	if got := models.CountryName("atlantis"); got != "atlantis" {
		t.Errorf("CountryName(atlantis) = %q", got)
	}
}
