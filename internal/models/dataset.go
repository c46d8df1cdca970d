// Package models defines the dataset types shared by the tradelens server and client.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind names one of the three persisted datasets.
type Kind string

// Dataset kinds.
const (
	KindMacro    Kind = "macro"
	KindIndustry Kind = "industry"
	KindCompany  Kind = "company"
)

// Kinds lists every dataset kind in a stable order.
var Kinds = []Kind{KindMacro, KindIndustry, KindCompany}

// ParseKind validates s and returns the matching Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Kinds, k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}

	return k, nil
}

// LocalKey is the key under which the dataset is mirrored on the device.
func (k Kind) LocalKey() string {
	switch k {
	case KindMacro:
		return "asean_trade_data"
	case KindIndustry:
		return "asean_industry_data"
	case KindCompany:
		return "asean_company_data"
	default:
		return "asean_" + string(k) + "_data"
	}
}

// FileName is the server-side document file for the dataset.
func (k Kind) FileName() string {
	if k == KindMacro {
		return "gdp-data.json"
	}

	return string(k) + "-data.json"
}

// EmptyDocument is the JSON body served when no document has been stored yet.
func (k Kind) EmptyDocument() []byte {
	if k == KindIndustry {
		return []byte("[]")
	}

	return []byte("{}")
}

// CountryAll is the aggregate bucket used when a macro row names no country.
const CountryAll = "all"

// Countries lists the accepted macro country codes.
var Countries = []string{
	CountryAll, "brunei", "cambodia", "indonesia", "laos",
	"malaysia", "myanmar", "philippines", "singapore",
	"thailand", "vietnam",
}

// NormalizeCountry lower-cases and trims a country code.
func NormalizeCountry(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidCountry reports whether code is an accepted country code.
func IsValidCountry(code string) bool {
	return slices.Contains(Countries, NormalizeCountry(code))
}

var countryNames = map[string]string{
	CountryAll:    "All ASEAN Countries",
	"brunei":      "Brunei",
	"cambodia":    "Cambodia",
	"indonesia":   "Indonesia",
	"laos":        "Laos",
	"malaysia":    "Malaysia",
	"myanmar":     "Myanmar",
	"philippines": "Philippines",
	"singapore":   "Singapore",
	"thailand":    "Thailand",
	"vietnam":     "Vietnam",
}

// CountryName returns the display name for a country code, or the code itself
// when it is not recognized.
func CountryName(code string) string {
	if name, ok := countryNames[NormalizeCountry(code)]; ok {
		return name
	}

	return code
}

// ValidateDocument reports whether body decodes as the dataset layout for kind.
func ValidateDocument(kind Kind, body []byte) error {
	var err error

	switch kind {
	case KindMacro:
		var v MacroDataset
		err = decodeStrict(body, &v)
	case KindIndustry:
		var v IndustryDataset
		err = decodeStrict(body, &v)
	case KindCompany:
		var v CompanyDataset
		err = decodeStrict(body, &v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err != nil {
		return fmt.Errorf("%w: %s document: %w", ErrInvalidDocument, kind, err)
	}

	return nil
}

// decodeStrict rejects a JSON null body, which would otherwise decode to a nil
// dataset without error.
func decodeStrict(body []byte, v any) error {
	if trimmed := strings.TrimSpace(string(body)); trimmed == "" || trimmed == "null" {
		return errors.New("document is empty")
	}

	return json.Unmarshal(body, v)
}
