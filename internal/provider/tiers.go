package provider

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/persist"
	"github.com/tradelens/tradelens/internal/sample"
)

// Tiers is the storage every provider writes through to. Server may be nil.
type Tiers struct {
	Local   persist.Tier
	Server  persist.Tier
	Log     *logrus.Logger
	Timeout time.Duration
}

func manager[T any](t Tiers, kind models.Kind, def func() T, isEmpty func(T) bool) *persist.Manager[T] {
	return persist.NewManager(persist.Config[T]{
		Kind:    kind,
		Local:   t.Local,
		Server:  t.Server,
		Log:     t.Log,
		Timeout: t.Timeout,
		Default: def,
		IsEmpty: isEmpty,
	})
}

// NewMacro returns a macro provider backed by t. It holds sample data until Load is called.
func NewMacro(t Tiers) *Macro {
	return newMacro(manager(t, models.KindMacro, sample.Macro, models.MacroDataset.IsEmpty), t.Log)
}

// NewIndustry returns an industry provider backed by t.
func NewIndustry(t Tiers) *Industry {
	return newIndustry(manager(t, models.KindIndustry, sample.Industry, models.IndustryDataset.IsEmpty), t.Log)
}

// NewCompany returns a company provider backed by t.
func NewCompany(t Tiers) *Company {
	return newCompany(manager(t, models.KindCompany, sample.Company, models.CompanyDataset.IsEmpty), t.Log)
}
