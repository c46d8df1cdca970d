package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/internal/export"
	"github.com/tradelens/tradelens/internal/models"
)

// withSession opens a session, loads kinds, runs fn, and closes the session.
func withSession(ctx context.Context, kinds []models.Kind, fn func(*session) error) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	for kind, src := range s.load(ctx, kinds...) {
		cliLog.WithField("kind", kind).WithField("source", src).Debug("dataset loaded")
	}

	runErr := fn(s)
	if err := s.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("closing local mirror: %w", err)
	}
	return runErr
}

func newShowCmd() *cobra.Command {
	var (
		country string
		series  string
	)

	cmd := &cobra.Command{
		Use:   "show <macro|industry|company>",
		Short: "Show the current dataset",
		Long: `Load a dataset from the server, falling back to the local mirror and
then to built-in sample data, and print it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			ser, ok := export.ParseSeries(series)
			if !ok {
				return fmt.Errorf("--series must be gdp or trade, got %q", series)
			}

			return withSession(cmd.Context(), []models.Kind{kind}, func(s *session) error {
				return runShow(s, kind, country, ser)
			})
		},
	}

	cmd.Flags().StringVar(&country, "country", models.CountryAll, "Country to show for macro data")
	cmd.Flags().StringVar(&series, "series", string(export.SeriesGDP), "Macro series: gdp|trade")

	return cmd
}

func runShow(s *session, kind models.Kind, country string, series export.Series) error {
	fmt.Fprintf(os.Stderr, "Loaded from %s\n", s.source(kind))

	switch kind {
	case models.KindMacro:
		if err := s.macro.SelectCountry(country); err != nil {
			return err
		}
		code := s.macro.SelectedCountry()
		cd := s.macro.Selected()
		fmt.Fprintf(os.Stderr, "%s\n", models.CountryName(code))
		if seriesLen(cd, series) == 0 {
			fmt.Fprintf(os.Stderr, "No %s data for %s. Upload one with: tradelens upload macro <file> --series %s --country %s\n",
				series, code, series, code)
			return nil
		}
		output(export.MacroSheet(models.MacroDataset{code: cd}, series), cd)

	case models.KindIndustry:
		snap := s.industry.Snapshot()
		if snap.Data.IsEmpty() {
			fmt.Fprintln(os.Stderr, "No industry data. Upload one with: tradelens upload industry <file>")
			return nil
		}
		output(export.IndustrySheet(snap.Data), snap.Data)

	case models.KindCompany:
		snap := s.company.Snapshot()
		if snap.Data.CompanyCount() == 0 {
			fmt.Fprintln(os.Stderr, "No company data. Upload one with: tradelens upload company <file>")
			return nil
		}
		output(export.CompanySheet(snap.Data), snap.Data)
	}

	return nil
}

func seriesLen(cd models.CountryData, series export.Series) int {
	if series == export.SeriesTrade {
		return len(cd.TradeBalance)
	}
	return len(cd.GDPGrowth)
}

func newCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List countries holding macro data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), []models.Kind{models.KindMacro}, func(s *session) error {
				output(countriesSheet(s.macro.CountriesWithData(), s.macro.LastUpdated()), nil)
				return nil
			})
		},
	}
}

func countriesSheet(countries []string, updated map[string]time.Time) export.Sheet {
	sheet := export.Sheet{Header: []string{"code", "name", "last_updated"}}
	for _, c := range countries {
		ts := ""
		if t, ok := updated[c]; ok {
			ts = t.UTC().Format(time.RFC3339)
		}
		sheet.Rows = append(sheet.Rows, []string{c, models.CountryName(c), ts})
	}
	return sheet
}
