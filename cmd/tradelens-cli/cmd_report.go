package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/internal/export"
	"github.com/tradelens/tradelens/internal/models"
)

func newReportCmd() *cobra.Command {
	var (
		country    string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "report <gdp|trade>",
		Short: "Export the dashboard report for one country",
		Long: `The gdp report turns growth components into absolute values against a base
economy of 100, rounded to one decimal. The trade report is the trade balance
with a country column. A country with no macro data at all reports the sample
series; one holding only the other series reports no rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, ok := export.ParseSeries(args[0])
			if !ok {
				return fmt.Errorf("unknown report %q (want gdp or trade)", args[0])
			}

			return withSession(cmd.Context(), []models.Kind{models.KindMacro}, func(s *session) error {
				if err := s.macro.SelectCountry(country); err != nil {
					return err
				}
				sheet := macroReport(s.macro.SelectedCountry(), s.macro.Selected(), series)
				if outputPath == "" {
					output(sheet, nil)
					return nil
				}
				return writeSheets([]export.Sheet{sheet}, "csv", outputPath)
			})
		},
	}

	cmd.Flags().StringVar(&country, "country", models.CountryAll, "Country to report")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write CSV to this path instead of printing")

	return cmd
}

func macroReport(country string, cd models.CountryData, series export.Series) export.Sheet {
	if series == export.SeriesTrade {
		return export.TradeReport(country, cd.TradeBalance)
	}
	return export.GDPReport(country, cd.GDPGrowth)
}
