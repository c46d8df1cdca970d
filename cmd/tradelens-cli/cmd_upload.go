package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/internal/export"
	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/provider"
)

// uploadSummary is what an upload reports back.
type uploadSummary struct {
	Kind     models.Kind `json:"kind"`
	Series   string      `json:"series,omitempty"`
	Applied  int         `json:"applied"`
	Dropped  int         `json:"dropped"`
	Touched  []string    `json:"touched"`
	MergedAt string      `json:"merged_at"`
}

func newUploadCmd() *cobra.Command {
	var (
		series  string
		country string
		bulk    bool
	)

	cmd := &cobra.Command{
		Use:   "upload <macro|industry|company> <file>",
		Short: "Merge a CSV or XLSX file into a dataset",
		Long: `Parse a CSV (or .xlsx) upload, merge it into the current dataset and save
the result to the local mirror and the server.

Macro uploads replace one series (--series gdp|trade). By default the rows
replace the --country series; with --bulk rows are routed by their country
column and rows without one go to "all".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			ser, ok := export.ParseSeries(series)
			if !ok {
				return fmt.Errorf("--series must be gdp or trade, got %q", series)
			}

			tbl, err := provider.ReadFile(args[1])
			if err != nil {
				return uploadError(err)
			}

			return withSession(cmd.Context(), []models.Kind{kind}, func(s *session) error {
				sum, err := runUpload(cmd.Context(), s, kind, tbl, uploadOptions{series: ser, country: country, bulk: bulk})
				if err != nil {
					return uploadError(err)
				}
				printSummary(sum)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&series, "series", string(export.SeriesGDP), "Macro series: gdp|trade")
	cmd.Flags().StringVar(&country, "country", models.CountryAll, "Country replaced by a non-bulk macro upload")
	cmd.Flags().BoolVar(&bulk, "bulk", false, "Route macro rows by their country column")

	return cmd
}

type uploadOptions struct {
	series  export.Series
	country string
	bulk    bool
}

func runUpload(ctx context.Context, s *session, kind models.Kind, tbl *ingest.Table, opts uploadOptions) (*uploadSummary, error) {
	sum := &uploadSummary{Kind: kind}

	switch kind {
	case models.KindMacro:
		if err := s.macro.SelectCountry(opts.country); err != nil {
			return nil, err
		}
		upload := s.macro.UploadGDP
		if opts.series == export.SeriesTrade {
			upload = s.macro.UploadTrade
		}
		res, err := upload(ctx, tbl, opts.bulk)
		if err != nil {
			return nil, err
		}
		sum.Series = string(opts.series)
		sum.Applied, sum.Dropped, sum.Touched = res.Applied, res.Dropped, res.Touched
		sum.MergedAt = res.MergedAt.UTC().Format(time.RFC3339)

	case models.KindIndustry:
		res, err := s.industry.Upload(ctx, tbl)
		if err != nil {
			return nil, err
		}
		sum.Applied, sum.Dropped, sum.Touched = res.Applied, res.Dropped, res.Touched
		sum.MergedAt = res.MergedAt.UTC().Format(time.RFC3339)

	case models.KindCompany:
		res, err := s.company.Upload(ctx, tbl)
		if err != nil {
			return nil, err
		}
		sum.Applied, sum.Dropped, sum.Touched = res.Applied, res.Dropped, res.Touched
		sum.MergedAt = res.MergedAt.UTC().Format(time.RFC3339)
	}

	return sum, nil
}

// uploadError marks failures caused by the file itself as rejections.
func uploadError(err error) error {
	switch {
	case models.IsValidation(err), errors.Is(err, models.ErrNoValidData), errors.Is(err, models.ErrNoHeader):
		return fmt.Errorf("upload rejected: %w", err)
	case errors.Is(err, provider.ErrUploadInProgress):
		return err
	default:
		return fmt.Errorf("upload failed: %w", err)
	}
}

func printSummary(sum *uploadSummary) {
	switch flagFmt {
	case "json":
		formatJSON(sum)
	case "quiet":
		formatQuiet(fmt.Sprint(sum.Applied))
	default:
		fmt.Printf("Merged %d rows into %s", sum.Applied, sum.Kind)
		if sum.Series != "" {
			fmt.Printf(" (%s)", sum.Series)
		}
		fmt.Println()
		if sum.Dropped > 0 {
			fmt.Fprintf(os.Stderr, "Skipped %d rows missing required columns\n", sum.Dropped)
		}
		if len(sum.Touched) > 0 {
			fmt.Printf("Updated: %s\n", strings.Join(sum.Touched, ", "))
		}
	}
}
