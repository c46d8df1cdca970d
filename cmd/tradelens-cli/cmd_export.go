package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/internal/export"
	"github.com/tradelens/tradelens/internal/models"
)

func newExportCmd() *cobra.Command {
	var (
		outputPath string
		fileType   string
		series     string
	)

	cmd := &cobra.Command{
		Use:   "export <macro|industry|company>",
		Short: "Export a dataset as CSV or XLSX",
		Long: `Write the current dataset in its upload layout, so the file can be edited
and uploaded again. An empty dataset exports the illustrative template.
Rows are sorted, so the same data always produces the same file.

An xlsx export of macro data holds both series, one sheet each.`,
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
			if fileType != "csv" && fileType != "xlsx" {
				return fmt.Errorf("--type must be csv or xlsx, got %q", fileType)
			}

			return withSession(cmd.Context(), []models.Kind{kind}, func(s *session) error {
				sheets := exportSheets(s, kind, ser, fileType == "xlsx")
				return writeSheets(sheets, fileType, outputPath)
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: the dataset's file name, use - for stdout)")
	cmd.Flags().StringVar(&fileType, "type", "csv", "File type: csv|xlsx")
	cmd.Flags().StringVar(&series, "series", string(export.SeriesGDP), "Macro series for csv: gdp|trade")

	return cmd
}

func exportSheets(s *session, kind models.Kind, series export.Series, allSeries bool) []export.Sheet {
	switch kind {
	case models.KindMacro:
		data := s.macro.Snapshot().Data
		if allSeries {
			return []export.Sheet{
				export.MacroSheet(data, export.SeriesGDP),
				export.MacroSheet(data, export.SeriesTrade),
			}
		}
		return []export.Sheet{export.MacroSheet(data, series)}
	case models.KindIndustry:
		return []export.Sheet{export.IndustrySheet(s.industry.Snapshot().Data)}
	default:
		return []export.Sheet{export.CompanySheet(s.company.Snapshot().Data)}
	}
}

func writeSheets(sheets []export.Sheet, fileType, path string) error {
	if fileType == "xlsx" {
		if path == "" {
			path = xlsxName(sheets[0].FileName)
		}
		if path == "-" {
			return fmt.Errorf("xlsx export needs a file path")
		}
		if err := export.WriteXLSX(path, sheets...); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d sheet(s) to %s\n", len(sheets), path)
		return nil
	}

	sheet := sheets[0]
	if path == "-" {
		return export.WriteCSV(os.Stdout, sheet)
	}
	if path == "" {
		path = sheet.FileName
	}

	f, err := os.Create(path) //nolint:gosec // path is chosen by the user.
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := export.WriteCSV(f, sheet); err != nil {
		f.Close() //nolint:errcheck,gosec // write error takes precedence.
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Exported %d rows to %s\n", len(sheet.Rows), path)
	return nil
}

func xlsxName(csvName string) string {
	return strings.TrimSuffix(csvName, ".csv") + ".xlsx"
}
