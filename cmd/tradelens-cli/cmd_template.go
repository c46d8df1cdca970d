package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/internal/export"
)

func newTemplateCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "template <gdp|trade|industry|company>",
		Short: "Write an example upload file",
		Long: `Write the illustrative CSV for a dataset, with the exact columns an upload
expects. Without -o the file is saved under its usual download name.`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {}, // no server needed
		RunE: func(cmd *cobra.Command, args []string) error {
			name := export.TemplateName(args[0])
			if !slices.Contains(export.TemplateNames, name) {
				return fmt.Errorf("unknown template %q (want gdp, trade, industry or company)", args[0])
			}

			data, err := export.TemplateBytes(name)
			if err != nil {
				return err
			}

			if outputPath == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if outputPath == "" {
				outputPath = export.Template(name).FileName
			}

			if err := os.WriteFile(outputPath, data, 0o600); err != nil {
				return fmt.Errorf("writing template: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Template saved to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (use - for stdout)")

	return cmd
}
