package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/internal/export"
	"github.com/tradelens/tradelens/internal/localstore"
	"github.com/tradelens/tradelens/internal/models"
)

func newLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Inspect or clear the local mirror",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List datasets held in the local mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := localstore.Open(cmd.Context(), flagLocalDB)
			if err != nil {
				return fmt.Errorf("opening local mirror: %w", err)
			}
			defer store.Close() //nolint:errcheck // read-only use.

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			sheet := export.Sheet{Header: []string{"key", "bytes", "updated_at"}}
			for _, e := range entries {
				sheet.Rows = append(sheet.Rows, []string{e.Key, strconv.Itoa(e.Bytes), e.UpdatedAt.UTC().Format(time.RFC3339)})
			}
			output(sheet, entries)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <macro|industry|company>",
		Short: "Remove a dataset from the local mirror",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}

			store, err := localstore.Open(cmd.Context(), flagLocalDB)
			if err != nil {
				return fmt.Errorf("opening local mirror: %w", err)
			}
			defer store.Close() //nolint:errcheck // closed after a single delete.

			if err := store.Delete(cmd.Context(), kind); err != nil {
				return err
			}
			formatQuiet(fmt.Sprintf("Cleared %s from the local mirror", kind.LocalKey()))
			return nil
		},
	})

	return cmd
}
