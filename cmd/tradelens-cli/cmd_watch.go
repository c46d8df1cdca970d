package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradelens/tradelens/client"
	"github.com/tradelens/tradelens/internal/models"
)

func newWatchCmd() *cobra.Command {
	var (
		kinds  []string
		lastID uint64
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream dataset change events from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range kinds {
				if _, err := models.ParseKind(k); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := client.WatchOptions{Kinds: kinds, LastEventID: lastID}
			err := apiClient.Watch(ctx, opts, func(evt client.Event) error {
				printEvent(evt)
				return nil
			})
			if errors.Is(err, client.ErrResetRequired) {
				return fmt.Errorf("%w: rerun without --since and reload with 'tradelens show'", err)
			}
			return err
		},
	}

	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Only these dataset kinds (repeatable)")
	cmd.Flags().Uint64Var(&lastID, "since", 0, "Replay buffered events after this event id")

	return cmd
}

func printEvent(evt client.Event) {
	var saved client.DocumentSaved
	_ = json.Unmarshal(evt.Data, &saved) // unknown payloads print without size.

	switch flagFmt {
	case "json":
		formatJSON(evt)
	case "quiet":
		formatQuiet(fmt.Sprint(evt.ID))
	default:
		fmt.Printf("%d  %s  %-8s  %s  %d bytes\n",
			evt.ID, evt.Time.UTC().Format(time.RFC3339), evt.Kind, evt.Type, saved.Bytes)
	}
}
