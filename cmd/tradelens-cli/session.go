package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/tradelens/tradelens/internal/localstore"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/persist"
	"github.com/tradelens/tradelens/internal/provider"
)

// session wires the three providers to the local mirror and the server.
type session struct {
	local    *localstore.Store
	macro    *provider.Macro
	industry *provider.Industry
	company  *provider.Company
}

func openSession(ctx context.Context) (*session, error) {
	if dir := filepath.Dir(flagLocalDB); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating local mirror dir: %w", err)
		}
	}

	local, err := localstore.Open(ctx, flagLocalDB)
	if err != nil {
		return nil, fmt.Errorf("opening local mirror: %w", err)
	}

	tiers := provider.Tiers{Local: local, Log: cliLog, Timeout: flagTimeout}
	if !flagOffline && apiClient != nil {
		tiers.Server = persist.NewRemoteTier(apiClient)
	}

	return &session{
		local:    local,
		macro:    provider.NewMacro(tiers),
		industry: provider.NewIndustry(tiers),
		company:  provider.NewCompany(tiers),
	}, nil
}

// load fills the providers for kinds concurrently and reports each source.
func (s *session) load(ctx context.Context, kinds ...models.Kind) map[models.Kind]persist.Source {
	if len(kinds) == 0 {
		kinds = models.Kinds
	}

	sources := make([]persist.Source, len(kinds))
	g, gctx := errgroup.WithContext(ctx)

	for i, kind := range kinds {
		g.Go(func() error {
			switch kind {
			case models.KindMacro:
				sources[i] = s.macro.Load(gctx)
			case models.KindIndustry:
				sources[i] = s.industry.Load(gctx)
			case models.KindCompany:
				sources[i] = s.company.Load(gctx)
			}
			return nil
		})
	}
	_ = g.Wait() // loads never fail; each falls back to defaults.

	out := make(map[models.Kind]persist.Source, len(kinds))
	for i, kind := range kinds {
		out[kind] = sources[i]
	}
	return out
}

// source reports where kind's provider found its data on the last load.
func (s *session) source(kind models.Kind) persist.Source {
	switch kind {
	case models.KindIndustry:
		return s.industry.Source()
	case models.KindCompany:
		return s.company.Source()
	default:
		return s.macro.Source()
	}
}

// Close waits for background server writes, then closes the mirror.
func (s *session) Close() error {
	s.macro.Flush()
	s.industry.Flush()
	s.company.Flush()
	return s.local.Close()
}
