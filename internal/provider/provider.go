// Package provider holds the in-memory dataset snapshots the dashboard renders.
//
// Each provider owns one snapshot, serializes uploads, and writes every
// accepted upload through its persist.Manager. Readers get copies.
package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/merge"
	"github.com/tradelens/tradelens/internal/models"
	"github.com/tradelens/tradelens/internal/persist"
)

// ErrUploadInProgress is returned when an upload starts while another one on
// the same provider has not finished.
var ErrUploadInProgress = errors.New("an upload is already in progress")

// Store is the persistence a provider writes through to.
type Store[T any] interface {
	Load(ctx context.Context) (T, persist.Source)
	Save(ctx context.Context, v T) error
	Flush()
}

var _ Store[models.MacroDataset] = (*persist.Manager[models.MacroDataset])(nil)

// Provider owns the snapshot of one dataset kind.
type Provider[T any] struct {
	kind  models.Kind
	store Store[T]
	clone func(T) T
	log   *logrus.Entry
	now   func() time.Time

	mu     sync.RWMutex
	snap   models.Snapshot[T]
	source persist.Source

	uploading atomic.Bool
}

func newProvider[T any](kind models.Kind, store Store[T], clone func(T) T, log *logrus.Logger) *Provider[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Provider[T]{
		kind:  kind,
		store: store,
		clone: clone,
		log:   log.WithField("provider", kind),
		now:   time.Now,
	}
}

// Load replaces the snapshot with whatever the store holds and reports where it came from.
func (p *Provider[T]) Load(ctx context.Context) persist.Source {
	data, src := p.store.Load(ctx)

	p.mu.Lock()
	p.snap = models.Snapshot[T]{Data: data, LastUpdated: p.now()}
	p.source = src
	p.mu.Unlock()

	p.log.WithField("source", src).Info("dataset loaded")

	return src
}

// Snapshot returns a copy of the current snapshot.
func (p *Provider[T]) Snapshot() models.Snapshot[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return models.Snapshot[T]{Data: p.clone(p.snap.Data), LastUpdated: p.snap.LastUpdated}
}

// Source reports where the last Load found its data.
func (p *Provider[T]) Source() persist.Source {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.source
}

// Flush waits for background server writes to finish.
func (p *Provider[T]) Flush() {
	p.store.Flush()
}

// apply runs one upload. The merge sees a copy of the current data; on
// success its result replaces the snapshot and is saved. On failure the
// snapshot is left untouched.
func (p *Provider[T]) apply(ctx context.Context, fold func(current T) (merge.Result[T], error)) (merge.Result[T], error) {
	if !p.uploading.CompareAndSwap(false, true) {
		return merge.Result[T]{}, ErrUploadInProgress
	}
	defer p.uploading.Store(false)

	current := p.Snapshot().Data

	res, err := safeFold(fold, current)
	if err != nil {
		p.log.WithError(err).Warn("upload rejected")
		return merge.Result[T]{}, err
	}

	p.mu.Lock()
	p.snap = models.Snapshot[T]{Data: p.clone(res.Data), LastUpdated: res.MergedAt}
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"applied": res.Applied,
		"dropped": res.Dropped,
		"touched": res.Touched,
	}).Info("upload merged")

	if err := p.store.Save(ctx, p.clone(res.Data)); err != nil {
		p.log.WithError(err).Warn("saving dataset locally failed")
	}

	return res, nil
}

func safeFold[T any](fold func(T) (merge.Result[T], error), current T) (res merge.Result[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("merge failed: %v", r)
		}
	}()

	return fold(current)
}

// ReadFile parses an upload from disk. Workbooks are read by extension; any
// other file is parsed as CSV.
func ReadFile(path string) (*ingest.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ingest.ParseXLSX(path)
	}

	f, err := os.Open(path) //nolint:gosec // path is chosen by the user uploading it.
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file.

	return ingest.Parse(f)
}
