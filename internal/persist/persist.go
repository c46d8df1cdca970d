// Package persist keeps a dataset snapshot mirrored across a device-local tier
// and the remote document server.
//
// Both tiers are overwritten wholesale on every save. Two processes saving the
// same dataset race and the last write wins; there is no version check.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/client"
	"github.com/tradelens/tradelens/internal/metrics"
	"github.com/tradelens/tradelens/internal/models"
)

// Defaults for server-tier calls.
const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 3
	DefaultBackoff = 250 * time.Millisecond
)

// Tier is one storage backend holding one JSON document per dataset kind.
// Read returns models.ErrDocumentNotFound when nothing has been stored.
type Tier interface {
	Read(ctx context.Context, kind models.Kind) ([]byte, error)
	Write(ctx context.Context, kind models.Kind, doc []byte) error
}

// Source reports where a loaded snapshot came from.
type Source string

// Load sources.
const (
	SourceServer  Source = "server"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Config wires a Manager. Server may be nil to run without a document server.
type Config[T any] struct {
	Kind    models.Kind
	Local   Tier
	Server  Tier
	Log     *logrus.Logger
	Timeout time.Duration
	Retries uint64
	Backoff time.Duration
	// Default builds the snapshot used when neither tier has data.
	Default func() T
	// IsEmpty reports whether a decoded document should be treated as absent.
	IsEmpty func(T) bool
}

// Manager loads and saves one dataset kind.
type Manager[T any] struct {
	cfg Config[T]
	log *logrus.Entry

	inflight sync.WaitGroup
	writeMu  sync.Mutex
	seqMu    sync.Mutex
	seq      uint64

	// attempted is the newest seq sent to the server, whether or not it landed.
	attempted uint64
}

// NewManager returns a Manager with defaults filled in.
func NewManager[T any](cfg Config[T]) *Manager[T] {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.IsEmpty == nil {
		cfg.IsEmpty = func(T) bool { return false }
	}

	return &Manager[T]{
		cfg: cfg,
		log: cfg.Log.WithField("kind", cfg.Kind),
	}
}

// Load returns the first non-empty, well-formed snapshot found on the server
// tier, then the local tier, then the default. A snapshot found only locally
// is written back to the server before returning.
func (m *Manager[T]) Load(ctx context.Context) (T, Source) {
	if m.cfg.Server != nil {
		sctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
		v, ok := m.read(sctx, m.cfg.Server, SourceServer)
		cancel()

		if ok {
			return v, SourceServer
		}
	}

	if m.cfg.Local != nil {
		if v, ok := m.read(ctx, m.cfg.Local, SourceLocal); ok {
			metrics.TierFallbacks.WithLabelValues(string(m.cfg.Kind), string(SourceLocal)).Inc()
			m.repair(ctx, v)
			return v, SourceLocal
		}
	}

	m.log.Info("no stored data found, using default dataset")
	metrics.TierFallbacks.WithLabelValues(string(m.cfg.Kind), string(SourceDefault)).Inc()

	return m.cfg.Default(), SourceDefault
}

// Save writes the snapshot to the local tier and schedules a background write
// to the server tier. Only a local failure is returned.
func (m *Manager[T]) Save(ctx context.Context, v T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s snapshot: %w", m.cfg.Kind, err)
	}

	var localErr error
	if m.cfg.Local != nil {
		if err := m.cfg.Local.Write(ctx, m.cfg.Kind, doc); err != nil {
			localErr = fmt.Errorf("writing %s to local tier: %w", m.cfg.Kind, err)
		}
	}

	if m.cfg.Server != nil {
		m.seqMu.Lock()
		m.seq++
		seq := m.seq
		m.seqMu.Unlock()

		m.inflight.Add(1)
		go func() {
			defer m.inflight.Done()
			m.pushLatest(context.WithoutCancel(ctx), seq, doc)
		}()
	}

	return localErr
}

// Flush blocks until every scheduled server write has finished.
func (m *Manager[T]) Flush() {
	m.inflight.Wait()
}

// pushLatest writes doc unless a newer save has already been sent to the
// server. A newer write that failed still supersedes doc.
func (m *Manager[T]) pushLatest(ctx context.Context, seq uint64, doc []byte) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if seq < m.attempted {
		m.log.WithField("seq", seq).Debug("skipping superseded server write")
		return
	}
	m.attempted = seq

	if err := m.writeServer(ctx, doc); err != nil {
		m.log.WithError(err).Warn("server tier write failed, local copy kept")
		metrics.ServerTierFailures.WithLabelValues(string(m.cfg.Kind)).Inc()
		return
	}

	m.log.WithField("bytes", len(doc)).Debug("server tier updated")
}

func (m *Manager[T]) writeServer(ctx context.Context, doc []byte) error {
	b := retry.WithMaxRetries(m.cfg.Retries, retry.NewExponential(m.cfg.Backoff))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		wctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()

		err := m.cfg.Server.Write(wctx, m.cfg.Kind, doc)
		if err != nil && transient(err) {
			return retry.RetryableError(err)
		}

		return err
	})
}

// transient reports whether a failed server write is worth repeating. The
// server's 4xx answers, other than 429, reject the document itself.
func transient(err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return true
	}

	return client.IsRateLimited(err) || client.IsUnavailable(err)
}

func (m *Manager[T]) repair(ctx context.Context, v T) {
	if m.cfg.Server == nil {
		return
	}

	doc, err := json.Marshal(v)
	if err != nil {
		m.log.WithError(err).Warn("encoding snapshot for server repair")
		return
	}

	rctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if err := m.cfg.Server.Write(rctx, m.cfg.Kind, doc); err != nil {
		m.log.WithError(err).Warn("server repair from local tier failed")
		return
	}

	m.log.Info("server tier repaired from local copy")
}

// read treats every failure as "tier has no data".
func (m *Manager[T]) read(ctx context.Context, t Tier, src Source) (T, bool) {
	var zero T
	log := m.log.WithField("tier", src)

	doc, err := t.Read(ctx, m.cfg.Kind)
	if err != nil {
		log.WithError(err).Debug("tier read failed")
		return zero, false
	}

	var v T
	if err := json.Unmarshal(doc, &v); err != nil {
		log.WithError(err).Warn("tier holds a malformed document")
		return zero, false
	}

	if m.cfg.IsEmpty(v) {
		log.Debug("tier holds an empty document")
		return zero, false
	}

	return v, true
}
