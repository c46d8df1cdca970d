// Package service provides business logic between API handlers and data stores.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/metrics"
	"github.com/tradelens/tradelens/internal/models"
)

// DocumentStore is the data-access interface DocumentService depends on.
type DocumentStore interface {
	Get(ctx context.Context, kind models.Kind) ([]byte, error)
	Put(ctx context.Context, kind models.Kind, body []byte) (time.Time, error)
}

// Broadcaster pushes change events to WebSocket subscribers.
type Broadcaster interface {
	BroadcastEvent(eventType, kind string, data json.RawMessage)
}

// EventDocumentSaved is the event type broadcast after every successful save.
const EventDocumentSaved = "document.saved"

var savedMessages = map[models.Kind]string{
	models.KindMacro:    "GDP and trade data saved successfully",
	models.KindIndustry: "Industry data saved successfully",
	models.KindCompany:  "Company data saved successfully",
}

// DocumentService validates, stores and announces dataset documents.
type DocumentService struct {
	store DocumentStore
	hub   Broadcaster
	log   *logrus.Logger
	now   func() time.Time
}

// NewDocumentService creates a DocumentService. hub may be nil when change
// events are delivered another way (the Postgres notify bridge).
func NewDocumentService(store DocumentStore, hub Broadcaster, log *logrus.Logger) *DocumentService {
	return &DocumentService{store: store, hub: hub, log: log, now: time.Now}
}

// Load returns the stored document for kind. found is false, and the body is
// the kind's empty document, when nothing usable has been stored: either no
// document exists or the stored one is malformed.
func (s *DocumentService) Load(ctx context.Context, kind models.Kind) (body json.RawMessage, found bool, err error) {
	doc, err := s.store.Get(ctx, kind)
	if errors.Is(err, models.ErrDocumentNotFound) {
		s.log.WithField("kind", kind).Debug("no document stored, serving empty")
		return kind.EmptyDocument(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", kind, err)
	}

	if err := models.ValidateDocument(kind, doc); err != nil {
		s.log.WithError(err).WithField("kind", kind).Warn("stored document is malformed, serving empty")
		return kind.EmptyDocument(), false, nil
	}

	return doc, true, nil
}

// Save validates body as kind's layout, replaces the stored document and
// broadcasts a document.saved event. A body of the wrong shape is rejected
// with models.ErrInvalidDocument and nothing is written.
func (s *DocumentService) Save(ctx context.Context, kind models.Kind, body []byte) (*models.SaveResponse, error) {
	if err := models.ValidateDocument(kind, body); err != nil {
		return nil, err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidDocument, err)
	}

	savedAt, err := s.store.Put(ctx, kind, compact.Bytes())
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", kind, err)
	}

	size := compact.Len()
	metrics.DocumentSaves.WithLabelValues(string(kind)).Inc()
	metrics.DocumentBytes.WithLabelValues(string(kind)).Set(float64(size))

	s.log.WithFields(logrus.Fields{
		"kind":  kind,
		"bytes": size,
	}).Info("document saved")

	s.announce(kind, size, savedAt)

	return &models.SaveResponse{
		Success:   true,
		Message:   savedMessages[kind],
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *DocumentService) announce(kind models.Kind, size int, savedAt time.Time) {
	if s.hub == nil {
		return
	}

	data, err := json.Marshal(models.DocumentSaved{Kind: kind, Bytes: size, SavedAt: savedAt})
	if err != nil {
		s.log.WithError(err).Warn("encoding document.saved event")
		return
	}

	s.hub.BroadcastEvent(EventDocumentSaved, string(kind), data)
}
