package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/middleware"
	"github.com/tradelens/tradelens/internal/models"
)

// DocumentHandler serves the per-kind dataset documents.
type DocumentHandler struct {
	svc DocumentService
	log *logrus.Logger
}

// NewDocumentHandler creates a DocumentHandler with the given service and logger.
func NewDocumentHandler(svc DocumentService, log *logrus.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, log: log}
}

// kindParam resolves the :kind path parameter, answering 404 for unknown kinds.
func kindParam(c *gin.Context) (models.Kind, bool) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "unknown dataset kind")

		return "", false
	}

	return kind, true
}

// Get handles GET /api/v1/data/:kind.
func (h *DocumentHandler) Get(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	h.serve(c, kind)
}

// Save handles POST /api/v1/data/:kind.
func (h *DocumentHandler) Save(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	h.store(c, kind)
}

// LoadKind returns a handler serving kind's document (legacy load routes).
func (h *DocumentHandler) LoadKind(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) { h.serve(c, kind) }
}

// SaveKind returns a handler storing kind's document (legacy save routes).
func (h *DocumentHandler) SaveKind(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) { h.store(c, kind) }
}

func (h *DocumentHandler) serve(c *gin.Context, kind models.Kind) {
	body, found, err := h.svc.Load(c.Request.Context(), kind)
	if err != nil {
		middleware.Logger(c, h.log).WithError(err).WithField("kind", kind).Error("loading document")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to load "+string(kind)+" data")

		return
	}

	middleware.Logger(c, h.log).WithFields(logrus.Fields{
		"kind":  kind,
		"found": found,
		"bytes": len(body),
	}).Debug("document served")

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *DocumentHandler) store(c *gin.Context, kind models.Kind) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	h.save(c, kind, body)
}

func (h *DocumentHandler) save(c *gin.Context, kind models.Kind, body []byte) {
	resp, err := h.svc.Save(c.Request.Context(), kind, body)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDocument) {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

			return
		}

		middleware.Logger(c, h.log).WithError(err).WithField("kind", kind).Error("saving document")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to save "+string(kind)+" data")

		return
	}

	c.JSON(http.StatusOK, resp)
}

// legacyPayload is the {gdpData, tradeData} wrapper of the legacy macro routes.
// Both members carry the same macro document.
type legacyPayload struct {
	GDPData   json.RawMessage `json:"gdpData"`
	TradeData json.RawMessage `json:"tradeData"`
}

// LoadLegacyMacro handles GET /api/load-data.
func (h *DocumentHandler) LoadLegacyMacro(c *gin.Context) {
	body, found, err := h.svc.Load(c.Request.Context(), models.KindMacro)
	if err != nil {
		middleware.Logger(c, h.log).WithError(err).Error("loading macro document")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to load GDP and trade data")

		return
	}

	doc := json.RawMessage("null")
	if found {
		doc = body
	}

	c.JSON(http.StatusOK, legacyPayload{GDPData: doc, TradeData: doc})
}

// SaveLegacyMacro handles POST /api/save-data. gdpData is stored; tradeData is
// used only when gdpData is absent.
func (h *DocumentHandler) SaveLegacyMacro(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}

	var p legacyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid data format received")

		return
	}

	doc := p.GDPData
	if isNullJSON(doc) {
		doc = p.TradeData
	}
	if isNullJSON(doc) {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "gdpData or tradeData is required")

		return
	}

	h.save(c, models.KindMacro, doc)
}

func isNullJSON(b json.RawMessage) bool {
	return len(b) == 0 || string(b) == "null"
}

// readBody reads the request body, answering 413 when it exceeds the limit
// set by middleware.MaxBodySize.
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")

			return nil, false
		}

		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "could not read request body")

		return nil, false
	}

	if len(body) == 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "request body is empty")

		return nil, false
	}

	return body, true
}
