package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for dataset ingest.
var (
	ErrNoValidData    = errors.New("no valid data found in CSV file")
	ErrNoHeader       = errors.New("CSV has no header row")
	ErrUnknownKind    = errors.New("unknown dataset kind")
	ErrUnknownCountry = errors.New("unknown country code")
)

// ErrDocumentNotFound indicates no document has been stored for a kind yet.
var ErrDocumentNotFound = errors.New("document not found")

// ErrInvalidDocument indicates a document body that is not valid JSON of the expected shape.
var ErrInvalidDocument = errors.New("invalid document")

// ValidationError reports an upload in which every row was rejected.
type ValidationError struct {
	Kind     Kind
	Required []string
	Dropped  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("CSV must contain at least %s columns (%d rows rejected)",
		strings.Join(e.Required, ", "), e.Dropped)
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
