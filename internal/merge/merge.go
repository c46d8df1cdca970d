// Package merge folds parsed CSV rows into new dataset snapshots.
//
// Each dataset has its own policy: macro series are replaced per country,
// industries accumulate trade values across duplicate ids, and companies are
// upserted by case-insensitive name inside their sub-industry bucket.
package merge

import (
	"errors"
	"iter"
	"time"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
)

// Minimum columns per dataset.
var (
	MacroRequired    = []string{"year"}
	IndustryRequired = []string{"id", "name"}
	CompanyRequired  = []string{"industryId", "companyName"}
)

// ErrMissingField marks a row that lacks a required column.
var ErrMissingField = errors.New("missing required field")

// Options controls a single merge.
type Options struct {
	// Bulk groups macro rows by their country column instead of targeting Country.
	Bulk bool
	// Country is the macro series replaced by a non-bulk upload. Empty means "all".
	Country string
	// Now stamps the result. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}

	return time.Now()
}

// Result is the outcome of a successful merge.
type Result[T any] struct {
	Data     T
	Applied  int
	Dropped  int
	Touched  []string
	MergedAt time.Time
}

// tally counts the rows seen by a merge and turns an all-rejected upload into a validation error.
type tally struct {
	seen    int
	applied int
	dropped int
}

func (t *tally) accept() { t.seen++; t.applied++ }
func (t *tally) reject() { t.seen++; t.dropped++ }

func (t *tally) err(kind models.Kind, required []string) error {
	if t.seen == 0 {
		return models.ErrNoValidData
	}

	if t.applied == 0 {
		return &models.ValidationError{Kind: kind, Required: required, Dropped: t.dropped}
	}

	return nil
}

// convertAll walks rows, converting each one and counting rejections.
func convertAll[R any](rows iter.Seq[ingest.Row], convert func(ingest.Row) (R, error), t *tally) []R {
	var out []R
	for row := range rows {
		if row.Err != nil {
			t.reject()
			continue
		}

		r, err := convert(row)
		if err != nil {
			t.reject()
			continue
		}

		t.accept()
		out = append(out, r)
	}

	return out
}
