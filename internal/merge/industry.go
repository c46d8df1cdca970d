package merge

import (
	"iter"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
)

// Industry builds a fresh industry dataset from rows. Rows sharing an id are
// folded into one record: the first row fixes name, impacts, risk and country,
// later rows add their export and import values. Every row that names a product
// appends a sub-industry. Records keep the order in which ids first appear.
func Industry(rows iter.Seq[ingest.Row], opts Options) (Result[models.IndustryDataset], error) {
	var t tally
	parsed := convertAll(rows, IndustryRowFrom, &t)

	if err := t.err(models.KindIndustry, IndustryRequired); err != nil {
		return Result[models.IndustryDataset]{}, err
	}

	out := models.IndustryDataset{}
	index := map[string]int{}
	touched := []string{}

	for _, r := range parsed {
		i, ok := index[r.Record.ID]
		if !ok {
			i = len(out)
			index[r.Record.ID] = i
			out = append(out, r.Record)
			touched = append(touched, r.Record.ID)
		} else {
			out[i].ExportValue += r.Record.ExportValue
			out[i].ImportValue += r.Record.ImportValue
		}

		if r.Product != nil {
			out[i].SubIndustries = append(out[i].SubIndustries, *r.Product)
		}
	}

	return Result[models.IndustryDataset]{
		Data:     out,
		Applied:  t.applied,
		Dropped:  t.dropped,
		Touched:  touched,
		MergedAt: opts.now(),
	}, nil
}
