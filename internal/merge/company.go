package merge

import (
	"iter"

	"golang.org/x/text/cases"

	"github.com/tradelens/tradelens/internal/ingest"
	"github.com/tradelens/tradelens/internal/models"
)

// Company upserts rows into a copy of current. A company whose name matches an
// existing one in the same industry and bucket, ignoring case, is overwritten in
// place; otherwise it is appended. Industries and buckets are created on demand.
func Company(current models.CompanyDataset, rows iter.Seq[ingest.Row], opts Options) (Result[models.CompanyDataset], error) {
	var t tally
	parsed := convertAll(rows, CompanyRowFrom, &t)

	if err := t.err(models.KindCompany, CompanyRequired); err != nil {
		return Result[models.CompanyDataset]{}, err
	}

	out := current.Clone()
	u := upserter{data: out, fold: cases.Fold(), seen: map[bucketKey]map[string]int{}}
	touched := []string{}
	touchedSet := map[string]bool{}

	for _, r := range parsed {
		u.apply(r)

		if !touchedSet[r.IndustryID] {
			touchedSet[r.IndustryID] = true
			touched = append(touched, r.IndustryID)
		}
	}

	return Result[models.CompanyDataset]{
		Data:     out,
		Applied:  t.applied,
		Dropped:  t.dropped,
		Touched:  touched,
		MergedAt: opts.now(),
	}, nil
}

type bucketKey struct {
	industry string
	bucket   string
}

// upserter tracks, per bucket, the position of every company name seen during one upload.
type upserter struct {
	data models.CompanyDataset
	fold cases.Caser
	seen map[bucketKey]map[string]int
}

func (u *upserter) apply(r CompanyRow) {
	ind, ok := u.data[r.IndustryID]
	if !ok {
		ind = models.IndustryCompanies{
			ID:            r.IndustryID,
			Name:          r.IndustryName,
			SubIndustries: []models.CompanySubIndustry{},
		}
	}

	si := -1
	for i, sub := range ind.SubIndustries {
		if sub.Name == r.Bucket {
			si = i
			break
		}
	}

	if si < 0 {
		ind.SubIndustries = append(ind.SubIndustries, models.CompanySubIndustry{
			Name:      r.Bucket,
			Companies: []models.CompanyRecord{},
		})
		si = len(ind.SubIndustries) - 1
	}

	sub := &ind.SubIndustries[si]
	names := u.names(bucketKey{industry: r.IndustryID, bucket: r.Bucket}, sub.Companies)
	folded := u.fold.String(r.Company.Name)

	if pos, found := names[folded]; found {
		sub.Companies[pos] = r.Company
	} else {
		names[folded] = len(sub.Companies)
		sub.Companies = append(sub.Companies, r.Company)
	}

	u.data[r.IndustryID] = ind
}

// names returns the folded-name index for a bucket, building it from existing companies on first use.
func (u *upserter) names(key bucketKey, existing []models.CompanyRecord) map[string]int {
	if idx, ok := u.seen[key]; ok {
		return idx
	}

	idx := make(map[string]int, len(existing))
	for i, c := range existing {
		f := u.fold.String(c.Name)
		if _, dup := idx[f]; !dup {
			idx[f] = i
		}
	}
	u.seen[key] = idx

	return idx
}
