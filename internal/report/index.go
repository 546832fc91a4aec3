package report

import (
	"time"

	"github.com/masar-farm/masar/internal/domain"
)

// Latest is the winning inspection fragment for one field.
type Latest struct {
	Report    string
	Rating    *int
	CreatedAt *time.Time
}

// LatestByField folds an inspection history into the newest report per
// field in a single pass. Iteration order matters on ties: when two
// records carry the same timestamp, or neither carries one, the record
// seen first keeps its slot. A record without a timestamp loses its
// slot only to one that has a timestamp.
func LatestByField(inspections []domain.InspectionReport) map[int64]Latest {
	index := make(map[int64]Latest)
	for _, ins := range inspections {
		cur, ok := index[ins.FieldID]
		if !ok {
			index[ins.FieldID] = newLatest(ins)
			continue
		}
		if ins.CreatedAt == nil {
			continue
		}
		if cur.CreatedAt == nil || ins.CreatedAt.After(*cur.CreatedAt) {
			index[ins.FieldID] = newLatest(ins)
		}
	}
	return index
}

func newLatest(ins domain.InspectionReport) Latest {
	return Latest{
		Report:    ins.Report,
		Rating:    ins.Rating,
		CreatedAt: ins.CreatedAt,
	}
}
