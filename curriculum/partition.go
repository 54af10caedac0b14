package curriculum

import (
	"context"
	"strconv"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// Partition splits examples into one bucket per difficulty group. Groups
// are ordered easiest first and must be disjoint; every label present in
// the data must belong to exactly one group. Input order is preserved
// within each bucket and no randomness is involved, so partitioning the
// output again with the same groups reproduces the same buckets.
func Partition(ctx context.Context, examples []Example, groups [][]float64) ([]Bucket, *log.Status) {
	if len(groups) == 0 {
		return nil, log.Error(ctx, 400, ErrConfiguration, `difficulty_order has no groups`)
	}
	groupOf := make(map[float64]int)
	for i, group := range groups {
		for _, label := range group {
			if prev, found := groupOf[label]; found && prev != i {
				return nil, log.Error(ctx, 400, ErrConfiguration,
					`label`, formatLabel(label), `appears in more than one difficulty group`)
			}
			groupOf[label] = i
		}
	}
	buckets := make([]Bucket, len(groups))
	for _, ex := range examples {
		i, found := groupOf[ex.Label]
		if !found {
			return nil, log.Error(ctx, 400, ErrDataConsistency,
				`label`, formatLabel(ex.Label), `is not covered by any difficulty group`)
		}
		buckets[i] = append(buckets[i], ex)
	}
	return buckets, nil
}

func formatLabel(label float64) string {
	return strconv.FormatFloat(label, 'f', -1, 64)
}
