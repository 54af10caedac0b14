package curriculum

import (
	"context"
	"strconv"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// Schedule assembles the ordered training phases. Phase i trains on the
// union of buckets 0..i for epochBudget[i] epochs, so subsets grow
// monotonically and the final phase covers every bucket. The declared
// total epoch count is an explicit consistency check the caller must
// satisfy, it is never derived from the budget.
func Schedule(ctx context.Context, buckets []Bucket, epochBudget []int, totalEpochs int) ([]Phase, *log.Status) {
	if len(buckets) != len(epochBudget) {
		return nil, log.Error(ctx, 400, ErrConfiguration,
			`have`, strconv.Itoa(len(buckets)), `buckets but`,
			strconv.Itoa(len(epochBudget)), `epoch counts`)
	}
	var sum int
	for _, n := range epochBudget {
		sum += n
	}
	if sum != totalEpochs {
		return nil, log.Error(ctx, 400, ErrConfiguration,
			`epoch budget sums to`, strconv.Itoa(sum),
			`but declared total is`, strconv.Itoa(totalEpochs))
	}
	phases := make([]Phase, len(buckets))
	var cumulative []Example
	for i, bucket := range buckets {
		cumulative = append(cumulative, bucket...)
		subset := make([]Example, len(cumulative))
		copy(subset, cumulative)
		phases[i] = Phase{Epochs: epochBudget[i], Examples: subset}
	}
	return phases, nil
}
