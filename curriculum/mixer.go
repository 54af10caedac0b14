package curriculum

import (
	"context"
	"math"
	"math/rand"
	"strconv"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// DefaultSeed is the seed used for every split and shuffle unless the
// run request overrides it. Splitting and shuffling never touch global
// random state, so repeated runs with the same seed produce identical
// bucket contents.
const DefaultSeed int64 = 201123

// UniformMixing swaps a controlled proportion of examples between the
// lowest-difficulty bucket and each higher bucket, softening the
// distributional shift between curriculum phases. The lowest bucket
// donates swapProportion of its examples, divided evenly among the
// higher buckets; each higher bucket donates swapProportion/2 back.
// The total example count is preserved and the result is deterministic
// for a fixed seed. Buckets must be ordered easiest first.
func UniformMixing(ctx context.Context, buckets []Bucket, swapProportion float64, seed int64) ([]Bucket, *log.Status) {
	if len(buckets) < 2 {
		return nil, log.Error(ctx, 400, ErrConfiguration,
			`uniform mixing needs at least 2 buckets, got`, strconv.Itoa(len(buckets)))
	}
	if status := checkSwapProportion(ctx, swapProportion); status != nil {
		return nil, status
	}
	checkMergedBuckets(ctx, buckets)

	easy := buckets[0]
	higher := buckets[1:]
	retained, donor := split(easy, swapProportion, seed)
	shares := divide(donor, len(higher))

	mixed := make([]Bucket, len(buckets))
	mixedEasy := retained
	for i, bucket := range higher {
		kept, donated := split(bucket, swapProportion/2, seed)
		mixedEasy = append(mixedEasy, donated...)
		mixed[i+1] = shuffle(append(kept, shares[i]...), seed)
	}
	mixed[0] = shuffle(mixedEasy, seed)
	return mixed, nil
}

// PairwiseMixing is the two-collection variant used for the synthetic
// speech curriculum: each side donates swapProportion of its examples to
// the other. The first returned bucket is the mixed "easy" set (mostly
// original data), the second the mixed "hard" set (mostly synthetic).
func PairwiseMixing(ctx context.Context, original, synthetic Bucket, swapProportion float64, seed int64) ([]Bucket, *log.Status) {
	if status := checkSwapProportion(ctx, swapProportion); status != nil {
		return nil, status
	}
	origKept, origDonor := split(original, swapProportion, seed)
	synthKept, synthDonor := split(synthetic, swapProportion, seed)
	easy := shuffle(append(origKept, synthDonor...), seed)
	hard := shuffle(append(origDonor, synthKept...), seed)
	return []Bucket{easy, hard}, nil
}

func checkSwapProportion(ctx context.Context, p float64) *log.Status {
	if p <= 0 || p >= 1 {
		return log.Error(ctx, 400, ErrConfiguration,
			`swap_proportion must be strictly between 0 and 1, got`,
			strconv.FormatFloat(p, 'f', -1, 64))
	}
	return nil
}

// checkMergedBuckets warns when the hardest bucket spans every declared
// difficulty class, which usually means cumulative unions were passed in
// instead of the disjoint partition. Advisory only.
func checkMergedBuckets(ctx context.Context, buckets []Bucket) {
	var all []Example
	for _, b := range buckets {
		all = append(all, b...)
	}
	total := len(Labels(all))
	last := len(Labels(buckets[len(buckets)-1]))
	if total > 1 && last == total {
		log.Warn(ctx, `hardest bucket covers all`, total,
			`difficulty classes, buckets may be already merged`)
	}
}

// split reserves a fraction of the bucket as a donor pool using a seeded
// permutation. Both returned slices are fresh copies.
func split(bucket Bucket, fraction float64, seed int64) (retained, donated Bucket) {
	n := len(bucket)
	k := int(math.Round(fraction * float64(n)))
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	for i, j := range perm {
		if i < k {
			donated = append(donated, bucket[j])
		} else {
			retained = append(retained, bucket[j])
		}
	}
	return retained, donated
}

// divide deals the donor pool into m near-equal shares.
func divide(donor Bucket, m int) []Bucket {
	shares := make([]Bucket, m)
	size := len(donor) / m
	extra := len(donor) % m
	pos := 0
	for i := range shares {
		end := pos + size
		if i < extra {
			end++
		}
		shares[i] = donor[pos:end]
		pos = end
	}
	return shares
}

// Shuffle returns a seeded random permutation of the examples.
func Shuffle(examples []Example, seed int64) []Example {
	return shuffle(examples, seed)
}

func shuffle(bucket Bucket, seed int64) Bucket {
	result := make(Bucket, len(bucket))
	copy(result, bucket)
	rand.New(rand.NewSource(seed)).Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}
