package curriculum

import (
	"context"
	"errors"
	"testing"
)

func bucketIDs(b Bucket) map[int64]int {
	result := make(map[int64]int)
	for _, ex := range b {
		result[ex.ID]++
	}
	return result
}

func threeBuckets() []Bucket {
	var easy, medium, hard Bucket
	for i := 0; i < 100; i++ {
		easy = append(easy, Example{ID: int64(i), Label: 1.0})
	}
	for i := 0; i < 50; i++ {
		medium = append(medium, Example{ID: int64(1000 + i), Label: 2.0})
	}
	for i := 0; i < 30; i++ {
		hard = append(hard, Example{ID: int64(2000 + i), Label: 3.0})
	}
	return []Bucket{easy, medium, hard}
}

func TestUniformMixingPreservesCount(t *testing.T) {
	ctx := context.Background()
	buckets := threeBuckets()
	before := 0
	for _, b := range buckets {
		before += len(b)
	}
	mixed, status := UniformMixing(ctx, buckets, 0.2, DefaultSeed)
	if status != nil {
		t.Fatal(status)
	}
	after := 0
	seen := make(map[int64]int)
	for _, b := range mixed {
		after += len(b)
		for id, n := range bucketIDs(b) {
			seen[id] += n
		}
	}
	if before != after {
		t.Fatal(`expected`, before, `examples after mixing, got`, after)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatal(`example`, id, `appears`, n, `times after mixing`)
		}
	}
}

func TestUniformMixingMovesExamples(t *testing.T) {
	ctx := context.Background()
	buckets := threeBuckets()
	mixed, status := UniformMixing(ctx, buckets, 0.2, DefaultSeed)
	if status != nil {
		t.Fatal(status)
	}
	// 20 donated from easy, 5 + 3 donated back
	if len(mixed[0]) != 100-20+5+3 {
		t.Fatal(`expected easy bucket of 88, got`, len(mixed[0]))
	}
	easyIDs := bucketIDs(mixed[0])
	var medium, hard int
	for id := range easyIDs {
		if id >= 2000 {
			hard++
		} else if id >= 1000 {
			medium++
		}
	}
	if medium != 5 || hard != 3 {
		t.Fatal(`expected 5 medium and 3 hard donations, got`, medium, hard)
	}
}

func TestUniformMixingDeterministic(t *testing.T) {
	ctx := context.Background()
	first, status := UniformMixing(ctx, threeBuckets(), 0.3, DefaultSeed)
	if status != nil {
		t.Fatal(status)
	}
	second, status := UniformMixing(ctx, threeBuckets(), 0.3, DefaultSeed)
	if status != nil {
		t.Fatal(status)
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatal(`bucket`, i, `size differs between identical runs`)
		}
		for j := range first[i] {
			if first[i][j].ID != second[i][j].ID {
				t.Fatal(`bucket`, i, `content differs between identical runs`)
			}
		}
	}
}

func TestUniformMixingSwapBoundary(t *testing.T) {
	ctx := context.Background()
	for _, p := range []float64{0, 1, -0.1, 1.5} {
		_, status := UniformMixing(ctx, threeBuckets(), p, DefaultSeed)
		if status == nil {
			t.Fatal(`expected rejection of swap proportion`, p)
		}
		if !errors.Is(status, ErrConfiguration) {
			t.Fatal(`expected ErrConfiguration, got`, status)
		}
	}
}

func TestUniformMixingTooFewBuckets(t *testing.T) {
	ctx := context.Background()
	_, status := UniformMixing(ctx, []Bucket{makeExamples(10, 1.0, false)}, 0.2, DefaultSeed)
	if status == nil {
		t.Fatal(`expected configuration error for single bucket`)
	}
	if !errors.Is(status, ErrConfiguration) {
		t.Fatal(`expected ErrConfiguration, got`, status)
	}
}

func TestPairwiseMixing(t *testing.T) {
	ctx := context.Background()
	original := Bucket(makeExamples(200, 2.0, false))
	synthetic := Bucket(makeExamples(200, 2.0, true))
	for i := range synthetic {
		synthetic[i].ID += 10000
	}
	mixed, status := PairwiseMixing(ctx, original, synthetic, 0.2, DefaultSeed)
	if status != nil {
		t.Fatal(status)
	}
	if len(mixed) != 2 {
		t.Fatal(`expected 2 collections, got`, len(mixed))
	}
	if len(mixed[0]) != 200 || len(mixed[1]) != 200 {
		t.Fatal(`expected 200 examples per side, got`, len(mixed[0]), len(mixed[1]))
	}
	var synthInEasy int
	for _, ex := range mixed[0] {
		if ex.Synthetic {
			synthInEasy++
		}
	}
	if synthInEasy != 40 {
		t.Fatal(`expected 40 synthetic examples swapped into the easy set, got`, synthInEasy)
	}
	phases, status := Schedule(ctx, mixed, []int{10, 10}, 20)
	if status != nil {
		t.Fatal(status)
	}
	if len(phases[0].Examples) != 200 {
		t.Fatal(`expected 200 examples in phase 0, got`, len(phases[0].Examples))
	}
	if len(phases[1].Examples) != 400 {
		t.Fatal(`expected all 400 examples in phase 1, got`, len(phases[1].Examples))
	}
}

func TestPairwiseMixingSwapBoundary(t *testing.T) {
	ctx := context.Background()
	original := Bucket(makeExamples(10, 1.0, false))
	synthetic := Bucket(makeExamples(10, 1.0, true))
	for _, p := range []float64{0, 1} {
		_, status := PairwiseMixing(ctx, original, synthetic, p, DefaultSeed)
		if status == nil {
			t.Fatal(`expected rejection of swap proportion`, p)
		}
	}
}
