package curriculum

import (
	"context"
	"errors"
	"testing"
)

func makeExamples(n int, label float64, synthetic bool) []Example {
	var result []Example
	for i := 0; i < n; i++ {
		result = append(result, Example{
			ID:        int64(i),
			Label:     label,
			AudioPath: `audio.wav`,
			Text:      `text`,
			Synthetic: synthetic,
		})
	}
	return result
}

func TestPartition(t *testing.T) {
	ctx := context.Background()
	var examples []Example
	examples = append(examples, makeExamples(4, 1.5, false)...)
	examples = append(examples, makeExamples(3, 2.5, false)...)
	examples = append(examples, makeExamples(2, 3.0, false)...)
	groups := [][]float64{{1.0, 1.5}, {2.0, 2.5}, {3.0}}
	buckets, status := Partition(ctx, examples, groups)
	if status != nil {
		t.Fatal(status)
	}
	if len(buckets) != 3 {
		t.Fatal(`expected 3 buckets, got`, len(buckets))
	}
	sizes := []int{4, 3, 2}
	labels := []float64{1.5, 2.5, 3.0}
	for i, bucket := range buckets {
		if len(bucket) != sizes[i] {
			t.Fatal(`bucket`, i, `expected`, sizes[i], `got`, len(bucket))
		}
		for _, ex := range bucket {
			if ex.Label != labels[i] {
				t.Fatal(`bucket`, i, `has wrong label`, ex.Label)
			}
		}
	}
}

func TestPartitionPreservesOrder(t *testing.T) {
	ctx := context.Background()
	examples := []Example{
		{ID: 7, Label: 2.0}, {ID: 3, Label: 1.0}, {ID: 5, Label: 2.0}, {ID: 1, Label: 2.0},
	}
	buckets, status := Partition(ctx, examples, [][]float64{{1.0}, {2.0}})
	if status != nil {
		t.Fatal(status)
	}
	want := []int64{7, 5, 1}
	for i, ex := range buckets[1] {
		if ex.ID != want[i] {
			t.Fatal(`order not preserved, position`, i, `got`, ex.ID)
		}
	}
}

func TestPartitionIdempotent(t *testing.T) {
	ctx := context.Background()
	var examples []Example
	examples = append(examples, makeExamples(5, 1.0, false)...)
	examples = append(examples, makeExamples(5, 2.0, false)...)
	groups := [][]float64{{1.0}, {2.0}}
	first, status := Partition(ctx, examples, groups)
	if status != nil {
		t.Fatal(status)
	}
	var flat []Example
	for _, bucket := range first {
		flat = append(flat, bucket...)
	}
	second, status := Partition(ctx, flat, groups)
	if status != nil {
		t.Fatal(status)
	}
	for i := range first {
		if len(first[i]) != len(second[i]) {
			t.Fatal(`bucket`, i, `size changed on re-partition`)
		}
		for j := range first[i] {
			if first[i][j].ID != second[i][j].ID {
				t.Fatal(`bucket`, i, `content changed on re-partition`)
			}
		}
	}
}

func TestPartitionUncoveredLabel(t *testing.T) {
	ctx := context.Background()
	examples := []Example{{ID: 1, Label: 1.0}, {ID: 2, Label: 4.5}}
	_, status := Partition(ctx, examples, [][]float64{{1.0}, {2.0}})
	if status == nil {
		t.Fatal(`expected data consistency error`)
	}
	if !errors.Is(status, ErrDataConsistency) {
		t.Fatal(`expected ErrDataConsistency, got`, status)
	}
}

func TestPartitionOverlappingGroups(t *testing.T) {
	ctx := context.Background()
	examples := []Example{{ID: 1, Label: 1.0}}
	_, status := Partition(ctx, examples, [][]float64{{1.0, 2.0}, {2.0, 3.0}})
	if status == nil {
		t.Fatal(`expected configuration error`)
	}
	if !errors.Is(status, ErrConfiguration) {
		t.Fatal(`expected ErrConfiguration, got`, status)
	}
}
