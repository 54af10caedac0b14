package score

import (
	"math"
	"testing"
)

func TestWordErrorRate(t *testing.T) {
	tests := []struct {
		ref, hyp string
		want     float64
	}{
		{`minä olen täällä tänään`, `minä olen täällä tänään`, 0},
		{`minä olen täällä tänään`, `minä olin täällä`, 0.5},
		{`yksi kaksi`, ``, 1},
		{``, ``, 0},
		{``, `jotain`, 1},
	}
	for _, test := range tests {
		got := WordErrorRate(test.ref, test.hyp)
		if math.Abs(got-test.want) > 1e-9 {
			t.Fatal(`WER of`, test.ref, `vs`, test.hyp, `expected`, test.want, `got`, got)
		}
	}
}

func TestCharErrorRate(t *testing.T) {
	got := CharErrorRate(`abcd`, `abxd`)
	if math.Abs(got-0.25) > 1e-9 {
		t.Fatal(`expected CER 0.25, got`, got)
	}
	got = CharErrorRate(`tänään`, `tänään`)
	if got != 0 {
		t.Fatal(`expected CER 0 for identical strings, got`, got)
	}
}

func TestWordDistanceCountsWholeWords(t *testing.T) {
	// one substitution and one deletion, regardless of word lengths
	got := WordDistance(`pitkäsana b c lyhyt`, `pitkäsana x c`)
	if got != 2 {
		t.Fatal(`expected word distance 2, got`, got)
	}
}

func TestSummarize(t *testing.T) {
	pairs := []Pair{
		{Reference: `yksi kaksi kolme neljä`, Hypothesis: `yksi kaksi kolme neljä`},
		{Reference: `viisi kuusi`, Hypothesis: `viisi seitsemän`},
	}
	summary := Summarize(pairs)
	// 1 word edit out of 6 reference words
	if math.Abs(summary.WER-1.0/6.0) > 1e-9 {
		t.Fatal(`expected corpus WER 1/6, got`, summary.WER)
	}
	if summary.CER <= 0 || summary.CER >= 1 {
		t.Fatal(`expected corpus CER in (0,1), got`, summary.CER)
	}
	if summary.WERStdDev <= 0 {
		t.Fatal(`expected positive WER stddev, got`, summary.WERStdDev)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.WER != 0 || summary.CER != 0 {
		t.Fatal(`expected zero summary for no pairs`)
	}
}
