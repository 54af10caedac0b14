package score

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gonum.org/v1/gonum/stat"
)

// Pair is one scored utterance: the reference transcript and the
// recognizer hypothesis.
type Pair struct {
	Reference  string
	Hypothesis string
}

// Summary holds corpus-level error rates plus the spread of the
// per-utterance rates.
type Summary struct {
	WER       float64
	CER       float64
	WERStdDev float64
	CERStdDev float64
}

var dmp = diffmatchpatch.New()

// CharDistance is the character-level Levenshtein distance.
func CharDistance(reference, hypothesis string) int {
	diffs := dmp.DiffMain(reference, hypothesis, false)
	return dmp.DiffLevenshtein(dmp.DiffCleanupMerge(diffs))
}

// WordDistance is the word-level Levenshtein distance. Each distinct
// word is encoded as one placeholder rune so the character diff counts
// whole-word edits.
func WordDistance(reference, hypothesis string) int {
	ref, hyp, _ := dmp.DiffLinesToChars(wordsToLines(reference), wordsToLines(hypothesis))
	diffs := dmp.DiffMain(ref, hyp, false)
	return dmp.DiffLevenshtein(dmp.DiffCleanupMerge(diffs))
}

// WordErrorRate is WordDistance normalized by the reference word count.
func WordErrorRate(reference, hypothesis string) float64 {
	n := len(words(reference))
	if n == 0 {
		if len(words(hypothesis)) == 0 {
			return 0
		}
		return 1
	}
	return float64(WordDistance(reference, hypothesis)) / float64(n)
}

// CharErrorRate is CharDistance normalized by the reference length.
func CharErrorRate(reference, hypothesis string) float64 {
	n := len([]rune(reference))
	if n == 0 {
		if len([]rune(hypothesis)) == 0 {
			return 0
		}
		return 1
	}
	return float64(CharDistance(reference, hypothesis)) / float64(n)
}

// Summarize computes corpus-level WER and CER (total edits over total
// reference units) and the stddev of the per-utterance rates.
func Summarize(pairs []Pair) Summary {
	var result Summary
	var wordEdits, wordCount, charEdits, charCount int
	var werRates, cerRates []float64
	for _, p := range pairs {
		wordEdits += WordDistance(p.Reference, p.Hypothesis)
		wordCount += len(words(p.Reference))
		charEdits += CharDistance(p.Reference, p.Hypothesis)
		charCount += len([]rune(p.Reference))
		werRates = append(werRates, WordErrorRate(p.Reference, p.Hypothesis))
		cerRates = append(cerRates, CharErrorRate(p.Reference, p.Hypothesis))
	}
	if wordCount > 0 {
		result.WER = float64(wordEdits) / float64(wordCount)
	}
	if charCount > 0 {
		result.CER = float64(charEdits) / float64(charCount)
	}
	if len(werRates) > 1 {
		result.WERStdDev = stat.StdDev(werRates, nil)
		result.CERStdDev = stat.StdDev(cerRates, nil)
	}
	return result
}

func words(text string) []string {
	return strings.Fields(text)
}

func wordsToLines(text string) string {
	fields := words(text)
	if len(fields) == 0 {
		return ``
	}
	return strings.Join(fields, "\n") + "\n"
}
