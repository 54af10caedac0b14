package curriculum

// Example is one labeled training utterance. The scheduling logic only
// reads the difficulty label; the audio path and transcript are payload
// carried through to the trainer.
type Example struct {
	ID        int64
	Label     float64 // mean CEFR proficiency score
	AudioPath string
	Text      string
	Synthetic bool
}

// Bucket is an ordered collection of examples sharing a difficulty group.
type Bucket []Example

// Phase is one step of the curriculum: train on Examples for Epochs.
type Phase struct {
	Epochs   int
	Examples []Example
}

// Labels returns the distinct difficulty labels present, in first-seen order.
func Labels(examples []Example) []float64 {
	var result []float64
	seen := make(map[float64]bool)
	for _, ex := range examples {
		if !seen[ex.Label] {
			seen[ex.Label] = true
			result = append(result, ex.Label)
		}
	}
	return result
}
