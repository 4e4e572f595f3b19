package models

// ScoreSet holds the component scores that produced a verdict.
// Exact is set only when the case-insensitive exact-match shortcut fired,
// in which case every field is 1.0.
type ScoreSet struct {
	Exact       *float64 `json:"exact,omitempty"`
	Semantic    float64  `json:"semantic"`
	JaroWinkler float64  `json:"jaroWinkler"`
	Combined    float64  `json:"combined"`
}

// Decision is the outcome of scoring a user answer against a reference answer.
type Decision struct {
	IsCorrect  bool     `json:"isCorrect"`
	Confidence float64  `json:"confidence"`
	Scores     ScoreSet `json:"scores"`
	Threshold  float64  `json:"threshold"`
}

// ExactMatchDecision builds the fast-path decision for answers that are
// equal after normalization and case folding.
func ExactMatchDecision(threshold float64) *Decision {
	one := 1.0
	return &Decision{
		IsCorrect:  true,
		Confidence: 1.0,
		Scores: ScoreSet{
			Exact:       &one,
			Semantic:    1.0,
			JaroWinkler: 1.0,
			Combined:    1.0,
		},
		Threshold: threshold,
	}
}
