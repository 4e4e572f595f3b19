package scoring

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/quizkit/sage/pkg/embedding"
	"github.com/quizkit/sage/pkg/models"
	"github.com/quizkit/sage/pkg/normalizers"
	"github.com/quizkit/sage/pkg/tracing"
)

// Fusion weights are fixed: the semantic score dominates, the lexical score
// guards against embedding blind spots on short answers.
const (
	semanticWeight = 0.8
	lexicalWeight  = 0.2
)

// Config contains configuration for the combiner.
type Config struct {
	DefaultThreshold float64 // Acceptance threshold when the caller supplies none (default: 0.75)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultThreshold: 0.75,
	}
}

// Combiner fuses the lexical and semantic similarity of an answer pair into
// a single accept/reject decision. It is stateless per request; the only
// shared resource is the injected embedding provider.
type Combiner struct {
	logger   ectologger.Logger
	provider embedding.Provider
	scorer   *Scorer
	cfg      Config
}

// NewCombiner creates a new Combiner.
func NewCombiner(logger ectologger.Logger, provider embedding.Provider, cfg Config) *Combiner {
	return &Combiner{
		logger:   logger,
		provider: provider,
		scorer:   NewScorer(),
		cfg:      cfg,
	}
}

// DefaultThreshold returns the configured fallback threshold.
func (c *Combiner) DefaultThreshold() float64 {
	return c.cfg.DefaultThreshold
}

// Decide scores userAnswer against correctAnswer and applies the threshold
// (inclusive: combined == threshold is accepted).
//
// Answers equal after whitespace normalization and case folding short-circuit
// to a full-confidence decision without calling the embedding provider; the
// model may be cold and trivial matches must not pay for warming it.
func (c *Combiner) Decide(ctx context.Context, userAnswer, correctAnswer string, threshold float64) (*models.Decision, error) {
	ctx, span := tracing.StartSpan(ctx, "scoring.Combiner.Decide")
	defer span.End()

	if threshold < 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	user := normalizers.ApplyChain(userAnswer, "collapse_whitespace", "trim")
	correct := normalizers.ApplyChain(correctAnswer, "collapse_whitespace", "trim")

	if user == "" || correct == "" {
		return nil, ErrMissingInput
	}

	log := c.logger.WithContext(ctx)

	if c.scorer.ExactMatch(user, correct, false) == 1.0 {
		log.WithFields(map[string]any{"threshold": threshold}).Debug("Exact match, skipping model")
		return models.ExactMatchDecision(threshold), nil
	}

	vectors, err := c.provider.EmbedBatch(ctx, []string{user, correct})
	if err != nil {
		log.WithError(err).Error("Failed to embed answer pair")
		return nil, &ProviderError{Err: err}
	}
	if len(vectors) != 2 {
		log.WithFields(map[string]any{"vector_count": len(vectors)}).Error("Unexpected embedding count")
		return nil, &ProviderError{Err: errUnexpectedVectorCount(len(vectors))}
	}

	semantic, err := embedding.CosineSimilarity(vectors[0], vectors[1])
	if err != nil {
		log.WithError(err).Error("Malformed embedding vectors")
		return nil, &ProviderError{Err: err}
	}

	jaroWinkler := c.scorer.JaroWinkler(normalizers.Lowercase(user), normalizers.Lowercase(correct))

	combined := fuse(semantic, jaroWinkler)

	decision := &models.Decision{
		IsCorrect:  combined >= threshold,
		Confidence: combined,
		Scores: models.ScoreSet{
			Semantic:    semantic,
			JaroWinkler: jaroWinkler,
			Combined:    combined,
		},
		Threshold: threshold,
	}

	log.WithFields(map[string]any{
		"is_correct":   decision.IsCorrect,
		"semantic":     semantic,
		"jaro_winkler": jaroWinkler,
		"combined":     combined,
		"threshold":    threshold,
	}).Debug("Scored answer pair")

	return decision, nil
}

// fuse combines the semantic and lexical scores with the fixed weights.
func fuse(semantic, lexical float64) float64 {
	return semantic*semanticWeight + lexical*lexicalWeight
}
