package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/hbollon/go-edlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProvider returns canned vectors and counts calls so tests can assert
// the exact-match fast path never touches the model.
type stubProvider struct {
	vectors [][]float64
	err     error
	calls   int
}

func (s *stubProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func newTestCombiner(provider *stubProvider) *Combiner {
	logger := zapadapter.NewZapEctoLogger(zap.NewNop(), nil)
	return NewCombiner(logger, provider, DefaultConfig())
}

func TestCombiner_ExactMatchShortcut(t *testing.T) {
	t.Run("case insensitive match skips provider", func(t *testing.T) {
		provider := &stubProvider{}
		combiner := newTestCombiner(provider)

		decision, err := combiner.Decide(context.Background(), "Paris", "paris", 0.75)
		require.NoError(t, err)

		assert.True(t, decision.IsCorrect)
		assert.Equal(t, 1.0, decision.Confidence)
		require.NotNil(t, decision.Scores.Exact)
		assert.Equal(t, 1.0, *decision.Scores.Exact)
		assert.Equal(t, 1.0, decision.Scores.Semantic)
		assert.Equal(t, 1.0, decision.Scores.JaroWinkler)
		assert.Equal(t, 1.0, decision.Scores.Combined)
		assert.Equal(t, 0, provider.calls, "fast path must not call the provider")
	})

	t.Run("whitespace runs collapse before comparison", func(t *testing.T) {
		provider := &stubProvider{}
		combiner := newTestCombiner(provider)

		decision, err := combiner.Decide(context.Background(), "  new\tyork  ", "New York", 0.9)
		require.NoError(t, err)

		assert.True(t, decision.IsCorrect)
		assert.Equal(t, 1.0, decision.Confidence)
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("fires regardless of threshold", func(t *testing.T) {
		provider := &stubProvider{}
		combiner := newTestCombiner(provider)

		decision, err := combiner.Decide(context.Background(), "paris", "paris", 1.0)
		require.NoError(t, err)
		assert.True(t, decision.IsCorrect)
	})
}

func TestCombiner_Fuse(t *testing.T) {
	assert.InDelta(t, 0.82, fuse(0.9, 0.5), 1e-12)
	assert.InDelta(t, 0.0, fuse(0.0, 0.0), 1e-12)
	assert.InDelta(t, 1.0, fuse(1.0, 1.0), 1e-12)
}

func TestCombiner_CombinedScore(t *testing.T) {
	// Orthogonal unit vectors: semantic similarity is exactly 0, so the
	// combined score is the lexical score alone at weight 0.2.
	provider := &stubProvider{vectors: [][]float64{{1, 0}, {0, 1}}}
	combiner := newTestCombiner(provider)

	decision, err := combiner.Decide(context.Background(), "Jaro Winkler", "Jaro-Wnkler", 0.75)
	require.NoError(t, err)

	expectedLexical := float64(edlib.JaroWinklerSimilarity("jaro winkler", "jaro-wnkler"))
	assert.InDelta(t, expectedLexical, decision.Scores.JaroWinkler, 1e-6)
	assert.InDelta(t, 0.0, decision.Scores.Semantic, 1e-12)
	assert.InDelta(t, expectedLexical*0.2, decision.Scores.Combined, 1e-6)
	assert.Equal(t, decision.Scores.Combined, decision.Confidence)
	assert.False(t, decision.IsCorrect)
	assert.Nil(t, decision.Scores.Exact, "exact score only present on the fast path")
	assert.Equal(t, 1, provider.calls, "one batched embed per request")
}

func TestCombiner_SemanticDominates(t *testing.T) {
	// Vectors chosen so the cosine similarity is exactly 0.9.
	provider := &stubProvider{vectors: [][]float64{{1, 0}, {0.9, 0.4358898943540674}}}
	combiner := newTestCombiner(provider)

	decision, err := combiner.Decide(context.Background(), "mitochondria", "powerhouse of the cell", 0.75)
	require.NoError(t, err)

	scorer := NewScorer()
	lexical := scorer.JaroWinkler("mitochondria", "powerhouse of the cell")
	assert.InDelta(t, 0.9, decision.Scores.Semantic, 1e-9)
	assert.InDelta(t, fuse(0.9, lexical), decision.Scores.Combined, 1e-9)
}

func TestCombiner_ThresholdInclusive(t *testing.T) {
	// Identical unit vectors: semantic is 1.0; "ab" and "cd" share no
	// characters so the lexical score is 0 and combined is exactly 0.8.
	provider := &stubProvider{vectors: [][]float64{{1, 0}, {1, 0}}}
	combiner := newTestCombiner(provider)

	t.Run("combined equal to threshold is accepted", func(t *testing.T) {
		decision, err := combiner.Decide(context.Background(), "ab", "cd", 0.8)
		require.NoError(t, err)
		assert.InDelta(t, 0.8, decision.Scores.Combined, 1e-12)
		assert.True(t, decision.IsCorrect)
	})

	t.Run("combined below threshold is rejected", func(t *testing.T) {
		decision, err := combiner.Decide(context.Background(), "ab", "cd", 0.81)
		require.NoError(t, err)
		assert.False(t, decision.IsCorrect)
	})
}

func TestCombiner_MissingInput(t *testing.T) {
	provider := &stubProvider{}
	combiner := newTestCombiner(provider)

	cases := []struct {
		name          string
		userAnswer    string
		correctAnswer string
	}{
		{"empty user answer", "", "paris"},
		{"whitespace-only user answer", "   \t\n", "paris"},
		{"empty correct answer", "paris", ""},
		{"both empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := combiner.Decide(context.Background(), tc.userAnswer, tc.correctAnswer, 0.75)
			assert.ErrorIs(t, err, ErrMissingInput)
			assert.Equal(t, 0, provider.calls, "missing input must not call the provider")
		})
	}
}

func TestCombiner_InvalidThreshold(t *testing.T) {
	provider := &stubProvider{}
	combiner := newTestCombiner(provider)

	for _, threshold := range []float64{-0.1, 1.1, 2.0} {
		_, err := combiner.Decide(context.Background(), "a", "b", threshold)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	}
	assert.Equal(t, 0, provider.calls)
}

func TestCombiner_ProviderFailure(t *testing.T) {
	t.Run("provider error propagates", func(t *testing.T) {
		cause := errors.New("model not ready")
		provider := &stubProvider{err: cause}
		combiner := newTestCombiner(provider)

		_, err := combiner.Decide(context.Background(), "paris", "london", 0.75)
		require.Error(t, err)

		var providerErr *ProviderError
		assert.ErrorAs(t, err, &providerErr)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("wrong vector count", func(t *testing.T) {
		provider := &stubProvider{vectors: [][]float64{{1, 0}}}
		combiner := newTestCombiner(provider)

		_, err := combiner.Decide(context.Background(), "paris", "london", 0.75)
		var providerErr *ProviderError
		assert.ErrorAs(t, err, &providerErr)
	})

	t.Run("mismatched vector lengths", func(t *testing.T) {
		provider := &stubProvider{vectors: [][]float64{{1, 0}, {1}}}
		combiner := newTestCombiner(provider)

		_, err := combiner.Decide(context.Background(), "paris", "london", 0.75)
		var providerErr *ProviderError
		assert.ErrorAs(t, err, &providerErr)
	})
}

func TestCombiner_DefaultThreshold(t *testing.T) {
	combiner := newTestCombiner(&stubProvider{})
	assert.Equal(t, 0.75, combiner.DefaultThreshold())
}
