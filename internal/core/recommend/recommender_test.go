package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/ingredient"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func scenarioCorpus() []ingredient.RequirementSet {
	return []ingredient.RequirementSet{
		{RecipeID: "A", Names: []string{"돼지고기", "배추", "김치"}},
		{RecipeID: "B", Names: []string{"돼지고기"}},
		{RecipeID: "C", Names: []string{"새우", "오징어"}},
		{RecipeID: "D", Names: nil},
	}
}

func TestRecommendJaccardScenario(t *testing.T) {
	r := NewRecommender(2, nil)

	results, err := r.Recommend(context.Background(), []string{"돼지고기", "배추"}, scenarioCorpus(), Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "A", results[0].RecipeID)
	assert.InDelta(t, 2.0/3.0, results[0].Score, 1e-3)
	assert.Equal(t, 2, results[0].MatchedCount)
	assert.Equal(t, 3, results[0].TotalCount)
	assert.Equal(t, AlgorithmJaccard, results[0].Algorithm)
	assert.Equal(t, []string{"돼지고기", "배추"}, results[0].Matched)
	assert.Equal(t, []string{"김치"}, results[0].Missing)

	assert.Equal(t, "B", results[1].RecipeID)
	assert.InDelta(t, 0.5, results[1].Score, 1e-3)
}

func TestRecommendCosineScenario(t *testing.T) {
	r := NewRecommender(2, nil)

	results, err := r.Recommend(context.Background(), []string{"돼지고기", "배추"}, scenarioCorpus(),
		Options{Algorithm: AlgorithmCosine})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "A", results[0].RecipeID)
	assert.InDelta(t, 0.816, results[0].Score, 1e-3)
	assert.Equal(t, "B", results[1].RecipeID)
	assert.InDelta(t, 0.707, results[1].Score, 1e-3)
}

func TestRecommendEndToEndScenario(t *testing.T) {
	r := NewRecommender(2, nil)
	corpus := []ingredient.RequirementSet{
		{RecipeID: "A", Names: []string{"돼지고기", "배추", "김치"}},
		{RecipeID: "B", Names: []string{"돼지고기", "배추"}},
	}

	results, err := r.Recommend(context.Background(), []string{"돼지고기", "배추"}, corpus, Options{Limit: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "B", results[0].RecipeID)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "A", results[1].RecipeID)
	assert.InDelta(t, 0.667, results[1].Score, 1e-3)
}

func TestRecommendPerfectMatchAtFullRate(t *testing.T) {
	r := NewRecommender(2, nil)
	corpus := []ingredient.RequirementSet{
		{RecipeID: "A", Names: []string{"돼지고기", "배추", "김치"}},
		{RecipeID: "B", Names: []string{"돼지고기", "배추"}},
	}

	for _, algo := range Algorithms() {
		results, err := r.Recommend(context.Background(), []string{"돼지고기", "배추"}, corpus,
			Options{Algorithm: algo, MinMatchRate: floatPtr(1)})
		require.NoError(t, err)
		require.Len(t, results, 1, algo)
		assert.Equal(t, "B", results[0].RecipeID)
		assert.Equal(t, 1.0, results[0].Score)
	}
}

func TestRecommendKnownScoresThreshold(t *testing.T) {
	user := make([]string, 9)
	for i := range user {
		user[i] = fmt.Sprintf("u%d", i)
	}
	withExtra := func(n int) []string {
		names := append([]string(nil), user...)
		for i := 0; i < n; i++ {
			names = append(names, fmt.Sprintf("x%d", i))
		}
		return names
	}
	// Jaccard 分數分別為 9/10、9/18、9/45
	corpus := []ingredient.RequirementSet{
		{RecipeID: "low", Names: withExtra(36)},
		{RecipeID: "high", Names: withExtra(1)},
		{RecipeID: "mid", Names: withExtra(9)},
	}

	results, err := NewRecommender(2, nil).Recommend(context.Background(), user, corpus,
		Options{MinMatchRate: floatPtr(0.5)})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].RecipeID)
	assert.Equal(t, 0.9, results[0].Score)
	assert.Equal(t, "mid", results[1].RecipeID)
	assert.Equal(t, 0.5, results[1].Score)
}

func TestRecommendUnknownAlgorithm(t *testing.T) {
	r := NewRecommender(1, nil)

	_, err := r.Recommend(context.Background(), []string{"양파"}, scenarioCorpus(), Options{Algorithm: "euclid"})
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
}

func TestRecommendThresholdFilter(t *testing.T) {
	r := NewRecommender(4, nil)
	f := gofakeit.New(21)
	pool := []string{"양파", "감자", "당근", "돼지고기", "배추", "김치", "두부", "대파", "새우", "오징어", "버섯", "달걀"}

	corpus := make([]ingredient.RequirementSet, 0, 120)
	for i := 0; i < 120; i++ {
		n := f.Number(0, 6)
		names := make([]string, 0, n)
		for j := 0; j < n; j++ {
			names = append(names, f.RandomString(pool))
		}
		corpus = append(corpus, ingredient.RequirementSet{RecipeID: fmt.Sprintf("r%03d", i), Names: names})
	}
	user := []string{"양파", "감자", "돼지고기", "김치"}

	for _, algo := range Algorithms() {
		for _, rate := range []float64{0, 0.2, 0.5, 0.9} {
			results, err := r.Recommend(context.Background(), user, corpus,
				Options{Algorithm: algo, MinMatchRate: floatPtr(rate), Limit: intPtr(MaxLimit)})
			require.NoError(t, err)

			for _, res := range results {
				assert.GreaterOrEqual(t, res.Score, rate)
				assert.GreaterOrEqual(t, res.Score, 0.0)
				assert.LessOrEqual(t, res.Score, 1.0)
				assert.Positive(t, res.TotalCount)
			}
			assert.True(t, sort.SliceIsSorted(results, func(i, j int) bool {
				if results[i].Score != results[j].Score {
					return results[i].Score > results[j].Score
				}
				return results[i].RecipeID < results[j].RecipeID
			}))
		}
	}
}

func TestRecommendTieBreakByRecipeID(t *testing.T) {
	r := NewRecommender(3, nil)
	corpus := []ingredient.RequirementSet{
		{RecipeID: "z", Names: []string{"양파"}},
		{RecipeID: "a", Names: []string{"양파"}},
		{RecipeID: "m", Names: []string{"양파"}},
	}

	results, err := r.Recommend(context.Background(), []string{"양파"}, corpus, Options{})
	require.NoError(t, err)
	ids := []string{results[0].RecipeID, results[1].RecipeID, results[2].RecipeID}
	assert.Equal(t, []string{"a", "m", "z"}, ids)
}

func TestRecommendLimitAndClamping(t *testing.T) {
	r := NewRecommender(2, nil)
	corpus := make([]ingredient.RequirementSet, 150)
	for i := range corpus {
		corpus[i] = ingredient.RequirementSet{RecipeID: fmt.Sprintf("r%03d", i), Names: []string{"양파"}}
	}
	user := []string{"양파"}

	results, err := r.Recommend(context.Background(), user, corpus, Options{Limit: intPtr(5)})
	require.NoError(t, err)
	assert.Len(t, results, 5)

	results, err = r.Recommend(context.Background(), user, corpus, Options{Limit: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, results, MinLimit)

	results, err = r.Recommend(context.Background(), user, corpus, Options{Limit: intPtr(1000)})
	require.NoError(t, err)
	assert.Len(t, results, MaxLimit)

	p, err := r.Resolve(Options{MinMatchRate: floatPtr(1.7), Limit: intPtr(-3)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.MinMatchRate)
	assert.Equal(t, MinLimit, p.Limit)

	p, err = r.Resolve(Options{MinMatchRate: floatPtr(-0.5)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.MinMatchRate)
}

func TestResolveFallsBackToSettings(t *testing.T) {
	store, err := NewSettingsStore(Settings{
		MinMatchRate:     0.6,
		DefaultAlgorithm: AlgorithmCosine,
		DefaultLimit:     7,
	})
	require.NoError(t, err)
	r := NewRecommender(1, store)

	p, err := r.Resolve(Options{})
	require.NoError(t, err)
	assert.Equal(t, Params{Algorithm: AlgorithmCosine, MinMatchRate: 0.6, Limit: 7}, p)

	p, err = r.Resolve(Options{Algorithm: "JACCARD", Limit: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, Params{Algorithm: AlgorithmJaccard, MinMatchRate: 0.6, Limit: 3}, p)

	p, err = NewRecommender(1, nil).Resolve(Options{})
	require.NoError(t, err)
	assert.Equal(t, Params{Algorithm: AlgorithmJaccard, MinMatchRate: 0.3, Limit: 20}, p)
}

func TestRecommendCancelledContext(t *testing.T) {
	r := NewRecommender(2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	corpus := make([]ingredient.RequirementSet, 100)
	for i := range corpus {
		corpus[i] = ingredient.RequirementSet{RecipeID: fmt.Sprint(i), Names: []string{"양파"}}
	}
	_, err := r.Recommend(ctx, []string{"양파"}, corpus, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommendEmptyInputs(t *testing.T) {
	r := NewRecommender(2, nil)

	results, err := r.Recommend(context.Background(), []string{"양파"}, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = r.Recommend(context.Background(), nil, scenarioCorpus(), Options{MinMatchRate: floatPtr(0)})
	require.NoError(t, err)
	for _, res := range results {
		assert.Equal(t, 0.0, res.Score)
		assert.NotEqual(t, "D", res.RecipeID, "recipes without essentials are skipped")
	}
}
