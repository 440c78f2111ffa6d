package recipe

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/infrastructure/config"
)

// memoryRepo 測試用的持久層
type memoryRepo struct {
	mu       sync.Mutex
	recipes  map[string]StoredRecipe
	settings *recommend.Settings
	merges   []catalog.Merge
	failSave bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{recipes: map[string]StoredRecipe{}}
}

func (r *memoryRepo) SaveRecipe(_ context.Context, rec StoredRecipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errors.New("disk full")
	}
	r.recipes[rec.ID] = rec
	return nil
}

func (r *memoryRepo) DeleteRecipe(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recipes, id)
	return nil
}

func (r *memoryRepo) LoadRecipes(_ context.Context) ([]StoredRecipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StoredRecipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) SaveSettings(_ context.Context, s recommend.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = &s
	return nil
}

func (r *memoryRepo) LoadSettings(_ context.Context) (recommend.Settings, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return recommend.Settings{}, false, nil
	}
	return *r.settings, true, nil
}

func (r *memoryRepo) SaveMerge(_ context.Context, m catalog.Merge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merges = append(r.merges, m)
	return nil
}

func (r *memoryRepo) LoadMerges(_ context.Context) ([]catalog.Merge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]catalog.Merge(nil), r.merges...), nil
}

func newTestService(t *testing.T, repo Repository, store cache.Store) *Service {
	t.Helper()
	s, err := NewService(Options{Workers: 2, Cache: store, Repository: repo})
	require.NoError(t, err)
	return s
}

func seedRecipes(t *testing.T, s *Service) {
	t.Helper()
	ctx := context.Background()
	seeds := map[string]string{
		"kimchi-stew": "돼지고기 200g | 김치 1/4포기 | 두부 1/2모 | 대파 1대 | 소금 약간",
		"jeyuk":       "삼겹살 300g, 양파 1개, 간장 2큰술",
		"potato":      "감자 2개\n당근 1개\n양파 1/2개",
	}
	for id, text := range seeds {
		_, err := s.Upsert(ctx, id, id, text)
		require.NoError(t, err)
	}
}

func TestUpsertComputesRequirementSets(t *testing.T) {
	s := newTestService(t, nil, nil)
	seedRecipes(t, s)

	r, err := s.Get("kimchi-stew")
	require.NoError(t, err)
	assert.Equal(t, []string{"김치", "돼지고기", "두부"}, r.Requirements)
	assert.Equal(t, []string{"김치", "대파", "돼지고기", "두부", "소금"}, r.AllRequirements)
	assert.Len(t, r.Parsed, 5)

	jeyuk, err := s.Get("jeyuk")
	require.NoError(t, err)
	assert.Equal(t, []string{"돼지고기", "양파"}, jeyuk.Requirements)

	ids := []string{}
	for _, sum := range s.List() {
		ids = append(ids, sum.ID)
	}
	assert.Equal(t, []string{"jeyuk", "kimchi-stew", "potato"}, ids)
}

func TestUpsertValidation(t *testing.T) {
	s := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := s.Upsert(ctx, "  ", "", "양파 1개")
	assert.ErrorIs(t, err, ErrInvalidRecipe)

	_, err = s.Upsert(ctx, "r1", "", "   ")
	assert.ErrorIs(t, err, ErrInvalidRecipe)
}

func TestUpsertPersistFailureLeavesMemoryUntouched(t *testing.T) {
	repo := newMemoryRepo()
	repo.failSave = true
	s := newTestService(t, repo, nil)

	_, err := s.Upsert(context.Background(), "r1", "", "양파 1개")
	require.Error(t, err)

	_, err = s.Get("r1")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestDelete(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestService(t, repo, nil)
	seedRecipes(t, s)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "potato"))
	_, err := s.Get("potato")
	assert.True(t, IsNotFound(err))
	assert.NotContains(t, repo.recipes, "potato")

	assert.ErrorIs(t, s.Delete(ctx, "potato"), ErrRecipeNotFound)
}

func TestRecommend(t *testing.T) {
	s := newTestService(t, nil, nil)
	seedRecipes(t, s)
	ctx := context.Background()

	resp, err := s.Recommend(ctx, RecommendRequest{Ingredients: []string{"돼지 고기", "김치", "두부", "용과"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"김치", "돼지고기", "두부"}, resp.UserIngredients)
	assert.Equal(t, []string{"용과"}, resp.UnknownIngredients)
	assert.True(t, resp.ExcludeSeasonings)
	assert.Equal(t, recommend.AlgorithmJaccard, resp.Params.Algorithm)
	require.Len(t, resp.Results, 1, "jeyuk scores 0.25 and falls under the threshold")
	assert.Equal(t, "kimchi-stew", resp.Results[0].RecipeID)
	assert.InDelta(t, 1.0, resp.Results[0].Score, 1e-9)
	assert.Equal(t, "80% 이상 매칭", resp.MatchRateDescription)
	assert.Equal(t, 3, resp.CorpusSize)
}

func TestRecommendWithSeasonings(t *testing.T) {
	s := newTestService(t, nil, nil)
	seedRecipes(t, s)

	exclude := false
	resp, err := s.Recommend(context.Background(), RecommendRequest{
		Ingredients:       []string{"돼지고기", "김치", "두부"},
		ExcludeSeasonings: &exclude,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.InDelta(t, 0.6, resp.Results[0].Score, 1e-9)
	assert.Equal(t, []string{"대파", "소금"}, resp.Results[0].Missing)
	assert.Equal(t, "50% 이상 매칭", resp.MatchRateDescription)
}

func TestRecommendNoKnownIngredients(t *testing.T) {
	s := newTestService(t, nil, nil)
	seedRecipes(t, s)

	resp, err := s.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"용과"}})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, "매칭 불가", resp.MatchRateDescription)
}

func TestRecommendUnknownAlgorithm(t *testing.T) {
	s := newTestService(t, nil, nil)
	_, err := s.Recommend(context.Background(), RecommendRequest{Ingredients: []string{"양파"}, Algorithm: "dice"})
	assert.ErrorIs(t, err, recommend.ErrUnknownAlgorithm)
}

func TestRecommendUsesCacheUntilCorpusChanges(t *testing.T) {
	m := cache.NewManager(config.CacheConfig{MaxSize: 100, TTL: time.Minute})
	t.Cleanup(func() { _ = m.Close() })
	s := newTestService(t, nil, m)
	seedRecipes(t, s)
	ctx := context.Background()
	req := RecommendRequest{Ingredients: []string{"감자", "당근", "양파"}}

	first, err := s.Recommend(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := s.Recommend(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Results, second.Results)

	_, err = s.Upsert(ctx, "hash-brown", "", "감자 3개, 양파 1개")
	require.NoError(t, err)

	third, err := s.Recommend(ctx, req)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Len(t, third.Results, len(first.Results)+1)
}

func TestMergeRebuildsRequirements(t *testing.T) {
	repo := newMemoryRepo()
	s := newTestService(t, repo, nil)
	ctx := context.Background()

	_, err := s.Upsert(ctx, "a", "", "홍당무 1개, 감자 2개")
	require.NoError(t, err)
	_, err = s.Upsert(ctx, "b", "", "당근 1개, 감자 1개")
	require.NoError(t, err)

	target, err := s.Merge(ctx, "홍당무", "당근")
	require.NoError(t, err)
	assert.Equal(t, "당근", target.Name)

	a, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"감자", "당근"}, a.Requirements)
	assert.Equal(t, []catalog.Merge{{From: "홍당무", Into: "당근"}}, repo.merges)

	resp, err := s.Recommend(ctx, RecommendRequest{Ingredients: []string{"홍당무", "감자"}})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, []string{"감자", "당근"}, resp.UserIngredients)

	_, err = s.Merge(ctx, "없는재료", "당근")
	assert.True(t, IsNotFound(err))
}

func TestLoadRestoresState(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()

	first := newTestService(t, repo, nil)
	_, err := first.Upsert(ctx, "a", "당근 볶음", "홍당무 1개, 감자 2개")
	require.NoError(t, err)
	_, err = first.Upsert(ctx, "b", "", "당근 1개")
	require.NoError(t, err)
	_, err = first.Merge(ctx, "홍당무", "당근")
	require.NoError(t, err)
	rate := 0.5
	_, err = first.UpdateSettings(ctx, SettingsRequest{MinMatchRate: &rate, DefaultAlgorithm: "cosine"})
	require.NoError(t, err)

	second := newTestService(t, repo, nil)
	require.NoError(t, second.Load(ctx))

	a, err := second.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "당근 볶음", a.Title)
	assert.Equal(t, []string{"감자", "당근"}, a.Requirements)
	assert.Equal(t, "당근", second.catalog.Canonical("홍당무"))

	settings := second.Settings()
	assert.Equal(t, recommend.AlgorithmCosine, settings.DefaultAlgorithm)
	assert.Equal(t, 0.5, settings.MinMatchRate)
}

func TestUpdateSettings(t *testing.T) {
	s := newTestService(t, nil, nil)
	ctx := context.Background()

	limit := 500
	applied, err := s.UpdateSettings(ctx, SettingsRequest{DefaultLimit: &limit})
	require.NoError(t, err)
	assert.Equal(t, recommend.MaxLimit, applied.DefaultLimit)
	assert.Equal(t, recommend.DefaultMinMatchRate, applied.MinMatchRate)

	_, err = s.UpdateSettings(ctx, SettingsRequest{DefaultAlgorithm: "dice"})
	assert.ErrorIs(t, err, recommend.ErrUnknownAlgorithm)
	assert.Equal(t, recommend.MaxLimit, s.Settings().DefaultLimit)
}

func TestPreviewMarksCatalogState(t *testing.T) {
	s := newTestService(t, nil, nil)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "a", "", "돼지고기 300g")
	require.NoError(t, err)

	lines := s.PreviewText("돼지고기 200g, 돼지고기목살 100g, 용과 1개")
	require.Len(t, lines, 3)
	assert.True(t, lines[0].InCatalog)
	assert.Nil(t, lines[0].Duplicate)

	// "돼지고기목살" 會正規化成 돼지고기，已在目錄中
	assert.True(t, lines[1].InCatalog)

	assert.False(t, lines[2].InCatalog)
	assert.Nil(t, lines[2].Duplicate)

	assert.Equal(t, 1, s.catalog.Len(), "previews never grow the catalog")

	byLine := s.PreviewLines([]string{"", "양파 1개"})
	require.Len(t, byLine, 1)
	assert.Equal(t, "양파", byLine[0].NormalizedName)
}

func TestNormalizeAndAutocomplete(t *testing.T) {
	s := newTestService(t, nil, nil)
	seedRecipes(t, s)

	got := s.Normalize([]string{"삼겹살", "용과"})
	require.Len(t, got, 2)
	assert.Equal(t, "돼지고기", got[0].CatalogName)
	assert.True(t, got[0].InCatalog)
	assert.False(t, got[1].InCatalog)
	assert.Equal(t, "용과", got[1].CatalogName)

	assert.Equal(t, []string{"돼지고기"}, s.Autocomplete("돼지"))
	assert.Len(t, s.Algorithms(), 2)
	assert.Equal(t, s.catalog.Len(), len(s.Catalog().Entries))
}

func TestConcurrentUpsertAndRecommend(t *testing.T) {
	s := newTestService(t, nil, nil)
	seedRecipes(t, s)
	ctx := context.Background()
	f := gofakeit.New(3)

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = f.UUID()
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			_, err := s.Upsert(ctx, id, "", "양파 1개, 감자 1개")
			assert.NoError(t, err)
		}(id)
		go func() {
			defer wg.Done()
			_, err := s.Recommend(ctx, RecommendRequest{Ingredients: []string{"양파", "감자"}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, s.List(), 23)
}

func TestMergeIsAtomicForConcurrentRecommend(t *testing.T) {
	s := newTestService(t, nil, nil)
	ctx := context.Background()

	froms := []string{"갈롬", "누벤", "다키", "로푸", "사쿠", "아렌", "텔루"}
	intos := []string{"퀘나", "폰디", "헤갈", "체로", "쿠밀", "트라", "피웬"}
	for i := range froms {
		_, err := s.Upsert(ctx, "from-"+froms[i], "", froms[i]+" 1개")
		require.NoError(t, err)
		_, err = s.Upsert(ctx, "into-"+intos[i], "", intos[i]+" 1개")
		require.NoError(t, err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				for _, name := range froms {
					resp, err := s.Recommend(ctx, RecommendRequest{Ingredients: []string{name}})
					if !assert.NoError(t, err) {
						return
					}
					// 合併前後 from- 食譜都必須完全符合
					found := false
					for _, r := range resp.Results {
						if r.RecipeID == "from-"+name {
							found = r.Score == 1.0
						}
					}
					assert.True(t, found, "from-%s missing for user %v", name, resp.UserIngredients)
				}
			}
		}()
	}

	for i := range froms {
		_, err := s.Merge(ctx, froms[i], intos[i])
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}
	close(done)
	wg.Wait()

	r, err := s.Get("from-" + froms[0])
	require.NoError(t, err)
	assert.Equal(t, []string{intos[0]}, r.Requirements)
}

func TestCacheKeyDistinguishesCloseRates(t *testing.T) {
	user := []string{"감자", "양파"}
	a := recommend.Params{Algorithm: recommend.AlgorithmJaccard, MinMatchRate: 0.5, Limit: 20}
	b := a
	b.MinMatchRate = 0.5000000001

	assert.NotEqual(t, cacheKey(user, a, true, 1, 1), cacheKey(user, b, true, 1, 1))
	assert.Equal(t, cacheKey(user, a, true, 1, 1), cacheKey(user, a, true, 1, 1))
	assert.NotEqual(t, cacheKey(user, a, true, 1, 1), cacheKey(user, a, true, 1, 2))
}
