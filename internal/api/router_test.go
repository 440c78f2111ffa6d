package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-matcher/internal/api/middleware"
	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"
)

const testToken = "s3cret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc, err := recipeService.NewService(recipeService.Options{Workers: 2})
	require.NoError(t, err)

	cfg := &config.Config{
		App:         config.AppConfig{Version: "test"},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		Admin:       config.AdminConfig{Token: testToken},
		DedupWindow: time.Millisecond,
	}
	r, err := SetupRouter(cfg, Dependencies{Service: svc})
	require.NoError(t, err)
	return r
}

func request(t *testing.T, r http.Handler, method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(middleware.AdminTokenHeader, testToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func seed(t *testing.T, r http.Handler) {
	t.Helper()
	recipes := map[string]string{
		"kimchi-stew": "돼지고기 200g | 김치 1/4포기 | 두부 1/2모 | 대파 1대 | 소금 약간",
		"jeyuk":       "삼겹살 300g, 양파 1개, 간장 2큰술",
	}
	for id, text := range recipes {
		w := request(t, r, http.MethodPut, "/api/v1/recipes/"+id, common.RecipeRequest{Ingredients: text}, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
}

func TestRecipeLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := request(t, r, http.MethodPut, "/api/v1/recipes/jeyuk", common.RecipeRequest{Ingredients: "삼겹살 300g"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	seed(t, r)

	w = request(t, r, http.MethodGet, "/api/v1/recipes/kimchi-stew", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var got recipeService.Recipe
	decode(t, w, &got)
	assert.Equal(t, []string{"김치", "돼지고기", "두부"}, got.Requirements)

	w = request(t, r, http.MethodGet, "/api/v1/recipes", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Recipes []recipeService.Summary `json:"recipes"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Recipes, 2)

	w = request(t, r, http.MethodDelete, "/api/v1/recipes/jeyuk", nil, true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(t, r, http.MethodGet, "/api/v1/recipes/jeyuk", nil, false)
	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, common.ErrCodeRecipeNotFound, errResp.Code)

	w = request(t, r, http.MethodPut, "/api/v1/recipes/empty", common.RecipeRequest{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendEndpoint(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := request(t, r, http.MethodPost, "/api/v1/recommend", common.RecommendRequest{
		Ingredients: []string{"돼지고기", "김치", "두부"},
	}, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp recipeService.RecommendResponse
	decode(t, w, &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "kimchi-stew", resp.Results[0].RecipeID)
	assert.Equal(t, "80% 이상 매칭", resp.MatchRateDescription)

	w = request(t, r, http.MethodPost, "/api/v1/recommend", common.RecommendRequest{
		Ingredients: []string{"돼지고기"},
		Algorithm:   "dice",
	}, false)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, common.ErrCodeUnknownAlgorithm, errResp.Code)

	w = request(t, r, http.MethodPost, "/api/v1/recommend", map[string]string{}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngredientEndpoints(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := request(t, r, http.MethodPost, "/api/v1/ingredients/parse", common.ParseRequest{Text: "양파 1/2개, 소금 약간"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	var parsed struct {
		Lines []recipeService.PreviewLine `json:"lines"`
	}
	decode(t, w, &parsed)
	require.Len(t, parsed.Lines, 2)
	assert.Equal(t, "양파", parsed.Lines[0].NormalizedName)
	assert.True(t, parsed.Lines[1].IsVague)

	w = request(t, r, http.MethodPost, "/api/v1/ingredients/parse", common.ParseRequest{}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodPost, "/api/v1/ingredients/normalize", common.NormalizeRequest{Names: []string{"삼겹살"}}, false)
	require.Equal(t, http.StatusOK, w.Code)
	var normalized struct {
		Results []recipeService.NormalizeResult `json:"results"`
	}
	decode(t, w, &normalized)
	require.Len(t, normalized.Results, 1)
	assert.Equal(t, "돼지고기", normalized.Results[0].CatalogName)

	w = request(t, r, http.MethodGet, "/api/v1/ingredients/autocomplete?q="+url.QueryEscape("돼지"), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var ac struct {
		Suggestions []string `json:"suggestions"`
	}
	decode(t, w, &ac)
	assert.Equal(t, []string{"돼지고기"}, ac.Suggestions)
}

func TestCatalogMerge(t *testing.T) {
	r := newTestRouter(t)
	w := request(t, r, http.MethodPut, "/api/v1/recipes/a", common.RecipeRequest{Ingredients: "홍당무 1개, 당근 1개"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodPost, "/api/v1/catalog/merge", common.MergeRequest{From: "홍당무", Into: "당근"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, r, http.MethodGet, "/api/v1/recipes/a", nil, false)
	var got recipeService.Recipe
	decode(t, w, &got)
	assert.Equal(t, []string{"당근"}, got.Requirements)

	w = request(t, r, http.MethodPost, "/api/v1/catalog/merge", common.MergeRequest{From: "없음", Into: "당근"}, true)
	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp common.ErrorResponse
	decode(t, w, &errResp)
	assert.Equal(t, common.ErrCodeIngredientAbsent, errResp.Code)

	w = request(t, r, http.MethodGet, "/api/v1/catalog", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var view recipeService.CatalogView
	decode(t, w, &view)
	assert.Len(t, view.Merges, 1)
}

func TestSettingsEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rate := 0.5
	w := request(t, r, http.MethodPut, "/api/v1/settings", common.SettingsRequest{MinMatchRate: &rate, DefaultAlgorithm: "cosine"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, r, http.MethodGet, "/api/v1/settings", nil, false)
	var s recommend.Settings
	decode(t, w, &s)
	assert.Equal(t, recommend.AlgorithmCosine, s.DefaultAlgorithm)
	assert.Equal(t, 0.5, s.MinMatchRate)

	w = request(t, r, http.MethodPut, "/api/v1/settings", common.SettingsRequest{DefaultAlgorithm: "dice"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodGet, "/api/v1/settings/algorithms", nil, false)
	var algos struct {
		Algorithms []recommend.AlgorithmInfo `json:"algorithms"`
	}
	decode(t, w, &algos)
	assert.Len(t, algos.Algorithms, 2)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := request(t, r, http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	w := request(t, r, http.MethodGet, "/health", nil, false)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
