package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/pkg/common"
)

// Recommend 依持有食材推薦食譜
//
// 持有食材先正規化，再以目錄中的名稱比對；目錄中不存在的名稱不參與計算。
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (*RecommendResponse, error) {
	opts := recommend.Options{
		Algorithm:    recommend.Algorithm(strings.TrimSpace(req.Algorithm)),
		MinMatchRate: req.MinMatchRate,
		Limit:        req.Limit,
	}
	params, err := s.recommender.Resolve(opts)
	if err != nil {
		return nil, err
	}
	// 之後的計算直接使用解析後的參數，不再重複夾限與記錄
	opts = recommend.Options{
		Algorithm:    params.Algorithm,
		MinMatchRate: &params.MinMatchRate,
		Limit:        &params.Limit,
	}

	exclude := s.settings.Current().ExcludeSeasoningsDefault
	if req.ExcludeSeasonings != nil {
		exclude = *req.ExcludeSeasonings
	}

	// 持有食材的解析與語料必須來自同一個目錄狀態
	s.mu.RLock()
	user, unknown := s.userIngredients(req.Ingredients)
	corpus, version := s.corpusLocked(exclude)
	catalogVersion := s.catalog.Version()
	s.mu.RUnlock()

	resp := &RecommendResponse{
		Params:             params,
		ExcludeSeasonings:  exclude,
		UserIngredients:    user,
		UnknownIngredients: unknown,
		Results:            []recommend.Result{},
		CorpusSize:         len(corpus),
	}
	if len(user) == 0 {
		resp.MatchRateDescription = recommend.MatchRateDescription(0)
		return resp, nil
	}

	key := cacheKey(user, params, exclude, version, catalogVersion)
	if cached, ok := s.fromCache(ctx, key); ok {
		cached.Cached = true
		cached.UnknownIngredients = unknown
		return cached, nil
	}

	results, err := s.recommender.Recommend(ctx, user, corpus, opts)
	if err != nil {
		return nil, err
	}
	resp.Results = results
	if len(results) > 0 {
		resp.MatchRateDescription = recommend.MatchRateDescription(results[0].Score)
	} else {
		resp.MatchRateDescription = recommend.MatchRateDescription(0)
	}

	s.toCache(ctx, key, resp)
	common.LogInfo("推薦完成",
		zap.String("algorithm", string(params.Algorithm)),
		zap.Int("user_ingredients", len(user)),
		zap.Int("unknown_ingredients", len(unknown)),
		zap.Int("results", len(results)),
	)
	return resp, nil
}

// userIngredients 正規化持有食材並以目錄名稱去重排序，回傳目錄中不存在的原始輸入
func (s *Service) userIngredients(raw []string) ([]string, []string) {
	seen := make(map[string]bool, len(raw))
	known := make([]string, 0, len(raw))
	unknown := []string{}

	for _, r := range raw {
		n := s.normalizer.Normalize(r)
		if n.Name == "" {
			continue
		}
		e, ok := s.catalog.Get(n.Name)
		if !ok {
			unknown = append(unknown, strings.TrimSpace(r))
			continue
		}
		if !seen[e.Name] {
			seen[e.Name] = true
			known = append(known, e.Name)
		}
	}
	sort.Strings(known)
	return known, unknown
}

// cacheKey 以持有食材、參數與兩個版本號組成快取鍵
func cacheKey(user []string, p recommend.Params, exclude bool, corpusVersion, catalogVersion uint64) string {
	raw := fmt.Sprintf("%s|%s|%s|%d|%t|%d|%d",
		strings.Join(user, ","),
		p.Algorithm, strconv.FormatFloat(p.MinMatchRate, 'g', -1, 64), p.Limit, exclude,
		corpusVersion, catalogVersion,
	)
	return common.HashString(raw)
}

func (s *Service) fromCache(ctx context.Context, key string) (*RecommendResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取推薦快取失敗", zap.Error(err))
		}
		return nil, false
	}
	var resp RecommendResponse
	if err := common.ParseJSONBytes(data, &resp); err != nil {
		common.LogWarn("推薦快取內容無法解析", zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (s *Service) toCache(ctx context.Context, key string, resp *RecommendResponse) {
	if s.cache == nil {
		return
	}
	data, err := common.ToJSON(resp)
	if err != nil {
		common.LogWarn("推薦結果無法序列化", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, []byte(data)); err != nil {
		common.LogWarn("寫入推薦快取失敗", zap.Error(err))
	}
}
