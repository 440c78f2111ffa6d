package recommend

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/pkg/common"
)

// Options 單次推薦的參數，未設定的欄位依序退回到目前設定與內建預設值
type Options struct {
	Algorithm    Algorithm
	MinMatchRate *float64
	Limit        *int
}

// Result 單一食譜的推薦結果
type Result struct {
	RecipeID     string    `json:"recipe_id"`
	Score        float64   `json:"score"`
	MatchedCount int       `json:"matched_count"`
	TotalCount   int       `json:"total_count"`
	Algorithm    Algorithm `json:"algorithm"`
	Matched      []string  `json:"matched"`
	Missing      []string  `json:"missing"`
}

// Params 解析後實際使用的參數
type Params struct {
	Algorithm    Algorithm `json:"algorithm"`
	MinMatchRate float64   `json:"min_match_rate"`
	Limit        int       `json:"limit"`
}

// Recommender 以食材集合相似度排序食譜
type Recommender struct {
	workers  int
	settings SettingsSource
}

// NewRecommender 創建推薦器，workers <= 0 時使用 CPU 數量
func NewRecommender(workers int, settings SettingsSource) *Recommender {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Recommender{workers: workers, settings: settings}
}

// Resolve 解析參數：明確指定 > 目前設定 > 內建預設值
func (r *Recommender) Resolve(opts Options) (Params, error) {
	s := DefaultSettings()
	if r.settings != nil {
		s = r.settings.Current()
	}

	p := Params{
		Algorithm:    s.DefaultAlgorithm,
		MinMatchRate: s.MinMatchRate,
		Limit:        s.DefaultLimit,
	}
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if opts.Algorithm != "" {
		a, err := ParseAlgorithm(string(opts.Algorithm))
		if err != nil {
			return Params{}, err
		}
		p.Algorithm = a
	}
	if opts.MinMatchRate != nil {
		p.MinMatchRate = *opts.MinMatchRate
	}
	if opts.Limit != nil {
		p.Limit = *opts.Limit
	}

	p.MinMatchRate = clampRate("min_match_rate", p.MinMatchRate)
	p.Limit = clampLimit("limit", p.Limit)
	return p, nil
}

type scored struct {
	ok     bool
	result Result
}

// Recommend 對每個食譜計算分數，保留分數 >= min_match_rate 者，依分數遞減、食譜 ID 遞增排序
//
// 必要食材為空的食譜不參與計算。計算分散到有上限的 worker 上，ctx 取消時回傳 ctx 的錯誤。
func (r *Recommender) Recommend(ctx context.Context, user []string, corpus []ingredient.RequirementSet, opts Options) ([]Result, error) {
	params, err := r.Resolve(opts)
	if err != nil {
		return nil, err
	}

	userSet := NewSet(user)
	results := make([]scored, len(corpus))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	chunk := (len(corpus) + r.workers - 1) / r.workers
	if chunk < 16 {
		chunk = 16
	}
	for start := 0; start < len(corpus); start += chunk {
		start, end := start, start+chunk
		if end > len(corpus) {
			end = len(corpus)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = scoreRecipe(params.Algorithm, userSet, corpus[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score recipes: %w", err)
	}

	out := make([]Result, 0, len(corpus))
	for _, s := range results {
		if s.ok && s.result.Score >= params.MinMatchRate {
			out = append(out, s.result)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].RecipeID < out[j].RecipeID
	})
	if len(out) > params.Limit {
		out = out[:params.Limit]
	}

	common.LogDebug("推薦計算完成",
		zap.String("algorithm", string(params.Algorithm)),
		zap.Int("user_size", len(userSet)),
		zap.Int("corpus_size", len(corpus)),
		zap.Int("results", len(out)),
	)
	return out, nil
}

func scoreRecipe(a Algorithm, user Set, req ingredient.RequirementSet) scored {
	recipe := NewSet(req.Names)
	if len(recipe) == 0 {
		return scored{}
	}

	// 演算法已在 Resolve 驗證過
	score, _ := Score(a, user, recipe)

	matched := make([]string, 0, len(recipe))
	missing := make([]string, 0, len(recipe))
	for name := range recipe {
		if user.Has(name) {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	return scored{ok: true, result: Result{
		RecipeID:     req.RecipeID,
		Score:        score,
		MatchedCount: len(matched),
		TotalCount:   len(recipe),
		Algorithm:    a,
		Matched:      matched,
		Missing:      missing,
	}}
}
