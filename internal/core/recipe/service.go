package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-matcher/internal/core/cache"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/pkg/common"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidRecipe  = errors.New("invalid recipe")
)

// Options 食譜服務的依賴，未提供的欄位使用預設實作
type Options struct {
	Dictionary *ingredient.Dictionary
	Catalog    *catalog.Catalog
	Settings   *recommend.SettingsStore
	Workers    int
	Cache      cache.Store // nil 表示停用快取
	Repository Repository  // nil 表示只存在記憶體
}

// Service 食譜服務基礎結構
type Service struct {
	mu      sync.RWMutex
	recipes map[string]*Recipe
	version uint64

	normalizer  *ingredient.Normalizer
	parser      *ingredient.Parser
	builder     *ingredient.Builder
	catalog     *catalog.Catalog
	settings    *recommend.SettingsStore
	recommender *recommend.Recommender
	cache       cache.Store
	repo        Repository
	now         func() time.Time
}

// NewService 創建新的食譜服務
func NewService(opts Options) (*Service, error) {
	dict := opts.Dictionary
	if dict == nil {
		dict = ingredient.DefaultDictionary()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.New(catalog.Options{})
	}
	settings := opts.Settings
	if settings == nil {
		var err error
		settings, err = recommend.NewSettingsStore(recommend.DefaultSettings())
		if err != nil {
			return nil, err
		}
	}

	normalizer := ingredient.NewNormalizer(dict)
	parser := ingredient.NewParser(normalizer)
	return &Service{
		recipes:     make(map[string]*Recipe),
		normalizer:  normalizer,
		parser:      parser,
		builder:     ingredient.NewBuilder(parser, cat),
		catalog:     cat,
		settings:    settings,
		recommender: recommend.NewRecommender(opts.Workers, settings),
		cache:       opts.Cache,
		repo:        opts.Repository,
		now:         time.Now,
	}, nil
}

// Load 從持久層載入設定、合併紀錄與食譜
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	settings, ok, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if ok {
		if _, err := s.settings.Update(settings); err != nil {
			common.LogWarn("已儲存的推薦設定無效，改用預設值", zap.Error(err))
		}
	}

	// 合併紀錄要先於食譜套用，重新解析時才會直接落在合併後的名稱
	merges, err := s.repo.LoadMerges(ctx)
	if err != nil {
		return fmt.Errorf("load merges: %w", err)
	}
	if len(merges) > 0 {
		s.catalog.Restore(s.catalog.List(), append(s.catalog.Merges(), merges...))
	}

	stored, err := s.repo.LoadRecipes(ctx)
	if err != nil {
		return fmt.Errorf("load recipes: %w", err)
	}

	s.mu.Lock()
	for _, r := range stored {
		s.recipes[r.ID] = s.build(r)
	}
	s.version++
	s.mu.Unlock()

	common.LogInfo("已載入持久化資料",
		zap.Int("recipes", len(stored)),
		zap.Int("merges", len(merges)),
		zap.Int("catalog_size", s.catalog.Len()),
	)
	return nil
}

// build 解析食譜原文並計算兩種必要食材集合
func (s *Service) build(r StoredRecipe) *Recipe {
	parsed := s.builder.Parse(r.Ingredients)
	return &Recipe{
		ID:              r.ID,
		Title:           r.Title,
		Ingredients:     r.Ingredients,
		Parsed:          parsed,
		Requirements:    s.builder.Requirements(parsed, true).Names,
		AllRequirements: s.builder.Requirements(parsed, false).Names,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Upsert 登錄或取代食譜，必要食材會重新計算
func (s *Service) Upsert(ctx context.Context, id, title, ingredients string) (Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Recipe{}, fmt.Errorf("%w: empty id", ErrInvalidRecipe)
	}
	if strings.TrimSpace(ingredients) == "" {
		return Recipe{}, fmt.Errorf("%w: empty ingredients", ErrInvalidRecipe)
	}

	stored := StoredRecipe{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Ingredients: ingredients,
		UpdatedAt:   s.now().UTC(),
	}
	if s.repo != nil {
		if err := s.repo.SaveRecipe(ctx, stored); err != nil {
			return Recipe{}, fmt.Errorf("save recipe: %w", err)
		}
	}

	// 在鎖內解析，同時進行的合併才不會留下合併前的名稱
	s.mu.Lock()
	r := s.build(stored)
	s.recipes[id] = r
	s.version++
	s.mu.Unlock()
	s.invalidate(ctx)

	common.LogInfo("食譜已登錄",
		zap.String("recipe_id", id),
		zap.Int("lines", len(r.Parsed)),
		zap.Int("requirements", len(r.Requirements)),
	)
	return *r, nil
}

// Get 取得食譜
func (s *Service) Get(id string) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	return *r, nil
}

// List 回傳所有食譜摘要，依 ID 排序
func (s *Service) List() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, Summary{
			ID:               r.ID,
			Title:            r.Title,
			RequirementCount: len(r.Requirements),
			UpdatedAt:        r.UpdatedAt,
		})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Delete 移除食譜
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.RLock()
	_, ok := s.recipes[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}

	if s.repo != nil {
		if err := s.repo.DeleteRecipe(ctx, id); err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
	}

	s.mu.Lock()
	delete(s.recipes, id)
	s.version++
	s.mu.Unlock()
	s.invalidate(ctx)

	common.LogInfo("食譜已移除", zap.String("recipe_id", id))
	return nil
}

// corpusLocked 取出目前所有食譜的必要食材集合與語料版本，呼叫端需持有 s.mu
func (s *Service) corpusLocked(excludeSeasonings bool) ([]ingredient.RequirementSet, uint64) {
	out := make([]ingredient.RequirementSet, 0, len(s.recipes))
	for id, r := range s.recipes {
		names := r.AllRequirements
		if excludeSeasonings {
			names = r.Requirements
		}
		out = append(out, ingredient.RequirementSet{RecipeID: id, Names: names})
	}
	return out, s.version
}

// rebuildLocked 合併食材後重新計算所有食譜的必要食材，呼叫端需持有 s.mu 寫鎖
func (s *Service) rebuildLocked() {
	for _, r := range s.recipes {
		next := *r
		next.Requirements = s.builder.Requirements(r.Parsed, true).Names
		next.AllRequirements = s.builder.Requirements(r.Parsed, false).Names
		s.recipes[r.ID] = &next
	}
	s.version++
}

// invalidate 清空推薦快取，失敗只記錄
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Flush(ctx); err != nil {
		common.LogWarn("清空推薦快取失敗", zap.Error(err))
	}
}

// Stats 服務狀態，供健康檢查使用
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	recipes, version := len(s.recipes), s.version
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"recipes":         recipes,
		"corpus_version":  version,
		"catalog_size":    s.catalog.Len(),
		"catalog_version": s.catalog.Version(),
		"persistent":      s.repo != nil,
	}
	if s.cache != nil {
		stats["cache"] = s.cache.Stats()
	}
	return stats
}
