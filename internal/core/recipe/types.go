package recipe

import (
	"context"
	"time"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/pkg/common"
)

// RecommendRequest 推薦請求
type RecommendRequest = common.RecommendRequest

// SettingsRequest 設定更新請求
type SettingsRequest = common.SettingsRequest

// Recipe 已登錄的食譜與其必要食材
type Recipe struct {
	ID          string                        `json:"id"`
	Title       string                        `json:"title"`
	Ingredients string                        `json:"ingredients"`
	Parsed      []ingredient.ParsedIngredient `json:"parsed"`
	// 不含常見調味料的必要食材
	Requirements []string `json:"requirements"`
	// 含常見調味料的必要食材
	AllRequirements []string  `json:"all_requirements"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Summary 食譜列表項目
type Summary struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	RequirementCount int       `json:"requirement_count"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PreviewLine 解析預覽的一行
type PreviewLine struct {
	ingredient.ParsedIngredient
	InCatalog bool               `json:"in_catalog"`
	Duplicate *catalog.Duplicate `json:"duplicate,omitempty"`
}

// NormalizeResult 名稱正規化結果
type NormalizeResult struct {
	Input string `json:"input"`
	ingredient.Normalized
	CatalogName string `json:"catalog_name"`
	InCatalog   bool   `json:"in_catalog"`
}

// RecommendResponse 推薦結果
type RecommendResponse struct {
	Params             recommend.Params   `json:"params"`
	ExcludeSeasonings  bool               `json:"exclude_seasonings"`
	UserIngredients    []string           `json:"user_ingredients"`
	UnknownIngredients []string           `json:"unknown_ingredients"`
	Results            []recommend.Result `json:"results"`
	// 第一名的相似度描述
	MatchRateDescription string `json:"match_rate_description"`
	CorpusSize           int    `json:"corpus_size"`
	Cached               bool   `json:"cached"`
}

// CatalogView 目錄內容與轉址紀錄
type CatalogView struct {
	Entries []catalog.Entry `json:"entries"`
	Merges  []catalog.Merge `json:"merges"`
	Version uint64          `json:"version"`
}

// StoredRecipe 持久化的食譜原文，解析結果在載入時重新計算
type StoredRecipe struct {
	ID          string
	Title       string
	Ingredients string
	UpdatedAt   time.Time
}

// Repository 食譜、設定與合併紀錄的持久化
type Repository interface {
	SaveRecipe(ctx context.Context, r StoredRecipe) error
	DeleteRecipe(ctx context.Context, id string) error
	LoadRecipes(ctx context.Context) ([]StoredRecipe, error)
	SaveSettings(ctx context.Context, s recommend.Settings) error
	LoadSettings(ctx context.Context) (recommend.Settings, bool, error)
	SaveMerge(ctx context.Context, m catalog.Merge) error
	LoadMerges(ctx context.Context) ([]catalog.Merge, error)
}
