package common

// ParseRequest 食材解析預覽的請求，Text 與 Lines 擇一
type ParseRequest struct {
	Text  string   `json:"text,omitempty"`  // 整段食材文字
	Lines []string `json:"lines,omitempty"` // 逐行食材
}

// NormalizeRequest 名稱正規化請求
type NormalizeRequest struct {
	Names []string `json:"names" binding:"required"`
}

// RecipeRequest 登錄或取代食譜的請求
type RecipeRequest struct {
	Title       string `json:"title"`
	Ingredients string `json:"ingredients" binding:"required"` // 原始食材文字
}

// RecommendRequest 依持有食材推薦食譜的請求
//
// 未提供的參數依序退回到目前設定與內建預設值。
type RecommendRequest struct {
	Ingredients       []string `json:"ingredients" binding:"required"`
	Algorithm         string   `json:"algorithm,omitempty"`
	MinMatchRate      *float64 `json:"min_match_rate,omitempty"`
	Limit             *int     `json:"limit,omitempty"`
	ExcludeSeasonings *bool    `json:"exclude_seasonings,omitempty"`
}

// MergeRequest 合併正規化食材的請求
type MergeRequest struct {
	From string `json:"from" binding:"required"`
	Into string `json:"into" binding:"required"`
}

// SettingsRequest 更新推薦設定的請求，未提供的欄位保留目前值
type SettingsRequest struct {
	MinMatchRate             *float64 `json:"min_match_rate,omitempty"`
	DefaultAlgorithm         string   `json:"default_algorithm,omitempty"`
	DefaultLimit             *int     `json:"default_limit,omitempty"`
	ExcludeSeasoningsDefault *bool    `json:"exclude_seasonings_default,omitempty"`
}
