package ingredient

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Category 食材分類
type Category string

const (
	CategoryMeat      Category = "meat"
	CategoryVegetable Category = "vegetable"
	CategorySeafood   Category = "seafood"
	CategorySeasoning Category = "seasoning"
	CategoryGrain     Category = "grain"
	CategoryDairy     Category = "dairy"
	CategoryOther     Category = "other"
)

// Valid 檢查分類是否為已知值
func (c Category) Valid() bool {
	switch c {
	case CategoryMeat, CategoryVegetable, CategorySeafood, CategorySeasoning,
		CategoryGrain, CategoryDairy, CategoryOther:
		return true
	}
	return false
}

// Importance 食材在食譜中的重要程度
type Importance string

const (
	ImportanceEssential Importance = "essential"
	ImportanceOptional  Importance = "optional"
	ImportanceGarnish   Importance = "garnish"
)

// VagueKind 模糊用量的種類
type VagueKind string

const (
	VagueNone     VagueKind = ""
	VagueSmall    VagueKind = "small"     // 약간, 조금
	VagueLarge    VagueKind = "large"     // 많이, 듬뿍
	VagueToTaste  VagueKind = "to_taste"  // 기호에 따라
	VagueAsNeeded VagueKind = "as_needed" // 적당량
)

var (
	// ErrEmptyLine 空白的食材行
	ErrEmptyLine = errors.New("empty ingredient line")
	// ErrNoName 清理後沒有剩下任何食材名稱
	ErrNoName = errors.New("no ingredient name")
)

// Quantity 用量解析結果
//
// IsVague 為 true 時 From、To、Unit 一律為 nil；To 存在時必定 >= From。
type Quantity struct {
	From             *decimal.Decimal `json:"quantity_from,omitempty"`
	To               *decimal.Decimal `json:"quantity_to,omitempty"`
	Unit             *string          `json:"unit,omitempty"`
	IsVague          bool             `json:"is_vague"`
	VagueDescription string           `json:"vague_description,omitempty"`
	VagueKind        VagueKind        `json:"vague_kind,omitempty"`
}

// Normalized 名稱正規化結果
type Normalized struct {
	Name              string   `json:"normalized_name"`
	Category          Category `json:"category"`
	IsCommonSeasoning bool     `json:"is_common_seasoning"`
	IsAbstract        bool     `json:"is_abstract"`
	SuggestedSpecific string   `json:"suggested_specific,omitempty"`
}

// ParsedIngredient 單行食材解析結果
type ParsedIngredient struct {
	RawText        string     `json:"raw_text"`
	Name           string     `json:"name"`
	NormalizedName string     `json:"normalized_name"`
	Importance     Importance `json:"importance"`

	Quantity

	Category          Category `json:"category"`
	IsCommonSeasoning bool     `json:"is_common_seasoning"`
	IsAbstract        bool     `json:"is_abstract"`
	SuggestedSpecific string   `json:"suggested_specific,omitempty"`
}

// RequirementSet 食譜的必要食材集合
type RequirementSet struct {
	RecipeID string   `json:"recipe_id"`
	Names    []string `json:"names"`
}

// Len 回傳集合大小
func (r RequirementSet) Len() int {
	return len(r.Names)
}
