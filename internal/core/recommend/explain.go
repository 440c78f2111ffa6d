package recommend

import "math"

// AlgorithmInfo 演算法說明，供設定頁面顯示
type AlgorithmInfo struct {
	Name        Algorithm `json:"name"`
	Title       string    `json:"title"`
	Formula     string    `json:"formula"`
	Description string    `json:"description"`
	Example     Example   `json:"example"`
}

// Example 以固定的食材集合示範計算
type Example struct {
	User   []string `json:"user"`
	Recipe []string `json:"recipe"`
	Score  float64  `json:"score"`
}

var (
	exampleUser   = []string{"돼지고기", "배추"}
	exampleRecipe = []string{"돼지고기", "배추", "김치", "두부", "대파"}
)

// Explain 回傳所有演算法的說明與範例分數
func Explain() []AlgorithmInfo {
	u, r := NewSet(exampleUser), NewSet(exampleRecipe)
	return []AlgorithmInfo{
		{
			Name:        AlgorithmJaccard,
			Title:       "자카드 유사도",
			Formula:     "|U ∩ R| / |U ∪ R|",
			Description: "보유 재료와 레시피 재료의 교집합을 합집합으로 나눈 값입니다. 레시피에 없는 재료를 많이 가지고 있어도 점수가 낮아집니다.",
			Example:     Example{User: exampleUser, Recipe: exampleRecipe, Score: round3(Jaccard(u, r))},
		},
		{
			Name:        AlgorithmCosine,
			Title:       "코사인 유사도",
			Formula:     "|U ∩ R| / (√|U| · √|R|)",
			Description: "재료 집합을 이진 벡터로 보고 두 벡터 사이의 각도를 계산합니다. 집합 크기 차이에 덜 민감합니다.",
			Example:     Example{User: exampleUser, Recipe: exampleRecipe, Score: round3(Cosine(u, r))},
		},
	}
}

// MatchRateDescription 以文字描述分數
func MatchRateDescription(score float64) string {
	switch {
	case score >= 0.8:
		return "80% 이상 매칭"
	case score >= 0.5:
		return "50% 이상 매칭"
	case score >= 0.3:
		return "30% 이상 매칭"
	default:
		return "매칭 불가"
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
