package catalog

import (
	"github.com/agnivade/levenshtein"
)

// Duplicate 疑似重複的食材與相似度分數（0-100）
type Duplicate struct {
	Entry Entry `json:"entry"`
	Score int   `json:"score"`
}

// ratio 以 Levenshtein 距離計算 0-100 的相似度
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(100*(1-float64(dist)/float64(maxLen)) + 0.5)
}

// partialRatio 以較短字串滑過較長字串，取最接近的一段
func partialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	short := string(ra)
	best := 0
	for i := 0; i+len(ra) <= len(rb); i++ {
		if r := ratio(short, string(rb[i:i+len(ra)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Similarity 回傳完整比對與部分比對中較高的分數
//
// 部分比對只在較短的字串至少兩個字時採用，避免單字名稱到處命中。
func Similarity(a, b string) int {
	score := ratio(a, b)
	if len([]rune(a)) >= 2 && len([]rune(b)) >= 2 {
		if p := partialRatio(a, b); p > score {
			score = p
		}
	}
	return score
}

// FindDuplicate 尋找與 name 最相似的既有食材（不含 name 本身），分數未達門檻時回傳 false
func (c *Catalog) FindDuplicate(name string) (Duplicate, bool) {
	s := c.load()
	name = s.resolve(name)

	var best Duplicate
	found := false
	for _, candidate := range s.names {
		if candidate == name {
			continue
		}
		score := Similarity(name, candidate)
		if score < c.threshold {
			continue
		}
		// 分數相同時保留字典序較前者
		if !found || score > best.Score {
			best = Duplicate{Entry: s.entries[candidate], Score: score}
			found = true
		}
	}
	return best, found
}
