package ingredient

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	parenRe   = regexp.MustCompile(`\([^()]*\)|\[[^\[\]]*\]|（[^（）]*）|【[^【】]*】`)
	spaceRe   = regexp.MustCompile(`\s+`)
	keepRunes = func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r)
	}
)

// Normalizer 食材名稱正規化器
type Normalizer struct {
	dict *Dictionary
}

// NewNormalizer 創建正規化器，dict 為 nil 時使用內建詞典
func NewNormalizer(dict *Dictionary) *Normalizer {
	if dict == nil {
		dict = defaultDictionary
	}
	return &Normalizer{dict: dict}
}

// Dictionary 回傳正規化器使用的詞典
func (n *Normalizer) Dictionary() *Dictionary {
	return n.dict
}

// Clean 清理顯示用名稱：移除括號註記、用量、模糊用量詞與標點，並壓縮空白
func (n *Normalizer) Clean(raw string) string {
	s := norm.NFC.String(raw)
	for {
		stripped := parenRe.ReplaceAllString(s, " ")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = n.dict.unitPattern.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if keepRunes(r) {
			return r
		}
		return ' '
	}, s)
	s = n.dict.stripVague(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Normalize 將名稱正規化，永不失敗：未知的名稱以清理後的形式作為自己的正規名稱
//
// 分類、抽象判定與調味料旗標都由正規名稱推導，因此對結果再做一次正規化會得到相同結果。
func (n *Normalizer) Normalize(raw string) Normalized {
	name := n.canonical(compact(n.Clean(raw)))
	out := Normalized{
		Name:              name,
		Category:          n.dict.CategoryOf(name),
		IsCommonSeasoning: n.dict.IsSeasoning(name),
	}
	if s, ok := n.dict.Abstract(name); ok {
		out.IsAbstract = true
		out.SuggestedSpecific = s
	}
	return out
}

func (n *Normalizer) canonical(key string) string {
	if key == "" {
		return ""
	}
	if c, ok := n.dict.Canonical(key); ok {
		return c
	}

	stripped := stripPrefixes(key, n.dict.prep)
	if c, ok := n.dict.Canonical(stripped); ok {
		return c
	}
	// 抽象名稱不做包含比對，保留原樣讓呼叫端看到建議
	generic := stripPrefixes(stripped, n.dict.generic)
	if _, ok := n.dict.abstract[generic]; ok {
		return generic
	}

	if c, ok := n.containment(stripped); ok {
		return c
	}
	return stripped
}

// containment 以包含比對尋找變體：較長的變體優先，其次是較早出現的位置，最後依字典序
func (n *Normalizer) containment(key string) (string, bool) {
	bestIdx := -1
	bestLen := 0
	var best string
	for _, v := range n.dict.substrings {
		l := len([]rune(v))
		if bestIdx >= 0 && l < bestLen {
			break
		}
		idx := strings.Index(key, v)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			bestIdx, bestLen, best = idx, l, v
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	return n.dict.variants[best], true
}
