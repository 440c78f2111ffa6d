package ingredient

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CategoryRule 分類關鍵字規則，依序比對，先命中者勝出
type CategoryRule struct {
	Category Category
	Keywords []string
}

// VaguePhrase 模糊用量詞及其種類
type VaguePhrase struct {
	Phrase string
	Kind   VagueKind
}

// Tables 詞典原始資料
type Tables struct {
	Synonyms        map[string][]string // 正規名稱 -> 變體
	Categories      []CategoryRule
	Abstract        map[string]string // 抽象名稱 -> 建議的具體食材
	GenericPrefixes []string
	PrepPrefixes    []string // 料理方式與品牌前綴
	Seasonings      []string // 常用調味料（正規名稱）
	Units           map[string][]string
	Vague           []VaguePhrase
	OptionalTags    []string
	GarnishTags     []string
	OptionalHints   []string
}

type compiledVague struct {
	phrase  string
	compact string
	kind    VagueKind
}

// Dictionary 編譯後的不可變詞典，可安全地在多個 goroutine 間共用
type Dictionary struct {
	variants    map[string]string // 壓縮後的變體 -> 正規名稱
	substrings  []string          // 變體，依長度遞減、字典序排列
	categories  []CategoryRule
	abstract    map[string]string
	generic     []string
	prep        []string
	seasonings  map[string]bool
	units       map[string]string
	unitsFolded map[string]string
	unitPattern *regexp.Regexp
	vague       []compiledVague
	optional    map[string]bool
	garnish     map[string]bool
	hints       []string
}

// NewDictionary 由原始資料建立詞典，同一變體對應到兩個正規名稱時回傳錯誤
func NewDictionary(t Tables) (*Dictionary, error) {
	d := &Dictionary{
		variants:    make(map[string]string),
		categories:  t.Categories,
		abstract:    make(map[string]string, len(t.Abstract)),
		seasonings:  make(map[string]bool, len(t.Seasonings)),
		units:       make(map[string]string),
		unitsFolded: make(map[string]string),
		optional:    make(map[string]bool, len(t.OptionalTags)),
		garnish:     make(map[string]bool, len(t.GarnishTags)),
	}

	canonicals := make([]string, 0, len(t.Synonyms))
	for canonical := range t.Synonyms {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)

	for _, canonical := range canonicals {
		key := compact(canonical)
		if key == "" {
			return nil, fmt.Errorf("empty canonical name")
		}
		if err := d.addVariant(key, key); err != nil {
			return nil, err
		}
		for _, v := range t.Synonyms[canonical] {
			if err := d.addVariant(compact(v), key); err != nil {
				return nil, err
			}
		}
	}

	// 正規名稱必須對應到自己，否則正規化結果不穩定
	for variant, canonical := range d.variants {
		if target, ok := d.variants[canonical]; ok && target != canonical {
			return nil, fmt.Errorf("canonical %q is also a variant of %q", canonical, target)
		}
		if utf8.RuneCountInString(variant) >= 2 {
			d.substrings = append(d.substrings, variant)
		}
	}
	sort.Slice(d.substrings, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(d.substrings[i]), utf8.RuneCountInString(d.substrings[j])
		if li != lj {
			return li > lj
		}
		return d.substrings[i] < d.substrings[j]
	})

	for k, v := range t.Abstract {
		d.abstract[compact(k)] = v
	}
	for _, p := range t.GenericPrefixes {
		d.generic = append(d.generic, compact(p))
	}
	for _, p := range t.PrepPrefixes {
		d.prep = append(d.prep, compact(p))
	}
	sortByLengthDesc(d.generic)
	sortByLengthDesc(d.prep)

	for _, s := range t.Seasonings {
		d.seasonings[compact(s)] = true
	}

	if err := d.compileUnits(t.Units); err != nil {
		return nil, err
	}

	for _, v := range t.Vague {
		c := compact(v.Phrase)
		if c == "" {
			continue
		}
		d.vague = append(d.vague, compiledVague{phrase: v.Phrase, compact: c, kind: v.Kind})
	}
	// 較長的詞優先，避免「한줌」被其他短詞搶先
	sort.SliceStable(d.vague, func(i, j int) bool {
		return utf8.RuneCountInString(d.vague[i].compact) > utf8.RuneCountInString(d.vague[j].compact)
	})

	for _, tag := range t.OptionalTags {
		d.optional[compact(tag)] = true
	}
	for _, tag := range t.GarnishTags {
		d.garnish[compact(tag)] = true
	}
	for _, h := range t.OptionalHints {
		d.hints = append(d.hints, compact(h))
	}

	return d, nil
}

// MustDictionary 同 NewDictionary，失敗時 panic
func MustDictionary(t Tables) *Dictionary {
	d, err := NewDictionary(t)
	if err != nil {
		panic(err)
	}
	return d
}

var defaultDictionary = MustDictionary(DefaultTables())

// DefaultDictionary 回傳內建詞典
func DefaultDictionary() *Dictionary {
	return defaultDictionary
}

func (d *Dictionary) addVariant(variant, canonical string) error {
	if variant == "" {
		return nil
	}
	if existing, ok := d.variants[variant]; ok && existing != canonical {
		return fmt.Errorf("variant %q maps to both %q and %q", variant, existing, canonical)
	}
	d.variants[variant] = canonical
	return nil
}

func (d *Dictionary) compileUnits(units map[string][]string) error {
	all := make([]string, 0, len(units)*2)
	for canonical, variants := range units {
		for _, v := range append([]string{canonical}, variants...) {
			if existing, ok := d.units[v]; ok && existing != canonical {
				return fmt.Errorf("unit %q maps to both %q and %q", v, existing, canonical)
			}
			d.units[v] = canonical
			all = append(all, v)

			// 小寫變體優先，「T」與「t」折疊後一律視為 작은술
			folded := strings.ToLower(v)
			if _, ok := d.unitsFolded[folded]; !ok || folded == v {
				d.unitsFolded[folded] = canonical
			}
		}
	}
	sortByLengthDesc(all)

	quoted := make([]string, len(all))
	for i, u := range all {
		quoted[i] = regexp.QuoteMeta(u)
	}
	// 數字（含分數、範圍）後接單位的用量片段
	pattern := `\d+(?:[.,/]\d+)?(?:\s*[~\-～]\s*\d+(?:[./]\d+)?)?\s*(?:` + strings.Join(quoted, "|") + `)?`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compile unit pattern: %w", err)
	}
	d.unitPattern = re
	return nil
}

// Canonical 以完全比對查詢變體對應的正規名稱
func (d *Dictionary) Canonical(key string) (string, bool) {
	c, ok := d.variants[key]
	return c, ok
}

// IsSeasoning 是否為常用調味料
func (d *Dictionary) IsSeasoning(name string) bool {
	return d.seasonings[compact(name)]
}

// CategoryOf 依關鍵字表判定分類：先完全比對，再以兩字以上的關鍵字做包含比對
func (d *Dictionary) CategoryOf(name string) Category {
	key := compact(name)
	if key == "" {
		return CategoryOther
	}
	for _, rule := range d.categories {
		for _, kw := range rule.Keywords {
			if kw == key {
				return rule.Category
			}
		}
	}
	for _, rule := range d.categories {
		for _, kw := range rule.Keywords {
			if utf8.RuneCountInString(kw) >= 2 && strings.Contains(key, kw) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// Abstract 判斷是否為抽象名稱，回傳建議的具體食材
func (d *Dictionary) Abstract(name string) (string, bool) {
	key := stripPrefixes(compact(name), d.generic)
	s, ok := d.abstract[key]
	return s, ok
}

// Unit 將單位正規化，未知單位原樣保留
func (d *Dictionary) Unit(token string) string {
	if u, ok := d.units[token]; ok {
		return u
	}
	if u, ok := d.unitsFolded[strings.ToLower(token)]; ok {
		return u
	}
	// 「개정도」「큰술씩」之類的助詞後綴；其他無法辨識的文字原樣保留
	for _, p := range unitParticles {
		if head, ok := strings.CutSuffix(token, p); ok && head != "" {
			if u, ok := d.units[head]; ok {
				return u
			}
		}
	}
	return token
}

// FindVague 回傳文字中第一個出現的模糊用量詞（忽略空白）
func (d *Dictionary) FindVague(text string) (VaguePhrase, bool) {
	key := compact(text)
	best := -1
	var found compiledVague
	for _, v := range d.vague {
		idx := strings.Index(key, v.compact)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best = idx
			found = v
		}
	}
	if best < 0 {
		return VaguePhrase{}, false
	}
	return VaguePhrase{Phrase: found.phrase, Kind: found.kind}, true
}

// vagueIndex 回傳模糊用量詞在原始字串中的位元組位置
func (d *Dictionary) vagueIndex(text string) int {
	best := -1
	for _, v := range d.vague {
		idx := indexIgnoringSpace(text, v.compact)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}

// stripVague 移除所有模糊用量詞，直到移除後不再拼出新的詞
func (d *Dictionary) stripVague(text string) string {
	for changed := true; changed; {
		changed = false
		for _, v := range d.vague {
			idx := indexIgnoringSpace(text, v.compact)
			if idx < 0 {
				continue
			}
			end := endIgnoringSpace(text, idx, v.compact)
			text = text[:idx] + " " + text[end:]
			changed = true
		}
	}
	return text
}

// compact 產生查詢鍵：NFC 正規化、轉小寫並移除所有空白
func compact(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	return strings.Join(strings.Fields(s), "")
}

func stripPrefixes(key string, prefixes []string) string {
	for changed := true; changed; {
		changed = false
		for _, p := range prefixes {
			if p != "" && strings.HasPrefix(key, p) && len(key) > len(p) {
				key = key[len(p):]
				changed = true
			}
		}
	}
	return key
}

func sortByLengthDesc(items []string) {
	sort.SliceStable(items, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(items[i]), utf8.RuneCountInString(items[j])
		if li != lj {
			return li > lj
		}
		return items[i] < items[j]
	})
}

// 單位後可接的助詞
var unitParticles = []string{"정도", "가량", "씩", "쯤"}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// indexIgnoringSpace 在 text 中尋找 needle（不含空白），比對時跳過 text 的空白
func indexIgnoringSpace(text, needle string) int {
	if needle == "" {
		return -1
	}
	for start := 0; start < len(text); start++ {
		if isSpace(text[start]) {
			continue
		}
		if endIgnoringSpace(text, start, needle) >= 0 {
			return start
		}
	}
	return -1
}

// endIgnoringSpace 回傳從 start 起比對 needle 完成的位置，不符合時回傳 -1
func endIgnoringSpace(text string, start int, needle string) int {
	i, j := start, 0
	for j < len(needle) {
		if i >= len(text) {
			return -1
		}
		if isSpace(text[i]) && j > 0 {
			i++
			continue
		}
		if text[i] != needle[j] {
			return -1
		}
		i++
		j++
	}
	return i
}
