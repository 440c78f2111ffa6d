package ingredient

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	bracketContentRe = regexp.MustCompile(`[(\[（【]([^)\]）】]*)[)\]）】]`)
	markerSplitter   = strings.NewReplacer(",", "\x00", "/", "\x00", "·", "\x00", "、", "\x00")
)

// Parser 單行食材解析器
type Parser struct {
	normalizer *Normalizer
}

// NewParser 創建解析器，normalizer 為 nil 時使用內建詞典
func NewParser(normalizer *Normalizer) *Parser {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Parser{normalizer: normalizer}
}

// Normalizer 回傳解析器使用的正規化器
func (p *Parser) Normalizer() *Normalizer {
	return p.normalizer
}

// ParseLine 解析一行食材文字
//
// 重要程度先由原始文字判定；名稱與用量在第一個數字處切開，沒有數字時改在第一個模糊用量詞處切開。
func (p *Parser) ParseLine(raw string) (ParsedIngredient, error) {
	text := strings.TrimSpace(norm.NFC.String(raw))
	if text == "" {
		return ParsedIngredient{}, ErrEmptyLine
	}
	dict := p.normalizer.dict

	head, tail := splitLine(dict, text)
	name := p.normalizer.Clean(head)
	normalized := p.normalizer.Normalize(head)
	if normalized.Name == "" {
		return ParsedIngredient{}, fmt.Errorf("%w: %q", ErrNoName, raw)
	}

	var qty Quantity
	if tail != "" {
		qty = dict.ParseQuantity(tail)
	}

	return ParsedIngredient{
		RawText:           raw,
		Name:              name,
		NormalizedName:    normalized.Name,
		Importance:        dict.importance(text),
		Quantity:          qty,
		Category:          normalized.Category,
		IsCommonSeasoning: normalized.IsCommonSeasoning,
		IsAbstract:        normalized.IsAbstract,
		SuggestedSpecific: normalized.SuggestedSpecific,
	}, nil
}

// splitLine 回傳名稱與用量兩段；第一個字元就是數字時兩段都是整行
func splitLine(dict *Dictionary, text string) (string, string) {
	idx := firstDigit(text)
	if idx < 0 {
		idx = dict.vagueIndex(text)
	}
	switch {
	case idx < 0:
		return text, ""
	case idx == 0:
		return text, text
	default:
		return text[:idx], text[idx:]
	}
}

func firstDigit(s string) int {
	for i, r := range s {
		if r >= '0' && r <= '9' {
			return i
		}
		switch r {
		case '½', '⅓', '⅔', '¼', '¾', '⅕', '⅛':
			return i
		}
	}
	return -1
}

// importance 依括號標記與提示詞判定重要程度
func (d *Dictionary) importance(text string) Importance {
	for _, m := range bracketContentRe.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(markerSplitter.Replace(m[1]), "\x00") {
			key := compact(part)
			switch {
			case d.optional[key]:
				return ImportanceOptional
			case d.garnish[key]:
				return ImportanceGarnish
			}
		}
	}

	key := compact(text)
	for _, h := range d.hints {
		if strings.Contains(key, h) {
			return ImportanceOptional
		}
	}
	return ImportanceEssential
}
