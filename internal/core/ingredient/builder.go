package ingredient

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"recipe-matcher/internal/pkg/common"
)

// 依序是相同數量時的優先順序
var delimiters = []string{"|", ",", ";", "\n", "·"}

var (
	sectionHeaderRe = regexp.MustCompile(`\[\s*[^\[\]]*(?:재료|양념|소스|육수|양념장|토핑)\s*\]`)
	thousandSepRe   = regexp.MustCompile(`(\d),(\d{3})(\D|$)`)
)

// Identity 正規化食材在目錄中的身分
type Identity struct {
	Name              string
	IsCommonSeasoning bool
}

// Resolver 將正規化結果解析為目錄中的正規食材（包含合併後的轉址）
type Resolver interface {
	Resolve(n Normalized) (Identity, error)
}

// Builder 由整段食材文字建立食譜的必要食材集合
type Builder struct {
	parser   *Parser
	resolver Resolver
}

// NewBuilder 創建建構器，resolver 為 nil 時直接使用正規化名稱
func NewBuilder(parser *Parser, resolver Resolver) *Builder {
	if parser == nil {
		parser = NewParser(nil)
	}
	return &Builder{parser: parser, resolver: resolver}
}

// Build 解析整段文字並回傳必要食材集合
func (b *Builder) Build(blob string, excludeSeasonings bool) RequirementSet {
	return b.Requirements(b.Parse(blob), excludeSeasonings)
}

// Parse 將整段文字切割並逐行解析，無法解析的片段會被略過
func (b *Builder) Parse(blob string) []ParsedIngredient {
	var out []ParsedIngredient
	for _, segment := range SplitSegments(blob) {
		parsed, err := b.parser.ParseLine(segment)
		if err != nil {
			if !errors.Is(err, ErrEmptyLine) {
				common.LogDebug("略過無法解析的食材片段", zap.String("segment", segment), zap.Error(err))
			}
			continue
		}
		out = append(out, parsed)
	}
	return out
}

// Requirements 從解析結果取出必要食材，依目錄身分去重並排序
func (b *Builder) Requirements(parsed []ParsedIngredient, excludeSeasonings bool) RequirementSet {
	seen := make(map[string]bool, len(parsed))
	names := make([]string, 0, len(parsed))

	for _, p := range parsed {
		if p.Importance != ImportanceEssential {
			continue
		}
		id := b.identify(p)
		if id.Name == "" || seen[id.Name] {
			continue
		}
		if excludeSeasonings && id.IsCommonSeasoning {
			continue
		}
		seen[id.Name] = true
		names = append(names, id.Name)
	}

	sort.Strings(names)
	return RequirementSet{Names: names}
}

func (b *Builder) identify(p ParsedIngredient) Identity {
	fallback := Identity{Name: p.NormalizedName, IsCommonSeasoning: p.IsCommonSeasoning}
	if b.resolver == nil {
		return fallback
	}
	id, err := b.resolver.Resolve(Normalized{
		Name:              p.NormalizedName,
		Category:          p.Category,
		IsCommonSeasoning: p.IsCommonSeasoning,
		IsAbstract:        p.IsAbstract,
		SuggestedSpecific: p.SuggestedSpecific,
	})
	if err != nil {
		common.LogWarn("無法登錄正規化食材，改用正規化名稱",
			zap.String("name", p.NormalizedName),
			zap.Error(err),
		)
		return fallback
	}
	return id
}

// SplitSegments 將整段文字切成食材片段
//
// 先以「[재료]」「[양념]」這類小標切成段落，每段再挑出現次數最多的分隔符號；
// 分隔符號不是換行時，換行也視為分隔。括號內的分隔符號不切割。
func SplitSegments(blob string) []string {
	blob = norm.NFC.String(blob)
	blob = strings.ReplaceAll(blob, "\r\n", "\n")
	blob = thousandSepRe.ReplaceAllString(blob, "$1$2$3")

	var out []string
	for _, section := range sectionHeaderRe.Split(blob, -1) {
		delim := detectDelimiter(section)
		for _, line := range strings.Split(section, "\n") {
			parts := []string{line}
			if delim != "\n" {
				parts = splitOutsideBrackets(line, delim)
			}
			for _, part := range parts {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func detectDelimiter(text string) string {
	best, bestCount := "\n", 0
	for _, d := range delimiters {
		if c := len(splitOutsideBrackets(text, d)) - 1; c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// splitOutsideBrackets 只在括號外的 delim 切割；括號不成對時退回一般切割
func splitOutsideBrackets(line, delim string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(line); {
		switch line[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && strings.HasPrefix(line[i:], delim) {
			parts = append(parts, line[start:i])
			i += len(delim)
			start = i
			continue
		}
		i++
	}
	if depth > 0 {
		return strings.Split(line, delim)
	}
	return append(parts, line[start:])
}
