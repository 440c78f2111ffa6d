package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/pkg/common"
)

// PreviewText 解析整段食材文字，不寫入目錄
func (s *Service) PreviewText(text string) []PreviewLine {
	return s.preview(s.builder.Parse(text))
}

// PreviewLines 逐行解析食材，無法解析的行略過，不寫入目錄
func (s *Service) PreviewLines(lines []string) []PreviewLine {
	parsed := make([]ingredient.ParsedIngredient, 0, len(lines))
	for _, line := range lines {
		p, err := s.parser.ParseLine(line)
		if err != nil {
			continue
		}
		parsed = append(parsed, p)
	}
	return s.preview(parsed)
}

// preview 標示每行是否已在目錄中，不在目錄中的附上疑似重複的食材
func (s *Service) preview(parsed []ingredient.ParsedIngredient) []PreviewLine {
	out := make([]PreviewLine, 0, len(parsed))
	for _, p := range parsed {
		line := PreviewLine{ParsedIngredient: p}
		if _, ok := s.catalog.Get(p.NormalizedName); ok {
			line.InCatalog = true
		} else if dup, ok := s.catalog.FindDuplicate(p.NormalizedName); ok {
			line.Duplicate = &dup
		}
		out = append(out, line)
	}
	return out
}

// Normalize 正規化多個名稱並附上目錄中的名稱
func (s *Service) Normalize(names []string) []NormalizeResult {
	out := make([]NormalizeResult, 0, len(names))
	for _, raw := range names {
		n := s.normalizer.Normalize(raw)
		r := NormalizeResult{Input: raw, Normalized: n, CatalogName: n.Name}
		if e, ok := s.catalog.Get(n.Name); ok {
			r.CatalogName = e.Name
			r.InCatalog = true
		}
		out = append(out, r)
	}
	return out
}

// Autocomplete 以目錄名稱自動完成
func (s *Service) Autocomplete(q string) []string {
	return s.catalog.Autocomplete(q, catalog.DefaultAutocompleteLimit)
}

// Catalog 回傳目錄內容
func (s *Service) Catalog() CatalogView {
	return CatalogView{
		Entries: s.catalog.List(),
		Merges:  s.catalog.Merges(),
		Version: s.catalog.Version(),
	}
}

// Merge 將 from 合併到 into，之後重新計算所有食譜的必要食材
//
// 合併先套用在記憶體中；持久化失敗時回傳錯誤，但記憶體中的合併保留。
// 目錄轉址與食譜重建在同一個寫鎖內完成，推薦不會看到只做了一半的合併。
func (s *Service) Merge(ctx context.Context, from, into string) (catalog.Entry, error) {
	from, into = strings.TrimSpace(from), strings.TrimSpace(into)

	s.mu.Lock()
	resolvedFrom := s.catalog.Canonical(from)
	target, err := s.catalog.Merge(from, into)
	if err != nil {
		s.mu.Unlock()
		return catalog.Entry{}, err
	}
	s.rebuildLocked()
	s.mu.Unlock()
	s.invalidate(ctx)

	if s.repo != nil {
		if err := s.repo.SaveMerge(ctx, catalog.Merge{From: resolvedFrom, Into: target.Name}); err != nil {
			common.LogError("合併紀錄寫入失敗",
				zap.String("from", resolvedFrom),
				zap.String("into", target.Name),
				zap.Error(err),
			)
			return target, fmt.Errorf("save merge: %w", err)
		}
	}
	return target, nil
}

// Settings 目前的推薦設定
func (s *Service) Settings() recommend.Settings {
	return s.settings.Current()
}

// UpdateSettings 以請求中提供的欄位更新推薦設定
func (s *Service) UpdateSettings(ctx context.Context, req SettingsRequest) (recommend.Settings, error) {
	next := s.settings.Current()
	if req.MinMatchRate != nil {
		next.MinMatchRate = *req.MinMatchRate
	}
	if req.DefaultAlgorithm != "" {
		next.DefaultAlgorithm = recommend.Algorithm(strings.TrimSpace(req.DefaultAlgorithm))
	}
	if req.DefaultLimit != nil {
		next.DefaultLimit = *req.DefaultLimit
	}
	if req.ExcludeSeasoningsDefault != nil {
		next.ExcludeSeasoningsDefault = *req.ExcludeSeasoningsDefault
	}

	// 先驗證再寫入，持久層只會看到合法的設定
	validated, err := next.Validate()
	if err != nil {
		return recommend.Settings{}, err
	}
	if s.repo != nil {
		if err := s.repo.SaveSettings(ctx, validated); err != nil {
			return recommend.Settings{}, fmt.Errorf("save settings: %w", err)
		}
	}
	applied, err := s.settings.Update(validated)
	if err != nil {
		return recommend.Settings{}, err
	}
	s.invalidate(ctx)

	common.LogInfo("推薦設定已更新",
		zap.String("default_algorithm", string(applied.DefaultAlgorithm)),
		zap.Float64("min_match_rate", applied.MinMatchRate),
		zap.Int("default_limit", applied.DefaultLimit),
		zap.Bool("exclude_seasonings_default", applied.ExcludeSeasoningsDefault),
	)
	return applied, nil
}

// Algorithms 演算法說明
func (s *Service) Algorithms() []recommend.AlgorithmInfo {
	return recommend.Explain()
}

// IsNotFound 判斷錯誤是否代表資源不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecipeNotFound) || errors.Is(err, catalog.ErrNotFound)
}
