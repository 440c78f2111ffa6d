package recommend

import (
	"fmt"
	"sync"

	"recipe-matcher/internal/pkg/common"
)

const (
	DefaultAlgorithm    = AlgorithmJaccard
	DefaultMinMatchRate = 0.3
	DefaultLimit        = 20
	MinLimit            = 1
	MaxLimit            = 100
)

// Settings 推薦設定
type Settings struct {
	MinMatchRate             float64   `json:"min_match_rate"`
	DefaultAlgorithm         Algorithm `json:"default_algorithm"`
	DefaultLimit             int       `json:"default_limit"`
	ExcludeSeasoningsDefault bool      `json:"exclude_seasonings_default"`
}

// DefaultSettings 內建預設值
func DefaultSettings() Settings {
	return Settings{
		MinMatchRate:             DefaultMinMatchRate,
		DefaultAlgorithm:         DefaultAlgorithm,
		DefaultLimit:             DefaultLimit,
		ExcludeSeasoningsDefault: true,
	}
}

// Validate 檢查演算法並把超出範圍的數值夾限到合法範圍
func (s Settings) Validate() (Settings, error) {
	if s.DefaultAlgorithm == "" {
		s.DefaultAlgorithm = DefaultAlgorithm
	}
	a, err := ParseAlgorithm(string(s.DefaultAlgorithm))
	if err != nil {
		return Settings{}, err
	}
	s.DefaultAlgorithm = a
	s.MinMatchRate = clampRate("min_match_rate", s.MinMatchRate)
	s.DefaultLimit = clampLimit("default_limit", s.DefaultLimit)
	return s, nil
}

func clampRate(param string, v float64) float64 {
	applied := v
	switch {
	case v != v: // NaN
		applied = DefaultMinMatchRate
	case v < 0:
		applied = 0
	case v > 1:
		applied = 1
	}
	if applied != v {
		common.LogClamped(param, v, applied)
	}
	return applied
}

func clampLimit(param string, v int) int {
	applied := v
	if v < MinLimit {
		applied = MinLimit
	} else if v > MaxLimit {
		applied = MaxLimit
	}
	if applied != v {
		common.LogClamped(param, v, applied)
	}
	return applied
}

// SettingsSource 提供目前的推薦設定
type SettingsSource interface {
	Current() Settings
}

// SettingsStore 記憶體中的推薦設定，可由管理端點更新
type SettingsStore struct {
	mu       sync.RWMutex
	settings Settings
}

// NewSettingsStore 創建設定儲存，初始值會先經過驗證
func NewSettingsStore(initial Settings) (*SettingsStore, error) {
	s, err := initial.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid initial settings: %w", err)
	}
	return &SettingsStore{settings: s}, nil
}

// Current 實作 SettingsSource
func (s *SettingsStore) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update 驗證並替換設定，回傳實際套用的值
func (s *SettingsStore) Update(next Settings) (Settings, error) {
	v, err := next.Validate()
	if err != nil {
		return Settings{}, err
	}
	s.mu.Lock()
	s.settings = v
	s.mu.Unlock()
	return v, nil
}
