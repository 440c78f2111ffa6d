package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"recipe-matcher/internal/core/ingredient"
	"recipe-matcher/internal/pkg/common"
)

var (
	ErrCatalogFull = errors.New("catalog is full")
	ErrNotFound    = errors.New("ingredient not found")
	ErrSelfMerge   = errors.New("cannot merge an ingredient into itself")
	ErrEmptyName   = errors.New("empty ingredient name")
)

const (
	DefaultMaxEntries         = 50000
	DefaultDuplicateThreshold = 85
	DefaultAutocompleteLimit  = 10
)

// Entry 正規化食材
type Entry struct {
	Name              string              `json:"name"`
	Category          ingredient.Category `json:"category"`
	IsCommonSeasoning bool                `json:"is_common_seasoning"`
	CreatedAt         time.Time           `json:"created_at"`
}

// Merge 一筆合併紀錄：From 已被移除並轉址到 Into
type Merge struct {
	From string `json:"from"`
	Into string `json:"into"`
}

// Options 目錄設定
type Options struct {
	MaxEntries         int
	DuplicateThreshold int // 0-100
}

// snapshot 不可變的目錄狀態，只能整份替換
type snapshot struct {
	entries   map[string]Entry
	redirects map[string]string
	names     []string // 已排序
	version   uint64
}

// Catalog 正規化食材目錄
//
// 讀取端直接取用目前的 snapshot，不需要鎖；寫入端在 mu 之下複製一份再替換。
type Catalog struct {
	mu        sync.Mutex
	current   atomic.Pointer[snapshot]
	maxSize   int
	threshold int
	now       func() time.Time
}

// New 創建新的目錄
func New(opts Options) *Catalog {
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.DuplicateThreshold <= 0 {
		opts.DuplicateThreshold = DefaultDuplicateThreshold
	}
	c := &Catalog{
		maxSize:   opts.MaxEntries,
		threshold: opts.DuplicateThreshold,
		now:       time.Now,
	}
	c.current.Store(&snapshot{
		entries:   map[string]Entry{},
		redirects: map[string]string{},
	})
	return c
}

func (c *Catalog) load() *snapshot {
	return c.current.Load()
}

func (s *snapshot) resolve(name string) string {
	// 轉址寫入時已壓縮路徑，這裡的迴圈只是保險
	for i := 0; i < 8; i++ {
		to, ok := s.redirects[name]
		if !ok {
			return name
		}
		name = to
	}
	return name
}

func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		entries:   make(map[string]Entry, len(s.entries)+1),
		redirects: make(map[string]string, len(s.redirects)),
		names:     append([]string(nil), s.names...),
		version:   s.version + 1,
	}
	for k, v := range s.entries {
		next.entries[k] = v
	}
	for k, v := range s.redirects {
		next.redirects[k] = v
	}
	return next
}

// Get 依名稱取得食材，會跟隨合併後的轉址
func (c *Catalog) Get(name string) (Entry, bool) {
	s := c.load()
	e, ok := s.entries[s.resolve(name)]
	return e, ok
}

// Canonical 回傳名稱轉址後的最終名稱
func (c *Catalog) Canonical(name string) string {
	return c.load().resolve(name)
}

// GetOrCreate 取得或建立正規化食材，created 表示這次呼叫新增了食材
func (c *Catalog) GetOrCreate(n ingredient.Normalized) (Entry, bool, error) {
	if n.Name == "" {
		return Entry{}, false, ErrEmptyName
	}
	if e, ok := c.Get(n.Name); ok {
		return e, false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.load()
	name := s.resolve(n.Name)
	if e, ok := s.entries[name]; ok {
		return e, false, nil
	}
	if len(s.entries) >= c.maxSize {
		common.LogWarn("正規化食材目錄已滿",
			zap.String("name", n.Name),
			zap.Int("max_entries", c.maxSize),
		)
		return Entry{}, false, fmt.Errorf("%w: %d entries", ErrCatalogFull, c.maxSize)
	}

	category := n.Category
	if !category.Valid() {
		category = ingredient.CategoryOther
	}
	// 已轉址的名稱以合併目標的名稱建立
	e := Entry{
		Name:              name,
		Category:          category,
		IsCommonSeasoning: n.IsCommonSeasoning,
		CreatedAt:         c.now(),
	}

	next := s.clone()
	next.entries[e.Name] = e
	next.names = insertSorted(next.names, e.Name)
	c.current.Store(next)

	common.LogCatalogGrowth(e.Name, string(e.Category), len(next.entries))
	return e, true, nil
}

// Resolve 實作 ingredient.Resolver
func (c *Catalog) Resolve(n ingredient.Normalized) (ingredient.Identity, error) {
	e, _, err := c.GetOrCreate(n)
	if err != nil {
		return ingredient.Identity{}, err
	}
	return ingredient.Identity{Name: e.Name, IsCommonSeasoning: e.IsCommonSeasoning}, nil
}

// Merge 將 from 合併到 into：from 被移除，之後對 from 的查詢都轉址到 into
func (c *Catalog) Merge(from, into string) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.load()
	from, into = s.resolve(from), s.resolve(into)
	if from == into {
		return Entry{}, ErrSelfMerge
	}
	if _, ok := s.entries[from]; !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, from)
	}
	target, ok := s.entries[into]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, into)
	}

	next := s.clone()
	delete(next.entries, from)
	next.names = removeSorted(next.names, from)
	for k, v := range next.redirects {
		if v == from {
			next.redirects[k] = into
		}
	}
	next.redirects[from] = into
	c.current.Store(next)

	common.LogInfo("合併正規化食材",
		zap.String("from", from),
		zap.String("into", into),
		zap.Int("catalog_size", len(next.entries)),
	)
	return target, nil
}

// Restore 以持久化的資料重建目錄，既有內容會被取代
func (c *Catalog) Restore(entries []Entry, merges []Merge) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := &snapshot{
		entries:   make(map[string]Entry, len(entries)),
		redirects: make(map[string]string, len(merges)),
		version:   c.load().version + 1,
	}
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		next.entries[e.Name] = e
	}
	for _, m := range merges {
		next.redirects[m.From] = m.Into
	}
	for from := range next.redirects {
		delete(next.entries, from)
		next.redirects[from] = next.resolve(from)
	}
	next.names = make([]string, 0, len(next.entries))
	for name := range next.entries {
		next.names = append(next.names, name)
	}
	sort.Strings(next.names)
	c.current.Store(next)
}

// List 回傳所有食材，依名稱排序
func (c *Catalog) List() []Entry {
	s := c.load()
	out := make([]Entry, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.entries[name])
	}
	return out
}

// Merges 回傳所有轉址紀錄，依 From 排序
func (c *Catalog) Merges() []Merge {
	s := c.load()
	out := make([]Merge, 0, len(s.redirects))
	for from, into := range s.redirects {
		out = append(out, Merge{From: from, Into: into})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// Len 目錄大小
func (c *Catalog) Len() int {
	return len(c.load().entries)
}

// Version 每次寫入都會遞增
func (c *Catalog) Version() uint64 {
	return c.load().version
}

// Autocomplete 回傳包含 q 的食材名稱，依字典序排序
func (c *Catalog) Autocomplete(q string, limit int) []string {
	q = strings.Join(strings.Fields(strings.ToLower(q)), "")
	if q == "" {
		return []string{}
	}
	if limit <= 0 || limit > DefaultAutocompleteLimit {
		limit = DefaultAutocompleteLimit
	}

	out := make([]string, 0, limit)
	for _, name := range c.load().names {
		if strings.Contains(name, q) {
			out = append(out, name)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func insertSorted(names []string, name string) []string {
	i := sort.SearchStrings(names, name)
	if i < len(names) && names[i] == name {
		return names
	}
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = name
	return names
}

func removeSorted(names []string, name string) []string {
	i := sort.SearchStrings(names, name)
	if i < len(names) && names[i] == name {
		return append(names[:i], names[i+1:]...)
	}
	return names
}
