package recommend

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Algorithm 相似度演算法
type Algorithm string

const (
	AlgorithmJaccard Algorithm = "jaccard"
	AlgorithmCosine  Algorithm = "cosine"
)

// ErrUnknownAlgorithm 不支援的演算法名稱
var ErrUnknownAlgorithm = errors.New("unknown similarity algorithm")

// Algorithms 所有支援的演算法
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmJaccard, AlgorithmCosine}
}

// ParseAlgorithm 解析演算法名稱（不分大小寫）
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case AlgorithmJaccard, AlgorithmCosine:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Set 食材名稱集合
type Set map[string]struct{}

// NewSet 由名稱建立集合，空字串會被忽略
func NewSet(names []string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has 集合是否包含 name
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// intersect 回傳交集大小
func intersect(user, recipe Set) int {
	small, large := user, recipe
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for k := range small {
		if large.Has(k) {
			n++
		}
	}
	return n
}

// Jaccard |U∩R| / |U∪R|，聯集為空時為 0
func Jaccard(user, recipe Set) float64 {
	inter := intersect(user, recipe)
	union := len(user) + len(recipe) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Cosine |U∩R| / (√|U|·√|R|)，任一集合為空時為 0
func Cosine(user, recipe Set) float64 {
	if len(user) == 0 || len(recipe) == 0 {
		return 0
	}
	inter := intersect(user, recipe)
	// 先相乘再開根號：|U|=|R|=交集時 √(n·n) 恰為 n，分數恰為 1
	return math.Min(1, float64(inter)/math.Sqrt(float64(len(user)*len(recipe))))
}

// Score 依演算法計算分數
func Score(a Algorithm, user, recipe Set) (float64, error) {
	switch a {
	case AlgorithmJaccard:
		return Jaccard(user, recipe), nil
	case AlgorithmCosine:
		return Cosine(user, recipe), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
}
