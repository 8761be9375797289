package catalog

import (
	"sort"
	"strings"
)

// 商品一覧画面の絞り込み条件。ゼロ値は「絞り込みなし」
type Filter struct {
	Categories  []string
	Brands      []string
	MinPrice    float64
	MaxPrice    float64
	InStockOnly bool
	Query       string
}

// Apply は条件に合う商品だけを返す
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filter) matches(p Product) bool {
	if f.InStockOnly && !p.InStock {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) {
			return false
		}
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Categories は一覧からカテゴリー候補を重複なしで返す
func Categories(products []Product) []string {
	return distinct(products, func(p Product) string { return p.Category })
}

// Brands はブランド候補を重複なしで返す
func Brands(products []Product) []string {
	return distinct(products, func(p Product) string { return p.Brand })
}

// MaxPrice は価格スライダーの上限に使う最高値
func MaxPrice(products []Product) float64 {
	var max float64
	for _, p := range products {
		if p.Price > max {
			max = p.Price
		}
	}
	return max
}

func distinct(products []Product, key func(Product) string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range products {
		k := key(p)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
