// Package domain 需求追踪的领域模型：销量聚合与提醒规则，不含任何 I/O。
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Item 订单行在需求视角下的投影
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Qty       int
}

// Order 订单在需求视角下的投影
type Order struct {
	ID        string
	Items     []Item
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// ProductSales 单个商品名的累计销量，ProductID 为首次出现的商品 ID
type ProductSales struct {
	Name      string `json:"name"`
	ProductID string `json:"productId,omitempty"`
	Count     int    `json:"count"`
}

// Snapshot 一次统计窗口内的销量快照，Products 按首次出现顺序排列
type Snapshot struct {
	Products []ProductSales
	index    map[string]int
}

// Tally 按商品名累加订单行数量
func Tally(orders []Order) Snapshot {
	s := Snapshot{index: make(map[string]int)}
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Name == "" || it.Qty <= 0 {
				continue
			}
			i, ok := s.index[it.Name]
			if !ok {
				i = len(s.Products)
				s.index[it.Name] = i
				s.Products = append(s.Products, ProductSales{Name: it.Name, ProductID: it.ProductID})
			}
			s.Products[i].Count += it.Qty
			if s.Products[i].ProductID == "" {
				s.Products[i].ProductID = it.ProductID
			}
		}
	}
	return s
}

// Product 按名称查找快照中的商品销量
func (s Snapshot) Product(name string) (ProductSales, bool) {
	i, ok := s.index[name]
	if !ok {
		return ProductSales{}, false
	}
	return s.Products[i], true
}

// TotalUnits 快照内的总件数
func (s Snapshot) TotalUnits() int {
	n := 0
	for _, p := range s.Products {
		n += p.Count
	}
	return n
}

// ProductRef 目录中解析出的商品
type ProductRef struct {
	ID       string
	Name     string
	Category string
	SellerID string
}

// ProductCount 分类内的商品销量明细
type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategorySales 分类累计销量
type CategorySales struct {
	Category  string         `json:"category"`
	Count     int            `json:"count"`
	Breakdown []ProductCount `json:"products"`
}

// Categorize 把快照按解析出的分类归并；未解析或无分类的商品不进入任何分类。
// 分类按首次出现顺序排列，明细按快照顺序排列。
func Categorize(s Snapshot, resolved map[string]ProductRef) []CategorySales {
	var out []CategorySales
	index := make(map[string]int)
	for _, p := range s.Products {
		ref, ok := resolved[p.Name]
		if !ok || ref.Category == "" {
			continue
		}
		i, seen := index[ref.Category]
		if !seen {
			i = len(out)
			index[ref.Category] = i
			out = append(out, CategorySales{Category: ref.Category})
		}
		out[i].Count += p.Count
		out[i].Breakdown = append(out[i].Breakdown, ProductCount{Name: p.Name, Count: p.Count})
	}
	return out
}

// TopProducts 按销量降序取前 n 个，销量相同保持原有顺序
func TopProducts(breakdown []ProductCount, n int) []ProductCount {
	sorted := make([]ProductCount, len(breakdown))
	copy(sorted, breakdown)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
