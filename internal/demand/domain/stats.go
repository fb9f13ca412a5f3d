package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats 当前统计窗口的概览
type Stats struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalItems    int             `json:"totalItems"`
	Revenue       decimal.Decimal `json:"revenue"`
	CategorySales map[string]int  `json:"categorySales"`
	TopProducts   map[string]int  `json:"topProducts"`
	WindowStart   time.Time       `json:"windowStart"`
	TimeFrame     string          `json:"timeFrame"`
}

// Report 统计概览加上有序明细，供导出使用
type Report struct {
	Stats      Stats
	Products   []ProductSales
	Categories []CategorySales
}

// ComputeStats 由窗口内订单、快照与分类归并结果生成报告
func ComputeStats(orders []Order, s Snapshot, categories []CategorySales, windowStart time.Time, window time.Duration) *Report {
	st := Stats{
		TotalOrders:   len(orders),
		TotalItems:    s.TotalUnits(),
		Revenue:       decimal.Zero,
		CategorySales: make(map[string]int, len(categories)),
		TopProducts:   make(map[string]int, len(s.Products)),
		WindowStart:   windowStart,
		TimeFrame:     TimeFrameLabel(window),
	}
	for _, o := range orders {
		st.Revenue = st.Revenue.Add(o.Amount)
	}
	for _, p := range s.Products {
		st.TopProducts[p.Name] = p.Count
	}
	for _, c := range categories {
		st.CategorySales[c.Category] = c.Count
	}
	return &Report{Stats: st, Products: s.Products, Categories: categories}
}
