package domain

import (
	"fmt"
	"strings"
	"time"
)

// TopProductsInAlert 分类提醒中列出的商品数
const TopProductsInAlert = 3

// AlertKind 提醒粒度
type AlertKind string

const (
	AlertCategory AlertKind = "category"
	AlertProduct  AlertKind = "product"
)

// SellerRef 卖家目录中的卖家
type SellerRef struct {
	ID       string
	ShopName string
	Category string
}

// Alert 一条待写入的需求提醒
type Alert struct {
	Kind        AlertKind
	SellerID    string
	SellerName  string
	ProductID   string
	ProductName string
	Category    string
	Message     string
	SalesCount  int
	TimeFrame   string
}

// AlertKey 去重键：分类提醒按 (卖家, 分类)，商品提醒按 (卖家, 商品名)
type AlertKey struct {
	SellerID    string
	Category    string
	ProductName string
}

// Key 返回提醒的去重键
func (a Alert) Key() AlertKey {
	if a.Kind == AlertProduct {
		return AlertKey{SellerID: a.SellerID, ProductName: a.ProductName}
	}
	return AlertKey{SellerID: a.SellerID, Category: a.Category}
}

// TimeFrameLabel 把统计窗口格式化为 "24h" 这样的标签
func TimeFrameLabel(window time.Duration) string {
	if window > 0 && window%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(window/time.Hour))
	}
	return window.String()
}

func windowPhrase(window time.Duration) string {
	if window%time.Hour != 0 {
		return window.String()
	}
	if h := int(window / time.Hour); h != 1 {
		return fmt.Sprintf("%d hours", h)
	}
	return "hour"
}

// CategoryAlertMessage 分类热销提醒文案
func CategoryAlertMessage(category string, count int, top []ProductCount, window time.Duration) string {
	parts := make([]string, len(top))
	for i, p := range top {
		parts[i] = fmt.Sprintf("%s (%d sold)", p.Name, p.Count)
	}
	return fmt.Sprintf("🔥 High Demand Alert! Your %s category is trending! %d items sold in %s. Top products: %s. Consider restocking or adding similar products!",
		category, count, TimeFrameLabel(window), strings.Join(parts, ", "))
}

// ProductAlertMessage 单品热销提醒文案
func ProductAlertMessage(productName string, count int, window time.Duration) string {
	return fmt.Sprintf("🚀 Product Alert! Your product \"%s\" is in high demand! %d units sold in the last %s. Consider increasing inventory or promoting similar items!",
		productName, count, windowPhrase(window))
}

// NewCategoryAlert 为某个卖家构造分类提醒
func NewCategoryAlert(seller SellerRef, sales CategorySales, window time.Duration) Alert {
	return Alert{
		Kind:       AlertCategory,
		SellerID:   seller.ID,
		SellerName: seller.ShopName,
		Category:   sales.Category,
		Message:    CategoryAlertMessage(sales.Category, sales.Count, TopProducts(sales.Breakdown, TopProductsInAlert), window),
		SalesCount: sales.Count,
		TimeFrame:  TimeFrameLabel(window),
	}
}

// NewProductAlert 为商品所属卖家构造单品提醒
func NewProductAlert(seller SellerRef, product ProductRef, sales ProductSales, window time.Duration) Alert {
	return Alert{
		Kind:        AlertProduct,
		SellerID:    seller.ID,
		SellerName:  seller.ShopName,
		ProductID:   product.ID,
		ProductName: sales.Name,
		Category:    product.Category,
		Message:     ProductAlertMessage(sales.Name, sales.Count, window),
		SalesCount:  sales.Count,
		TimeFrame:   TimeFrameLabel(window),
	}
}
