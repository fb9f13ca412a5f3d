package domain

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func orderOf(items ...Item) Order {
	return Order{Items: items, Amount: decimal.NewFromInt(10)}
}

func TestTallyAccumulatesByName(t *testing.T) {
	g := NewWithT(t)
	s := Tally([]Order{
		orderOf(Item{ProductID: "p1", Name: "iPhone 15 Pro", Qty: 2}, Item{ProductID: "p2", Name: "Premium Cotton T-Shirt", Qty: 1}),
		orderOf(Item{ProductID: "p9", Name: "iPhone 15 Pro", Qty: 3}),
		orderOf(Item{Name: "", Qty: 4}, Item{ProductID: "p3", Name: "Ghost", Qty: 0}),
	})

	g.Expect(s.Products).To(HaveLen(2))
	iphone, ok := s.Product("iPhone 15 Pro")
	g.Expect(ok).To(BeTrue())
	g.Expect(iphone.Count).To(Equal(5))
	g.Expect(iphone.ProductID).To(Equal("p1"))
	g.Expect(s.Products[1].Name).To(Equal("Premium Cotton T-Shirt"))
	g.Expect(s.TotalUnits()).To(Equal(6))

	_, ok = s.Product("Ghost")
	g.Expect(ok).To(BeFalse())
}

func TestCategorizeSkipsUnresolved(t *testing.T) {
	g := NewWithT(t)
	s := Tally([]Order{
		orderOf(Item{Name: "iPhone 15 Pro", Qty: 3}, Item{Name: "Pixel 8", Qty: 2}),
		orderOf(Item{Name: "Mystery Box", Qty: 7}, Item{Name: "Linen Shirt", Qty: 1}),
	})
	resolved := map[string]ProductRef{
		"iPhone 15 Pro": {ID: "p1", Category: "electronic"},
		"Pixel 8":       {ID: "p2", Category: "electronic"},
		"Linen Shirt":   {ID: "p3", Category: "fashionProducts"},
	}

	cats := Categorize(s, resolved)
	g.Expect(cats).To(HaveLen(2))
	g.Expect(cats[0]).To(Equal(CategorySales{
		Category:  "electronic",
		Count:     5,
		Breakdown: []ProductCount{{Name: "iPhone 15 Pro", Count: 3}, {Name: "Pixel 8", Count: 2}},
	}))
	g.Expect(cats[1].Category).To(Equal("fashionProducts"))

	total := 0
	for _, c := range cats {
		total += c.Count
	}
	g.Expect(total).To(Equal(s.TotalUnits() - 7))
}

func TestTopProductsIsStable(t *testing.T) {
	g := NewWithT(t)
	in := []ProductCount{{"a", 1}, {"b", 4}, {"c", 2}, {"d", 4}, {"e", 2}}

	g.Expect(TopProducts(in, 3)).To(Equal([]ProductCount{{"b", 4}, {"d", 4}, {"c", 2}}))
	g.Expect(TopProducts(in[:1], 3)).To(Equal([]ProductCount{{"a", 1}}))
	g.Expect(in[0].Name).To(Equal("a"))
}

func TestAlertMessages(t *testing.T) {
	g := NewWithT(t)
	window := 24 * time.Hour

	msg := CategoryAlertMessage("electronic", 9, []ProductCount{{"iPhone 15 Pro", 6}, {"Pixel 8", 3}}, window)
	g.Expect(msg).To(Equal("🔥 High Demand Alert! Your electronic category is trending! 9 items sold in 24h. " +
		"Top products: iPhone 15 Pro (6 sold), Pixel 8 (3 sold). Consider restocking or adding similar products!"))

	msg = ProductAlertMessage("iPhone 15 Pro", 6, window)
	g.Expect(msg).To(Equal("🚀 Product Alert! Your product \"iPhone 15 Pro\" is in high demand! 6 units sold in the last 24 hours. " +
		"Consider increasing inventory or promoting similar items!"))

	g.Expect(TimeFrameLabel(window)).To(Equal("24h"))
	g.Expect(TimeFrameLabel(90 * time.Minute)).To(Equal("1h30m0s"))
}

func TestAlertKeys(t *testing.T) {
	g := NewWithT(t)
	seller := SellerRef{ID: "s1", ShopName: "TechWorld", Category: "electronic"}
	cat := NewCategoryAlert(seller, CategorySales{Category: "electronic", Count: 6, Breakdown: []ProductCount{{"iPhone 15 Pro", 6}}}, 24*time.Hour)
	g.Expect(cat.Key()).To(Equal(AlertKey{SellerID: "s1", Category: "electronic"}))
	g.Expect(cat.TimeFrame).To(Equal("24h"))
	g.Expect(cat.SellerName).To(Equal("TechWorld"))

	prod := NewProductAlert(seller, ProductRef{ID: "p1", Category: "electronic"}, ProductSales{Name: "iPhone 15 Pro", Count: 6}, 24*time.Hour)
	g.Expect(prod.Key()).To(Equal(AlertKey{SellerID: "s1", ProductName: "iPhone 15 Pro"}))
	g.Expect(prod.ProductID).To(Equal("p1"))
	g.Expect(prod.Category).To(Equal("electronic"))
}

func TestComputeStats(t *testing.T) {
	g := NewWithT(t)
	orders := []Order{
		orderOf(Item{Name: "iPhone 15 Pro", Qty: 2}),
		orderOf(Item{Name: "Linen Shirt", Qty: 1}, Item{Name: "iPhone 15 Pro", Qty: 1}),
	}
	s := Tally(orders)
	cats := Categorize(s, map[string]ProductRef{"iPhone 15 Pro": {Category: "electronic"}})
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	r := ComputeStats(orders, s, cats, start, 24*time.Hour)
	g.Expect(r.Stats.TotalOrders).To(Equal(2))
	g.Expect(r.Stats.TotalItems).To(Equal(4))
	g.Expect(r.Stats.Revenue.Equal(decimal.NewFromInt(20))).To(BeTrue())
	g.Expect(r.Stats.TopProducts).To(Equal(map[string]int{"iPhone 15 Pro": 3, "Linen Shirt": 1}))
	g.Expect(r.Stats.CategorySales).To(Equal(map[string]int{"electronic": 3}))
	g.Expect(r.Categories).To(HaveLen(1))
}
