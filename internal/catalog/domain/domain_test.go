package domain

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func priced(name string, price int64) *Product {
	return &Product{Name: name, Price: decimal.NewFromInt(price), Category: "electronic"}
}

func TestAnalyzePricingRecommendations(t *testing.T) {
	competitors := []*Product{priced("Phone A", 80), priced("Phone B", 100), priced("Phone C", 120)}

	cases := []struct {
		current   int64
		action    string
		suggested string
		position  string
	}{
		{130, ActionReduceSignificantly, "95", PositionHighest},
		{115, ActionReduceSlightly, "100", PositionAboveAverage},
		{100, ActionMaintain, "100", PositionAverage},
		{85, ActionIncreaseSlightly, "95", PositionBelowAverage},
		{70, ActionIncreaseSignificantly, "78", PositionLowest},
	}
	for _, tc := range cases {
		g := NewWithT(t)
		report := AnalyzePricing(decimal.NewFromInt(tc.current), competitors)
		g.Expect(report.Analysis.Recommendation.Action).To(Equal(tc.action), "current=%d", tc.current)
		g.Expect(report.Analysis.Recommendation.SuggestedPrice.String()).To(Equal(tc.suggested), "current=%d", tc.current)
		g.Expect(report.Analysis.MarketPosition).To(Equal(tc.position), "current=%d", tc.current)
		g.Expect(report.Analysis.PriceAnalysis.Average.String()).To(Equal("100"))
		g.Expect(report.AIInsights.PriceSpread.String()).To(Equal("40"))
		g.Expect(report.AIInsights.MarketTrend).To(Equal("MODERATE"))
		g.Expect(report.Competitors).To(HaveLen(3))
	}
}

func TestAnalyzePricingWithoutCompetitors(t *testing.T) {
	g := NewWithT(t)
	report := AnalyzePricing(decimal.NewFromInt(500), nil)
	g.Expect(report.Analysis.CompetitorCount).To(BeZero())
	g.Expect(report.Analysis.PriceAnalysis).To(BeNil())
	g.Expect(report.Analysis.Recommendation.Action).To(Equal(ActionNoCompetitors))
	g.Expect(report.Analysis.Recommendation.Confidence).To(Equal("LOW"))
	g.Expect(report.AIInsights.MarketTrend).To(Equal("MONOPOLY"))
	g.Expect(report.Competitors).NotTo(BeNil())
}

func TestIsCompetitor(t *testing.T) {
	g := NewWithT(t)
	g.Expect(IsCompetitor(&Product{Name: "Apple iPhone 15 Pro Max"}, "iPhone 15 Pro")).To(BeTrue())
	g.Expect(IsCompetitor(&Product{Name: "iPhone case"}, "iPhone 15 Pro")).To(BeTrue())
	g.Expect(IsCompetitor(&Product{Name: "Galaxy S24", Description: "rivals the IPHONE 15 PRO"}, "iPhone 15 Pro")).To(BeTrue())
	g.Expect(IsCompetitor(&Product{Name: "Galaxy S24"}, "iPhone 15 Pro")).To(BeFalse())
}

func TestVocabulary(t *testing.T) {
	g := NewWithT(t)
	open := NewVocabulary(nil)
	g.Expect(open.Check("anything")).To(Succeed())

	v := NewVocabulary([]string{"electronic", "fashionProducts"})
	g.Expect(v.Check("electronic")).To(Succeed())
	g.Expect(v.Check("Electronic")).To(MatchError(ErrUnknownCategory))
	g.Expect(v.Known("toys")).To(BeFalse())
}

func TestCheckOwner(t *testing.T) {
	g := NewWithT(t)
	owned := &Product{SellerID: "s1"}
	g.Expect(owned.CheckOwner("")).To(Succeed())
	g.Expect(owned.CheckOwner("s1")).To(Succeed())
	g.Expect(owned.CheckOwner("s2")).To(MatchError(ErrForbidden))
	g.Expect((&Product{}).CheckOwner("s2")).To(Succeed())
}
