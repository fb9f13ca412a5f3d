package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxCompetitors 参与定价分析的竞品上限
const MaxCompetitors = 20

// 市场位置
const (
	PositionHighest      = "HIGHEST"
	PositionLowest       = "LOWEST"
	PositionAboveAverage = "ABOVE_AVERAGE"
	PositionBelowAverage = "BELOW_AVERAGE"
	PositionAverage      = "AVERAGE"
)

// 定价建议
const (
	ActionReduceSignificantly   = "REDUCE_SIGNIFICANTLY"
	ActionReduceSlightly        = "REDUCE_SLIGHTLY"
	ActionIncreaseSignificantly = "INCREASE_SIGNIFICANTLY"
	ActionIncreaseSlightly      = "INCREASE_SLIGHTLY"
	ActionMaintain              = "MAINTAIN"
	ActionNoCompetitors         = "NO_COMPETITORS"
)

var (
	ratioReduceHigh   = decimal.NewFromFloat(1.2)
	ratioReduceLow    = decimal.NewFromFloat(1.1)
	ratioIncreaseHigh = decimal.NewFromFloat(0.8)
	ratioIncreaseLow  = decimal.NewFromFloat(0.9)
	factorNearAverage = decimal.NewFromFloat(0.95)
	factorUnderMin    = decimal.NewFromFloat(0.98)
)

// PricingRequest 定价分析请求
type PricingRequest struct {
	ProductName  string          `json:"productName"`
	Category     string          `json:"category"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	SellerID     string          `json:"sellerId"`
}

type Competitor struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type PriceAnalysis struct {
	Average      decimal.Decimal `json:"average"`
	Minimum      decimal.Decimal `json:"minimum"`
	Maximum      decimal.Decimal `json:"maximum"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

type Recommendation struct {
	Action         string          `json:"action"`
	SuggestedPrice decimal.Decimal `json:"suggestedPrice"`
	Confidence     string          `json:"confidence"`
	Reason         string          `json:"reason"`
}

type Analysis struct {
	CompetitorCount int            `json:"competitorCount"`
	PriceAnalysis   *PriceAnalysis `json:"priceAnalysis"`
	Recommendation  Recommendation `json:"recommendation"`
	MarketPosition  string         `json:"marketPosition,omitempty"`
}

type Insights struct {
	MarketTrend            string          `json:"marketTrend"`
	PriceSpread            decimal.Decimal `json:"priceSpread"`
	RecommendationStrength string          `json:"recommendationStrength"`
}

// PricingReport 定价分析结果
type PricingReport struct {
	Competitors []Competitor `json:"competitors"`
	Analysis    Analysis     `json:"analysis"`
	AIInsights  Insights     `json:"aiInsights"`
}

// IsCompetitor 名称包含商品名或其首个单词，或描述包含商品名（大小写不敏感）
func IsCompetitor(p *Product, productName string) bool {
	needle := strings.ToLower(strings.TrimSpace(productName))
	if needle == "" {
		return true
	}
	name := strings.ToLower(p.Name)
	if strings.Contains(name, needle) || strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	first := strings.Fields(needle)[0]
	return strings.Contains(name, first)
}

// AnalyzePricing 基于竞品价格给出市场位置与调价建议
func AnalyzePricing(current decimal.Decimal, competitors []*Product) PricingReport {
	report := PricingReport{Competitors: make([]Competitor, 0, len(competitors))}
	for _, c := range competitors {
		report.Competitors = append(report.Competitors, Competitor{Name: c.Name, Price: c.Price, Category: c.Category})
	}
	report.Analysis.CompetitorCount = len(competitors)

	if len(competitors) == 0 {
		report.Analysis.Recommendation = Recommendation{
			Action:         ActionNoCompetitors,
			SuggestedPrice: current,
			Confidence:     "LOW",
			Reason:         "No direct competitors found. You have pricing flexibility but monitor market response.",
		}
		report.AIInsights = Insights{MarketTrend: "MONOPOLY", PriceSpread: decimal.Zero, RecommendationStrength: "LOW"}
		return report
	}

	sum := decimal.Zero
	minPrice, maxPrice := competitors[0].Price, competitors[0].Price
	for _, c := range competitors {
		sum = sum.Add(c.Price)
		minPrice = decimal.Min(minPrice, c.Price)
		maxPrice = decimal.Max(maxPrice, c.Price)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(competitors))))

	report.Analysis.PriceAnalysis = &PriceAnalysis{
		Average:      avg.Round(0),
		Minimum:      minPrice,
		Maximum:      maxPrice,
		CurrentPrice: current,
	}

	switch {
	case current.GreaterThan(maxPrice):
		report.Analysis.MarketPosition = PositionHighest
	case current.LessThan(minPrice):
		report.Analysis.MarketPosition = PositionLowest
	case current.GreaterThan(avg):
		report.Analysis.MarketPosition = PositionAboveAverage
	case current.LessThan(avg):
		report.Analysis.MarketPosition = PositionBelowAverage
	default:
		report.Analysis.MarketPosition = PositionAverage
	}

	report.Analysis.Recommendation = recommend(current, avg, minPrice)

	trend := "MODERATE"
	if len(competitors) > 5 {
		trend = "COMPETITIVE"
	}
	report.AIInsights = Insights{
		MarketTrend:            trend,
		PriceSpread:            maxPrice.Sub(minPrice),
		RecommendationStrength: report.Analysis.Recommendation.Confidence,
	}
	return report
}

func recommend(current, avg, minPrice decimal.Decimal) Recommendation {
	if avg.IsZero() {
		return Recommendation{Action: ActionMaintain, SuggestedPrice: current, Confidence: "HIGH",
			Reason: "Your price is well-positioned in the market. Current pricing strategy is optimal."}
	}
	ratio := current.Div(avg)
	switch {
	case ratio.GreaterThan(ratioReduceHigh):
		return Recommendation{Action: ActionReduceSignificantly, SuggestedPrice: avg.Mul(factorNearAverage).Round(0), Confidence: "HIGH",
			Reason: "Your price is significantly higher than competitors. Reducing price will improve competitiveness."}
	case ratio.GreaterThan(ratioReduceLow):
		return Recommendation{Action: ActionReduceSlightly, SuggestedPrice: avg.Round(0), Confidence: "MEDIUM",
			Reason: "Your price is above market average. Consider matching average price for better sales."}
	case ratio.LessThan(ratioIncreaseHigh):
		return Recommendation{Action: ActionIncreaseSignificantly, SuggestedPrice: minPrice.Mul(factorUnderMin).Round(0), Confidence: "HIGH",
			Reason: "Your price is much lower than competitors. You can increase price while staying competitive."}
	case ratio.LessThan(ratioIncreaseLow):
		return Recommendation{Action: ActionIncreaseSlightly, SuggestedPrice: avg.Mul(factorNearAverage).Round(0), Confidence: "MEDIUM",
			Reason: "Your price is below average. Small increase possible without losing competitiveness."}
	default:
		return Recommendation{Action: ActionMaintain, SuggestedPrice: current, Confidence: "HIGH",
			Reason: "Your price is well-positioned in the market. Current pricing strategy is optimal."}
	}
}
