package models

import "time"

// ForecastPoint is the externally visible unit of a demand forecast: one
// crop/category with its demand score, confidence and price guidance.
// Demand is clamped to [30,100] and confidence to [50,100] by the composer.
type ForecastPoint struct {
	Crop                string         `json:"crop"`
	Demand              float64        `json:"demand"`
	Confidence          int            `json:"confidence"`
	PriceRecommendation *float64       `json:"priceRecommendation"`
	Region              string         `json:"region"`
	Weather             WeatherSummary `json:"weather"`
}

// PriceRecommendation is the output of the price model for one product.
// Recommendation and current average are nil when there is no price history.
type PriceRecommendation struct {
	RecommendedPrice *float64 `json:"recommended_price"`
	Confidence       int      `json:"confidence"`
	CurrentAvg       *float64 `json:"current_avg"`
}

// RegionCluster is one county's entry in the demand heatmap. Cluster ids
// carry no ordinal meaning; counties only share an id by co-membership.
type RegionCluster struct {
	DemandScore int     `json:"demand_score"`
	Revenue     float64 `json:"revenue"`
	Cluster     int     `json:"cluster"`
}

// YieldDemandRow compares one product's inventory against historical and
// forecasted demand.
type YieldDemandRow struct {
	ProductID                string   `json:"productId"`
	ProductName              string   `json:"productName"`
	Category                 string   `json:"category"`
	CurrentInventory         float64  `json:"currentInventory"`
	HistoricalDemand         float64  `json:"historicalDemand"`
	ForecastedDemand         float64  `json:"forecastedDemand"`
	SupplyDemandRatio        float64  `json:"supplyDemandRatio"`
	DemandSatisfactionPct    float64  `json:"demandSatisfactionPercent"`
	ShortageRisk             string   `json:"shortageRisk"`
	Recommendations          []string `json:"recommendations"`
	Location                 string   `json:"location"`
}

// YieldDemandSummary tallies analyzed products by shortage-risk tier.
type YieldDemandSummary struct {
	TotalProducts int `json:"totalProducts"`
	HighRisk      int `json:"highRisk"`
	MediumRisk    int `json:"mediumRisk"`
	LowRisk       int `json:"lowRisk"`
}

// YieldDemandAnalysis is the full reconciliation result. Success is false
// when the filter matched no products; Message explains why.
type YieldDemandAnalysis struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Rows    []YieldDemandRow   `json:"analysis"`
	Summary YieldDemandSummary `json:"summary"`
}

// FarmerInsights summarizes a farmer's marketplace activity alongside the
// demand forecasts relevant to their crops.
type FarmerInsights struct {
	TotalSales      float64         `json:"total_sales"`
	TotalOrders     int             `json:"total_orders"`
	ActiveProducts  int             `json:"active_products"`
	DemandForecasts []ForecastPoint `json:"demand_forecasts"`
	Recommendations []string        `json:"recommendations"`
	Narrative       string          `json:"narrative,omitempty"`
}

// ForecastOverride is the admin request to replace a stored forecast.
type ForecastOverride struct {
	AdminID   string                   `json:"admin_id"`
	Reason    string                   `json:"reason"`
	Forecasts []ForecastPoint          `json:"forecasts"`
	Changes   []map[string]interface{} `json:"changes"`
}

// AuditLog records an admin action against a forecast.
type AuditLog struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performedBy"`
	TargetType  string    `json:"targetType"`
	TargetID    string    `json:"targetId"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ForecastSnapshot is a stored forecast run, the target of admin overrides.
type ForecastSnapshot struct {
	ID           string          `json:"id"`
	ForecastType string          `json:"forecastType"`
	Scope        string          `json:"scope"`
	ForecastDate time.Time       `json:"forecastDate"`
	Forecasts    []ForecastPoint `json:"forecasts"`
	IsOverridden bool            `json:"isOverridden"`
}
