package models

import "time"

// SalesRecord is one row of the daily sales aggregation: quantity, revenue
// and average unit price for a product on a single calendar day.
type SalesRecord struct {
	Date        time.Time `json:"date"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Category    string    `json:"category"`
	County      string    `json:"county"`
	Quantity    int       `json:"quantity"`
	Revenue     float64   `json:"revenue"`
	AvgPrice    float64   `json:"avgPrice"`
}

// TimeSeriesPoint is a single observation of total daily sales quantity.
// Derived per request, never persisted.
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// WeatherSummary is the aggregated weather signal for a county.
type WeatherSummary struct {
	AvgTemp    float64 `json:"avg_temp"`
	Humidity   float64 `json:"humidity"`
	RainChance float64 `json:"rain_chance"`
}

// RegionalSales is the per-county order rollup used for demand clustering.
type RegionalSales struct {
	County       string  `json:"county"`
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
}

// PricePoint is one observation of a product's transacted price on a day.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Product is an active marketplace listing with its current inventory level.
type Product struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	County            string  `json:"county"`
	InventoryQuantity float64 `json:"inventoryQuantity"`
}

// ProductFilter narrows yield-vs-demand analysis to a product, category
// and/or county. Empty fields match everything.
type ProductFilter struct {
	ProductID string
	Category  string
	County    string
}

// Region scopes a forecast request. A nil Region means nationwide.
type Region struct {
	County    string `json:"county,omitempty"`
	SubCounty string `json:"subCounty,omitempty"`
}
