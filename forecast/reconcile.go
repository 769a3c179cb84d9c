package forecast

import (
	"math"

	"agrohub-ai/models"
)

// Shortage-risk tiers as a pure function of the supply/demand ratio.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// ReconcileInput bundles everything the reconciler joins: the products
// matching the filter, the sales history for the analysis window and the
// forecast points scoped to the same region.
type ReconcileInput struct {
	Products  []models.Product
	Sales     []models.SalesRecord
	Forecasts []models.ForecastPoint
	Filter    models.ProductFilter
}

// Reconcile joins current inventory against historical and forecasted
// demand per product. Returns ErrNoMatchingProducts when the filter matched
// nothing; callers report that as an unsuccessful result, not a crash.
func Reconcile(in ReconcileInput) (*models.YieldDemandAnalysis, error) {
	if len(in.Products) == 0 {
		return nil, ErrNoMatchingProducts
	}

	sales := in.Sales
	if in.Filter.County != "" {
		sales = filterSalesByCounty(sales, in.Filter.County)
	}

	productDemand := make(map[string]float64)
	categoryDemand := make(map[string]float64)
	for _, r := range sales {
		productDemand[r.ProductID] += float64(r.Quantity)
		categoryDemand[r.Category] += float64(r.Quantity)
	}
	categoryProducts := make(map[string]int)
	for _, p := range in.Products {
		categoryProducts[p.Category]++
	}

	analysis := &models.YieldDemandAnalysis{Success: true}
	for _, p := range in.Products {
		// With an explicit product filter demand is attributed at the
		// product level; otherwise the category total is divided evenly
		// across matching products.
		var historical float64
		if in.Filter.ProductID != "" {
			historical = productDemand[p.ID]
		} else if n := categoryProducts[p.Category]; n > 0 {
			historical = categoryDemand[p.Category] / float64(n)
		}

		forecasted := matchForecast(in.Forecasts, p)
		row := buildRow(p, historical, forecasted)
		analysis.Rows = append(analysis.Rows, row)

		analysis.Summary.TotalProducts++
		switch row.ShortageRisk {
		case RiskHigh:
			analysis.Summary.HighRisk++
		case RiskMedium:
			analysis.Summary.MediumRisk++
		default:
			analysis.Summary.LowRisk++
		}
	}
	return analysis, nil
}

func buildRow(p models.Product, historical, forecasted float64) models.YieldDemandRow {
	inventory := p.InventoryQuantity

	var ratio float64
	switch {
	case inventory > 0:
		ratio = historical / inventory
	case historical > 0:
		ratio = math.Inf(1)
	}

	satisfaction := 100.0
	if historical > 0 {
		satisfaction = math.Min(100, inventory/historical*100)
	}

	risk := RiskLow
	switch {
	case ratio > 1.5:
		risk = RiskHigh
	case ratio > 1.0:
		risk = RiskMedium
	}

	var recs []string
	if inventory < 0.8*historical {
		recs = append(recs, "Increase inventory to keep up with historical demand")
	}
	if forecasted > 1.2*inventory {
		recs = append(recs, "Plan for increased production; forecasted demand exceeds current stock")
	}
	if ratio > 1.5 {
		recs = append(recs, "Opportunity for price optimization while demand outpaces supply")
	}
	if len(recs) == 0 {
		recs = append(recs, "Supply and demand are balanced for this product")
	}

	return models.YieldDemandRow{
		ProductID:             p.ID,
		ProductName:           p.Name,
		Category:              p.Category,
		CurrentInventory:      inventory,
		HistoricalDemand:      historical,
		ForecastedDemand:      forecasted,
		SupplyDemandRatio:     ratio,
		DemandSatisfactionPct: round2(satisfaction),
		ShortageRisk:          risk,
		Recommendations:       recs,
		Location:              p.County,
	}
}

// matchForecast resolves a product's forecasted demand: a forecast point
// named after the product wins, then one named after its category.
func matchForecast(points []models.ForecastPoint, p models.Product) float64 {
	for _, fp := range points {
		if fp.Crop == p.Name {
			return fp.Demand
		}
	}
	for _, fp := range points {
		if fp.Crop == p.Category {
			return fp.Demand
		}
	}
	return 0
}

func filterSalesByCounty(sales []models.SalesRecord, county string) []models.SalesRecord {
	filtered := make([]models.SalesRecord, 0, len(sales))
	for _, r := range sales {
		if r.County == county {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
