package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"agrohub-ai/models"
)

// Collector implements forecast.DataSource over the marketplace's
// transactional Postgres store. All queries are read-only aggregations;
// the pool is owned by the caller.
type Collector struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func New(db *pgxpool.Pool, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{db: db, logger: logger}
}

func windowStart(windowDays int) time.Time {
	return time.Now().AddDate(0, 0, -windowDays)
}

// FetchSales aggregates completed order items into daily per-product sales
// records over the window.
func (c *Collector) FetchSales(ctx context.Context, windowDays int) ([]models.SalesRecord, error) {
	query := `
		SELECT o.created_at::date AS day,
		       oi.product_id,
		       p.name,
		       p.category,
		       p.county,
		       COALESCE(SUM(oi.quantity), 0) AS quantity,
		       COALESCE(SUM(oi.quantity * oi.price), 0) AS revenue,
		       COALESCE(AVG(oi.price), 0) AS avg_price
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE o.payment_status = 'completed' AND o.created_at >= $1
		GROUP BY day, oi.product_id, p.name, p.category, p.county
		ORDER BY day
	`
	rows, err := c.db.Query(ctx, query, windowStart(windowDays))
	if err != nil {
		return nil, fmt.Errorf("querying sales aggregation: %w", err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var r models.SalesRecord
		if err := rows.Scan(&r.Date, &r.ProductID, &r.ProductName, &r.Category, &r.County,
			&r.Quantity, &r.Revenue, &r.AvgPrice); err != nil {
			return nil, fmt.Errorf("scanning sales record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sales rows: %w", err)
	}

	c.logger.Debug("fetched sales records",
		zap.Int("windowDays", windowDays),
		zap.Int("records", len(records)))
	return records, nil
}

// FetchRegionalSales rolls completed orders up by delivery county.
func (c *Collector) FetchRegionalSales(ctx context.Context, windowDays int) ([]models.RegionalSales, error) {
	query := `
		SELECT o.delivery_county,
		       COUNT(*) AS total_orders,
		       COALESCE(SUM(o.total_amount), 0) AS total_revenue
		FROM orders o
		WHERE o.payment_status = 'completed'
		  AND o.created_at >= $1
		  AND o.delivery_county IS NOT NULL
		  AND o.delivery_county <> ''
		GROUP BY o.delivery_county
	`
	rows, err := c.db.Query(ctx, query, windowStart(windowDays))
	if err != nil {
		return nil, fmt.Errorf("querying regional sales: %w", err)
	}
	defer rows.Close()

	var regions []models.RegionalSales
	for rows.Next() {
		var r models.RegionalSales
		if err := rows.Scan(&r.County, &r.TotalOrders, &r.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scanning regional sales: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// FetchPriceHistory returns a product's daily average transacted price.
func (c *Collector) FetchPriceHistory(ctx context.Context, productID string, windowDays int) ([]models.PricePoint, error) {
	query := `
		SELECT o.created_at::date AS day, AVG(oi.price) AS price
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.payment_status = 'completed'
		  AND oi.product_id = $1
		  AND o.created_at >= $2
		GROUP BY day
		ORDER BY day
	`
	rows, err := c.db.Query(ctx, query, productID, windowStart(windowDays))
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", err)
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Price); err != nil {
			return nil, fmt.Errorf("scanning price point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// FetchActiveProducts lists active listings matching the optional filters.
func (c *Collector) FetchActiveProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := `
		SELECT id, name, category, county, COALESCE(inventory_quantity, 0)
		FROM products
		WHERE is_active = true
	`
	args := []interface{}{}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.County != "" {
		args = append(args, filter.County)
		query += fmt.Sprintf(" AND county = $%d", len(args))
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying active products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// FetchFarmerProducts lists a farmer's active listings.
func (c *Collector) FetchFarmerProducts(ctx context.Context, farmerID string) ([]models.Product, error) {
	query := `
		SELECT id, name, category, county, COALESCE(inventory_quantity, 0)
		FROM products
		WHERE farmer_id = $1 AND is_active = true
	`
	rows, err := c.db.Query(ctx, query, farmerID)
	if err != nil {
		return nil, fmt.Errorf("querying farmer products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// FetchFarmerSalesStats totals completed order revenue and order count
// across the given products.
func (c *Collector) FetchFarmerSalesStats(ctx context.Context, productIDs []string) (float64, int, error) {
	query := `
		SELECT COALESCE(SUM(o.total_amount), 0), COUNT(DISTINCT o.id)
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.payment_status = 'completed' AND oi.product_id = ANY($1)
	`
	var totalSales float64
	var totalOrders int
	if err := c.db.QueryRow(ctx, query, productIDs).Scan(&totalSales, &totalOrders); err != nil {
		return 0, 0, fmt.Errorf("querying farmer sales stats: %w", err)
	}
	return totalSales, totalOrders, nil
}

func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.County, &p.InventoryQuantity); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
