package forecast

import "errors"

var (
	// ErrInsufficientData means too few observed days exist for any model
	// path. Callers recover by serving the synthetic fallback forecast.
	ErrInsufficientData = errors.New("insufficient sales data for forecasting")

	// ErrNoMatchingProducts means a yield-vs-demand filter matched nothing.
	ErrNoMatchingProducts = errors.New("no products match the given filters")

	// ErrInvalidIdentifier means a product or farmer id is malformed.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUpstreamUnavailable means a data provider could not be reached.
	// Weather degradation handles this internally; it is exported for the
	// collector layer.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)
