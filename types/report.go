package types

// SalesSummary holds the headline revenue figures for the dashboard.
type SalesSummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	DistinctOrders    int     `json:"distinct_orders"`
	RowCount          int     `json:"row_count"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// RevenueEntry is one key of a revenue ranking or breakdown.
type RevenueEntry struct {
	Key     string  `json:"key"`
	Revenue float64 `json:"revenue"`
}

// CustomerRevenue is one customer row of the top-customers ranking,
// keyed by (company name, tax id).
type CustomerRevenue struct {
	CompanyName string  `json:"company_name"`
	TaxID       string  `json:"tax_id"`
	Revenue     float64 `json:"revenue"`
}

// StatusBreakdown carries order counts per status value. HasData is false
// when every persisted status is empty, which consumers should render as
// "no status data" rather than an empty chart.
type StatusBreakdown struct {
	HasData bool           `json:"has_data"`
	Counts  map[string]int `json:"counts"`
}
