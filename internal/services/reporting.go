package services

import (
	"context"
	"sort"

	"github.com/salesdesk/apiserver/types"
)

const topN = 10

// ReportingService computes dashboard aggregates over the full persisted
// order set. Every method is a pure read and tolerates an empty table by
// returning zero values.
type ReportingService struct {
	repo OrderRepository
}

func NewReportingService(repo OrderRepository) *ReportingService {
	return &ReportingService{repo: repo}
}

// Summary returns total revenue, the distinct order count and the average
// value per row. The average is 0 for an empty set, never a division error.
func (s *ReportingService) Summary(ctx context.Context) (types.SalesSummary, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return types.SalesSummary{}, err
	}

	summary := types.SalesSummary{RowCount: len(orders)}
	distinct := map[int64]struct{}{}
	for _, order := range orders {
		summary.TotalRevenue += order.Value
		distinct[order.OrderNumber] = struct{}{}
	}
	summary.DistinctOrders = len(distinct)
	if len(orders) > 0 {
		summary.AverageOrderValue = summary.TotalRevenue / float64(len(orders))
	}
	return summary, nil
}

// RevenueByChannel sums revenue per sales channel. Keys are unordered;
// consumers sort for display.
func (s *ReportingService) RevenueByChannel(ctx context.Context) (map[string]float64, error) {
	return s.revenueBy(ctx, func(o types.Order) string { return o.Channel })
}

// RevenueByCenter sums revenue per distribution center.
func (s *ReportingService) RevenueByCenter(ctx context.Context) (map[string]float64, error) {
	return s.revenueBy(ctx, func(o types.Order) string { return o.Center })
}

func (s *ReportingService) revenueBy(ctx context.Context, key func(types.Order) string) (map[string]float64, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	totals := map[string]float64{}
	for _, order := range orders {
		totals[key(order)] += order.Value
	}
	return totals, nil
}

// TopProducts ranks product codes by summed revenue, descending. Ties keep
// the order in which the products were first seen in the underlying rows.
func (s *ReportingService) TopProducts(ctx context.Context) ([]types.RevenueEntry, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankByRevenue(orders, func(o types.Order) string { return o.ProductCode })
	entries := make([]types.RevenueEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = types.RevenueEntry{Key: r.key, Revenue: r.revenue}
	}
	return entries, nil
}

// TopCustomers ranks customers keyed by (company name, tax id) by summed
// revenue, descending, with the same first-seen tie-break as TopProducts.
func (s *ReportingService) TopCustomers(ctx context.Context) ([]types.CustomerRevenue, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankByRevenue(orders, func(o types.Order) string {
		return o.CompanyName + "\x1f" + o.TaxID
	})
	entries := make([]types.CustomerRevenue, len(ranked))
	for i, r := range ranked {
		name, taxID := splitCustomerKey(r.key)
		entries[i] = types.CustomerRevenue{CompanyName: name, TaxID: taxID, Revenue: r.revenue}
	}
	return entries, nil
}

// CountByReference counts orders per reference tag.
func (s *ReportingService) CountByReference(ctx context.Context) (map[string]int, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, order := range orders {
		counts[order.Reference]++
	}
	return counts, nil
}

// CountByStatus counts orders per status value. HasData is false when no
// row carries a non-empty status, so consumers can report "no status data"
// instead of rendering an empty chart.
func (s *ReportingService) CountByStatus(ctx context.Context) (types.StatusBreakdown, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return types.StatusBreakdown{}, err
	}

	breakdown := types.StatusBreakdown{Counts: map[string]int{}}
	for _, order := range orders {
		if order.Status == "" {
			continue
		}
		breakdown.Counts[order.Status]++
		breakdown.HasData = true
	}
	return breakdown, nil
}

type revenueRank struct {
	key       string
	revenue   float64
	firstSeen int
}

// rankByRevenue sums revenue per key and returns the top entries sorted by
// revenue descending, ties broken by first appearance in the row set.
func rankByRevenue(orders []types.Order, key func(types.Order) string) []revenueRank {
	totals := map[string]*revenueRank{}
	ranked := []*revenueRank{}
	for i, order := range orders {
		k := key(order)
		r, ok := totals[k]
		if !ok {
			r = &revenueRank{key: k, firstSeen: i}
			totals[k] = r
			ranked = append(ranked, r)
		}
		r.revenue += order.Value
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].revenue != ranked[j].revenue {
			return ranked[i].revenue > ranked[j].revenue
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]revenueRank, len(ranked))
	for i, r := range ranked {
		out[i] = *r
	}
	return out
}

func splitCustomerKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '\x1f' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
