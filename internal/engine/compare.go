package engine

import (
	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/order"
)

// Comparison holds the result and summary statistics of packing the same
// block list with one order.
type Comparison struct {
	Order      string
	Result     model.PackResult
	Container  model.Rect
	FillRatio  float64
	UnfitCount int
}

// CompareOrders packs specs once per order so the orders can be compared side
// by side. An empty orders list compares every known order. Results follow
// the orders list.
func CompareOrders(settings model.PackSettings, specs []model.BlockSpec, orders []string, opts ...Option) ([]Comparison, error) {
	if len(orders) == 0 {
		orders = order.Names()
	}

	results := make([]Comparison, 0, len(orders))
	for _, name := range orders {
		s := settings
		s.Order = name
		result, err := New(s, opts...).Optimize(specs)
		if err != nil {
			return nil, err
		}
		results = append(results, Comparison{
			Order:      name,
			Result:     result,
			Container:  result.Container,
			FillRatio:  result.FillRatio(),
			UnfitCount: len(result.Unfit()),
		})
	}
	return results, nil
}

// Best returns the index of the comparison with the fewest unfit blocks,
// breaking ties by the higher fill ratio and then by list position.
// It returns -1 for an empty list.
func Best(results []Comparison) int {
	best := -1
	for i, c := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		if c.UnfitCount < b.UnfitCount ||
			(c.UnfitCount == b.UnfitCount && c.FillRatio > b.FillRatio) {
			best = i
		}
	}
	return best
}
