package reconciliation

import "errors"

// ProductQuantity pairs a product name with a quantity. Used by reports that
// group shipments by product rather than by line item.
type ProductQuantity struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// DeliveredQuantityFor sums delivered quantities whose product name matches
// exactly (case-sensitive). Returns 0 when nothing matches.
func DeliveredQuantityFor(delivered []ProductQuantity, productName string) int {
	total := 0
	for _, d := range delivered {
		if d.ProductName == productName {
			total += d.Quantity
		}
	}
	return total
}

// RemainingQuantityFor is item.Quantity minus everything delivered under the
// same product name, clamped at 0. When clamping happens the over-delivery is
// returned as an error.
func RemainingQuantityFor(item ProductQuantity, delivered []ProductQuantity) (int, error) {
	shipped := DeliveredQuantityFor(delivered, item.ProductName)
	remaining := item.Quantity - shipped
	if remaining < 0 {
		return 0, &OverDeliveryError{ProductName: item.ProductName, Ordered: item.Quantity, Delivered: shipped}
	}
	return remaining, nil
}

// IsOrderComplete compares aggregate totals: sum(ordered) <= sum(delivered).
func IsOrderComplete(ordered, delivered []ProductQuantity) bool {
	var orderedTotal, deliveredTotal int
	for _, o := range ordered {
		orderedTotal += o.Quantity
	}
	for _, d := range delivered {
		deliveredTotal += d.Quantity
	}
	return orderedTotal <= deliveredTotal
}

// ProductSummary is the delivery state grouped by product name.
type ProductSummary struct {
	Lines      []LineProgress       `json:"lines"`
	Violations []*OverDeliveryError `json:"violations,omitempty"`
	// Complete uses the aggregate rule over every shipped unit
	Complete bool `json:"complete"`
}

// SummarizeByProduct folds ordered and delivered quantities into one row per
// product name, keeping the order in which names first appear. Products
// shipped beyond their ordered total are reported as violations.
func SummarizeByProduct(ordered, delivered []ProductQuantity) ProductSummary {
	var names []string
	totals := make(map[string]int)
	for _, o := range ordered {
		if _, ok := totals[o.ProductName]; !ok {
			names = append(names, o.ProductName)
		}
		totals[o.ProductName] += o.Quantity
	}

	out := make([]LineProgress, 0, len(names))
	var violations []*OverDeliveryError
	for _, name := range names {
		remaining, err := RemainingQuantityFor(ProductQuantity{ProductName: name, Quantity: totals[name]}, delivered)
		var over *OverDeliveryError
		if errors.As(err, &over) {
			violations = append(violations, over)
		}
		out = append(out, LineProgress{
			ProductName: name,
			Ordered:     totals[name],
			Delivered:   DeliveredQuantityFor(delivered, name),
			Remaining:   remaining,
		})
	}
	return ProductSummary{
		Lines:      out,
		Violations: violations,
		Complete:   IsOrderComplete(ordered, delivered),
	}
}
