package inventory

// LowStockPolicy flags products whose remaining stock fell to or below Threshold.
// A zero Threshold only flags sold-out products.
type LowStockPolicy struct {
	Threshold int
}

func (p LowStockPolicy) Breached(remaining int) bool {
	return remaining <= p.Threshold
}
