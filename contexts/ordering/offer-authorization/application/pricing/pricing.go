package pricing

import "boxoffice/contexts/ordering/offer-authorization/domain/entities"

// ComputeAmount charges a set of validated accepted offers.
//
// The naive pass sums every price component of every offer. Offers sold in
// bundles keep one row per physical item, but their unit component already
// prices the whole bundle, so the naive pass over-counts: for each distinct
// offer id with bundle size n > 1, subtract unitPrice * (n-1) per complete
// bundle. Input must already satisfy the bundling invariant (row count a
// multiple of n); the validator enforces that, not this function.
func ComputeAmount(accepted []entities.AcceptedOffer) int {
	total := 0
	counts := make(map[string]int)
	units := make(map[string]entities.PriceComponent)

	for _, offer := range accepted {
		for _, component := range offer.PriceComponents {
			total += component.Price
		}
		counts[offer.OfferID]++
		if unit, ok := entities.UnitComponent(offer.PriceComponents); ok {
			units[offer.OfferID] = unit
		}
	}

	for offerID, count := range counts {
		unit, ok := units[offerID]
		if !ok {
			continue
		}
		if n := unit.BundleSize(); n > 1 {
			total -= unit.Price * (n - 1) * (count / n)
		}
	}
	return total
}
