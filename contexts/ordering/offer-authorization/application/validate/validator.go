package validate

import (
	"context"
	"log/slog"
	"strings"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// Validator turns caller-requested selections into fully priced accepted
// offers, or rejects the whole set.
type Validator struct {
	Catalog  ports.OfferCatalog
	Verifier ports.RedemptionVerifier
	Logger   *slog.Logger
}

// Accept resolves every selection against the seller's sellable catalog,
// verifies redemption credentials where the offer demands one, and enforces
// the bundling/eligible-quantity invariant across the whole selection set.
// Duplicate offer ids with different seats are expected bundle members.
func (v Validator) Accept(
	ctx context.Context,
	kind entities.OfferKind,
	eventID string,
	seller entities.Seller,
	selections []entities.OfferSelection,
) ([]entities.AcceptedOffer, error) {
	if len(selections) == 0 {
		return nil, domainerrors.Argumentf("at least one offer selection is required")
	}

	catalog, err := v.Catalog.SearchAvailableOffers(ctx, kind, eventID, seller.SellerID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entities.CatalogOffer, len(catalog))
	for _, offer := range catalog {
		byID[offer.OfferID] = offer
	}

	accepted := make([]entities.AcceptedOffer, 0, len(selections))
	for _, selection := range selections {
		catalogOffer, ok := byID[selection.OfferID]
		if !ok {
			return nil, domainerrors.NotFoundf("offer %s is not currently sellable", selection.OfferID)
		}

		components := append([]entities.PriceComponent(nil), catalogOffer.PriceComponents...)
		if catalogOffer.RequiresRedemption() {
			components, err = v.redeem(ctx, selection, eventID, catalogOffer)
			if err != nil {
				return nil, err
			}
		}

		// Caller-supplied properties first, catalog-declared second;
		// concatenated, never overwritten.
		properties := append([]entities.Property(nil), selection.AdditionalProperties...)
		properties = append(properties, catalogOffer.AdditionalProperties...)

		accepted = append(accepted, entities.AcceptedOffer{
			OfferID:              catalogOffer.OfferID,
			Name:                 catalogOffer.Name,
			ItemOffered:          catalogOffer.Name,
			Currency:             currencyOf(catalogOffer, seller),
			PriceComponents:      components,
			AdditionalProperties: properties,
			TicketedSeat:         selection.Seat,
		})
	}

	if err := checkQuantities(accepted, byID); err != nil {
		return nil, err
	}
	return accepted, nil
}

func (v Validator) redeem(
	ctx context.Context,
	selection entities.OfferSelection,
	eventID string,
	catalogOffer entities.CatalogOffer,
) ([]entities.PriceComponent, error) {
	credential := selection.Credential
	if credential == nil ||
		strings.TrimSpace(credential.Identifier) == "" ||
		strings.TrimSpace(credential.AccessCode) == "" {
		return nil, domainerrors.Argumentf(
			"offer %s requires a redemption identifier and access code", catalogOffer.OfferID)
	}

	result, err := v.Verifier.Verify(ctx, *credential, eventID)
	if err != nil {
		return nil, err
	}

	// The verified face value supersedes whatever the catalog declared.
	return []entities.PriceComponent{
		{Kind: entities.ComponentUnitPrice, Price: 0, ReferenceQuantity: 1},
		{Kind: entities.ComponentSurcharge, Name: "verified redemption", Price: result.FaceValue},
	}, nil
}

// checkQuantities enforces, per offer id, that the row count is an exact
// multiple of the unit component's bundle size and lies within the declared
// eligible range.
func checkQuantities(accepted []entities.AcceptedOffer, catalog map[string]entities.CatalogOffer) error {
	counts := make(map[string]int)
	for _, offer := range accepted {
		counts[offer.OfferID]++
	}

	for offerID, count := range counts {
		catalogOffer := catalog[offerID]
		bundle := 1
		if unit, ok := entities.UnitComponent(catalogOffer.PriceComponents); ok {
			bundle = unit.BundleSize()
		}
		if count%bundle != 0 {
			return domainerrors.Argumentf(
				"offer %s is sold in bundles of %d, got %d selections", offerID, bundle, count)
		}
		if min := catalogOffer.EligibleQuantityMin; min > 0 && count < min {
			return domainerrors.Argumentf(
				"offer %s requires at least %d selections, got %d", offerID, min, count)
		}
		if max := catalogOffer.EligibleQuantityMax; max > 0 && count > max {
			return domainerrors.Argumentf(
				"offer %s allows at most %d selections, got %d", offerID, max, count)
		}
	}
	return nil
}

func currencyOf(offer entities.CatalogOffer, seller entities.Seller) string {
	if offer.Currency != "" {
		return offer.Currency
	}
	if seller.Currency != "" {
		return seller.Currency
	}
	return "USD"
}
