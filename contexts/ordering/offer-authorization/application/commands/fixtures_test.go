package commands

import (
	"context"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/adapters/memory"
	providersadapter "boxoffice/contexts/ordering/offer-authorization/adapters/providers"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// fixture assembles the in-memory adapters every command test runs on: one
// in-progress transaction owned by agent-1, one event served by venuehub,
// and a small seat catalog.
type fixture struct {
	store     *memory.Store
	clock     fixedClock
	venueHub  *memory.Provider
	gateLink  *memory.Provider
	cardVault *memory.Provider
	pointBank *memory.Provider
	clubPass  *memory.Provider
	providers *providersadapter.Dispatcher
	verifier  memory.Verifier
}

func newFixture() *fixture {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	store := memory.NewStore()

	seller := entities.Seller{SellerID: "seller-1", Name: "Grand Theatre", Currency: "USD"}
	store.SeedTransaction(entities.Transaction{
		TransactionID: "txn-1",
		Type:          entities.TransactionTypePlaceOrder,
		Status:        entities.TransactionStatusInProgress,
		AgentID:       "agent-1",
		Seller:        seller,
		ProjectID:     "proj-1",
		ExpiresAt:     now.Add(30 * time.Minute),
		StartedAt:     now,
	})
	store.SeedEvent(entities.Event{
		EventID:  "evt-1",
		Name:     "Evening Show",
		SellerID: seller.SellerID,
		StartsAt: now.Add(72 * time.Hour),
		Provider: entities.ProviderVenueHub,
	})
	store.SeedOffers(entities.OfferKindSeatReservation, "evt-1", seller.SellerID, []entities.CatalogOffer{
		{
			OfferID:  "offer-adult",
			Name:     "Adult",
			Currency: "USD",
			PriceComponents: []entities.PriceComponent{
				{Kind: entities.ComponentUnitPrice, Price: 1000, ReferenceQuantity: 1},
			},
		},
		{
			OfferID:  "offer-child",
			Name:     "Child",
			Currency: "USD",
			PriceComponents: []entities.PriceComponent{
				{Kind: entities.ComponentUnitPrice, Price: 800, ReferenceQuantity: 1},
			},
		},
		{
			OfferID:  "offer-pair",
			Name:     "Pair",
			Currency: "USD",
			PriceComponents: []entities.PriceComponent{
				{Kind: entities.ComponentUnitPrice, Price: 1800, ReferenceQuantity: 2},
			},
		},
	})
	store.SeedOffers(entities.OfferKindCardRegistration, "card-product", seller.SellerID, []entities.CatalogOffer{
		{
			OfferID: "offer-card",
			Name:    "Season Card",
			PriceComponents: []entities.PriceComponent{
				{Kind: entities.ComponentUnitPrice, Price: 2000, ReferenceQuantity: 1},
			},
		},
	})

	f := &fixture{
		store:     store,
		clock:     fixedClock{now: now},
		venueHub:  &memory.Provider{ProviderID: entities.ProviderVenueHub},
		gateLink:  &memory.Provider{ProviderID: entities.ProviderGateLink, Legacy: true},
		cardVault: &memory.Provider{ProviderID: entities.ProviderCardVault},
		pointBank: &memory.Provider{ProviderID: entities.ProviderPointBank},
		clubPass:  &memory.Provider{ProviderID: entities.ProviderClubPass},
		verifier:  memory.Verifier{FaceValues: map[string]int{"voucher-1": 1400}},
	}
	f.providers = providersadapter.NewDispatcher(entities.ProviderVenueHub,
		f.venueHub, f.gateLink, f.cardVault, f.pointBank, f.clubPass)
	return f
}

func (f *fixture) authorize() AuthorizeUseCase {
	return AuthorizeUseCase{
		Transactions: f.store,
		Actions:      f.store,
		Events:       f.store,
		Catalog:      f.store,
		Verifier:     f.verifier,
		Providers:    f.providers,
		Outbox:       f.store,
		Clock:        f.clock,
		IDGenerator:  f.store,
	}
}

func (f *fixture) cancel() CancelUseCase {
	return CancelUseCase{
		Transactions: f.store,
		Actions:      f.store,
		Providers:    f.providers,
		Outbox:       f.store,
		Clock:        f.clock,
	}
}

func (f *fixture) changeOffers() ChangeOffersUseCase {
	return ChangeOffersUseCase{
		Transactions: f.store,
		Actions:      f.store,
		Catalog:      f.store,
		Verifier:     f.verifier,
		Clock:        f.clock,
	}
}

func placeOrder(id string) entities.TransactionRef {
	return entities.TransactionRef{Type: entities.TransactionTypePlaceOrder, ID: id}
}

func seatSelection(offerID, section, number string) entities.OfferSelection {
	return entities.OfferSelection{
		OfferID: offerID,
		Seat:    &entities.Seat{Section: section, Number: number},
	}
}

func (f *fixture) authorizeSeat(selections ...entities.OfferSelection) (entities.AuthorizeAction, error) {
	return f.authorize().Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindSeatReservation,
		EventID:     "evt-1",
		Selections:  selections,
	})
}

func (f *fixture) pendingOutbox() []ports.OutboxMessage {
	pending, _ := f.store.ListPendingOutbox(context.Background(), 100)
	return pending
}
