package offerauthorization

import (
	"log/slog"
	"time"

	httpadapter "boxoffice/contexts/ordering/offer-authorization/adapters/http"
	"boxoffice/contexts/ordering/offer-authorization/adapters/memory"
	providersadapter "boxoffice/contexts/ordering/offer-authorization/adapters/providers"
	"boxoffice/contexts/ordering/offer-authorization/application/commands"
	"boxoffice/contexts/ordering/offer-authorization/application/queries"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	ProjectID    string
	Transactions ports.TransactionStore
	Actions      ports.ActionStore
	Events       ports.EventStore
	Catalog      ports.OfferCatalog
	Verifier     ports.RedemptionVerifier
	Providers    ports.ProviderResolver
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	authorize := commands.AuthorizeUseCase{
		Transactions: deps.Transactions,
		Actions:      deps.Actions,
		Events:       deps.Events,
		Catalog:      deps.Catalog,
		Verifier:     deps.Verifier,
		Providers:    deps.Providers,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	cancel := commands.CancelUseCase{
		Transactions: deps.Transactions,
		Actions:      deps.Actions,
		Providers:    deps.Providers,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	changeOffers := commands.ChangeOffersUseCase{
		Transactions: deps.Transactions,
		Actions:      deps.Actions,
		Catalog:      deps.Catalog,
		Verifier:     deps.Verifier,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	listActions := queries.ListActionsUseCase{
		Transactions: deps.Transactions,
		Actions:      deps.Actions,
		Logger:       deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ProjectID:    deps.ProjectID,
			Authorize:    authorize,
			Cancel:       cancel,
			ChangeOffers: changeOffers,
			ListActions:  listActions,
			Logger:       deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module entirely on in-memory adapters with a
// small seeded catalog, for local runs and integration tests.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	now := time.Now().UTC()

	seller := entities.Seller{SellerID: "seller-1", Name: "Grand Theatre", Currency: "USD"}
	store.SeedTransaction(entities.Transaction{
		TransactionID: "txn-1",
		Type:          entities.TransactionTypePlaceOrder,
		Status:        entities.TransactionStatusInProgress,
		AgentID:       "agent-1",
		Seller:        seller,
		ProjectID:     "demo",
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
	})

	dispatcher := providersadapter.NewDispatcher(entities.ProviderVenueHub,
		&memory.Provider{ProviderID: entities.ProviderVenueHub},
		&memory.Provider{ProviderID: entities.ProviderGateLink, Legacy: true},
		&memory.Provider{ProviderID: entities.ProviderCardVault},
		&memory.Provider{ProviderID: entities.ProviderPointBank},
		&memory.Provider{ProviderID: entities.ProviderClubPass},
	)

	module := NewModule(Dependencies{
		ProjectID:    "demo",
		Transactions: store,
		Actions:      store,
		Events:       store,
		Catalog:      store,
		Verifier:     memory.Verifier{FaceValues: map[string]int{"voucher-1": 1400}},
		Providers:    dispatcher,
		Outbox:       store,
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
