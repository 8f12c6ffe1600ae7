package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
	"boxoffice/internal/shared/events"
)

func TestAuthorizeSeatReservationCompletes(t *testing.T) {
	f := newFixture()

	action, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1"))
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	if action.Status != entities.ActionStatusCompleted {
		t.Fatalf("expected completed, got %s", action.Status)
	}
	if action.Provider != entities.ProviderVenueHub {
		t.Fatalf("expected venuehub, got %s", action.Provider)
	}
	if action.Object.PendingHold == nil {
		t.Fatal("expected a pending hold reference")
	}
	if action.Result == nil || action.Result.Price != 1000 {
		t.Fatalf("expected price 1000, got %+v", action.Result)
	}
	if action.Result.Currency != "USD" {
		t.Fatalf("expected currency USD, got %s", action.Result.Currency)
	}
	if len(action.Result.RequestBody) == 0 || len(action.Result.ResponseBody) == 0 {
		t.Fatal("expected raw provider bodies to be retained")
	}
	if f.venueHub.StartCalls != 1 || f.venueHub.ConfirmCalls != 1 {
		t.Fatalf("expected one start and one confirm, got %d/%d",
			f.venueHub.StartCalls, f.venueHub.ConfirmCalls)
	}

	pending := f.pendingOutbox()
	if len(pending) != 1 || pending[0].EventType != events.TypeAuthorizeCompleted {
		t.Fatalf("expected one completed outbox row, got %+v", pending)
	}
}

func TestAuthorizeBundledSeatsPricedPerBundle(t *testing.T) {
	f := newFixture()

	action, err := f.authorizeSeat(
		seatSelection("offer-pair", "B", "1"),
		seatSelection("offer-pair", "B", "2"),
	)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if action.Result.Price != 1800 {
		t.Fatalf("expected bundle price 1800, got %d", action.Result.Price)
	}
}

func TestAuthorizePartialBundleRejected(t *testing.T) {
	f := newFixture()

	_, err := f.authorizeSeat(seatSelection("offer-pair", "B", "1"))
	if !errors.Is(err, domainerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if f.venueHub.StartCalls != 0 {
		t.Fatal("validation failure must not reach the provider")
	}
}

func TestAuthorizeConfirmFailureRecordsFailedAction(t *testing.T) {
	f := newFixture()
	f.venueHub.ConfirmErr = domainerrors.Unavailablef("venuehub down")

	_, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1"))
	if !errors.Is(err, domainerrors.ErrServiceUnavailable) {
		t.Fatalf("expected provider error to surface, got %v", err)
	}

	actions, _ := f.store.SearchByPurpose(context.Background(), placeOrder("txn-1"))
	if len(actions) != 1 {
		t.Fatalf("expected the failed record to remain, got %d actions", len(actions))
	}
	if actions[0].Status != entities.ActionStatusFailed {
		t.Fatalf("expected failed, got %s", actions[0].Status)
	}
	if actions[0].FailureReason == "" {
		t.Fatal("expected a recorded failure reason")
	}
	if len(f.pendingOutbox()) != 0 {
		t.Fatal("a failed authorization must not emit a completed event")
	}
}

func TestAuthorizeStartFailureLeavesNoRecord(t *testing.T) {
	f := newFixture()
	f.venueHub.StartErr = domainerrors.Unavailablef("venuehub down")

	_, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1"))
	if !errors.Is(err, domainerrors.ErrServiceUnavailable) {
		t.Fatalf("expected provider error, got %v", err)
	}

	actions, _ := f.store.SearchByPurpose(context.Background(), placeOrder("txn-1"))
	if len(actions) != 0 {
		t.Fatalf("hold opening precedes the record; expected none, got %d", len(actions))
	}
}

func TestAuthorizeGiveUpFailureKeepsOriginalError(t *testing.T) {
	f := newFixture()
	f.venueHub.ConfirmErr = domainerrors.AlreadyInUsef("seat already reserved")
	uc := f.authorize()
	uc.Actions = failingGiveUpStore{ActionStore: f.store}

	_, err := uc.Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindSeatReservation,
		EventID:     "evt-1",
		Selections:  []entities.OfferSelection{seatSelection("offer-adult", "A", "1")},
	})
	if !errors.Is(err, domainerrors.ErrAlreadyInUse) {
		t.Fatalf("the confirm error must win over the give-up error, got %v", err)
	}
}

func TestAuthorizeLegacyProviderWithoutHold(t *testing.T) {
	f := newFixture()
	f.store.SeedEvent(entities.Event{
		EventID:  "evt-legacy",
		Name:     "Matinee",
		SellerID: "seller-1",
		Provider: entities.ProviderGateLink,
	})
	f.store.SeedOffers(entities.OfferKindSeatReservation, "evt-legacy", "seller-1", []entities.CatalogOffer{
		{
			OfferID: "offer-adult",
			Name:    "Adult",
			PriceComponents: []entities.PriceComponent{
				{Kind: entities.ComponentUnitPrice, Price: 1000, ReferenceQuantity: 1},
			},
		},
	})

	action, err := f.authorize().Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindSeatReservation,
		EventID:     "evt-legacy",
		Selections:  []entities.OfferSelection{seatSelection("offer-adult", "C", "7")},
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if action.Object.PendingHold != nil {
		t.Fatal("legacy provider must not produce a hold reference")
	}
	if !action.HoldsRemoteResource() {
		t.Fatal("a completed legacy action still owns a remote reservation")
	}
}

func TestAuthorizeMoneyTransfer(t *testing.T) {
	f := newFixture()

	action, err := f.authorize().Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindMoneyTransfer,
		Selections:  []entities.OfferSelection{{OfferID: "deposit", Amount: 5000}},
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if action.Provider != entities.ProviderPointBank {
		t.Fatalf("expected pointbank, got %s", action.Provider)
	}
	if action.Result.Price != 5000 {
		t.Fatalf("expected price 5000, got %d", action.Result.Price)
	}

	var params ports.ConfirmParams
	if err := json.Unmarshal(action.Result.RequestBody, &params); err != nil {
		t.Fatalf("decode confirm request: %v", err)
	}
	if params.Amount != 5000 {
		t.Fatalf("expected the requested amount to reach the provider, got %d", params.Amount)
	}
}

func TestAuthorizeMoneyTransferRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture()

	_, err := f.authorize().Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindMoneyTransfer,
		Selections:  []entities.OfferSelection{{OfferID: "deposit", Amount: 0}},
	})
	if !errors.Is(err, domainerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestAuthorizeCardRegistrationRoutesToCardVault(t *testing.T) {
	f := newFixture()

	action, err := f.authorize().Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindCardRegistration,
		EventID:     "card-product",
		Selections:  []entities.OfferSelection{{OfferID: "offer-card"}},
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if action.Provider != entities.ProviderCardVault {
		t.Fatalf("expected cardvault, got %s", action.Provider)
	}
	if action.Result.Price != 2000 {
		t.Fatalf("expected price 2000, got %d", action.Result.Price)
	}
}

func TestAuthorizeForbiddenForNonOwner(t *testing.T) {
	f := newFixture()

	uc := f.authorize()
	_, err := uc.Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-2",
		Kind:        entities.OfferKindSeatReservation,
		EventID:     "evt-1",
		Selections:  []entities.OfferSelection{seatSelection("offer-adult", "A", "1")},
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeTransactionNoLongerInProgress(t *testing.T) {
	f := newFixture()
	f.store.SeedTransaction(entities.Transaction{
		TransactionID: "txn-done",
		Type:          entities.TransactionTypePlaceOrder,
		Status:        entities.TransactionStatusConfirmed,
		AgentID:       "agent-1",
	})

	_, err := f.authorize().Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-done"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindSeatReservation,
		EventID:     "evt-1",
		Selections:  []entities.OfferSelection{seatSelection("offer-adult", "A", "1")},
	})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthorizeUnknownEvent(t *testing.T) {
	f := newFixture()

	_, err := f.authorize().Execute(context.Background(), AuthorizeCommand{
		ProjectID:   "proj-1",
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		Kind:        entities.OfferKindSeatReservation,
		EventID:     "evt-missing",
		Selections:  []entities.OfferSelection{seatSelection("offer-adult", "A", "1")},
	})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthorizeHoldExpiryExtendsTransactionExpiry(t *testing.T) {
	f := newFixture()

	if _, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1")); err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	wantExpiry := f.clock.now.Add(30 * time.Minute).Add(holdGracePeriod)
	if got := f.venueHub.LastStartParams.ExpiresAt; !got.Equal(wantExpiry) {
		t.Fatalf("expected hold expiry %v, got %v", wantExpiry, got)
	}
}

// failingGiveUpStore simulates a store outage during the compensation write.
type failingGiveUpStore struct {
	ports.ActionStore
}

func (failingGiveUpStore) GiveUp(context.Context, string, string, time.Time) (entities.AuthorizeAction, error) {
	return entities.AuthorizeAction{}, domainerrors.Unavailablef("store write failed")
}
