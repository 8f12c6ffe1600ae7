package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
)

func TestChangeOffersSwapsTicketType(t *testing.T) {
	f := newFixture()
	action, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1"))
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	updated, err := f.changeOffers().Execute(context.Background(), ChangeOffersCommand{
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		ActionID:    action.ActionID,
		Selections:  []entities.OfferSelection{seatSelection("offer-child", "A", "1")},
	})
	if err != nil {
		t.Fatalf("change offers failed: %v", err)
	}

	if updated.Status != entities.ActionStatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
	if updated.Result.Price != 800 {
		t.Fatalf("expected reprice to 800, got %d", updated.Result.Price)
	}
	if len(updated.Object.Accepted) != 1 || updated.Object.Accepted[0].OfferID != "offer-child" {
		t.Fatalf("expected the accepted offer to be swapped, got %+v", updated.Object.Accepted)
	}
	if updated.Object.PendingHold == nil ||
		updated.Object.PendingHold.HoldID != action.Object.PendingHold.HoldID {
		t.Fatal("the remote hold reference must survive the amendment")
	}
	if !bytes.Equal(updated.Result.RequestBody, action.Result.RequestBody) {
		t.Fatal("the original provider exchange must remain the audit record")
	}
	if f.venueHub.ConfirmCalls != 1 || f.venueHub.ReleaseCalls != 0 {
		t.Fatal("amending offers must not re-touch the provider")
	}
}

func TestChangeOffersRejectsDifferentSeats(t *testing.T) {
	f := newFixture()
	action, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1"))
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	_, err = f.changeOffers().Execute(context.Background(), ChangeOffersCommand{
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		ActionID:    action.ActionID,
		Selections:  []entities.OfferSelection{seatSelection("offer-child", "A", "2")},
	})
	if !errors.Is(err, domainerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	stored, _ := f.store.FindByID(context.Background(), action.ActionID)
	if stored.Result.Price != 1000 {
		t.Fatalf("a rejected amendment must leave the action untouched, got price %d", stored.Result.Price)
	}
	if stored.Object.Accepted[0].OfferID != "offer-adult" {
		t.Fatalf("a rejected amendment must leave the accepted offers untouched, got %+v", stored.Object.Accepted)
	}
}

func TestChangeOffersRejectsSeatCountChange(t *testing.T) {
	f := newFixture()
	action, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1"))
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}

	_, err = f.changeOffers().Execute(context.Background(), ChangeOffersCommand{
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		ActionID:    action.ActionID,
		Selections: []entities.OfferSelection{
			seatSelection("offer-adult", "A", "1"),
			seatSelection("offer-adult", "A", "2"),
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestChangeOffersRequiresCompletedAction(t *testing.T) {
	f := newFixture()
	f.venueHub.ConfirmErr = domainerrors.Unavailablef("venuehub down")
	if _, err := f.authorizeSeat(seatSelection("offer-adult", "A", "1")); err == nil {
		t.Fatal("expected the authorize to fail")
	}
	actions, _ := f.store.SearchByPurpose(context.Background(), placeOrder("txn-1"))
	if len(actions) != 1 {
		t.Fatalf("expected one failed action, got %d", len(actions))
	}

	_, err := f.changeOffers().Execute(context.Background(), ChangeOffersCommand{
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		ActionID:    actions[0].ActionID,
		Selections:  []entities.OfferSelection{seatSelection("offer-child", "A", "1")},
	})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChangeOffersOnlyForSeatReservations(t *testing.T) {
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

	_, err = f.changeOffers().Execute(context.Background(), ChangeOffersCommand{
		Transaction: placeOrder("txn-1"),
		AgentID:     "agent-1",
		ActionID:    action.ActionID,
		Selections:  []entities.OfferSelection{{OfferID: "deposit", Amount: 6000}},
	})
	if !errors.Is(err, domainerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
