package workers

import (
	"context"
	"testing"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/adapters/memory"
	providersadapter "boxoffice/contexts/ordering/offer-authorization/adapters/providers"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
)

func seedLeakedHold(t *testing.T, store *memory.Store, actionID string, provider entities.ProviderID, hold *entities.PendingHold) {
	t.Helper()
	_, err := store.Start(context.Background(), entities.AuthorizeAction{
		ActionID: actionID,
		Status:   entities.ActionStatusCanceled,
		Purpose:  entities.TransactionRef{Type: entities.TransactionTypePlaceOrder, ID: "txn-1"},
		Provider: provider,
		Object: entities.AuthorizeObject{
			Kind:        entities.OfferKindSeatReservation,
			Event:       entities.EventSnapshot{EventID: "evt-1"},
			PendingHold: hold,
		},
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed action: %v", err)
	}
}

func TestHoldReaperReleasesLeakedHolds(t *testing.T) {
	store := memory.NewStore()
	venueHub := &memory.Provider{ProviderID: entities.ProviderVenueHub}
	reaper := HoldReaper{
		Actions:   store,
		Providers: providersadapter.NewDispatcher(entities.ProviderVenueHub, venueHub),
	}
	seedLeakedHold(t, store, "action-1", entities.ProviderVenueHub,
		&entities.PendingHold{HoldID: "hold-9", Type: "venuehub_hold"})

	if err := reaper.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if venueHub.ReleaseCalls != 1 {
		t.Fatalf("expected one release, got %d", venueHub.ReleaseCalls)
	}
	if venueHub.LastReleaseParams.Hold == nil || venueHub.LastReleaseParams.Hold.HoldID != "hold-9" {
		t.Fatalf("expected the leaked hold to be targeted, got %+v", venueHub.LastReleaseParams)
	}

	action, _ := store.FindByID(context.Background(), "action-1")
	if action.HoldReleasedAt == nil {
		t.Fatal("expected the release to be recorded")
	}

	// A second sweep finds nothing left to do.
	if err := reaper.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if venueHub.ReleaseCalls != 1 {
		t.Fatalf("a released hold must not be released again, got %d calls", venueHub.ReleaseCalls)
	}
}

func TestHoldReaperLeavesFailedReleasesForNextSweep(t *testing.T) {
	store := memory.NewStore()
	venueHub := &memory.Provider{
		ProviderID: entities.ProviderVenueHub,
		ReleaseErr: domainerrors.Unavailablef("venuehub down"),
	}
	reaper := HoldReaper{
		Actions:   store,
		Providers: providersadapter.NewDispatcher(entities.ProviderVenueHub, venueHub),
	}
	seedLeakedHold(t, store, "action-1", entities.ProviderVenueHub,
		&entities.PendingHold{HoldID: "hold-9", Type: "venuehub_hold"})

	if err := reaper.RunOnce(context.Background()); err != nil {
		t.Fatalf("a failed release must not abort the sweep: %v", err)
	}

	action, _ := store.FindByID(context.Background(), "action-1")
	if action.HoldReleasedAt != nil {
		t.Fatal("a failed release must stay unreleased")
	}

	venueHub.ReleaseErr = nil
	if err := reaper.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	action, _ = store.FindByID(context.Background(), "action-1")
	if action.HoldReleasedAt == nil {
		t.Fatal("the next sweep must pick the leak up again")
	}
}

func TestHoldReaperSkipsCompletedActions(t *testing.T) {
	store := memory.NewStore()
	venueHub := &memory.Provider{ProviderID: entities.ProviderVenueHub}
	reaper := HoldReaper{
		Actions:   store,
		Providers: providersadapter.NewDispatcher(entities.ProviderVenueHub, venueHub),
	}
	if _, err := store.Start(context.Background(), entities.AuthorizeAction{
		ActionID: "action-live",
		Status:   entities.ActionStatusCompleted,
		Provider: entities.ProviderVenueHub,
		Object: entities.AuthorizeObject{
			PendingHold: &entities.PendingHold{HoldID: "hold-live"},
		},
	}); err != nil {
		t.Fatalf("seed action: %v", err)
	}

	if err := reaper.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if venueHub.ReleaseCalls != 0 {
		t.Fatal("a completed action's hold is live, not leaked")
	}
}
