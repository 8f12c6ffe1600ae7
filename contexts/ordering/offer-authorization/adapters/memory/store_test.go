package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
)

func startedAction(t *testing.T, store *Store, actionID string) entities.AuthorizeAction {
	t.Helper()
	action, err := store.Start(context.Background(), entities.AuthorizeAction{
		ActionID: actionID,
		Status:   entities.ActionStatusStarted,
		Purpose:  entities.TransactionRef{Type: entities.TransactionTypePlaceOrder, ID: "txn-1"},
		Object: entities.AuthorizeObject{
			Kind:        entities.OfferKindSeatReservation,
			PendingHold: &entities.PendingHold{HoldID: "hold-1"},
		},
		StartedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return action
}

func TestCompleteRequiresStartedStatus(t *testing.T) {
	store := NewStore()
	action := startedAction(t, store, "action-1")
	now := time.Now().UTC()

	completed, err := store.Complete(context.Background(), action.ActionID, entities.AuthorizeResult{Price: 1000}, now)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != entities.ActionStatusCompleted || completed.CompletedAt == nil {
		t.Fatalf("unexpected completed action %+v", completed)
	}

	// A second completion attempt finds no started action.
	if _, err := store.Complete(context.Background(), action.ActionID, entities.AuthorizeResult{}, now); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelOnlyTerminalActions(t *testing.T) {
	store := NewStore()
	action := startedAction(t, store, "action-1")

	if _, err := store.Cancel(context.Background(), action.ActionID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("a started action must not cancel, got %v", err)
	}

	if _, err := store.Complete(context.Background(), action.ActionID, entities.AuthorizeResult{}, time.Now().UTC()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	canceled, err := store.Cancel(context.Background(), action.ActionID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != entities.ActionStatusCanceled {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}

	// The second of two racing cancels loses the conditional write.
	if _, err := store.Cancel(context.Background(), action.ActionID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("a canceled action must not cancel again, got %v", err)
	}
}

func TestReplaceAuthorizationRequiresCompleted(t *testing.T) {
	store := NewStore()
	action := startedAction(t, store, "action-1")

	_, err := store.ReplaceAuthorization(context.Background(), action.ActionID,
		entities.AuthorizeObject{}, entities.AuthorizeResult{})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListUnreleasedHoldsFiltersLiveActions(t *testing.T) {
	store := NewStore()
	released := time.Now().UTC()

	seed := func(id string, status entities.ActionStatus, hold *entities.PendingHold, releasedAt *time.Time) {
		if _, err := store.Start(context.Background(), entities.AuthorizeAction{
			ActionID:       id,
			Status:         status,
			Object:         entities.AuthorizeObject{PendingHold: hold},
			HoldReleasedAt: releasedAt,
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	seed("leaked", entities.ActionStatusCanceled, &entities.PendingHold{HoldID: "hold-1"}, nil)
	seed("live", entities.ActionStatusCompleted, &entities.PendingHold{HoldID: "hold-2"}, nil)
	seed("done", entities.ActionStatusCanceled, &entities.PendingHold{HoldID: "hold-3"}, &released)
	seed("failed-early", entities.ActionStatusFailed, nil, nil)

	leaked, err := store.ListUnreleasedHolds(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(leaked) != 1 || leaked[0].ActionID != "leaked" {
		t.Fatalf("expected only the leaked hold, got %+v", leaked)
	}
}
