package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
	"boxoffice/internal/shared/outbox"
)

// Store is the in-memory adapter behind every persistence port. Tests and
// the in-memory module constructor run on it; semantics mirror the postgres
// adapter, including the conditional status transitions.
type Store struct {
	mu sync.RWMutex

	transactionsByID map[string]entities.Transaction
	actionsByID      map[string]entities.AuthorizeAction
	eventsByID       map[string]entities.Event
	catalog          map[catalogKey][]entities.CatalogOffer
	outboxRows       []outbox.Message
	sequence         int
}

type catalogKey struct {
	kind     entities.OfferKind
	eventID  string
	sellerID string
}

func NewStore() *Store {
	return &Store{
		transactionsByID: make(map[string]entities.Transaction),
		actionsByID:      make(map[string]entities.AuthorizeAction),
		eventsByID:       make(map[string]entities.Event),
		catalog:          make(map[catalogKey][]entities.CatalogOffer),
	}
}

func (s *Store) SeedTransaction(transaction entities.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactionsByID[transaction.TransactionID] = transaction
}

func (s *Store) SeedEvent(event entities.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsByID[event.EventID] = event
}

func (s *Store) SeedOffers(kind entities.OfferKind, eventID, sellerID string, offers []entities.CatalogOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[catalogKey{kind: kind, eventID: eventID, sellerID: sellerID}] = offers
}

func (s *Store) FindInProgressByID(_ context.Context, ref entities.TransactionRef) (entities.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transaction, ok := s.transactionsByID[ref.ID]
	if !ok || transaction.Type != ref.Type || transaction.Status != entities.TransactionStatusInProgress {
		return entities.Transaction{}, domainerrors.NotFoundf("transaction %s not in progress", ref.ID)
	}
	return transaction, nil
}

func (s *Store) FindEventByID(_ context.Context, eventID string) (entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.eventsByID[eventID]
	if !ok {
		return entities.Event{}, domainerrors.NotFoundf("event %s not found", eventID)
	}
	return event, nil
}

func (s *Store) SearchAvailableOffers(_ context.Context, kind entities.OfferKind, eventID, sellerID string) ([]entities.CatalogOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offers := s.catalog[catalogKey{kind: kind, eventID: eventID, sellerID: sellerID}]
	return append([]entities.CatalogOffer(nil), offers...), nil
}

func (s *Store) Start(_ context.Context, action entities.AuthorizeAction) (entities.AuthorizeAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.actionsByID[action.ActionID]; exists {
		return entities.AuthorizeAction{}, domainerrors.Argumentf("action %s already exists", action.ActionID)
	}
	s.actionsByID[action.ActionID] = action
	return action, nil
}

func (s *Store) Complete(_ context.Context, actionID string, result entities.AuthorizeResult, at time.Time) (entities.AuthorizeAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actionsByID[actionID]
	if !ok || action.Status != entities.ActionStatusStarted {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("started action %s not found", actionID)
	}
	action.Status = entities.ActionStatusCompleted
	action.Result = &result
	action.CompletedAt = &at
	s.actionsByID[actionID] = action
	return action, nil
}

func (s *Store) GiveUp(_ context.Context, actionID string, reason string, at time.Time) (entities.AuthorizeAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actionsByID[actionID]
	if !ok || action.Status != entities.ActionStatusStarted {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("started action %s not found", actionID)
	}
	action.Status = entities.ActionStatusFailed
	action.FailureReason = reason
	action.CompletedAt = &at
	s.actionsByID[actionID] = action
	return action, nil
}

func (s *Store) Cancel(_ context.Context, actionID string) (entities.AuthorizeAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actionsByID[actionID]
	if !ok {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("action %s not found", actionID)
	}
	if action.Status != entities.ActionStatusCompleted && action.Status != entities.ActionStatusFailed {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("terminal action %s not found", actionID)
	}
	action.Status = entities.ActionStatusCanceled
	s.actionsByID[actionID] = action
	return action, nil
}

func (s *Store) FindByID(_ context.Context, actionID string) (entities.AuthorizeAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	action, ok := s.actionsByID[actionID]
	if !ok {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("action %s not found", actionID)
	}
	return action, nil
}

func (s *Store) SearchByPurpose(_ context.Context, purpose entities.TransactionRef) ([]entities.AuthorizeAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var actions []entities.AuthorizeAction
	for _, action := range s.actionsByID {
		if action.Purpose == purpose {
			actions = append(actions, action)
		}
	}
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].StartedAt.Before(actions[j].StartedAt)
	})
	return actions, nil
}

func (s *Store) ReplaceAuthorization(_ context.Context, actionID string, object entities.AuthorizeObject, result entities.AuthorizeResult) (entities.AuthorizeAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actionsByID[actionID]
	if !ok || action.Status != entities.ActionStatusCompleted {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("completed action %s not found", actionID)
	}
	action.Object = object
	action.Result = &result
	s.actionsByID[actionID] = action
	return action, nil
}

func (s *Store) MarkHoldReleased(_ context.Context, actionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actionsByID[actionID]
	if !ok {
		return domainerrors.NotFoundf("action %s not found", actionID)
	}
	action.HoldReleasedAt = &at
	s.actionsByID[actionID] = action
	return nil
}

func (s *Store) ListUnreleasedHolds(_ context.Context, limit int) ([]entities.AuthorizeAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var leaked []entities.AuthorizeAction
	for _, action := range s.actionsByID {
		if action.Status != entities.ActionStatusCanceled && action.Status != entities.ActionStatusFailed {
			continue
		}
		if !action.HoldsRemoteResource() {
			continue
		}
		leaked = append(leaked, action)
		if len(leaked) == limit {
			break
		}
	}
	return leaked, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outboxRows = append(s.outboxRows, outbox.Message{
		OutboxID:  envelope.EventID,
		EventType: envelope.EventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: envelope.OccurredAtUTC,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []ports.OutboxMessage
	for _, row := range s.outboxRows {
		if row.Status != outbox.StatusPending {
			continue
		}
		pending = append(pending, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return fmt.Sprintf("action-%d", s.sequence), nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outboxRows {
		if s.outboxRows[i].OutboxID == outboxID {
			s.outboxRows[i].Status = outbox.StatusPublished
			s.outboxRows[i].PublishedAt = &publishedAt
			return nil
		}
	}
	return domainerrors.NotFoundf("outbox row %s not found", outboxID)
}
