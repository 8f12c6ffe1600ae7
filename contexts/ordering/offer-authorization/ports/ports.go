package ports

import (
	"context"
	"encoding/json"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	"boxoffice/internal/shared/events"
)

// TransactionStore reads the in-progress transaction an authorization runs
// under. The InProgress filter is part of the query, not a post-hoc check:
// a transaction in any other state reads as not found.
type TransactionStore interface {
	FindInProgressByID(ctx context.Context, ref entities.TransactionRef) (entities.Transaction, error)
}

// ActionStore persists authorize actions. All status transitions are
// conditional updates on the expected prior status; a transition whose
// precondition no longer holds fails with a not-found error. That conditional
// write is the only concurrency control in the system.
type ActionStore interface {
	Start(ctx context.Context, action entities.AuthorizeAction) (entities.AuthorizeAction, error)
	Complete(ctx context.Context, actionID string, result entities.AuthorizeResult, at time.Time) (entities.AuthorizeAction, error)
	GiveUp(ctx context.Context, actionID string, reason string, at time.Time) (entities.AuthorizeAction, error)
	Cancel(ctx context.Context, actionID string) (entities.AuthorizeAction, error)
	FindByID(ctx context.Context, actionID string) (entities.AuthorizeAction, error)
	SearchByPurpose(ctx context.Context, purpose entities.TransactionRef) ([]entities.AuthorizeAction, error)
	// ReplaceAuthorization swaps object and result in one conditional write,
	// requiring the action still be Completed.
	ReplaceAuthorization(ctx context.Context, actionID string, object entities.AuthorizeObject, result entities.AuthorizeResult) (entities.AuthorizeAction, error)
	MarkHoldReleased(ctx context.Context, actionID string, at time.Time) error
	// ListUnreleasedHolds returns terminal actions (canceled or failed) that
	// still reference a remote hold, for the reconciliation sweep.
	ListUnreleasedHolds(ctx context.Context, limit int) ([]entities.AuthorizeAction, error)
}

type EventStore interface {
	FindEventByID(ctx context.Context, eventID string) (entities.Event, error)
}

// OfferCatalog resolves the currently sellable offers for an event or
// product, scoped to a seller.
type OfferCatalog interface {
	SearchAvailableOffers(ctx context.Context, kind entities.OfferKind, eventID, sellerID string) ([]entities.CatalogOffer, error)
}

type VerificationResult struct {
	FaceValue int
	Currency  string
	Raw       json.RawMessage
}

// RedemptionVerifier checks a pre-purchased voucher credential against the
// event it is being redeemed for.
type RedemptionVerifier interface {
	Verify(ctx context.Context, credential entities.RedemptionCredential, eventID string) (VerificationResult, error)
}

type StartHoldParams struct {
	ProjectID     string
	TransactionID string
	EventID       string
	ExpiresAt     time.Time
}

type ConfirmParams struct {
	ProjectID     string
	TransactionID string
	EventID       string
	Offers        []entities.AcceptedOffer
	Amount        int
	Recipient     string
}

type ReleaseParams struct {
	Hold          *entities.PendingHold
	TransactionID string
	EventID       string
}

// Receipt is the provider's canonical record of what was reserved, with the
// raw request/response bodies retained verbatim for audit.
type Receipt struct {
	RequestBody  json.RawMessage
	ResponseBody json.RawMessage
	Reserved     []entities.AcceptedOffer
}

// ReservationProvider is one concrete back-end variant of the hold/commit/
// release contract. Start may return a nil hold for a variant that places
// the hold in a single synchronous Confirm call. Release is idempotent:
// already-released or never-created holds are not errors.
type ReservationProvider interface {
	ID() entities.ProviderID
	Start(ctx context.Context, params StartHoldParams) (*entities.PendingHold, error)
	Confirm(ctx context.Context, hold *entities.PendingHold, params ConfirmParams) (Receipt, error)
	Release(ctx context.Context, params ReleaseParams) error
}

// ProviderResolver selects the provider variant for an explicit provider id,
// falling back to the configured default when the id is empty.
type ProviderResolver interface {
	Resolve(id entities.ProviderID) (ReservationProvider, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
