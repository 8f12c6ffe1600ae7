package entities

import (
	"encoding/json"
	"time"
)

type ActionStatus string

const (
	ActionStatusStarted   ActionStatus = "started"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusCanceled  ActionStatus = "canceled"
	ActionStatusFailed    ActionStatus = "failed"
)

type ProviderID string

const (
	ProviderVenueHub  ProviderID = "venuehub"
	ProviderGateLink  ProviderID = "gatelink"
	ProviderCardVault ProviderID = "cardvault"
	ProviderPointBank ProviderID = "pointbank"
	ProviderClubPass  ProviderID = "clubpass"
)

// PendingHold is the opaque reference to a provisional hold living inside a
// remote provider. The legacy gatelink variant has no separate hold record,
// so actions may carry none.
type PendingHold struct {
	HoldID string
	Type   string
}

// AuthorizeObject is the offer-specific request payload of an action, frozen
// at creation time except for the completion step.
type AuthorizeObject struct {
	Kind        OfferKind
	Event       EventSnapshot
	Selections  []OfferSelection
	Accepted    []AcceptedOffer
	PendingHold *PendingHold
}

// AuthorizeResult is recorded when an action completes. The raw provider
// request/response bodies are retained verbatim for audit and replay.
type AuthorizeResult struct {
	Price          int
	Currency       string
	RequestBody    json.RawMessage
	ResponseBody   json.RawMessage
	AcceptedOffers []AcceptedOffer
}

// AuthorizeAction is the provisional-grant record this core manages. It is
// exclusively owned by its purpose transaction and never addressed outside
// that scope.
type AuthorizeAction struct {
	ActionID       string
	Status         ActionStatus
	Purpose        TransactionRef
	AgentID        string // seller
	RecipientID    string // customer
	Provider       ProviderID
	Object         AuthorizeObject
	Result         *AuthorizeResult
	FailureReason  string
	StartedAt      time.Time
	CompletedAt    *time.Time
	HoldReleasedAt *time.Time
}

// HoldsRemoteResource reports whether the action may still own a remote hold
// that a cancel or reconciliation sweep must release. Legacy holds carry no
// separate hold record but exist once the action completed.
func (a AuthorizeAction) HoldsRemoteResource() bool {
	if a.HoldReleasedAt != nil {
		return false
	}
	return a.Object.PendingHold != nil || a.Result != nil
}

// SeatSet returns the multiset of ticketed seats across the accepted offers,
// keyed by section/number, mapped to occurrence counts.
func SeatSet(offers []AcceptedOffer) map[Seat]int {
	seats := make(map[Seat]int)
	for _, offer := range offers {
		if offer.TicketedSeat != nil {
			seats[*offer.TicketedSeat]++
		}
	}
	return seats
}
