package entities

import "time"

type OfferKind string

const (
	OfferKindSeatReservation  OfferKind = "seat_reservation"
	OfferKindCardRegistration OfferKind = "card_registration"
	OfferKindMoneyTransfer    OfferKind = "money_transfer"
	OfferKindMembership       OfferKind = "membership"
)

type ComponentKind string

const (
	// ComponentUnitPrice carries the per-bundle price. ReferenceQuantity is
	// the bundle size the price covers; zero means priced per single item.
	ComponentUnitPrice ComponentKind = "unit_price"
	// ComponentSurcharge is an add-on with no bundling semantics.
	ComponentSurcharge ComponentKind = "surcharge"
	// ComponentRedemptionSurcharge marks an offer settled against a
	// pre-purchased voucher credential. The validator swaps it for a
	// verified surcharge once the credential checks out.
	ComponentRedemptionSurcharge ComponentKind = "redemption_surcharge"
)

type PriceComponent struct {
	Kind              ComponentKind
	Name              string
	Price             int
	ReferenceQuantity int
}

// BundleSize normalizes the reference quantity; unit components priced per
// single item may leave it zero.
func (c PriceComponent) BundleSize() int {
	if c.ReferenceQuantity <= 0 {
		return 1
	}
	return c.ReferenceQuantity
}

type Seat struct {
	Section string
	Number  string
}

type Property struct {
	Name  string
	Value string
}

type RedemptionCredential struct {
	Identifier string
	AccessCode string
}

// OfferSelection is one caller-requested line of an authorize call.
type OfferSelection struct {
	OfferID              string
	Seat                 *Seat
	Amount               int
	AdditionalProperties []Property
	Credential           *RedemptionCredential
}

// CatalogOffer is a currently sellable offer as declared by the seller's
// catalog.
type CatalogOffer struct {
	OfferID              string
	Name                 string
	Currency             string
	PriceComponents      []PriceComponent
	EligibleQuantityMin  int
	EligibleQuantityMax  int
	AdditionalProperties []Property
}

// RequiresRedemption reports whether the offer is settled against a
// pre-purchased voucher rather than charged directly.
func (o CatalogOffer) RequiresRedemption() bool {
	for _, component := range o.PriceComponents {
		if component.Kind == ComponentRedemptionSurcharge {
			return true
		}
	}
	return false
}

// UnitComponent returns the unit price component of a specification, or a
// zero component when none is declared.
func UnitComponent(components []PriceComponent) (PriceComponent, bool) {
	for _, component := range components {
		if component.Kind == ComponentUnitPrice {
			return component, true
		}
	}
	return PriceComponent{}, false
}

// AcceptedOffer is a priced, validated selection ready to be authorized and,
// eventually, copied into an order.
type AcceptedOffer struct {
	OfferID              string
	Name                 string
	ItemOffered          string
	Currency             string
	PriceComponents      []PriceComponent
	AdditionalProperties []Property
	TicketedSeat         *Seat
}

// EventSnapshot is the minimal slice of the event/service embedded into an
// action at creation time, so later catalog edits cannot drift a persisted
// authorization.
type EventSnapshot struct {
	EventID  string
	Name     string
	StartsAt time.Time
	Provider ProviderID
}

type Event struct {
	EventID   string
	Name      string
	SellerID  string
	ProjectID string
	StartsAt  time.Time
	Provider  ProviderID
}

func (e Event) Snapshot() EventSnapshot {
	return EventSnapshot{
		EventID:  e.EventID,
		Name:     e.Name,
		StartsAt: e.StartsAt,
		Provider: e.Provider,
	}
}
