package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SeatDTO struct {
	Section string `json:"section"`
	Number  string `json:"number"`
}

type PropertyDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type CredentialDTO struct {
	Identifier string `json:"identifier"`
	AccessCode string `json:"access_code"`
}

type SelectionDTO struct {
	OfferID              string         `json:"offer_id"`
	Seat                 *SeatDTO       `json:"seat,omitempty"`
	Amount               int            `json:"amount,omitempty"`
	AdditionalProperties []PropertyDTO  `json:"additional_properties,omitempty"`
	Credential           *CredentialDTO `json:"credential,omitempty"`
}

type AuthorizeRequest struct {
	EventID    string         `json:"event_id,omitempty"`
	Selections []SelectionDTO `json:"selections"`
}

type ChangeOffersRequest struct {
	Selections []SelectionDTO `json:"selections"`
}

type PriceComponentDTO struct {
	Kind              string `json:"kind"`
	Name              string `json:"name,omitempty"`
	Price             int    `json:"price"`
	ReferenceQuantity int    `json:"reference_quantity,omitempty"`
}

type AcceptedOfferDTO struct {
	OfferID              string              `json:"offer_id"`
	Name                 string              `json:"name,omitempty"`
	ItemOffered          string              `json:"item_offered,omitempty"`
	Currency             string              `json:"currency,omitempty"`
	PriceSpecification   []PriceComponentDTO `json:"price_specification"`
	AdditionalProperties []PropertyDTO       `json:"additional_properties,omitempty"`
	TicketedSeat         *SeatDTO            `json:"ticketed_seat,omitempty"`
}

type ActionDTO struct {
	ActionID       string             `json:"action_id"`
	Status         string             `json:"status"`
	TransactionID  string             `json:"transaction_id"`
	Provider       string             `json:"provider"`
	Kind           string             `json:"kind"`
	Price          int                `json:"price,omitempty"`
	Currency       string             `json:"currency,omitempty"`
	AcceptedOffers []AcceptedOfferDTO `json:"accepted_offers,omitempty"`
	StartedAt      string             `json:"started_at"`
	CompletedAt    string             `json:"completed_at,omitempty"`
}

type ActionResponse struct {
	Status string    `json:"status"`
	Data   ActionDTO `json:"data"`
}

type ActionListResponse struct {
	Status string      `json:"status"`
	Data   []ActionDTO `json:"data"`
}
