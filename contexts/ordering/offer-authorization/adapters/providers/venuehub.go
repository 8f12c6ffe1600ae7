package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// VenueHub is the primary seat-reservation platform: a hold is opened first,
// seats are attached to it, and the hold is released by id.
type VenueHub struct {
	client
}

func NewVenueHub(cfg Config) *VenueHub {
	return &VenueHub{client: newClient(cfg)}
}

func (v *VenueHub) ID() entities.ProviderID {
	return entities.ProviderVenueHub
}

type venueHubStartRequest struct {
	ProjectID     string    `json:"project_id"`
	TransactionID string    `json:"transaction_id"`
	EventID       string    `json:"event_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type venueHubStartResponse struct {
	HoldID   string `json:"hold_id"`
	HoldType string `json:"hold_type"`
}

func (v *VenueHub) Start(ctx context.Context, params ports.StartHoldParams) (*entities.PendingHold, error) {
	status, _, body, err := v.do(ctx, http.MethodPost, "/v1/holds", venueHubStartRequest{
		ProjectID:     params.ProjectID,
		TransactionID: params.TransactionID,
		EventID:       params.EventID,
		ExpiresAt:     params.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, domainerrors.FromProviderStatus(status, errorMessage(status, body))
	}
	var decoded venueHubStartResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domainerrors.Unavailablef("venuehub start response malformed: %v", err)
	}
	return &entities.PendingHold{HoldID: decoded.HoldID, Type: decoded.HoldType}, nil
}

type venueHubSeatRequest struct {
	OfferID string `json:"offer_id"`
	Section string `json:"section"`
	Number  string `json:"number"`
	Price   int    `json:"price"`
}

type venueHubConfirmRequest struct {
	TransactionID string                `json:"transaction_id"`
	Seats         []venueHubSeatRequest `json:"seats"`
}

type venueHubConfirmResponse struct {
	Seats []struct {
		OfferID string `json:"offer_id"`
		Section string `json:"section"`
		Number  string `json:"number"`
	} `json:"seats"`
}

func (v *VenueHub) Confirm(ctx context.Context, hold *entities.PendingHold, params ports.ConfirmParams) (ports.Receipt, error) {
	if hold == nil {
		return ports.Receipt{}, domainerrors.Argumentf("venuehub confirm requires an open hold")
	}

	request := venueHubConfirmRequest{TransactionID: params.TransactionID}
	for _, offer := range params.Offers {
		seat := venueHubSeatRequest{OfferID: offer.OfferID, Price: componentSum(offer)}
		if offer.TicketedSeat != nil {
			seat.Section = offer.TicketedSeat.Section
			seat.Number = offer.TicketedSeat.Number
		}
		request.Seats = append(request.Seats, seat)
	}

	status, requestBody, body, err := v.do(ctx, http.MethodPost, "/v1/holds/"+hold.HoldID+"/seats", request)
	if err != nil {
		return ports.Receipt{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return ports.Receipt{}, domainerrors.FromProviderStatus(status, errorMessage(status, body))
	}

	var decoded venueHubConfirmResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.Receipt{}, domainerrors.Unavailablef("venuehub confirm response malformed: %v", err)
	}

	return ports.Receipt{
		RequestBody:  requestBody,
		ResponseBody: body,
		Reserved:     reservedFromSeats(decoded, params.Offers),
	}, nil
}

func (v *VenueHub) Release(ctx context.Context, params ports.ReleaseParams) error {
	if params.Hold == nil {
		return nil
	}
	status, _, body, err := v.do(ctx, http.MethodDelete, "/v1/holds/"+params.Hold.HoldID, nil)
	if err != nil {
		return err
	}
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}
	if releaseGone(status, body) {
		return nil
	}
	return domainerrors.Unavailablef("venuehub release returned %d: %s", status, errorMessage(status, body))
}

// reservedFromSeats projects the provider's canonical seat list back onto the
// priced offers that were sent, so the result reflects what was actually
// reserved.
func reservedFromSeats(response venueHubConfirmResponse, offers []entities.AcceptedOffer) []entities.AcceptedOffer {
	if len(response.Seats) == 0 {
		return nil
	}
	bySeat := make(map[entities.Seat]entities.AcceptedOffer, len(offers))
	for _, offer := range offers {
		if offer.TicketedSeat != nil {
			bySeat[*offer.TicketedSeat] = offer
		}
	}
	reserved := make([]entities.AcceptedOffer, 0, len(response.Seats))
	for _, seat := range response.Seats {
		key := entities.Seat{Section: seat.Section, Number: seat.Number}
		if offer, ok := bySeat[key]; ok {
			held := key
			offer.TicketedSeat = &held
			reserved = append(reserved, offer)
			continue
		}
		reserved = append(reserved, entities.AcceptedOffer{
			OfferID:      seat.OfferID,
			TicketedSeat: &entities.Seat{Section: seat.Section, Number: seat.Number},
		})
	}
	return reserved
}

func componentSum(offer entities.AcceptedOffer) int {
	total := 0
	for _, component := range offer.PriceComponents {
		total += component.Price
	}
	return total
}
