package providers

import (
	"context"
	"net/http"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// GateLink is the legacy seat-reservation back-end. It has no reservation
// transaction of its own: availability check and hold happen in one
// synchronous call, so Start returns no pending hold and Release works from
// the transaction/event pair instead of a hold id.
type GateLink struct {
	client
}

func NewGateLink(cfg Config) *GateLink {
	return &GateLink{client: newClient(cfg)}
}

func (g *GateLink) ID() entities.ProviderID {
	return entities.ProviderGateLink
}

func (g *GateLink) Start(_ context.Context, _ ports.StartHoldParams) (*entities.PendingHold, error) {
	return nil, nil
}

type gateLinkSeat struct {
	Section string `json:"section"`
	Number  string `json:"number"`
	Ticket  string `json:"ticket"`
	Price   int    `json:"price"`
}

type gateLinkReserveRequest struct {
	TransactionID string         `json:"transaction_id"`
	EventID       string         `json:"event_id"`
	Seats         []gateLinkSeat `json:"seats"`
}

func (g *GateLink) Confirm(ctx context.Context, _ *entities.PendingHold, params ports.ConfirmParams) (ports.Receipt, error) {
	request := gateLinkReserveRequest{
		TransactionID: params.TransactionID,
		EventID:       params.EventID,
	}
	for _, offer := range params.Offers {
		seat := gateLinkSeat{Ticket: offer.OfferID, Price: componentSum(offer)}
		if offer.TicketedSeat != nil {
			seat.Section = offer.TicketedSeat.Section
			seat.Number = offer.TicketedSeat.Number
		}
		request.Seats = append(request.Seats, seat)
	}

	status, requestBody, body, err := g.do(ctx, http.MethodPost, "/api/reserve", request)
	if err != nil {
		return ports.Receipt{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		// A seat conflict surfaces here, not at a separate start step.
		return ports.Receipt{}, domainerrors.FromProviderStatus(status, errorMessage(status, body))
	}

	return ports.Receipt{
		RequestBody:  requestBody,
		ResponseBody: body,
		Reserved:     params.Offers,
	}, nil
}

type gateLinkCancelRequest struct {
	TransactionID string `json:"transaction_id"`
	EventID       string `json:"event_id"`
}

func (g *GateLink) Release(ctx context.Context, params ports.ReleaseParams) error {
	status, _, body, err := g.do(ctx, http.MethodPost, "/api/cancel", gateLinkCancelRequest{
		TransactionID: params.TransactionID,
		EventID:       params.EventID,
	})
	if err != nil {
		return err
	}
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}
	if releaseGone(status, body) {
		return nil
	}
	return domainerrors.Unavailablef("gatelink cancel returned %d: %s", status, errorMessage(status, body))
}
