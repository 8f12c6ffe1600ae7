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

// holdService implements the shared start/confirm/release shape of the
// non-seat back-ends (card registration, money transfer, membership). They
// differ only in identity and resource path.
type holdService struct {
	client
	id       entities.ProviderID
	basePath string
}

// NewCardVault registers payment cards behind a provisional hold.
func NewCardVault(cfg Config) ports.ReservationProvider {
	return &holdService{client: newClient(cfg), id: entities.ProviderCardVault, basePath: "/v1/registrations"}
}

// NewPointBank opens money-transfer / point-deposit holds.
func NewPointBank(cfg Config) ports.ReservationProvider {
	return &holdService{client: newClient(cfg), id: entities.ProviderPointBank, basePath: "/v1/deposits"}
}

// NewClubPass opens program-membership enrollment holds.
func NewClubPass(cfg Config) ports.ReservationProvider {
	return &holdService{client: newClient(cfg), id: entities.ProviderClubPass, basePath: "/v1/enrollments"}
}

func (h *holdService) ID() entities.ProviderID {
	return h.id
}

type holdStartRequest struct {
	ProjectID     string    `json:"project_id"`
	TransactionID string    `json:"transaction_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type holdStartResponse struct {
	HoldID   string `json:"hold_id"`
	HoldType string `json:"hold_type"`
}

func (h *holdService) Start(ctx context.Context, params ports.StartHoldParams) (*entities.PendingHold, error) {
	status, _, body, err := h.do(ctx, http.MethodPost, h.basePath, holdStartRequest{
		ProjectID:     params.ProjectID,
		TransactionID: params.TransactionID,
		ExpiresAt:     params.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, domainerrors.FromProviderStatus(status, errorMessage(status, body))
	}
	var decoded holdStartResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, domainerrors.Unavailablef("%s start response malformed: %v", h.id, err)
	}
	return &entities.PendingHold{HoldID: decoded.HoldID, Type: decoded.HoldType}, nil
}

type holdConfirmRequest struct {
	TransactionID string              `json:"transaction_id"`
	Recipient     string              `json:"recipient"`
	Amount        int                 `json:"amount,omitempty"`
	Items         []holdConfirmedItem `json:"items,omitempty"`
}

type holdConfirmedItem struct {
	OfferID string `json:"offer_id"`
	Name    string `json:"name"`
	Price   int    `json:"price"`
}

func (h *holdService) Confirm(ctx context.Context, hold *entities.PendingHold, params ports.ConfirmParams) (ports.Receipt, error) {
	if hold == nil {
		return ports.Receipt{}, domainerrors.Argumentf("%s confirm requires an open hold", h.id)
	}
	request := holdConfirmRequest{
		TransactionID: params.TransactionID,
		Recipient:     params.Recipient,
		Amount:        params.Amount,
	}
	for _, offer := range params.Offers {
		request.Items = append(request.Items, holdConfirmedItem{
			OfferID: offer.OfferID,
			Name:    offer.Name,
			Price:   componentSum(offer),
		})
	}

	status, requestBody, body, err := h.do(ctx, http.MethodPost, h.basePath+"/"+hold.HoldID+"/confirm", request)
	if err != nil {
		return ports.Receipt{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return ports.Receipt{}, domainerrors.FromProviderStatus(status, errorMessage(status, body))
	}

	return ports.Receipt{
		RequestBody:  requestBody,
		ResponseBody: body,
		Reserved:     params.Offers,
	}, nil
}

func (h *holdService) Release(ctx context.Context, params ports.ReleaseParams) error {
	if params.Hold == nil {
		return nil
	}
	status, _, body, err := h.do(ctx, http.MethodDelete, h.basePath+"/"+params.Hold.HoldID, nil)
	if err != nil {
		return err
	}
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}
	if releaseGone(status, body) {
		return nil
	}
	return domainerrors.Unavailablef("%s release returned %d: %s", h.id, status, errorMessage(status, body))
}
