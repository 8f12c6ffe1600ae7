package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/application/commands"
	"boxoffice/contexts/ordering/offer-authorization/application/queries"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	httptransport "boxoffice/contexts/ordering/offer-authorization/transport/http"
)

type Handler struct {
	ProjectID    string
	Authorize    commands.AuthorizeUseCase
	Cancel       commands.CancelUseCase
	ChangeOffers commands.ChangeOffersUseCase
	ListActions  queries.ListActionsUseCase
	Logger       *slog.Logger
}

func (h Handler) AuthorizeHandler(
	ctx context.Context,
	kind entities.OfferKind,
	transactionID string,
	agentID string,
	req httptransport.AuthorizeRequest,
) (httptransport.ActionResponse, error) {
	action, err := h.Authorize.Execute(ctx, commands.AuthorizeCommand{
		ProjectID:   h.ProjectID,
		Transaction: placeOrderRef(transactionID),
		AgentID:     agentID,
		Kind:        kind,
		EventID:     req.EventID,
		Selections:  selectionsFromDTO(req.Selections),
	})
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return httptransport.ActionResponse{Status: "success", Data: toActionDTO(action)}, nil
}

func (h Handler) CancelHandler(
	ctx context.Context,
	transactionID string,
	agentID string,
	actionID string,
) (httptransport.ActionResponse, error) {
	action, err := h.Cancel.Execute(ctx, commands.CancelCommand{
		Transaction: placeOrderRef(transactionID),
		AgentID:     agentID,
		ActionID:    actionID,
	})
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return httptransport.ActionResponse{Status: "success", Data: toActionDTO(action)}, nil
}

func (h Handler) ChangeOffersHandler(
	ctx context.Context,
	transactionID string,
	agentID string,
	actionID string,
	req httptransport.ChangeOffersRequest,
) (httptransport.ActionResponse, error) {
	action, err := h.ChangeOffers.Execute(ctx, commands.ChangeOffersCommand{
		Transaction: placeOrderRef(transactionID),
		AgentID:     agentID,
		ActionID:    actionID,
		Selections:  selectionsFromDTO(req.Selections),
	})
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return httptransport.ActionResponse{Status: "success", Data: toActionDTO(action)}, nil
}

func (h Handler) ListActionsHandler(
	ctx context.Context,
	transactionID string,
	agentID string,
) (httptransport.ActionListResponse, error) {
	actions, err := h.ListActions.Execute(ctx, placeOrderRef(transactionID), agentID)
	if err != nil {
		return httptransport.ActionListResponse{}, err
	}
	resp := httptransport.ActionListResponse{
		Status: "success",
		Data:   make([]httptransport.ActionDTO, 0, len(actions)),
	}
	for _, action := range actions {
		resp.Data = append(resp.Data, toActionDTO(action))
	}
	return resp, nil
}

func placeOrderRef(transactionID string) entities.TransactionRef {
	return entities.TransactionRef{Type: entities.TransactionTypePlaceOrder, ID: transactionID}
}

func selectionsFromDTO(dtos []httptransport.SelectionDTO) []entities.OfferSelection {
	selections := make([]entities.OfferSelection, 0, len(dtos))
	for _, dto := range dtos {
		selection := entities.OfferSelection{
			OfferID: dto.OfferID,
			Amount:  dto.Amount,
		}
		if dto.Seat != nil {
			selection.Seat = &entities.Seat{Section: dto.Seat.Section, Number: dto.Seat.Number}
		}
		if dto.Credential != nil {
			selection.Credential = &entities.RedemptionCredential{
				Identifier: dto.Credential.Identifier,
				AccessCode: dto.Credential.AccessCode,
			}
		}
		for _, property := range dto.AdditionalProperties {
			selection.AdditionalProperties = append(selection.AdditionalProperties,
				entities.Property{Name: property.Name, Value: property.Value})
		}
		selections = append(selections, selection)
	}
	return selections
}

func toActionDTO(action entities.AuthorizeAction) httptransport.ActionDTO {
	dto := httptransport.ActionDTO{
		ActionID:      action.ActionID,
		Status:        string(action.Status),
		TransactionID: action.Purpose.ID,
		Provider:      string(action.Provider),
		Kind:          string(action.Object.Kind),
		StartedAt:     action.StartedAt.Format(time.RFC3339),
	}
	if action.CompletedAt != nil {
		dto.CompletedAt = action.CompletedAt.Format(time.RFC3339)
	}
	if action.Result != nil {
		dto.Price = action.Result.Price
		dto.Currency = action.Result.Currency
		for _, offer := range action.Result.AcceptedOffers {
			dto.AcceptedOffers = append(dto.AcceptedOffers, toAcceptedOfferDTO(offer))
		}
	}
	return dto
}

func toAcceptedOfferDTO(offer entities.AcceptedOffer) httptransport.AcceptedOfferDTO {
	dto := httptransport.AcceptedOfferDTO{
		OfferID:     offer.OfferID,
		Name:        offer.Name,
		ItemOffered: offer.ItemOffered,
		Currency:    offer.Currency,
	}
	for _, component := range offer.PriceComponents {
		dto.PriceSpecification = append(dto.PriceSpecification, httptransport.PriceComponentDTO{
			Kind:              string(component.Kind),
			Name:              component.Name,
			Price:             component.Price,
			ReferenceQuantity: component.ReferenceQuantity,
		})
	}
	for _, property := range offer.AdditionalProperties {
		dto.AdditionalProperties = append(dto.AdditionalProperties,
			httptransport.PropertyDTO{Name: property.Name, Value: property.Value})
	}
	if offer.TicketedSeat != nil {
		dto.TicketedSeat = &httptransport.SeatDTO{
			Section: offer.TicketedSeat.Section,
			Number:  offer.TicketedSeat.Number,
		}
	}
	return dto
}
