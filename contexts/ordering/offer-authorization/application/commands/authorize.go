package commands

import (
	"context"
	"log/slog"
	"time"

	application "boxoffice/contexts/ordering/offer-authorization/application"
	"boxoffice/contexts/ordering/offer-authorization/application/guard"
	"boxoffice/contexts/ordering/offer-authorization/application/pricing"
	"boxoffice/contexts/ordering/offer-authorization/application/validate"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
	"boxoffice/internal/shared/events"
)

// holdGracePeriod is added on top of the transaction's own expiry when a
// remote hold is opened, so a delayed or retried compensation still finds
// the hold alive.
const holdGracePeriod = time.Hour * 24 * 30

type AuthorizeCommand struct {
	ProjectID   string
	Transaction entities.TransactionRef
	AgentID     string
	Kind        entities.OfferKind
	EventID     string
	Selections  []entities.OfferSelection
}

// AuthorizeUseCase runs the full authorize saga: ownership check, offer
// validation, optional remote hold opening, local Started record, remote
// confirmation, pricing, completion. A remote failure after the record
// exists is classified and re-raised, with a best-effort GiveUp write first.
type AuthorizeUseCase struct {
	Transactions ports.TransactionStore
	Actions      ports.ActionStore
	Events       ports.EventStore
	Catalog      ports.OfferCatalog
	Verifier     ports.RedemptionVerifier
	Providers    ports.ProviderResolver
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func (uc AuthorizeUseCase) Execute(ctx context.Context, cmd AuthorizeCommand) (entities.AuthorizeAction, error) {
	logger := application.ResolveLogger(uc.Logger)

	transaction, err := guard.Guard{Transactions: uc.Transactions}.LoadOwned(ctx, cmd.Transaction, cmd.AgentID)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	snapshot, accepted, amountParam, err := uc.prepare(ctx, cmd, transaction)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	providerID := uc.providerFor(cmd.Kind, snapshot)
	provider, err := uc.Providers.Resolve(providerID)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	// The hold must exist before the action record is created: the record's
	// pending-hold reference is immutable after creation except by the
	// completion step.
	hold, err := provider.Start(ctx, ports.StartHoldParams{
		ProjectID:     cmd.ProjectID,
		TransactionID: transaction.TransactionID,
		EventID:       snapshot.EventID,
		ExpiresAt:     transaction.ExpiresAt.Add(holdGracePeriod),
	})
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	now := uc.Clock.Now().UTC()
	actionID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	action, err := uc.Actions.Start(ctx, entities.AuthorizeAction{
		ActionID:    actionID,
		Status:      entities.ActionStatusStarted,
		Purpose:     transaction.Ref(),
		AgentID:     transaction.Seller.SellerID,
		RecipientID: transaction.AgentID,
		Provider:    provider.ID(),
		Object: entities.AuthorizeObject{
			Kind:        cmd.Kind,
			Event:       snapshot,
			Selections:  cmd.Selections,
			Accepted:    accepted,
			PendingHold: hold,
		},
		StartedAt: now,
	})
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	receipt, err := provider.Confirm(ctx, hold, ports.ConfirmParams{
		ProjectID:     cmd.ProjectID,
		TransactionID: transaction.TransactionID,
		EventID:       snapshot.EventID,
		Offers:        accepted,
		Amount:        amountParam,
		Recipient:     transaction.AgentID,
	})
	if err != nil {
		// Best effort: record the failure on the action so a retry starts a
		// fresh one. A failing GiveUp write never masks the original error.
		if _, giveUpErr := uc.Actions.GiveUp(ctx, action.ActionID, err.Error(), uc.Clock.Now().UTC()); giveUpErr != nil {
			logger.Warn("give-up write failed",
				"event", "authorize_give_up_failed",
				"module", "ordering/offer-authorization",
				"layer", "application",
				"action_id", action.ActionID,
				"transaction_id", transaction.TransactionID,
				"error", giveUpErr.Error(),
			)
		}
		return entities.AuthorizeAction{}, err
	}

	projection := receipt.Reserved
	if len(projection) == 0 {
		projection = accepted
	}
	result := entities.AuthorizeResult{
		Price:          pricing.ComputeAmount(accepted),
		Currency:       resultCurrency(accepted, transaction.Seller),
		RequestBody:    receipt.RequestBody,
		ResponseBody:   receipt.ResponseBody,
		AcceptedOffers: projection,
	}

	completed, err := uc.Actions.Complete(ctx, action.ActionID, result, uc.Clock.Now().UTC())
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	uc.appendEvent(ctx, logger, events.TypeAuthorizeCompleted, completed)

	logger.Info("authorization completed",
		"event", "authorize_completed",
		"module", "ordering/offer-authorization",
		"layer", "application",
		"action_id", completed.ActionID,
		"transaction_id", transaction.TransactionID,
		"provider", string(completed.Provider),
		"price", result.Price,
	)
	return completed, nil
}

// prepare resolves the event snapshot and accepted offers for the requested
// offer kind. Money transfers are priced directly from the requested amount;
// the catalog-backed kinds go through the validator.
func (uc AuthorizeUseCase) prepare(
	ctx context.Context,
	cmd AuthorizeCommand,
	transaction entities.Transaction,
) (entities.EventSnapshot, []entities.AcceptedOffer, int, error) {
	switch cmd.Kind {
	case entities.OfferKindMoneyTransfer:
		if len(cmd.Selections) != 1 {
			return entities.EventSnapshot{}, nil, 0, domainerrors.Argumentf(
				"money transfer takes exactly one selection, got %d", len(cmd.Selections))
		}
		selection := cmd.Selections[0]
		if selection.Amount <= 0 {
			return entities.EventSnapshot{}, nil, 0, domainerrors.Argumentf(
				"money transfer amount must be positive, got %d", selection.Amount)
		}
		accepted := []entities.AcceptedOffer{{
			OfferID:              selection.OfferID,
			Name:                 "monetary deposit",
			ItemOffered:          "monetary deposit",
			Currency:             transaction.Seller.Currency,
			PriceComponents:      []entities.PriceComponent{{Kind: entities.ComponentUnitPrice, Price: selection.Amount, ReferenceQuantity: 1}},
			AdditionalProperties: selection.AdditionalProperties,
		}}
		return entities.EventSnapshot{}, accepted, selection.Amount, nil

	case entities.OfferKindSeatReservation:
		event, err := uc.Events.FindEventByID(ctx, cmd.EventID)
		if err != nil {
			return entities.EventSnapshot{}, nil, 0, err
		}
		accepted, err := uc.validator().Accept(ctx, cmd.Kind, event.EventID, transaction.Seller, cmd.Selections)
		if err != nil {
			return entities.EventSnapshot{}, nil, 0, err
		}
		return event.Snapshot(), accepted, 0, nil

	case entities.OfferKindCardRegistration, entities.OfferKindMembership:
		accepted, err := uc.validator().Accept(ctx, cmd.Kind, cmd.EventID, transaction.Seller, cmd.Selections)
		if err != nil {
			return entities.EventSnapshot{}, nil, 0, err
		}
		return entities.EventSnapshot{EventID: cmd.EventID}, accepted, 0, nil

	default:
		return entities.EventSnapshot{}, nil, 0, domainerrors.Argumentf("unknown offer kind %q", cmd.Kind)
	}
}

func (uc AuthorizeUseCase) validator() validate.Validator {
	return validate.Validator{Catalog: uc.Catalog, Verifier: uc.Verifier, Logger: uc.Logger}
}

// providerFor picks the variant id for the offer kind. Seat reservations
// follow the event's declared provider; the resolver applies the configured
// default when the event declares none.
func (uc AuthorizeUseCase) providerFor(kind entities.OfferKind, snapshot entities.EventSnapshot) entities.ProviderID {
	switch kind {
	case entities.OfferKindCardRegistration:
		return entities.ProviderCardVault
	case entities.OfferKindMoneyTransfer:
		return entities.ProviderPointBank
	case entities.OfferKindMembership:
		return entities.ProviderClubPass
	default:
		return snapshot.Provider
	}
}

func (uc AuthorizeUseCase) appendEvent(ctx context.Context, logger *slog.Logger, eventType string, action entities.AuthorizeAction) {
	if uc.Outbox == nil {
		return
	}
	envelope := ports.EventEnvelope{
		EventID:        action.ActionID + ":" + eventType,
		EventType:      eventType,
		SourceService:  "boxoffice",
		OccurredAtUTC:  uc.Clock.Now().UTC(),
		CorrelationID:  action.Purpose.ID,
		EntityType:     events.EntityAuthorizeAction,
		EntityID:       action.ActionID,
		PayloadVersion: 1,
		Payload: map[string]any{
			"action_id":      action.ActionID,
			"transaction_id": action.Purpose.ID,
			"status":         string(action.Status),
		},
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Warn("outbox append failed",
			"event", "authorize_outbox_append_failed",
			"module", "ordering/offer-authorization",
			"layer", "application",
			"action_id", action.ActionID,
			"error", err.Error(),
		)
	}
}

func resultCurrency(accepted []entities.AcceptedOffer, seller entities.Seller) string {
	for _, offer := range accepted {
		if offer.Currency != "" {
			return offer.Currency
		}
	}
	if seller.Currency != "" {
		return seller.Currency
	}
	return "USD"
}
