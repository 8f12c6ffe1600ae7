package commands

import (
	"context"
	"log/slog"

	application "boxoffice/contexts/ordering/offer-authorization/application"
	"boxoffice/contexts/ordering/offer-authorization/application/guard"
	"boxoffice/contexts/ordering/offer-authorization/application/pricing"
	"boxoffice/contexts/ordering/offer-authorization/application/validate"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

type ChangeOffersCommand struct {
	Transaction entities.TransactionRef
	AgentID     string
	ActionID    string
	Selections  []entities.OfferSelection
}

// ChangeOffersUseCase amends a completed seat-reservation authorization:
// ticket types and prices may change, the held seats may not. The remote
// hold is never re-touched; only the local object/result are rebuilt and
// swapped in one conditional write.
type ChangeOffersUseCase struct {
	Transactions ports.TransactionStore
	Actions      ports.ActionStore
	Catalog      ports.OfferCatalog
	Verifier     ports.RedemptionVerifier
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc ChangeOffersUseCase) Execute(ctx context.Context, cmd ChangeOffersCommand) (entities.AuthorizeAction, error) {
	logger := application.ResolveLogger(uc.Logger)

	transaction, err := guard.Guard{Transactions: uc.Transactions}.LoadOwned(ctx, cmd.Transaction, cmd.AgentID)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	action, err := uc.Actions.FindByID(ctx, cmd.ActionID)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}
	if action.Purpose != cmd.Transaction {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf(
			"action %s does not belong to transaction %s", cmd.ActionID, cmd.Transaction.ID)
	}
	if action.Status != entities.ActionStatusCompleted {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf(
			"action %s is not completed", cmd.ActionID)
	}
	if action.Object.Kind != entities.OfferKindSeatReservation {
		return entities.AuthorizeAction{}, domainerrors.Argumentf(
			"only seat reservations can be amended")
	}

	validator := validate.Validator{Catalog: uc.Catalog, Verifier: uc.Verifier, Logger: uc.Logger}
	accepted, err := validator.Accept(ctx, entities.OfferKindSeatReservation,
		action.Object.Event.EventID, transaction.Seller, cmd.Selections)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	if !sameSeats(entities.SeatSet(accepted), entities.SeatSet(action.Object.Accepted)) {
		return entities.AuthorizeAction{}, domainerrors.Argumentf(
			"amended offers must reference exactly the seats already held")
	}

	object := action.Object
	object.Selections = cmd.Selections
	object.Accepted = accepted

	// Raw provider bodies are kept: the remote hold was not re-touched, so
	// the original exchange remains the audit record.
	result := *action.Result
	result.Price = pricing.ComputeAmount(accepted)
	result.AcceptedOffers = accepted

	updated, err := uc.Actions.ReplaceAuthorization(ctx, cmd.ActionID, object, result)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	logger.Info("authorization amended",
		"event", "authorize_offers_changed",
		"module", "ordering/offer-authorization",
		"layer", "application",
		"action_id", updated.ActionID,
		"transaction_id", cmd.Transaction.ID,
		"price", result.Price,
	)
	return updated, nil
}

func sameSeats(next, current map[entities.Seat]int) bool {
	if len(next) != len(current) {
		return false
	}
	for seat, count := range next {
		if current[seat] != count {
			return false
		}
	}
	return true
}
