package queries

import (
	"context"
	"log/slog"

	"boxoffice/contexts/ordering/offer-authorization/application/guard"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

type ListActionsUseCase struct {
	Transactions ports.TransactionStore
	Actions      ports.ActionStore
	Logger       *slog.Logger
}

// Execute lists the authorize actions belonging to the caller's in-progress
// transaction.
func (uc ListActionsUseCase) Execute(ctx context.Context, ref entities.TransactionRef, callerAgentID string) ([]entities.AuthorizeAction, error) {
	if _, err := (guard.Guard{Transactions: uc.Transactions}).LoadOwned(ctx, ref, callerAgentID); err != nil {
		return nil, err
	}
	return uc.Actions.SearchByPurpose(ctx, ref)
}
