package guard

import (
	"context"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// Guard loads a transaction and proves ownership. It runs on every
// authorize, cancel and change call; there is no session or cached grant.
type Guard struct {
	Transactions ports.TransactionStore
}

// LoadOwned returns the transaction when it is still in progress and owned
// by the caller. The in-progress filter is applied by the store query, so a
// confirmed or expired transaction reads as not found rather than forbidden.
func (g Guard) LoadOwned(ctx context.Context, ref entities.TransactionRef, callerAgentID string) (entities.Transaction, error) {
	transaction, err := g.Transactions.FindInProgressByID(ctx, ref)
	if err != nil {
		return entities.Transaction{}, err
	}
	if transaction.AgentID != callerAgentID {
		return entities.Transaction{}, domainerrors.Forbiddenf(
			"agent %s does not own transaction %s", callerAgentID, ref.ID)
	}
	return transaction, nil
}
