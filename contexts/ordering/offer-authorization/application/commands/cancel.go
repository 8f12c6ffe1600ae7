package commands

import (
	"context"
	"log/slog"

	application "boxoffice/contexts/ordering/offer-authorization/application"
	"boxoffice/contexts/ordering/offer-authorization/application/guard"
	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
	"boxoffice/internal/shared/events"
)

type CancelCommand struct {
	Transaction entities.TransactionRef
	AgentID     string
	ActionID    string
}

// CancelUseCase voids a granted authorization. The local record flips to
// Canceled before the remote release is attempted: a locally-canceled action
// still holding a remote reservation is a recoverable leak the reaper cleans
// up, whereas a locally-completed action whose hold is gone would let an
// order confirm against nothing. The former failure mode wins.
type CancelUseCase struct {
	Transactions ports.TransactionStore
	Actions      ports.ActionStore
	Providers    ports.ProviderResolver
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc CancelUseCase) Execute(ctx context.Context, cmd CancelCommand) (entities.AuthorizeAction, error) {
	logger := application.ResolveLogger(uc.Logger)

	if _, err := (guard.Guard{Transactions: uc.Transactions}).LoadOwned(ctx, cmd.Transaction, cmd.AgentID); err != nil {
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

	// Conditional update: only terminal actions cancel. A cancel racing a
	// still-running authorize fails fast instead of racing its completion.
	canceled, err := uc.Actions.Cancel(ctx, cmd.ActionID)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}

	if action.HoldsRemoteResource() {
		if err := uc.release(ctx, logger, action); err != nil {
			// Local Canceled state is deliberately not rolled back.
			return entities.AuthorizeAction{}, err
		}
	}

	uc.appendEvent(ctx, logger, canceled)

	logger.Info("authorization canceled",
		"event", "authorize_canceled",
		"module", "ordering/offer-authorization",
		"layer", "application",
		"action_id", canceled.ActionID,
		"transaction_id", cmd.Transaction.ID,
	)
	return canceled, nil
}

func (uc CancelUseCase) release(ctx context.Context, logger *slog.Logger, action entities.AuthorizeAction) error {
	provider, err := uc.Providers.Resolve(action.Provider)
	if err != nil {
		return err
	}
	if err := provider.Release(ctx, ports.ReleaseParams{
		Hold:          action.Object.PendingHold,
		TransactionID: action.Purpose.ID,
		EventID:       action.Object.Event.EventID,
	}); err != nil {
		return err
	}
	if err := uc.Actions.MarkHoldReleased(ctx, action.ActionID, uc.Clock.Now().UTC()); err != nil {
		logger.Warn("hold release bookkeeping failed",
			"event", "cancel_mark_released_failed",
			"module", "ordering/offer-authorization",
			"layer", "application",
			"action_id", action.ActionID,
			"error", err.Error(),
		)
	}
	return nil
}

func (uc CancelUseCase) appendEvent(ctx context.Context, logger *slog.Logger, action entities.AuthorizeAction) {
	if uc.Outbox == nil {
		return
	}
	envelope := ports.EventEnvelope{
		EventID:        action.ActionID + ":" + events.TypeAuthorizeCanceled,
		EventType:      events.TypeAuthorizeCanceled,
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
			"event", "cancel_outbox_append_failed",
			"module", "ordering/offer-authorization",
			"layer", "application",
			"action_id", action.ActionID,
			"error", err.Error(),
		)
	}
}
