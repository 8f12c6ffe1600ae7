package workers

import (
	"context"
	"log/slog"
	"time"

	application "boxoffice/contexts/ordering/offer-authorization/application"
	"boxoffice/contexts/ordering/offer-authorization/ports"
)

// HoldReaper is the reconciliation half of the local-state-first cancel
// ordering: it sweeps terminal actions that still reference a remote hold
// (a cancel whose release failed, or an authorize that gave up after the
// hold was opened) and re-runs the idempotent release.
type HoldReaper struct {
	Actions   ports.ActionStore
	Providers ports.ProviderResolver
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r HoldReaper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	leaked, err := r.Actions.ListUnreleasedHolds(ctx, limit)
	if err != nil {
		logger.Error("leaked hold scan failed",
			"event", "hold_reaper_scan_failed",
			"module", "ordering/offer-authorization",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, action := range leaked {
		provider, err := r.Providers.Resolve(action.Provider)
		if err != nil {
			logger.Error("leaked hold has unknown provider",
				"event", "hold_reaper_unknown_provider",
				"module", "ordering/offer-authorization",
				"layer", "worker",
				"action_id", action.ActionID,
				"provider", string(action.Provider),
				"error", err.Error(),
			)
			continue
		}
		if err := provider.Release(ctx, ports.ReleaseParams{
			Hold:          action.Object.PendingHold,
			TransactionID: action.Purpose.ID,
			EventID:       action.Object.Event.EventID,
		}); err != nil {
			// Leave the row for the next sweep; release is at-least-once.
			logger.Warn("leaked hold release failed",
				"event", "hold_reaper_release_failed",
				"module", "ordering/offer-authorization",
				"layer", "worker",
				"action_id", action.ActionID,
				"error", err.Error(),
			)
			continue
		}
		if err := r.Actions.MarkHoldReleased(ctx, action.ActionID, now); err != nil {
			logger.Warn("leaked hold bookkeeping failed",
				"event", "hold_reaper_mark_released_failed",
				"module", "ordering/offer-authorization",
				"layer", "worker",
				"action_id", action.ActionID,
				"error", err.Error(),
			)
			continue
		}
		logger.Info("leaked hold released",
			"event", "hold_reaper_released",
			"module", "ordering/offer-authorization",
			"layer", "worker",
			"action_id", action.ActionID,
			"provider", string(action.Provider),
		)
	}
	return nil
}
