package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
	domainerrors "boxoffice/contexts/ordering/offer-authorization/domain/errors"
	"boxoffice/contexts/ordering/offer-authorization/ports"
	"boxoffice/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository backs the transaction, action and outbox ports on postgres.
// Status transitions are single-row conditional updates: the WHERE clause
// carries the expected prior status and zero affected rows reads as not
// found. That compare-and-swap is the only concurrency control.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) FindInProgressByID(ctx context.Context, ref entities.TransactionRef) (entities.Transaction, error) {
	var row transactionModel
	err := r.db.WithContext(ctx).
		Where("transaction_id = ? AND type = ? AND status = ?",
			ref.ID, string(ref.Type), string(entities.TransactionStatusInProgress)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Transaction{}, domainerrors.NotFoundf("transaction %s not in progress", ref.ID)
		}
		return entities.Transaction{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindEventByID(ctx context.Context, eventID string) (entities.Event, error) {
	var row eventModel
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Event{}, domainerrors.NotFoundf("event %s not found", eventID)
		}
		return entities.Event{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SearchAvailableOffers(ctx context.Context, kind entities.OfferKind, eventID, sellerID string) ([]entities.CatalogOffer, error) {
	var rows []catalogOfferModel
	err := r.db.WithContext(ctx).
		Where("kind = ? AND event_id = ? AND seller_id = ?", string(kind), eventID, sellerID).
		Order("offer_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	offers := make([]entities.CatalogOffer, 0, len(rows))
	for _, row := range rows {
		offer, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func (r *Repository) Start(ctx context.Context, action entities.AuthorizeAction) (entities.AuthorizeAction, error) {
	row, err := actionModelFromEntity(action)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.AuthorizeAction{}, domainerrors.Argumentf("action %s already exists", action.ActionID)
		}
		return entities.AuthorizeAction{}, err
	}
	return action, nil
}

func (r *Repository) Complete(ctx context.Context, actionID string, result entities.AuthorizeResult, at time.Time) (entities.AuthorizeAction, error) {
	payload, err := json.Marshal(&result)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}
	return r.transition(ctx, actionID, entities.ActionStatusStarted, map[string]any{
		"status":       string(entities.ActionStatusCompleted),
		"result":       payload,
		"has_hold":     true,
		"completed_at": at,
	})
}

func (r *Repository) GiveUp(ctx context.Context, actionID string, reason string, at time.Time) (entities.AuthorizeAction, error) {
	return r.transition(ctx, actionID, entities.ActionStatusStarted, map[string]any{
		"status":         string(entities.ActionStatusFailed),
		"failure_reason": reason,
		"completed_at":   at,
	})
}

func (r *Repository) Cancel(ctx context.Context, actionID string) (entities.AuthorizeAction, error) {
	update := r.db.WithContext(ctx).
		Model(&actionModel{}).
		Where("action_id = ? AND status IN ?", actionID,
			[]string{string(entities.ActionStatusCompleted), string(entities.ActionStatusFailed)}).
		Update("status", string(entities.ActionStatusCanceled))
	if update.Error != nil {
		return entities.AuthorizeAction{}, update.Error
	}
	if update.RowsAffected == 0 {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("terminal action %s not found", actionID)
	}
	return r.FindByID(ctx, actionID)
}

func (r *Repository) FindByID(ctx context.Context, actionID string) (entities.AuthorizeAction, error) {
	var row actionModel
	err := r.db.WithContext(ctx).
		Where("action_id = ?", actionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AuthorizeAction{}, domainerrors.NotFoundf("action %s not found", actionID)
		}
		return entities.AuthorizeAction{}, err
	}
	return row.toEntity()
}

func (r *Repository) SearchByPurpose(ctx context.Context, purpose entities.TransactionRef) ([]entities.AuthorizeAction, error) {
	var rows []actionModel
	err := r.db.WithContext(ctx).
		Where("purpose_type = ? AND purpose_id = ?", string(purpose.Type), purpose.ID).
		Order("started_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	actions := make([]entities.AuthorizeAction, 0, len(rows))
	for _, row := range rows {
		action, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func (r *Repository) ReplaceAuthorization(ctx context.Context, actionID string, object entities.AuthorizeObject, result entities.AuthorizeResult) (entities.AuthorizeAction, error) {
	objectPayload, err := json.Marshal(object)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}
	resultPayload, err := json.Marshal(&result)
	if err != nil {
		return entities.AuthorizeAction{}, err
	}
	return r.transition(ctx, actionID, entities.ActionStatusCompleted, map[string]any{
		"object": objectPayload,
		"result": resultPayload,
	})
}

func (r *Repository) MarkHoldReleased(ctx context.Context, actionID string, at time.Time) error {
	update := r.db.WithContext(ctx).
		Model(&actionModel{}).
		Where("action_id = ?", actionID).
		Update("hold_released_at", at)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return domainerrors.NotFoundf("action %s not found", actionID)
	}
	return nil
}

func (r *Repository) ListUnreleasedHolds(ctx context.Context, limit int) ([]entities.AuthorizeAction, error) {
	var rows []actionModel
	err := r.db.WithContext(ctx).
		Where("status IN ? AND has_hold = ? AND hold_released_at IS NULL",
			[]string{string(entities.ActionStatusCanceled), string(entities.ActionStatusFailed)}, true).
		Order("started_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	actions := make([]entities.AuthorizeAction, 0, len(rows))
	for _, row := range rows {
		action, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		// Failed gatelink actions never acquired anything remote.
		if !action.HoldsRemoteResource() {
			continue
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// transition applies a conditional status-guarded update and reloads the row.
func (r *Repository) transition(ctx context.Context, actionID string, expected entities.ActionStatus, updates map[string]any) (entities.AuthorizeAction, error) {
	update := r.db.WithContext(ctx).
		Model(&actionModel{}).
		Where("action_id = ? AND status = ?", actionID, string(expected)).
		Updates(updates)
	if update.Error != nil {
		return entities.AuthorizeAction{}, update.Error
	}
	if update.RowsAffected == 0 {
		return entities.AuthorizeAction{}, domainerrors.NotFoundf("%s action %s not found", expected, actionID)
	}
	return r.FindByID(ctx, actionID)
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:  envelope.EventID,
		EventType: envelope.EventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: envelope.OccurredAtUTC,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			// The same lifecycle event appended twice is a replay, not a bug.
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	update := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ? AND status = ?", outboxID, outbox.StatusPending).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt,
		})
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return domainerrors.NotFoundf("pending outbox row %s not found", outboxID)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
