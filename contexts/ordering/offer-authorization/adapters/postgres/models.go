package postgresadapter

import (
	"encoding/json"
	"time"

	"boxoffice/contexts/ordering/offer-authorization/domain/entities"
)

type transactionModel struct {
	TransactionID  string    `gorm:"column:transaction_id;primaryKey"`
	Type           string    `gorm:"column:type"`
	Status         string    `gorm:"column:status;index"`
	AgentID        string    `gorm:"column:agent_id"`
	SellerID       string    `gorm:"column:seller_id"`
	SellerName     string    `gorm:"column:seller_name"`
	SellerCurrency string    `gorm:"column:seller_currency"`
	ProjectID      string    `gorm:"column:project_id"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	StartedAt      time.Time `gorm:"column:started_at"`
}

func (transactionModel) TableName() string { return "transactions" }

func (m transactionModel) toEntity() entities.Transaction {
	return entities.Transaction{
		TransactionID: m.TransactionID,
		Type:          entities.TransactionType(m.Type),
		Status:        entities.TransactionStatus(m.Status),
		AgentID:       m.AgentID,
		Seller: entities.Seller{
			SellerID: m.SellerID,
			Name:     m.SellerName,
			Currency: m.SellerCurrency,
		},
		ProjectID: m.ProjectID,
		ExpiresAt: m.ExpiresAt,
		StartedAt: m.StartedAt,
	}
}

type actionModel struct {
	ActionID       string     `gorm:"column:action_id;primaryKey"`
	Status         string     `gorm:"column:status;index"`
	PurposeType    string     `gorm:"column:purpose_type"`
	PurposeID      string     `gorm:"column:purpose_id;index"`
	AgentID        string     `gorm:"column:agent_id"`
	RecipientID    string     `gorm:"column:recipient_id"`
	Provider       string     `gorm:"column:provider"`
	Object         []byte     `gorm:"column:object;type:jsonb"`
	Result         []byte     `gorm:"column:result;type:jsonb"`
	FailureReason  string     `gorm:"column:failure_reason"`
	HasHold        bool       `gorm:"column:has_hold;index"`
	StartedAt      time.Time  `gorm:"column:started_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
	HoldReleasedAt *time.Time `gorm:"column:hold_released_at"`
}

func (actionModel) TableName() string { return "authorize_actions" }

func actionModelFromEntity(action entities.AuthorizeAction) (actionModel, error) {
	object, err := json.Marshal(action.Object)
	if err != nil {
		return actionModel{}, err
	}
	model := actionModel{
		ActionID:       action.ActionID,
		Status:         string(action.Status),
		PurposeType:    string(action.Purpose.Type),
		PurposeID:      action.Purpose.ID,
		AgentID:        action.AgentID,
		RecipientID:    action.RecipientID,
		Provider:       string(action.Provider),
		Object:         object,
		FailureReason:  action.FailureReason,
		HasHold:        action.Object.PendingHold != nil,
		StartedAt:      action.StartedAt,
		CompletedAt:    action.CompletedAt,
		HoldReleasedAt: action.HoldReleasedAt,
	}
	if action.Result != nil {
		result, err := json.Marshal(action.Result)
		if err != nil {
			return actionModel{}, err
		}
		model.Result = result
		model.HasHold = true
	}
	return model, nil
}

func (m actionModel) toEntity() (entities.AuthorizeAction, error) {
	var object entities.AuthorizeObject
	if len(m.Object) > 0 {
		if err := json.Unmarshal(m.Object, &object); err != nil {
			return entities.AuthorizeAction{}, err
		}
	}
	var result *entities.AuthorizeResult
	if len(m.Result) > 0 {
		result = &entities.AuthorizeResult{}
		if err := json.Unmarshal(m.Result, result); err != nil {
			return entities.AuthorizeAction{}, err
		}
	}
	return entities.AuthorizeAction{
		ActionID: m.ActionID,
		Status:   entities.ActionStatus(m.Status),
		Purpose: entities.TransactionRef{
			Type: entities.TransactionType(m.PurposeType),
			ID:   m.PurposeID,
		},
		AgentID:        m.AgentID,
		RecipientID:    m.RecipientID,
		Provider:       entities.ProviderID(m.Provider),
		Object:         object,
		Result:         result,
		FailureReason:  m.FailureReason,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		HoldReleasedAt: m.HoldReleasedAt,
	}, nil
}

// Events and catalog offers are read models synced from the provider
// catalogs by an upstream import flow; this core only queries them.
type eventModel struct {
	EventID   string    `gorm:"column:event_id;primaryKey"`
	Name      string    `gorm:"column:name"`
	SellerID  string    `gorm:"column:seller_id"`
	ProjectID string    `gorm:"column:project_id"`
	StartsAt  time.Time `gorm:"column:starts_at"`
	Provider  string    `gorm:"column:provider"`
}

func (eventModel) TableName() string { return "events" }

func (m eventModel) toEntity() entities.Event {
	return entities.Event{
		EventID:   m.EventID,
		Name:      m.Name,
		SellerID:  m.SellerID,
		ProjectID: m.ProjectID,
		StartsAt:  m.StartsAt,
		Provider:  entities.ProviderID(m.Provider),
	}
}

type catalogOfferModel struct {
	OfferID             string `gorm:"column:offer_id;primaryKey"`
	Kind                string `gorm:"column:kind;primaryKey"`
	EventID             string `gorm:"column:event_id;primaryKey"`
	SellerID            string `gorm:"column:seller_id;primaryKey"`
	Name                string `gorm:"column:name"`
	Currency            string `gorm:"column:currency"`
	PriceComponents     []byte `gorm:"column:price_components;type:jsonb"`
	EligibleQuantityMin int    `gorm:"column:eligible_quantity_min"`
	EligibleQuantityMax int    `gorm:"column:eligible_quantity_max"`
	Properties          []byte `gorm:"column:properties;type:jsonb"`
}

func (catalogOfferModel) TableName() string { return "catalog_offers" }

func (m catalogOfferModel) toEntity() (entities.CatalogOffer, error) {
	offer := entities.CatalogOffer{
		OfferID:             m.OfferID,
		Name:                m.Name,
		Currency:            m.Currency,
		EligibleQuantityMin: m.EligibleQuantityMin,
		EligibleQuantityMax: m.EligibleQuantityMax,
	}
	if len(m.PriceComponents) > 0 {
		if err := json.Unmarshal(m.PriceComponents, &offer.PriceComponents); err != nil {
			return entities.CatalogOffer{}, err
		}
	}
	if len(m.Properties) > 0 {
		if err := json.Unmarshal(m.Properties, &offer.AdditionalProperties); err != nil {
			return entities.CatalogOffer{}, err
		}
	}
	return offer, nil
}

type outboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload;type:jsonb"`
	Status      string     `gorm:"column:status;index"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "authorize_outbox" }
