package entities

import "time"

type TransactionType string
type TransactionStatus string

const (
	TransactionTypePlaceOrder TransactionType = "place_order"

	TransactionStatusInProgress TransactionStatus = "in_progress"
	TransactionStatusConfirmed  TransactionStatus = "confirmed"
	TransactionStatusExpired    TransactionStatus = "expired"
	TransactionStatusCanceled   TransactionStatus = "canceled"
)

// TransactionRef addresses a transaction by type and id. Authorize actions
// carry it as their purpose back-reference.
type TransactionRef struct {
	Type TransactionType
	ID   string
}

type Seller struct {
	SellerID string
	Name     string
	Currency string
}

// Transaction is the in-progress commerce negotiation this core works on
// behalf of. It is read-only here; the confirm/expire flows mutate it
// elsewhere.
type Transaction struct {
	TransactionID string
	Type          TransactionType
	Status        TransactionStatus
	AgentID       string
	Seller        Seller
	ProjectID     string
	ExpiresAt     time.Time
	StartedAt     time.Time
}

func (t Transaction) Ref() TransactionRef {
	return TransactionRef{Type: t.Type, ID: t.TransactionID}
}
