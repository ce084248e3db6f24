package models

import "time"

// LedgerEvent is published to Kafka after every committed ledger mutation.
type LedgerEvent struct {
	EventType     string    `json:"eventType"`
	ClientID      string    `json:"clientId"`
	UnitID        string    `json:"unitId"`
	TransactionID string    `json:"transactionId"`
	Category      string    `json:"category"`
	Amount        int64     `json:"amount"`
	CreditUsed    int64     `json:"creditUsed"`
	CreditAdded   int64     `json:"creditAdded"`
	OccurredAt    time.Time `json:"occurredAt"`
}

const (
	LedgerEventPayment  = "payment_recorded"
	LedgerEventReversal = "transaction_reversed"
	LedgerEventImport   = "legacy_import"
)

// ReceiptNotification is published to the notification topic after a payment.
type ReceiptNotification struct {
	ClientID      string `json:"clientId"`
	UnitID        string `json:"unitId"`
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"`
	CreditAdded   string `json:"creditAdded"`
	BillsCovered  int    `json:"billsCovered"`
	PaidThrough   string `json:"paidThrough"`
}

// ReadingsMessage is the Pub/Sub payload carrying a batch of field meter
// readings for one client and period.
type ReadingsMessage struct {
	ClientID string         `json:"clientId"`
	Period   string         `json:"period"`
	Source   string         `json:"source"`
	Readings []ReadingEntry `json:"readings"`
	Complete bool           `json:"complete"`
}

// SettlementMessage is a bank settlement payment consumed from Kafka.
type SettlementMessage struct {
	ClientID  string    `json:"clientId"`
	UnitID    string    `json:"unitId"`
	Category  string    `json:"category"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	SettledAt time.Time `json:"settledAt"`
}
