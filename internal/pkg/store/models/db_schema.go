package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
)

// ClientConfig is the per-association configuration document. Client codes
// are short identifiers such as "MTC" and "AVII".
type ClientConfig struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	ClientID             string             `bson:"clientId"`
	Name                 string             `bson:"name"`
	FiscalYearStartMonth int                `bson:"fiscalYearStartMonth"`
	Currency             string             `bson:"currency"`
	WaterRatePerM3       int64              `bson:"waterRatePerM3"`
	PenaltyRatePct       float64            `bson:"penaltyRatePct"`
	PenaltyCompounds     bool               `bson:"penaltyCompounds"`
	PenaltyOnDues        bool               `bson:"penaltyOnDues"`
	DueDay               int                `bson:"dueDay"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

type Unit struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ClientID         string             `bson:"clientId"`
	UnitID           string             `bson:"unitId"`
	Owner            string             `bson:"owner"`
	DuesMonthlyCents int64              `bson:"duesMonthlyAmount"`
	Active           bool               `bson:"active"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

// Bill is a single charge against a unit: one water bill or one HOA dues
// month. Paid amounts are tracked separately for base and penalty so the
// cascade and its reversal stay exact.
type Bill struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty"`
	ClientID          string              `bson:"clientId"`
	UnitID            string              `bson:"unitId"`
	Category          consts.BillCategory `bson:"category"`
	Period            string              `bson:"period"`
	FiscalYear        int                 `bson:"fiscalYear"`
	DueDate           time.Time           `bson:"dueDate"`
	BaseAmount        int64               `bson:"baseAmount"`
	PenaltyAmount     int64               `bson:"penaltyAmount"`
	BasePaid          int64               `bson:"basePaid"`
	PenaltyPaid       int64               `bson:"penaltyPaid"`
	Status            consts.BillStatus   `bson:"status"`
	PriorReading      int64               `bson:"priorReading,omitempty"`
	CurrentReading    int64               `bson:"currentReading,omitempty"`
	Consumption       int64               `bson:"consumption,omitempty"`
	LastPenaltyUpdate time.Time           `bson:"lastPenaltyUpdate,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt"`
}

// BaseOutstanding is the unpaid portion of the base charge.
func (b Bill) BaseOutstanding() int64 {
	return b.BaseAmount - b.BasePaid
}

// PenaltyOutstanding is the unpaid portion of the accrued penalty.
func (b Bill) PenaltyOutstanding() int64 {
	return b.PenaltyAmount - b.PenaltyPaid
}

func (b Bill) Outstanding() int64 {
	return b.BaseOutstanding() + b.PenaltyOutstanding()
}

// Allocation records how much of a transaction landed on one bill.
type Allocation struct {
	BillID      primitive.ObjectID  `bson:"billId"`
	Period      string              `bson:"period"`
	Category    consts.BillCategory `bson:"category"`
	BasePaid    int64               `bson:"basePaid"`
	PenaltyPaid int64               `bson:"penaltyPaid"`
}

func (a Allocation) Total() int64 {
	return a.BasePaid + a.PenaltyPaid
}

// Transaction is the ledger record of one payment (or one imported legacy
// payment). Reversals never delete the document; they flip Status and stamp
// ReversedAt.
type Transaction struct {
	ID          primitive.ObjectID       `bson:"_id,omitempty"`
	ClientID    string                   `bson:"clientId"`
	UnitID      string                   `bson:"unitId"`
	Type        consts.TransactionType   `bson:"type"`
	Status      consts.TransactionStatus `bson:"status"`
	Category    consts.BillCategory      `bson:"category"`
	Amount      int64                    `bson:"amount"`
	CreditUsed  int64                    `bson:"creditUsed"`
	CreditAdded int64                    `bson:"creditAdded"`
	Method      consts.PaymentMethod     `bson:"method"`
	Reference   string                   `bson:"reference,omitempty"`
	Allocations []Allocation             `bson:"allocations"`
	LegacySeq   int64                    `bson:"legacySeq,omitempty"`
	FiscalYear  int                      `bson:"fiscalYear"`
	CreatedAt   time.Time                `bson:"createdAt"`
	ReversedAt  time.Time                `bson:"reversedAt,omitempty"`
}

type CreditEntry struct {
	Type          consts.CreditEntryType `bson:"type"`
	Amount        int64                  `bson:"amount"`
	TransactionID primitive.ObjectID     `bson:"transactionId,omitempty"`
	Note          string                 `bson:"note,omitempty"`
	At            time.Time              `bson:"at"`
}

// CreditBalance is the per-unit running overpayment balance with its
// append-only history.
type CreditBalance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ClientID  string             `bson:"clientId"`
	UnitID    string             `bson:"unitId"`
	Balance   int64              `bson:"balance"`
	History   []CreditEntry      `bson:"history"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type MeterReading struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	ClientID string             `bson:"clientId"`
	UnitID   string             `bson:"unitId"`
	Period   string             `bson:"period"`
	Reading  int64              `bson:"reading"`
	ReadAt   time.Time          `bson:"readAt"`
	Source   string             `bson:"source"`
}

// ImportMapping is one CrossRef row: a legacy transaction sequence number
// mapped to the transaction created for it during import.
type ImportMapping struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ClientID      string             `bson:"clientId"`
	LegacySeq     int64              `bson:"legacySeq"`
	TransactionID primitive.ObjectID `bson:"transactionId"`
	BatchID       string             `bson:"batchId"`
	ImportedAt    time.Time          `bson:"importedAt"`
}
