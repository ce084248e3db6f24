package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// PaymentRequest records a manual payment against a unit's bills.
type PaymentRequest struct {
	UnitID    string `json:"unitId" validate:"required"`
	Category  string `json:"category" validate:"required,oneof=water_bill hoa_dues"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Method    string `json:"method" validate:"required,oneof=bank_transfer cash check settlement_feed"`
	Reference string `json:"reference"`
	UseCredit bool   `json:"useCredit"`
}

func (r *PaymentRequest) Validate() error {
	return validate.Struct(r)
}

type ReadingEntry struct {
	UnitID  string `json:"unitId" validate:"required"`
	Reading int64  `json:"reading" validate:"gte=0"`
}

// ReadingsRequest is a batch of meter readings for one period.
type ReadingsRequest struct {
	Period   string         `json:"period" validate:"required"`
	Source   string         `json:"source"`
	Readings []ReadingEntry `json:"readings" validate:"required,min=1,dive"`
}

func (r *ReadingsRequest) Validate() error {
	return validate.Struct(r)
}

type GenerateBillsRequest struct {
	Period string `json:"period" validate:"required"`
}

func (r *GenerateBillsRequest) Validate() error {
	return validate.Struct(r)
}

// LegacyAllocation is an allocation row inside a legacy transaction record.
// PeriodSeq cross-references the legacy bill by its sequence number.
type LegacyAllocation struct {
	Category    string `json:"category"`
	Period      string `json:"period"`
	BasePaid    int64  `json:"basePaid"`
	PenaltyPaid int64  `json:"penaltyPaid"`
}

type LegacyTransaction struct {
	Seq         int64              `json:"seq" validate:"required"`
	UnitID      string             `json:"unitId" validate:"required"`
	Category    string             `json:"category" validate:"required,oneof=water_bill hoa_dues"`
	Amount      int64              `json:"amount" validate:"gte=0"`
	CreditUsed  int64              `json:"creditUsed" validate:"gte=0"`
	CreditAdded int64              `json:"creditAdded" validate:"gte=0"`
	Method      string             `json:"method"`
	Reference   string             `json:"reference"`
	Date        string             `json:"date" validate:"required"`
	Allocations []LegacyAllocation `json:"allocations" validate:"dive"`
}

type LegacyBill struct {
	UnitID     string `json:"unitId" validate:"required"`
	Category   string `json:"category" validate:"required,oneof=water_bill hoa_dues"`
	Period     string `json:"period" validate:"required"`
	BaseAmount int64  `json:"baseAmount" validate:"gte=0"`
	Penalty    int64  `json:"penalty" validate:"gte=0"`
	DueDate    string `json:"dueDate"`
}

type LegacyUnit struct {
	UnitID           string `json:"unitId" validate:"required"`
	Owner            string `json:"owner"`
	DuesMonthlyCents int64  `json:"duesMonthlyAmount" validate:"gte=0"`
}

// ImportRequest is the legacy JSON import payload. When SFTPFile is set the
// payload is pulled from the SFTP drop directory instead of the body.
type ImportRequest struct {
	SFTPFile     string              `json:"sftpFile"`
	Units        []LegacyUnit        `json:"units" validate:"dive"`
	Bills        []LegacyBill        `json:"bills" validate:"dive"`
	Transactions []LegacyTransaction `json:"transactions" validate:"dive"`
}

func (r *ImportRequest) Validate() error {
	return validate.Struct(r)
}
