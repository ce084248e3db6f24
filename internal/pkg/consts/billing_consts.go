package consts

type BillCategory string

const (
	CategoryWaterBill BillCategory = "water_bill"
	CategoryHOADues   BillCategory = "hoa_dues"
)

type BillStatus string

const (
	BillStatusUnpaid  BillStatus = "unpaid"
	BillStatusPartial BillStatus = "partial"
	BillStatusPaid    BillStatus = "paid"
)

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeImport  TransactionType = "import"
)

type TransactionStatus string

const (
	TransactionStatusActive   TransactionStatus = "active"
	TransactionStatusReversed TransactionStatus = "reversed"
)

type CreditEntryType string

const (
	CreditEntryAdded    CreditEntryType = "added"
	CreditEntryUsed     CreditEntryType = "used"
	CreditEntryRestored CreditEntryType = "restored"
)

type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
	MethodCheck        PaymentMethod = "check"
	MethodSettlement   PaymentMethod = "settlement_feed"
)

const (
	// PeriodLayout is the canonical billing period key, e.g. "2026-03".
	PeriodLayout = "2006-01"

	StatementDateFormat   = "2006-01-02"
	FloatTwoDecimalFormat = "%.2f"

	MonthsPerFiscalYear = 12
)
