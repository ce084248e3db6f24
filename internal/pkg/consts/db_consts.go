package consts

const ServiceName = "sams-billing"

const (
	ClientsCollection        = "clients"
	UnitsCollection          = "units"
	BillsCollection          = "bills"
	TransactionsCollection   = "transactions"
	CreditBalancesCollection = "creditBalances"
	MeterReadingsCollection  = "meterReadings"
	ImportMappingsCollection = "importMappings"
)
