package consts

const (
	GCSStatementFolder   = "statements"
	StatementContentType = "text/csv"

	SFTPImportDir    = "/upload/import"
	SFTPProcessedDir = "/upload/processed"
)
