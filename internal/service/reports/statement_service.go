package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
	"github.com/mlandesman/SAMS-sub005/utils"
)

// StatementResult points at the generated statement object.
type StatementResult struct {
	ObjectName  string    `json:"objectName"`
	FiscalYear  int       `json:"fiscalYear"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// StatementService renders a client's fiscal-year account statement as CSV
// and stores it in the reports bucket.
type StatementService struct {
	clientCfgRepo interfaces.ClientConfigRepositoryInterface
	billsRepo     interfaces.BillsRepositoryInterface
	txnsRepo      interfaces.TransactionsRepositoryInterface
	gcs           interfaces.GcsInterface
}

func NewStatementService(
	clientCfgRepo interfaces.ClientConfigRepositoryInterface,
	billsRepo interfaces.BillsRepositoryInterface,
	txnsRepo interfaces.TransactionsRepositoryInterface,
	gcs interfaces.GcsInterface,
) *StatementService {
	return &StatementService{
		clientCfgRepo: clientCfgRepo,
		billsRepo:     billsRepo,
		txnsRepo:      txnsRepo,
		gcs:           gcs,
	}
}

// GenerateYearStatement builds the statement for one client and fiscal year
// and uploads it. The returned object name locates the CSV in the bucket.
func (s *StatementService) GenerateYearStatement(
	ctx context.Context,
	clientID string,
	fiscalYear int,
) (*StatementResult, error) {
	cfg, err := s.clientCfgRepo.GetClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"section", "unit", "category", "period", "date", "amount", "penalty", "paid", "outstanding", "status", "reference"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	rows := 0
	for _, category := range []consts.BillCategory{consts.CategoryHOADues, consts.CategoryWaterBill} {
		bills, err := s.billsRepo.ListForFiscalYear(ctx, clientID, category, fiscalYear)
		if err != nil {
			return nil, err
		}
		for i := range bills {
			billing.RefreshPenalty(&bills[i], cfg, now)
			bill := bills[i]
			record := []string{
				"bill",
				bill.UnitID,
				string(bill.Category),
				bill.Period,
				bill.DueDate.Format(consts.StatementDateFormat),
				utils.CentsToDisplay(bill.BaseAmount),
				utils.CentsToDisplay(bill.PenaltyAmount),
				utils.CentsToDisplay(bill.BasePaid + bill.PenaltyPaid),
				utils.CentsToDisplay(bill.Outstanding()),
				string(bill.Status),
				"",
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
			rows++
		}
	}

	txns, err := s.txnsRepo.ListForFiscalYear(ctx, clientID, fiscalYear)
	if err != nil {
		return nil, err
	}
	for _, txn := range txns {
		record := []string{
			"transaction",
			txn.UnitID,
			string(txn.Category),
			"",
			txn.CreatedAt.Format(consts.StatementDateFormat),
			utils.CentsToDisplay(txn.Amount),
			"",
			utils.CentsToDisplay(txn.Amount + txn.CreditUsed - txn.CreditAdded),
			"",
			string(txn.Status),
			txn.Reference,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s/%s/%d/statement_%s.csv",
		consts.GCSStatementFolder, clientID, fiscalYear, now.Format("20060102T150405"))
	if err := s.gcs.Upload(ctx, objectName, buf.Bytes(), "text/csv"); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, log_messages.SuccessStatementUploaded,
		slog.String("client_id", clientID),
		slog.Int("fiscal_year", fiscalYear),
		slog.String("object", objectName),
		slog.Int("rows", rows),
	)
	return &StatementResult{
		ObjectName:  objectName,
		FiscalYear:  fiscalYear,
		Rows:        rows,
		GeneratedAt: now,
	}, nil
}
