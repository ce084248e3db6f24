package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

type ClientConfigRepositoryInterface interface {
	GetClientConfig(ctx context.Context, clientID string) (*models.ClientConfig, error)
}

type UnitsRepositoryInterface interface {
	GetUnit(ctx context.Context, clientID, unitID string) (*models.Unit, error)
	ListActiveUnits(ctx context.Context, clientID string) ([]models.Unit, error)
	UpsertUnit(ctx context.Context, unit *models.Unit) error
}

type BillsRepositoryInterface interface {
	GetByID(ctx context.Context, billID primitive.ObjectID) (*models.Bill, error)
	GetByPeriod(ctx context.Context, clientID, unitID string,
		category consts.BillCategory, period string) (*models.Bill, error)
	GetUnpaidBills(ctx context.Context, clientID, unitID string,
		category consts.BillCategory) ([]models.Bill, error)
	ListForFiscalYear(ctx context.Context, clientID string,
		category consts.BillCategory, fiscalYear int) ([]models.Bill, error)
	ExistsForPeriod(ctx context.Context, clientID, unitID string,
		category consts.BillCategory, period string) (bool, error)
	CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error)
	ApplyPayment(ctx context.Context, bill *models.Bill) error
	RestoreAllocation(ctx context.Context, billID primitive.ObjectID,
		basePaid, penaltyPaid int64, status consts.BillStatus) error
}

type TransactionsRepositoryInterface interface {
	CreateEntry(ctx context.Context, txn *models.Transaction) (primitive.ObjectID, error)
	GetByID(ctx context.Context, txnID primitive.ObjectID) (*models.Transaction, error)
	ListForFiscalYear(ctx context.Context, clientID string, fiscalYear int) ([]models.Transaction, error)
	MarkReversed(ctx context.Context, txnID primitive.ObjectID, at time.Time) error
}

type CreditRepositoryInterface interface {
	GetBalance(ctx context.Context, clientID, unitID string) (*models.CreditBalance, error)
	ApplyChange(ctx context.Context, clientID, unitID string,
		delta int64, entries []models.CreditEntry) error
}

type MeterReadingsRepositoryInterface interface {
	UpsertReading(ctx context.Context, reading *models.MeterReading) error
	GetUnitReading(ctx context.Context, clientID, unitID, period string) (*models.MeterReading, error)
	LatestBefore(ctx context.Context, clientID, unitID, period string) (*models.MeterReading, error)
}

type ImportMappingsRepositoryInterface interface {
	CreateMapping(ctx context.Context, mapping *models.ImportMapping) error
	GetByLegacySeq(ctx context.Context, clientID string, legacySeq int64) (*models.ImportMapping, error)
}
