package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
	"github.com/mlandesman/SAMS-sub005/utils"
)

// GenerationSummary reports one bill-generation run.
type GenerationSummary struct {
	ClientID string `json:"clientId"`
	Period   string `json:"period,omitempty"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
}

type WaterBillService struct {
	clientCfgRepo interfaces.ClientConfigRepositoryInterface
	unitsRepo     interfaces.UnitsRepositoryInterface
	billsRepo     interfaces.BillsRepositoryInterface
	readingsRepo  interfaces.MeterReadingsRepositoryInterface
	cache         interfaces.RedisStoreOperations
}

func NewWaterBillService(
	clientCfgRepo interfaces.ClientConfigRepositoryInterface,
	unitsRepo interfaces.UnitsRepositoryInterface,
	billsRepo interfaces.BillsRepositoryInterface,
	readingsRepo interfaces.MeterReadingsRepositoryInterface,
	cache interfaces.RedisStoreOperations,
) *WaterBillService {
	return &WaterBillService{
		clientCfgRepo: clientCfgRepo,
		unitsRepo:     unitsRepo,
		billsRepo:     billsRepo,
		readingsRepo:  readingsRepo,
		cache:         cache,
	}
}

// RecordReadings stores a batch of meter readings for one period.
func (s *WaterBillService) RecordReadings(
	ctx context.Context,
	clientID string,
	req *apimodels.ReadingsRequest,
) (int, error) {
	if _, err := utils.ParsePeriod(req.Period); err != nil {
		return 0, err
	}

	stored := 0
	now := time.Now().UTC()
	for _, entry := range req.Readings {
		reading := &models.MeterReading{
			ClientID: clientID,
			UnitID:   entry.UnitID,
			Period:   req.Period,
			Reading:  entry.Reading,
			ReadAt:   now,
			Source:   req.Source,
		}
		if err := s.readingsRepo.UpsertReading(ctx, reading); err != nil {
			return stored, err
		}
		stored++
	}

	logger.CtxInfo(ctx, log_messages.SuccessReadingsBatchProcessed,
		slog.String("client_id", clientID),
		slog.String("period", req.Period),
		slog.Int("stored", stored),
	)
	return stored, nil
}

// GenerateBills creates the water bills of one client/period from the stored
// meter readings. Units already billed for the period or without a reading
// are skipped, so the operation can be re-run safely.
func (s *WaterBillService) GenerateBills(
	ctx context.Context,
	clientID, period string,
) (*GenerationSummary, error) {
	periodStart, err := utils.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	cfg, err := s.clientCfgRepo.GetClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	units, err := s.unitsRepo.ListActiveUnits(ctx, clientID)
	if err != nil {
		return nil, err
	}

	dueDate, err := utils.DueDateFor(period, cfg.DueDay)
	if err != nil {
		return nil, err
	}
	fiscalYear := utils.FiscalYearOf(periodStart, cfg.FiscalYearStartMonth)

	summary := &GenerationSummary{ClientID: clientID, Period: period}
	for _, unit := range units {
		exists, err := s.billsRepo.ExistsForPeriod(ctx, clientID, unit.UnitID, consts.CategoryWaterBill, period)
		if err != nil {
			return summary, err
		}
		if exists {
			summary.Skipped++
			continue
		}

		current, err := s.readingsRepo.GetUnitReading(ctx, clientID, unit.UnitID, period)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				logger.CtxWarn(ctx, "No meter reading for unit, skipping bill",
					slog.String("unit_id", unit.UnitID), slog.String("period", period))
				summary.Skipped++
				continue
			}
			return summary, err
		}

		var prior int64
		if previous, err := s.readingsRepo.LatestBefore(ctx, clientID, unit.UnitID, period); err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				return summary, err
			}
		} else {
			prior = previous.Reading
		}

		consumption := current.Reading - prior
		if consumption < 0 {
			// Meter replacement or rollback; bill nothing rather than a
			// negative amount.
			logger.CtxWarn(ctx, "Negative consumption, billing zero",
				slog.String("unit_id", unit.UnitID),
				slog.Int64("prior", prior),
				slog.Int64("current", current.Reading),
			)
			consumption = 0
		}

		bill := &models.Bill{
			ClientID:       clientID,
			UnitID:         unit.UnitID,
			Category:       consts.CategoryWaterBill,
			Period:         period,
			FiscalYear:     fiscalYear,
			DueDate:        dueDate,
			BaseAmount:     consumption * cfg.WaterRatePerM3,
			Status:         consts.BillStatusUnpaid,
			PriorReading:   prior,
			CurrentReading: current.Reading,
			Consumption:    consumption,
			CreatedAt:      time.Now().UTC(),
		}
		if _, err := s.billsRepo.CreateBill(ctx, bill); err != nil {
			return summary, err
		}
		summary.Created++
	}

	if summary.Created > 0 {
		if err := s.cache.InvalidateYearData(ctx, clientID, consts.CategoryWaterBill, fiscalYear); err != nil {
			logger.CtxWarn(ctx, log_messages.ErrorInvalidatingYearDataCache,
				slog.String("client_id", clientID), slog.Int("fiscal_year", fiscalYear))
		}
	}

	logger.CtxInfo(ctx, log_messages.SuccessWaterBillsGenerated,
		slog.String("client_id", clientID),
		slog.String("period", period),
		slog.Int("created", summary.Created),
		slog.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// GenerateDuesSchedule creates the twelve HOA dues bills of a fiscal year
// for every active unit at its configured monthly amount.
func (s *WaterBillService) GenerateDuesSchedule(
	ctx context.Context,
	clientID string,
	fiscalYear int,
) (*GenerationSummary, error) {
	cfg, err := s.clientCfgRepo.GetClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	units, err := s.unitsRepo.ListActiveUnits(ctx, clientID)
	if err != nil {
		return nil, err
	}

	periods := utils.PeriodsForFiscalYear(fiscalYear, cfg.FiscalYearStartMonth)

	summary := &GenerationSummary{ClientID: clientID}
	for _, unit := range units {
		if unit.DuesMonthlyCents <= 0 {
			summary.Skipped += len(periods)
			continue
		}
		for _, period := range periods {
			exists, err := s.billsRepo.ExistsForPeriod(ctx, clientID, unit.UnitID, consts.CategoryHOADues, period)
			if err != nil {
				return summary, err
			}
			if exists {
				summary.Skipped++
				continue
			}

			dueDate, err := utils.DueDateFor(period, cfg.DueDay)
			if err != nil {
				return summary, err
			}

			bill := &models.Bill{
				ClientID:   clientID,
				UnitID:     unit.UnitID,
				Category:   consts.CategoryHOADues,
				Period:     period,
				FiscalYear: fiscalYear,
				DueDate:    dueDate,
				BaseAmount: unit.DuesMonthlyCents,
				Status:     consts.BillStatusUnpaid,
				CreatedAt:  time.Now().UTC(),
			}
			if _, err := s.billsRepo.CreateBill(ctx, bill); err != nil {
				return summary, err
			}
			summary.Created++
		}
	}

	if summary.Created > 0 {
		if err := s.cache.InvalidateYearData(ctx, clientID, consts.CategoryHOADues, fiscalYear); err != nil {
			logger.CtxWarn(ctx, log_messages.ErrorInvalidatingYearDataCache,
				slog.String("client_id", clientID), slog.Int("fiscal_year", fiscalYear))
		}
	}

	logger.CtxInfo(ctx, log_messages.SuccessDuesScheduleGenerated,
		slog.String("client_id", clientID),
		slog.Int("fiscal_year", fiscalYear),
		slog.Int("created", summary.Created),
	)
	return summary, nil
}

// PeriodKeyFor exposes the period a reading timestamp belongs to.
func PeriodKeyFor(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
