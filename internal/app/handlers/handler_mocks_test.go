package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
	"github.com/mlandesman/SAMS-sub005/internal/service/billing"
	cacheservice "github.com/mlandesman/SAMS-sub005/internal/service/cache"
	"github.com/mlandesman/SAMS-sub005/internal/service/importer"
	"github.com/mlandesman/SAMS-sub005/internal/service/reports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type mockPaymentRecorder struct{ mock.Mock }

func (m *mockPaymentRecorder) RecordPayment(ctx context.Context, clientID string,
	req *apimodels.PaymentRequest) (*models.Transaction, error) {
	args := m.Called(ctx, clientID, req)
	if txn := args.Get(0); txn != nil {
		return txn.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReverser struct{ mock.Mock }

func (m *mockReverser) ReverseTransaction(ctx context.Context, clientID string,
	txnID primitive.ObjectID) (*models.Transaction, error) {
	args := m.Called(ctx, clientID, txnID)
	if txn := args.Get(0); txn != nil {
		return txn.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockWaterService struct{ mock.Mock }

func (m *mockWaterService) RecordReadings(ctx context.Context, clientID string,
	req *apimodels.ReadingsRequest) (int, error) {
	args := m.Called(ctx, clientID, req)
	return args.Int(0), args.Error(1)
}

func (m *mockWaterService) GenerateBills(ctx context.Context, clientID, period string) (*billing.GenerationSummary, error) {
	args := m.Called(ctx, clientID, period)
	if s := args.Get(0); s != nil {
		return s.(*billing.GenerationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDuesService struct{ mock.Mock }

func (m *mockDuesService) GenerateDuesSchedule(ctx context.Context, clientID string,
	fiscalYear int) (*billing.GenerationSummary, error) {
	args := m.Called(ctx, clientID, fiscalYear)
	if s := args.Get(0); s != nil {
		return s.(*billing.GenerationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSummaries struct{ mock.Mock }

func (m *mockSummaries) GetYearSummary(ctx context.Context, clientID string,
	category consts.BillCategory, fiscalYear int) (*cacheservice.YearSummary, bool, error) {
	args := m.Called(ctx, clientID, category, fiscalYear)
	if s := args.Get(0); s != nil {
		return s.(*cacheservice.YearSummary), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

type mockTxnsRepo struct{ mock.Mock }

func (m *mockTxnsRepo) CreateEntry(ctx context.Context, txn *models.Transaction) (primitive.ObjectID, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockTxnsRepo) GetByID(ctx context.Context, txnID primitive.ObjectID) (*models.Transaction, error) {
	args := m.Called(ctx, txnID)
	if txn := args.Get(0); txn != nil {
		return txn.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTxnsRepo) ListForFiscalYear(ctx context.Context, clientID string, fiscalYear int) ([]models.Transaction, error) {
	args := m.Called(ctx, clientID, fiscalYear)
	if txns := args.Get(0); txns != nil {
		return txns.([]models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTxnsRepo) MarkReversed(ctx context.Context, txnID primitive.ObjectID, at time.Time) error {
	return m.Called(ctx, txnID, at).Error(0)
}

type mockCreditRepo struct{ mock.Mock }

func (m *mockCreditRepo) GetBalance(ctx context.Context, clientID, unitID string) (*models.CreditBalance, error) {
	args := m.Called(ctx, clientID, unitID)
	if b := args.Get(0); b != nil {
		return b.(*models.CreditBalance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCreditRepo) ApplyChange(ctx context.Context, clientID, unitID string,
	delta int64, entries []models.CreditEntry) error {
	return m.Called(ctx, clientID, unitID, delta, entries).Error(0)
}

type mockImportRunner struct{ mock.Mock }

func (m *mockImportRunner) RunImport(ctx context.Context, clientID string,
	req *apimodels.ImportRequest) (*importer.ImportResult, error) {
	args := m.Called(ctx, clientID, req)
	if r := args.Get(0); r != nil {
		return r.(*importer.ImportResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStatementGenerator struct{ mock.Mock }

func (m *mockStatementGenerator) GenerateYearStatement(ctx context.Context, clientID string,
	fiscalYear int) (*reports.StatementResult, error) {
	args := m.Called(ctx, clientID, fiscalYear)
	if r := args.Get(0); r != nil {
		return r.(*reports.StatementResult), args.Error(1)
	}
	return nil, args.Error(1)
}
