package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apimodels "github.com/mlandesman/SAMS-sub005/internal/pkg/models"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

func paymentsRouter(service PaymentRecorder) *gin.Engine {
	r := gin.New()
	handler := NewPaymentsHandler(service)
	r.POST("/clients/:clientId/payments", handler.RecordPayment)
	return r
}

func TestRecordPaymentReturnsTransaction(t *testing.T) {
	service := new(mockPaymentRecorder)
	r := paymentsRouter(service)

	txnID := primitive.NewObjectID()
	service.On("RecordPayment", mock.Anything, "MTC", mock.MatchedBy(func(req *apimodels.PaymentRequest) bool {
		return req.UnitID == "PH-101" && req.Amount == 45000 && req.UseCredit
	})).Return(&models.Transaction{
		ID:     txnID,
		Status: consts.TransactionStatusActive,
		Amount: 45000,
	}, nil)

	w := performRequest(t, r, http.MethodPost, "/clients/MTC/payments", apimodels.PaymentRequest{
		UnitID:    "PH-101",
		Category:  "hoa_dues",
		Amount:    45000,
		Method:    "cash",
		UseCredit: true,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, txnID.Hex(), body["transactionId"])
	assert.Equal(t, float64(45000), body["amount"])
	service.AssertExpectations(t)
}

func TestRecordPaymentRejectsInvalidBody(t *testing.T) {
	service := new(mockPaymentRecorder)
	r := paymentsRouter(service)

	w := performRequest(t, r, http.MethodPost, "/clients/MTC/payments", apimodels.PaymentRequest{
		UnitID:   "PH-101",
		Category: "hoa_dues",
		Amount:   -5,
		Method:   "cash",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "RecordPayment")
}

func TestRecordPaymentUnknownClient(t *testing.T) {
	service := new(mockPaymentRecorder)
	r := paymentsRouter(service)

	service.On("RecordPayment", mock.Anything, "ZZZ", mock.Anything).
		Return(nil, mongo.ErrNoDocuments)

	w := performRequest(t, r, http.MethodPost, "/clients/ZZZ/payments", apimodels.PaymentRequest{
		UnitID:   "PH-101",
		Category: "hoa_dues",
		Amount:   100,
		Method:   "cash",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}
