package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/consts"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/store/models"
)

func creditRouter(repo *mockCreditRepo) *gin.Engine {
	r := gin.New()
	handler := NewCreditHandler(repo)
	r.GET("/credit/:clientId/:unitId", handler.GetBalance)
	return r
}

func TestGetBalanceReturnsHistory(t *testing.T) {
	repo := new(mockCreditRepo)
	r := creditRouter(repo)

	repo.On("GetBalance", mock.Anything, "MTC", "PH-101").
		Return(&models.CreditBalance{
			ClientID: "MTC",
			UnitID:   "PH-101",
			Balance:  30000,
			History: []models.CreditEntry{
				{Type: consts.CreditEntryAdded, Amount: 30000, At: time.Now().UTC(), Note: "overpayment"},
			},
		}, nil)

	w := performRequest(t, r, http.MethodGet, "/credit/MTC/PH-101", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Balance int64                    `json:"balance"`
		History []map[string]interface{} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(30000), body.Balance)
	require.Len(t, body.History, 1)
	assert.Equal(t, "overpayment", body.History[0]["note"])
}

func TestGetBalanceDefaultsToZero(t *testing.T) {
	repo := new(mockCreditRepo)
	r := creditRouter(repo)

	repo.On("GetBalance", mock.Anything, "MTC", "PH-999").
		Return(nil, mongo.ErrNoDocuments)

	w := performRequest(t, r, http.MethodGet, "/credit/MTC/PH-999", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["balance"])
}
