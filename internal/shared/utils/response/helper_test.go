package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"traveltix/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Set(logger.RequestIDKey, "req-42")

	Error(c, http.StatusConflict, "Booking is not redeemable", "status CANCELLED")

	require.Equal(t, http.StatusConflict, rec.Code)
	var body StandardApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, http.StatusConflict, body.StatusCode)
	assert.Equal(t, "req-42", body.RequestID)
	assert.Equal(t, "status CANCELLED", body.Errors)
	assert.Nil(t, body.Data)
}

func TestSuccessOmitsMissingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Success(c, http.StatusOK, "ok", gin.H{"id": "TICK-1"})

	assert.NotContains(t, rec.Body.String(), "request_id")
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
}
