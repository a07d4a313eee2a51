package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/amare53/school-sub001/internal/dto"
)

func bindJSON(t *testing.T, body string, req interface{}) (bool, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return bindAndValidate(c, req), w
}

func TestBindMovementRequest(t *testing.T) {
	// Any non-empty reason is acceptable, including very short ones
	var req dto.RecordMovementRequest
	ok, _ := bindJSON(t, `{"direction":"out","amount":100,"reason":"NM"}`, &req)
	assert.True(t, ok)
	assert.Equal(t, "NM", req.Reason)

	var missing dto.RecordMovementRequest
	ok, w := bindJSON(t, `{"direction":"out","amount":100}`, &missing)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var badDirection dto.RecordMovementRequest
	ok, w = bindJSON(t, `{"direction":"sideways","amount":100,"reason":"x"}`, &badDirection)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBindPaymentRequestRejectsZeroAmount(t *testing.T) {
	var req dto.RecordPaymentRequest
	ok, w := bindJSON(t,
		`{"studentId":"6fa459ea-ee8a-3ca4-894e-db77e160355e","feeTypeId":"6fa459ea-ee8a-3ca4-894e-db77e160355e","amount":0,"paymentMode":"cash"}`,
		&req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
