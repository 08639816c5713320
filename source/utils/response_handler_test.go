package utils

import (
	"commandcenter/source/schemas"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, http.StatusOK, "done", map[string]int{"n": 1}, 0)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"n":1},"message":"done"}`, rec.Body.String())
}

func TestSendResponseHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, http.StatusBadGateway, "mongo exploded", nil, CANNOT_BUILD_PROFIT_AND_LOSS)

	resp := schemas.ApiResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, SendInternalError(CANNOT_BUILD_PROFIT_AND_LOSS), resp.Message)
	assert.Contains(t, resp.Message, "Code: 8")
}

func TestSendResponseWithoutBody(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, http.StatusNoContent, "", nil, 0)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
