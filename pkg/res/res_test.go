package res

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessMergesPayload(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]any{"subscription": map[string]any{"id": "sub_1"}, "success": false}, http.StatusOK)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "sub_1", got["subscription"].(map[string]any)["id"])
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestErrorOmitsEmptyDetails(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, "boom", nil, http.StatusBadGateway)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, w.Body.String())
}
