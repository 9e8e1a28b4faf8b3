package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, 201, map[string]string{"id": "org-1"})

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"org-1"}`, rec.Body.String())
}

func TestErrorUsesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "organization not found")

	assert.Equal(t, 404, rec.Code)
	assert.JSONEq(t, `{"error":"organization not found"}`, rec.Body.String())
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalError(rec, assert.AnError)

	assert.Equal(t, 500, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Coral Reach"}`))
	var p payload
	require.True(t, Decode(rec, req, &p))
	assert.Equal(t, "Coral Reach", p.Name)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	assert.False(t, Decode(rec, req, &p))
	assert.Equal(t, 400, rec.Code)
}
