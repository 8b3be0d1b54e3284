package infolib

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorJSON(t *testing.T) {
	err := newAPIError(http.StatusNotFound, "Cannot get IP info", io.EOF)

	encoded, jsonErr := json.Marshal(err)

	assert.NoError(t, jsonErr)
	assert.JSONEq(t, `{"error": {"message": "Cannot get IP info", "context": "EOF"}}`, string(encoded))
	assert.Equal(t, http.StatusNotFound, err.Status())
	assert.Equal(t, "Cannot get IP info: EOF", err.Error())
	assert.ErrorIs(t, err, io.EOF)
}

func TestAPIErrorWithoutCause(t *testing.T) {
	err := newAPIError(0, "Query is required", nil)

	encoded, jsonErr := json.Marshal(err)

	assert.NoError(t, jsonErr)
	assert.JSONEq(t, `{"error": {"message": "Query is required", "context": ""}}`, string(encoded))
	assert.Equal(t, "Query is required", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.Status())
	assert.Nil(t, err.Unwrap())
}
