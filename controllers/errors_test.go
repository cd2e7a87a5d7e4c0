package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"socialnet-api/services"
	"socialnet-api/utils"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: post", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: already following", services.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: self", services.ErrInvalidOperation), http.StatusBadRequest},
		{&services.ValidationError{Fields: map[string]string{"content": "is required"}}, http.StatusBadRequest},
		{fmt.Errorf("%w: deadline", services.ErrTransient), http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		require.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}

func TestRespondErrorValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, &services.ValidationError{Fields: map[string]string{"name": "is required"}})

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "is required", body.Fields["name"])
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("dial tcp 10.0.0.3:3306: refused"))

	require.NotContains(t, w.Body.String(), "10.0.0.3")
	require.Len(t, c.Errors, 1)
}
