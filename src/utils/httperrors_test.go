package utils_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kitemate/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{utils.InvalidArgument("bad"), http.StatusBadRequest},
		{utils.NotFound("missing"), http.StatusNotFound},
		{utils.Unauthenticated("who"), http.StatusUnauthorized},
		{utils.PermissionDenied("no"), http.StatusForbidden},
		{utils.ResourceExhausted("quota"), http.StatusTooManyRequests},
		{utils.AlreadyExists("dup"), http.StatusConflict},
		{utils.InternalServerError("boom"), http.StatusInternalServerError},
		{utils.ServiceUnavailable("down"), http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		var httpErr *utils.HTTPError
		require.True(t, errors.As(c.err, &httpErr))
		assert.Equal(t, c.status, httpErr.HTTPStatus())
	}
}

func TestWriteError(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		w := httptest.NewRecorder()
		utils.WriteError(w, utils.ResourceExhausted("free plan allows at most 3 widgets"))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "resource_exhausted", body["code"])
		assert.Equal(t, "free plan allows at most 3 widgets", body["error"])
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		utils.WriteError(w, errors.New("oops"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "internal", body["code"])
	})
}
