package broker_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"kitemate/src/clients/broker"
	"kitemate/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *broker.BrokerServiceClient {
	cfg := &config.Config{}
	cfg.ExternalClients.Broker.BaseURL = baseURL
	cfg.ExternalClients.Broker.LoginURL = "https://broker.example.com"
	cfg.ExternalClients.Broker.APIKey = "test-key"
	cfg.ExternalClients.Broker.APISecret = "test-secret"
	return broker.NewClient(cfg)
}

func TestLoginURL(t *testing.T) {
	client := newTestClient("http://unused")
	assert.Equal(t, "https://broker.example.com/connect/login?v=3&api_key=test-key", client.LoginURL())
}

func TestExchangeRequestToken(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the checksum and decodes the session", func(t *testing.T) {
		sum := sha256.Sum256([]byte("test-key" + "req-token" + "test-secret"))
		expectedChecksum := hex.EncodeToString(sum[:])

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/session/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "test-key", r.PostForm.Get("api_key"))
			assert.Equal(t, "req-token", r.PostForm.Get("request_token"))
			assert.Equal(t, expectedChecksum, r.PostForm.Get("checksum"))

			fmt.Fprint(w, `{"status":"success","data":{"user_id":"AB1234","user_name":"Test User","email":"t@example.com","access_token":"atk"}}`)
		}))
		defer server.Close()

		session, err := newTestClient(server.URL).ExchangeRequestToken(ctx, "req-token")
		require.NoError(t, err)
		assert.Equal(t, "AB1234", session.Data.UserID)
		assert.Equal(t, "atk", session.Data.AccessToken)
	})

	t.Run("used token is unauthenticated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).ExchangeRequestToken(ctx, "stale-token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid or already used")
	})
}

func TestGetLastPrices(t *testing.T) {
	ctx := context.Background()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/quote/ltp", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "test-key:")

		fmt.Fprint(w, `{"status":"success","data":{"NSE:INFY":{"instrument_token":1,"last_price":1520.5}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	prices, err := client.GetLastPrices(ctx, "atk", []string{"INFY"})
	require.NoError(t, err)
	assert.Equal(t, 1520.5, prices["INFY"])

	// second lookup comes from the cache
	prices, err = client.GetLastPrices(ctx, "atk", []string{"INFY"})
	require.NoError(t, err)
	assert.Equal(t, 1520.5, prices["INFY"])
	assert.Equal(t, 1, calls)
}
