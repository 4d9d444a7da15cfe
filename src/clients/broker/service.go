package broker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"kitemate/src/config"
	"kitemate/src/utils"
	requests "kitemate/src/utils/requests"
)

const quoteCacheTTL = time.Minute

type BrokerServiceClientI interface {
	LoginURL() string
	ExchangeRequestToken(ctx context.Context, requestToken string) (*SessionSchema, error)
	GetLastPrices(ctx context.Context, accessToken string, symbols []string) (map[string]float64, error)
}

// BrokerServiceClient is a struct that uses ExternalAPIService to interact with the broker API
type BrokerServiceClient struct {
	API        *requests.ExternalAPIService
	BaseURL    string
	LoginBase  string
	APIKey     string
	APISecret  string
	quoteCache *utils.Cache[float64]
}

// NewClient creates a new instance of BrokerServiceClient
func NewClient(cfg *config.Config) *BrokerServiceClient {
	return &BrokerServiceClient{
		API:        requests.NewExternalAPIService(nil),
		BaseURL:    cfg.ExternalClients.Broker.BaseURL,
		LoginBase:  cfg.ExternalClients.Broker.LoginURL,
		APIKey:     cfg.ExternalClients.Broker.APIKey,
		APISecret:  cfg.ExternalClients.Broker.APISecret,
		quoteCache: utils.NewCache[float64](),
	}
}

// LoginURL builds the broker's OAuth redirect URL.
func (s *BrokerServiceClient) LoginURL() string {
	return fmt.Sprintf("%s/connect/login?v=3&api_key=%s", s.LoginBase, url.QueryEscape(s.APIKey))
}

// ExchangeRequestToken trades the OAuth callback's request token for a broker
// session. The checksum is SHA-256 over api_key + request_token + api_secret.
func (s *BrokerServiceClient) ExchangeRequestToken(ctx context.Context, requestToken string) (*SessionSchema, error) {
	sum := sha256.Sum256([]byte(s.APIKey + requestToken + s.APISecret))

	form := url.Values{}
	form.Set("api_key", s.APIKey)
	form.Set("request_token", requestToken)
	form.Set("checksum", hex.EncodeToString(sum[:]))

	resp, err := s.API.PostForm(ctx, s.BaseURL+"/session/token", form, nil)
	if err != nil {
		return nil, utils.ServiceUnavailable("broker token endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusBadRequest {
		return nil, utils.Unauthenticated("request token is invalid or already used")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, utils.ServiceUnavailable(fmt.Sprintf("broker token endpoint returned %s", resp.Status))
	}

	var session SessionSchema
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode broker session: %w", err)
	}
	if session.Data.AccessToken == "" {
		return nil, utils.Unauthenticated("broker session has no access token")
	}
	return &session, nil
}

// GetLastPrices fetches last traded prices for the given symbols. Prices are
// cached in process for a minute.
func (s *BrokerServiceClient) GetLastPrices(ctx context.Context, accessToken string, symbols []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(symbols))

	var missing []string
	for _, symbol := range symbols {
		if price, ok := s.quoteCache.Get(symbol); ok {
			prices[symbol] = price
			continue
		}
		missing = append(missing, symbol)
	}
	if len(missing) == 0 {
		return prices, nil
	}

	params := url.Values{}
	for _, symbol := range missing {
		params.Add("i", "NSE:"+symbol)
	}

	resp, err := s.API.Get(ctx, s.BaseURL+"/quote/ltp", s.APIKey+":"+accessToken, params)
	if err != nil {
		return nil, utils.ServiceUnavailable("broker quote endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.ServiceUnavailable(fmt.Sprintf("broker quote endpoint returned %s", resp.Status))
	}

	var quotes QuoteSchema
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode broker quotes: %w", err)
	}

	for key, quote := range quotes.Data {
		symbol := key
		if idx := len("NSE:"); len(key) > idx && key[:idx] == "NSE:" {
			symbol = key[idx:]
		}
		prices[symbol] = quote.LastPrice
		s.quoteCache.Set(symbol, quote.LastPrice, quoteCacheTTL)
	}
	return prices, nil
}
