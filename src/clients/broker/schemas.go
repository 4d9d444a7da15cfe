package broker

// SessionSchema is the broker's token-exchange response.
type SessionSchema struct {
	Status string `json:"status"`
	Data   struct {
		UserID      string `json:"user_id"`
		UserName    string `json:"user_name"`
		Email       string `json:"email"`
		AvatarURL   string `json:"avatar_url"`
		AccessToken string `json:"access_token"`
		PublicToken string `json:"public_token"`
	} `json:"data"`
}

// QuoteSchema is the broker's last-traded-price response, keyed by
// exchange:symbol.
type QuoteSchema struct {
	Status string `json:"status"`
	Data   map[string]struct {
		InstrumentToken int64   `json:"instrument_token"`
		LastPrice       float64 `json:"last_price"`
	} `json:"data"`
}
