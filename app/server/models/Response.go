package models

type ErrorMessage struct {
	Message string `json:"message"`
}

type LoginToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}
