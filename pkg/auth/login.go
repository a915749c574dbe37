package auth

import (
	"crypto/subtle"
	"errors"
	"time"
)

// ErrInvalidCredentials is returned by Login for a wrong username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Token is an issued access token.
type Token struct {
	ExpiresAt   time.Time `json:"expires_at"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
}

// OperatorLogin exchanges the configured operator credentials for a token.
type OperatorLogin struct {
	jwt      *JWTService
	username string
	password string
}

// NewOperatorLogin creates an OperatorLogin for one operator account.
func NewOperatorLogin(svc *JWTService, username, password string) *OperatorLogin {
	return &OperatorLogin{jwt: svc, username: username, password: password}
}

// Login checks the credentials and issues an operator token.
func (l *OperatorLogin) Login(username, password string) (Token, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(l.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(l.password)) == 1
	if l.password == "" || !userOK || !passOK {
		return Token{}, ErrInvalidCredentials
	}

	signed, expiresAt, err := l.jwt.GenerateToken(username, []string{RoleOperator})
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}
