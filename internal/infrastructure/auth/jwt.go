package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/infrastructure/config"
)

// TokenType distinguishes the two credential kinds
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user id in claims")
	ErrMissingRole      = errors.New("missing role in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// AccessClaims is the identity payload of the short-lived access credential.
// ShopID is empty for SUPER_ADMIN users, who are not bound to a shop.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ShopID    string    `json:"shop_id,omitempty"`
	TokenType TokenType `json:"token_type"`
}

// RefreshClaims carries only the user ID. Role and shop binding are
// re-read from the database on refresh so that revoked roles or
// deactivated accounts cannot mint fresh access credentials.
type RefreshClaims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
}

// TokenPair is the result of issuing or rotating credentials
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// TokenCodec signs and verifies the two credential kinds with distinct
// HS256 secrets.
type TokenCodec struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
}

// NewTokenCodec creates a codec from JWT configuration
func NewTokenCodec(cfg config.JWTConfig) *TokenCodec {
	return &TokenCodec{
		accessSecret:      []byte(cfg.AccessSecret),
		refreshSecret:     []byte(cfg.RefreshSecret),
		accessExpiration:  cfg.AccessExpiration,
		refreshExpiration: cfg.RefreshExpiration,
		issuer:            cfg.Issuer,
	}
}

// IssueTokenPair mints an access and refresh credential for the user
func (c *TokenCodec) IssueTokenPair(user *identity.User) (*TokenPair, error) {
	now := time.Now()

	shopID := ""
	if user.ShopID != nil {
		shopID = user.ShopID.String()
	}

	accessClaims := &AccessClaims{
		RegisteredClaims: c.registered(user.ID, now, c.accessExpiration),
		UserID:           user.ID.String(),
		Email:            user.Email,
		Role:             string(user.Role),
		ShopID:           shopID,
		TokenType:        TokenTypeAccess,
	}
	accessToken, err := c.sign(accessClaims, c.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshClaims := &RefreshClaims{
		RegisteredClaims: c.registered(user.ID, now, c.refreshExpiration),
		TokenType:        TokenTypeRefresh,
	}
	refreshToken, err := c.sign(refreshClaims, c.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(c.accessExpiration),
		RefreshTokenExpiresAt: now.Add(c.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

func (c *TokenCodec) registered(userID uuid.UUID, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    c.issuer,
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{c.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func (c *TokenCodec) sign(claims jwt.Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccessToken verifies an access credential and returns its claims
func (c *TokenCodec) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(tokenString, claims, c.accessSecret); err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	role := identity.Role(claims.Role)
	if !role.IsValid() {
		return nil, ErrMissingRole
	}
	// Every role except SUPER_ADMIN must carry a shop binding.
	if role.RequiresShop() && claims.ShopID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// VerifyRefreshToken verifies a refresh credential and returns the user ID
// it was issued to.
func (c *TokenCodec) VerifyRefreshToken(tokenString string) (uuid.UUID, *RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.parse(tokenString, claims, c.refreshSecret); err != nil {
		return uuid.Nil, nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return uuid.Nil, nil, ErrInvalidTokenType
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, ErrInvalidClaims
	}
	return userID, claims, nil
}

func (c *TokenCodec) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidClaims
	}
	return nil
}

// UserUUID parses the user ID from access claims
func (c *AccessClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// ShopUUID parses the shop ID from access claims. Returns uuid.Nil with no
// error when the claims carry no shop binding.
func (c *AccessClaims) ShopUUID() (uuid.UUID, error) {
	if c.ShopID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(c.ShopID)
}

// RemainingTTL returns how long until the token expires; zero if already
// expired.
func RemainingTTL(expiresAt *jwt.NumericDate) time.Duration {
	if expiresAt == nil {
		return 0
	}
	remaining := time.Until(expiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AccessTokenExpiration exposes the configured access credential lifetime
func (c *TokenCodec) AccessTokenExpiration() time.Duration {
	return c.accessExpiration
}

// RefreshTokenExpiration exposes the configured refresh credential lifetime
func (c *TokenCodec) RefreshTokenExpiration() time.Duration {
	return c.refreshExpiration
}
