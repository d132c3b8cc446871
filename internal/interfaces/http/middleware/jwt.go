package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/infrastructure/auth"
	"github.com/shopledger/backend/internal/infrastructure/logger"
	"github.com/shopledger/backend/internal/interfaces/http/dto"
)

// Context keys populated by the auth middleware
const (
	ClaimsKey     = "auth_claims"
	UserIDKey     = "auth_user_id"
	RoleKey       = "auth_role"
	ShopIDKey     = "auth_shop_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig configures the credential-checking middleware
type AuthConfig struct {
	Codec     *auth.TokenCodec
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Authenticate verifies the bearer access credential and stores its claims
// in the gin context. Blacklist failures are logged and ignored: revocation
// checking fails open so a Redis outage does not take down the API.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)

		claims, err := cfg.Codec.VerifyAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		if cfg.Blacklist != nil {
			ctx := c.Request.Context()
			if claims.ID != "" {
				revoked, err := cfg.Blacklist.IsRevoked(ctx, claims.ID)
				if err != nil {
					if cfg.Logger != nil {
						cfg.Logger.Error("token revocation check failed",
							zap.String("jti", claims.ID), zap.Error(err))
					}
				} else if revoked {
					abortUnauthorized(c, auth.ErrTokenRevoked)
					return
				}
			}
			if claims.IssuedAt != nil {
				revoked, err := cfg.Blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAt.Time)
				if err != nil {
					if cfg.Logger != nil {
						cfg.Logger.Error("user revocation check failed",
							zap.String("user_id", claims.UserID), zap.Error(err))
					}
				} else if revoked {
					abortUnauthorized(c, auth.ErrTokenRevoked)
					return
				}
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Set(ShopIDKey, claims.ShopID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrCodeUnauthorized
	message := "Authentication required"
	switch err {
	case auth.ErrExpiredToken:
		code = dto.ErrCodeTokenExpired
		message = "Token has expired"
	case auth.ErrTokenRevoked:
		code = dto.ErrCodeTokenInvalid
		message = "Token has been revoked"
	case auth.ErrInvalidToken, auth.ErrInvalidTokenType, auth.ErrInvalidClaims:
		code = dto.ErrCodeTokenInvalid
		message = "Invalid token"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// GetClaims retrieves the access claims stored by Authenticate
func GetClaims(c *gin.Context) *auth.AccessClaims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.AccessClaims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetRole retrieves the authenticated user's role
func GetRole(c *gin.Context) string {
	return c.GetString(RoleKey)
}

// GetShopID retrieves the shop bound to the credential; empty for
// SUPER_ADMIN.
func GetShopID(c *gin.Context) string {
	return c.GetString(ShopIDKey)
}
