package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appidentity "github.com/shopledger/backend/internal/application/identity"
	"github.com/shopledger/backend/internal/infrastructure/auth"
	"github.com/shopledger/backend/internal/infrastructure/config"
	"github.com/shopledger/backend/internal/interfaces/http/middleware"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token
const RefreshCookieName = "refresh_token"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookieCfg   config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *appidentity.AuthService, cookieCfg config.CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookieCfg: cookieCfg}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.Tokens)
	h.Success(c, resp)
}

// Register handles POST /auth/register. It creates a shop and its first
// ADMIN user in one transaction and signs the new admin in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req appidentity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.Tokens)
	h.Created(c, resp)
}

// Refresh handles POST /auth/refresh. The refresh token comes from the
// HTTP-only cookie, with a JSON body fallback for non-browser clients.
// Both tokens rotate; the old refresh token is revoked.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.refreshToken(c)
	if token == "" {
		h.Unauthorized(c, "Refresh token required")
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.Tokens)
	h.Success(c, resp)
}

// Logout handles POST /auth/logout. Both the access token and the refresh
// cookie are revoked; logout never fails visibly.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), middleware.GetClaims(c), h.refreshToken(c))
	h.clearRefreshCookie(c)
	h.Success(c, gin.H{"message": "Logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.authService.Me(c.Request.Context(), caller.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword handles PUT /auth/password. All existing sessions are
// revoked afterwards.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), caller.UserID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.clearRefreshCookie(c)
	h.Success(c, gin.H{"message": "Password changed"})
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(RefreshCookieName); err == nil && token != "" {
		return token
	}
	var body refreshBody
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, tokens *auth.TokenPair) {
	if tokens == nil {
		return
	}
	maxAge := int(time.Until(tokens.RefreshTokenExpiresAt).Seconds())
	c.SetSameSite(h.sameSite())
	c.SetCookie(RefreshCookieName, tokens.RefreshToken, maxAge,
		h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(h.sameSite())
	c.SetCookie(RefreshCookieName, "", -1,
		h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func (h *AuthHandler) sameSite() http.SameSite {
	switch h.cookieCfg.SameSite {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
