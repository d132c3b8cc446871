package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/auth"
)

// invalidCredentials is returned for every login failure so responses do
// not reveal whether the email exists.
var invalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")

// AuthService handles login, registration and credential lifecycle
type AuthService struct {
	userRepo  identity.UserRepository
	shopRepo  identity.ShopRepository
	registrar identity.Registrar
	codec     *auth.TokenCodec
	hasher    *auth.PasswordHasher
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	shopRepo identity.ShopRepository,
	registrar identity.Registrar,
	codec *auth.TokenCodec,
	hasher *auth.PasswordHasher,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		shopRepo:  shopRepo,
		registrar: registrar,
		codec:     codec,
		hasher:    hasher,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Login authenticates a user by email and password and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, invalidCredentials
	}
	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		return nil, invalidCredentials
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds when the timestamp write fails.
		s.logger.Warn("failed to record login time",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	tokens, err := s.codec.IssueTokenPair(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Register creates a new shop together with its first ADMIN user and logs
// them in. Both rows are written in one transaction.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	shop, err := identity.NewShop(req.ShopName, req.ShopSlug)
	if err != nil {
		return nil, err
	}
	slugTaken, err := s.shopRepo.ExistsBySlug(ctx, shop.Slug)
	if err != nil {
		return nil, err
	}
	if slugTaken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A shop with this slug already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}
	owner, err := identity.NewUser(req.Email, hash, req.Name, identity.RoleAdmin, &shop.ID)
	if err != nil {
		return nil, err
	}

	if err := s.registrar.CreateShopWithOwner(ctx, shop, owner); err != nil {
		return nil, err
	}
	s.logger.Info("shop registered",
		zap.String("shop_id", shop.ID.String()),
		zap.String("slug", shop.Slug))

	tokens, err := s.codec.IssueTokenPair(owner)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: ToUserResponse(owner), Tokens: tokens}, nil
}

// Refresh rotates a refresh credential: the old one is blacklisted and a
// fresh pair is issued. Role and shop binding are re-read from the database
// rather than trusted from the old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, claims, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	if s.blacklist != nil && claims.ID != "" {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Error("refresh revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token has been revoked")
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
		}
		return nil, err
	}
	if !user.Active {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is deactivated")
	}

	tokens, err := s.codec.IssueTokenPair(user)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil && claims.ID != "" {
		if ttl := auth.RemainingTTL(claims.ExpiresAt); ttl > 0 {
			if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
				s.logger.Error("failed to revoke rotated refresh token", zap.Error(err))
			}
		}
	}

	return &AuthResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Logout revokes the presented credentials. Both JTIs go on the blacklist
// for their remaining lifetimes; errors are logged, not surfaced.
func (s *AuthService) Logout(ctx context.Context, accessClaims *auth.AccessClaims, refreshToken string) {
	if s.blacklist == nil {
		return
	}
	if accessClaims != nil && accessClaims.ID != "" {
		if ttl := auth.RemainingTTL(accessClaims.ExpiresAt); ttl > 0 {
			if err := s.blacklist.Revoke(ctx, accessClaims.ID, ttl); err != nil {
				s.logger.Error("failed to revoke access token on logout", zap.Error(err))
			}
		}
	}
	if refreshToken != "" {
		if _, claims, err := s.codec.VerifyRefreshToken(refreshToken); err == nil && claims.ID != "" {
			if ttl := auth.RemainingTTL(claims.ExpiresAt); ttl > 0 {
				if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
					s.logger.Error("failed to revoke refresh token on logout", zap.Error(err))
				}
			}
		}
	}
}

// Me returns the current user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every outstanding credential of the user.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(user.PasswordHash, req.CurrentPassword); err != nil {
		return shared.NewDomainError("UNAUTHORIZED", "Current password is incorrect")
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeAllForUser(ctx, userID.String(), s.codec.RefreshTokenExpiration()); err != nil {
			s.logger.Error("failed to revoke sessions after password change",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return nil
}
