package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/domain/shared"
	"github.com/shopledger/backend/internal/infrastructure/auth"
	"github.com/shopledger/backend/internal/infrastructure/authz"
)

// UserService handles user management. SUPER_ADMIN may manage users of any
// shop; a shop ADMIN may only manage MANAGER and STAFF accounts of their
// own shop.
type UserService struct {
	userRepo  identity.UserRepository
	shopRepo  identity.ShopRepository
	policy    *authz.Policy
	hasher    *auth.PasswordHasher
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	shopRepo identity.ShopRepository,
	policy *authz.Policy,
	hasher *auth.PasswordHasher,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		shopRepo:  shopRepo,
		policy:    policy,
		hasher:    hasher,
		blacklist: blacklist,
		logger:    logger,
	}
}

// List retrieves users of one shop, or of all shops for an unscoped
// SUPER_ADMIN.
func (s *UserService) List(ctx context.Context, actor authz.Actor, shopID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}

	if shopID == uuid.Nil {
		if !s.policy.CanManageShops(actor.Role) {
			return nil, 0, shared.ErrForbidden
		}
		users, err := s.userRepo.FindAll(ctx, domainFilter)
		if err != nil {
			return nil, 0, err
		}
		return toUserResponses(users), int64(len(users)), nil
	}

	if err := s.policy.Authorize(actor.Role, authz.ActionManageStaff, shopID, actor.ShopID); err != nil {
		return nil, 0, err
	}
	users, err := s.userRepo.FindAllForShop(ctx, shopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForShop(ctx, shopID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toUserResponses(users), total, nil
}

// Create creates a user. SUPER_ADMIN chooses the target shop and role
// freely; a shop ADMIN creates MANAGER/STAFF accounts in their own shop
// only, regardless of what the request body claims.
func (s *UserService) Create(ctx context.Context, actor authz.Actor, req CreateUserRequest) (*UserResponse, error) {
	role := identity.Role(req.Role)
	var shopID *uuid.UUID

	if s.policy.CanManageShops(actor.Role) {
		shopID = req.ShopID
	} else {
		if err := s.policy.Authorize(actor.Role, authz.ActionManageStaff, actor.ShopID, actor.ShopID); err != nil {
			return nil, err
		}
		if role != identity.RoleManager && role != identity.RoleStaff {
			return nil, shared.NewDomainError("FORBIDDEN", "Shop admins may only create MANAGER or STAFF accounts")
		}
		own := actor.ShopID
		shopID = &own
	}

	if role.RequiresShop() {
		if shopID == nil || *shopID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_SHOP", "Role requires a shop binding")
		}
		if _, err := s.shopRepo.FindByID(ctx, *shopID); err != nil {
			return nil, err
		}
	} else {
		shopID = nil
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}
	user, err := identity.NewUser(req.Email, hash, req.Name, role, shopID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Update applies a partial update (name, role, active flag) to a user
func (s *UserService) Update(ctx context.Context, actor authz.Actor, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.loadManaged(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.UpdateProfile(*req.Name)
	}
	if req.Role != nil {
		newRole := identity.Role(*req.Role)
		if !s.policy.CanManageShops(actor.Role) && newRole == identity.RoleAdmin {
			return nil, shared.NewDomainError("FORBIDDEN", "Shop admins may not grant the ADMIN role")
		}
		if err := user.ChangeRole(newRole); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			user.Activate()
		} else {
			user.Deactivate()
			s.revokeSessions(ctx, user.ID)
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password for a managed user and revokes their
// outstanding sessions.
func (s *UserService) ResetPassword(ctx context.Context, actor authz.Actor, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.loadManaged(ctx, actor, userID)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.revokeSessions(ctx, user.ID)
	return nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, actor authz.Actor, userID uuid.UUID) error {
	user, err := s.loadManaged(ctx, actor, userID)
	if err != nil {
		return err
	}
	if user.ID == actor.UserID {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.revokeSessions(ctx, user.ID)
	return nil
}

// loadManaged fetches a user and checks the actor may manage them. The
// existence check runs first so callers cannot probe other shops' user IDs
// through the error: an out-of-scope user yields the same 403 whether it
// exists or not, and a missing one 404s only for callers who could have
// managed it.
func (s *UserService) loadManaged(ctx context.Context, actor authz.Actor, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.policy.CanManageShops(actor.Role) {
		return user, nil
	}
	if user.ShopID == nil {
		return nil, shared.ErrForbidden
	}
	if err := s.policy.Authorize(actor.Role, authz.ActionManageStaff, *user.ShopID, actor.ShopID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	// Covers the longest-lived credential kind, the 7 day refresh token.
	if err := s.blacklist.RevokeAllForUser(ctx, userID.String(), 7*24*time.Hour); err != nil {
		s.logger.Error("failed to revoke user sessions",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func toUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
