package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/repository"
	apperrors "github.com/ceduni/cafe-sans-fil-sub001/pkg/util"
)

const (
	principalKey = "auth_principal"
	cafeKey      = "auth_cafe"
)

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// Username returns the caller's identity, or "" when absent.
func (p *Principal) Username() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Username
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	cafes  repository.CafeRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, cafes repository.CafeRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, cafes: cafes}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return apperrors.NewForbidden("account suspended")
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// RequireCafeAdmin gates café-management routes on the admin role.
// The café roster is re-read per request: role checks are always made
// against the latest snapshot, never a cached resolution.
func (m *AuthMiddleware) RequireCafeAdmin() fiber.Handler {
	return m.requireCafeRole(IsAdmin)
}

// RequireCafeStaff gates order-handling routes on member-or-above.
func (m *AuthMiddleware) RequireCafeStaff() fiber.Handler {
	return m.requireCafeRole(HasStaffAccess)
}

func (m *AuthMiddleware) requireCafeRole(allowed func(*domain.Cafe, string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		cafe, err := m.cafes.GetBySlug(c.Context(), c.Params("slug"))
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return apperrors.NewNotFound("cafe", nil)
			}
			return apperrors.MapError(err)
		}
		if !allowed(cafe, principal.Username()) {
			return apperrors.NewForbidden("insufficient role")
		}
		c.Locals(cafeKey, cafe)
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// CafeFromContext retrieves the café snapshot loaded by a role gate.
func CafeFromContext(c *fiber.Ctx) (*domain.Cafe, bool) {
	val := c.Locals(cafeKey)
	if val == nil {
		return nil, false
	}
	cafe, ok := val.(*domain.Cafe)
	return cafe, ok
}
