package middleware

import (
	"strings"

	"investportal-backend/internal/application/auth"
	"investportal-backend/internal/pkg/constants"
	"investportal-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// Actor is the authenticated caller, taken from the bearer token.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == constants.Admin
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// RequireAuth verifies the Authorization bearer token and stores the Actor in Locals.
// Returns 401 if the token is missing, invalid, expired, or carries an unknown role.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := verifier.Verify(bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			return response.Unauthorized(c, err.Error())
		}
		userID, err := claims.UserID()
		if err != nil || !constants.IsValidRole(claims.Role) {
			return response.Unauthorized(c, auth.ErrInvalidToken.Error())
		}
		c.Locals(userLocal, &Actor{UserID: userID, Role: claims.Role})
		return c.Next()
	}
}

// GetActor returns the authenticated Actor (nil if RequireAuth did not run).
func GetActor(c *fiber.Ctx) *Actor {
	a, _ := c.Locals(userLocal).(*Actor)
	return a
}

// RequireSelfOrAdmin lets the request through when the :param path user is the caller or the
// caller is an admin. Investors cannot act on another user's resources.
func RequireSelfOrAdmin(param string) fiber.Handler {
	return requireSelf(param, true)
}

// RequireSelf admits only the :param path user. Admins get no bypass: owner-only mutations
// stay with the owner.
func RequireSelf(param string) fiber.Handler {
	return requireSelf(param, false)
}

func requireSelf(param string, adminBypass bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if adminBypass && actor.IsAdmin() {
			return c.Next()
		}
		pathUser, err := uuid.Parse(c.Params(param))
		if err != nil || pathUser != actor.UserID {
			return response.Error(c, "User is Forbidden from performing this action", fiber.StatusForbidden)
		}
		return c.Next()
	}
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
