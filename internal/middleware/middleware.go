package middleware

import (
	"Food-Inventory-Backend/domain"
	"Food-Inventory-Backend/internal/api/presenters"
	"Food-Inventory-Backend/internal/utils"
	"Food-Inventory-Backend/pkg/jwt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	AccessTokenCookie = "accessToken"
	authUserKey       = "auth_user"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct {
		allowOrigins string
	}
)

func NewMiddleware() Middleware {
	return &middleware{allowOrigins: utils.GetConfig("CORS_ALLOW_ORIGINS")}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	origins := m.allowOrigins
	if origins == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
	})
}

// AuthMiddleware accepts a bearer token or the access token cookie and
// stores the resolved domain.AuthUser in the request locals.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(AccessTokenCookie)
		}
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		userID, err := jwtService.GetUserIDByToken(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals(authUserKey, domain.AuthUser{UserID: userID})
		return c.Next()
	}
}

// AuthUserFrom returns the user stored by AuthMiddleware. Outside of it the
// zero AuthUser is returned.
func AuthUserFrom(c *fiber.Ctx) domain.AuthUser {
	user, _ := c.Locals(authUserKey).(domain.AuthUser)
	return user
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
