package middleware

import (
	"errors"
	"log/slog"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kbhub/txledger/pkg/servicetoken"
)

const (
	tokenKey   = "serviceToken"
	serviceKey = "callingService"
)

// ServiceAuth rejects requests that do not carry a valid service token.
// Signature and expiry are checked by jwtware; audience and the caller
// allow-list by the verifier.
func ServiceAuth(verifier *servicetoken.Verifier, logger *slog.Logger) fiber.Handler {
	logger = logger.With("middleware", "service-auth")
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    verifier.Secret(),
		},
		Claims:     &servicetoken.Claims{},
		ContextKey: tokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok {
				return fiber.NewError(fiber.StatusUnauthorized, servicetoken.ErrInvalidToken.Error())
			}
			claims, _ := token.Claims.(*servicetoken.Claims)
			if err := verifier.Authorize(claims); err != nil {
				logger.Warn("service credential rejected", "path", c.Path(), "reason", err)
				return authError(err)
			}
			c.Locals(serviceKey, claims.Service())
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Warn("service credential rejected", "path", c.Path(), "reason", err)
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return fiber.NewError(fiber.StatusUnauthorized, servicetoken.ErrMissingToken.Error())
			}
			return fiber.NewError(fiber.StatusUnauthorized, servicetoken.ErrInvalidToken.Error())
		},
	})
}

// CallingService returns the authenticated caller set by ServiceAuth.
func CallingService(c *fiber.Ctx) string {
	s, _ := c.Locals(serviceKey).(string)
	return s
}

func authError(err error) error {
	if servicetoken.IsUnauthorized(err) {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	return fiber.NewError(fiber.StatusForbidden, err.Error())
}
