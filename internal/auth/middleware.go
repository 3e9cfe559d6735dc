package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RiderKey is the fiber locals key holding the verified rider id.
const RiderKey = "rider_id"

// Claims are issued by the account service; the rider is the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenQueryParam carries the token for clients that cannot set headers,
// such as browser websockets.
const TokenQueryParam = "access_token"

// RiderMiddleware verifies HS256 bearer tokens and stores the token
// subject under RiderKey.
func RiderMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Query(TokenQueryParam)
		}
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		riderID, err := riderFromToken(parser, token, secretBytes)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(RiderKey, riderID)
		return c.Next()
	}
}

// RiderID returns the rider stored by RiderMiddleware.
func RiderID(c *fiber.Ctx) string {
	id, _ := c.Locals(RiderKey).(string)
	return id
}

func riderFromToken(parser *jwt.Parser, token string, secret []byte) (string, error) {
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", errors.New("token invalid")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
