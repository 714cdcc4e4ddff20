package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// errAuth carries the message returned to the client on a 401.
type errAuth string

func (e errAuth) Error() string { return string(e) }

// AuthMiddleware verifies HS256 bearer tokens. Tokens are issued elsewhere;
// the subject becomes the acting user recorded as creator or approver.
func AuthMiddleware(jwtSecret, issuer string) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(parserOpts...)
	key := []byte(jwtSecret)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, err := authenticate(parser, key, c.GetHeader("Authorization"))
		if err != nil {
			logger.Warn("Request not authenticated", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
			msg := "Invalid token"
			var authErr errAuth
			if errors.As(err, &authErr) {
				msg = string(authErr)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		enriched := logger.With(slog.String("user_id", userID))
		c.Request = c.Request.WithContext(WithLogger(WithUserID(c.Request.Context(), userID), enriched))
		c.Next()
	}
}

// authenticate returns the subject of a valid "Bearer <token>" header.
func authenticate(parser *jwt.Parser, key []byte, header string) (string, error) {
	if header == "" {
		return "", errAuth("Authorization header required")
	}
	scheme, tokenString, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
		return "", errAuth("Authorization header format must be Bearer {token}")
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", errAuth("Token has expired")
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return "", errAuth("Token not valid yet")
		}
		return "", err
	}
	if claims.Subject == "" {
		return "", errAuth("Invalid token claims")
	}
	return claims.Subject, nil
}
