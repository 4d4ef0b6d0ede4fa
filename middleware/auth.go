package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"projecthub/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const actorKey = "actor"

// IdentityResolver maps the identity provider's user id to an internal actor.
type IdentityResolver interface {
	ResolveActor(ctx context.Context, externalID string) (*models.Actor, error)
}

// Claims are the identity provider's token claims. The subject is the
// external user id; roles come from the internal account, not the token.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthRequired validates the bearer token, resolves the caller and stores
// the actor in the context for handlers to use.
func AuthRequired(secret []byte, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			unauthenticated(c, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthenticated(c, "invalid authorization format")
			return
		}

		externalID, err := parseSubject(parts[1], secret)
		if err != nil {
			logrus.WithError(err).Debug("token rejected")
			unauthenticated(c, "invalid token")
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), externalID)
		if err != nil {
			logrus.WithError(err).WithField("external_id", externalID).Debug("identity not resolved")
			unauthenticated(c, "unknown account")
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

func parseSubject(token string, secret []byte) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("token is not valid")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// IssueToken signs a token for externalID. The identity provider normally
// does this; it is used by tests and local tooling.
func IssueToken(secret []byte, externalID string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = externalID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: claims})
	return token.SignedString(secret)
}

// ActorFromContext returns the resolved caller, or nil.
func ActorFromContext(c *gin.Context) *models.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*models.Actor)
	return actor
}

func unauthenticated(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "message": message})
	c.Abort()
}
