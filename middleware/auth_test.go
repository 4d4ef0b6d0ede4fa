package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"projecthub/lifecycle"
	"projecthub/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type staticResolver map[string]*models.Actor

func (r staticResolver) ResolveActor(_ context.Context, externalID string) (*models.Actor, error) {
	if actor, ok := r[externalID]; ok {
		return actor, nil
	}
	return nil, lifecycle.ErrNotFound
}

func newAuthRouter(resolver IdentityResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(testSecret, resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, ActorFromContext(c))
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	actor := &models.Actor{ID: uuid.New(), Role: models.RoleUser}
	router := newAuthRouter(staticResolver{"auth0|known": actor})

	valid, err := IssueToken(testSecret, "auth0|known", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "auth0|known", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	require.NoError(t, err)
	unknown, err := IssueToken(testSecret, "auth0|stranger", jwt.RegisteredClaims{})
	require.NoError(t, err)
	foreign, err := IssueToken([]byte("other-secret"), "auth0|known", jwt.RegisteredClaims{})
	require.NoError(t, err)
	noSubject, err := IssueToken(testSecret, "", jwt.RegisteredClaims{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"malformed", "Bearer", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"unknown account", "Bearer " + unknown, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"no subject", "Bearer " + noSubject, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"error":"unauthenticated"`)
			} else {
				assert.Contains(t, w.Body.String(), actor.ID.String())
			}
		})
	}
}

func TestAuthRequired_RejectsOtherAlgorithms(t *testing.T) {
	router := newAuthRouter(staticResolver{"auth0|known": {ID: uuid.New(), Role: models.RoleUser}})

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "auth0|known"})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActorFromContext_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ActorFromContext(c))
}
