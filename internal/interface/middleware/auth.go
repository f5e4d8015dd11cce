package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-graphql-blog/internal/domain/identity"
)

const CtxUserIDKey = "userID"

// TokenVerifier returns the user id carried by a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// bearerToken returns the token part of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves the request identity from the bearer token and never
// rejects: a missing or invalid token yields an anonymous identity and the
// resolvers decide what that means. The identity travels on the request context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Anonymous()
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if uid, err := verifier.Verify(token); err == nil {
				id = identity.Authenticated(uid)
			}
		}
		if id.Authenticated {
			c.Set(CtxUserIDKey, id.UserID)
		}
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAuth rejects requests the gate did not authenticate. Used by plain HTTP endpoints.
func RequireAuth(onReject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity.FromContext(c.Request.Context()).Authenticated {
			onReject(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
