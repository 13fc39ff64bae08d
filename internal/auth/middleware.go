package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akumar/librarium/internal/entities"
)

const userContextKey = "auth.user"

// Middleware authenticates bearer tokens on protected routes.
type Middleware struct {
	service *Service
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireUser rejects requests without a valid bearer token and stores
// the resolved user in the request context.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireAdmin additionally rejects non-admin accounts.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": ErrAdminRequired.Error()})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func (m *Middleware) authenticate(c *gin.Context) (*entities.User, error) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, ErrAuthRequired
	}

	claims, err := m.service.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return m.service.User(claims)
}

// CurrentUser returns the authenticated user stored by the middleware.
// Handlers behind RequireUser/RequireAdmin can rely on ok being true.
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entities.User)
	return user, ok
}
