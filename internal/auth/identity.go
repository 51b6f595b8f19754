package auth

import "github.com/gin-gonic/gin"

// Identity is the authenticated caller for one request. The session
// middleware resolves it from the cookie and stores it in the gin context;
// nothing below the routing layer reads ambient session state.
type Identity struct {
	UserID   uint
	Username string
	Role     Role
}

const identityKey = "auth.identity"

// SetIdentity attaches the resolved identity to the request context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by the session middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
