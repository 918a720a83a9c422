package httpserver

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/service/session"
)

const (
	// SessionCartCookie identifies the anonymous cart.
	SessionCartCookie = "sessionCartId"
	// SessionTokenCookie carries the signed session token.
	SessionTokenCookie = "session"
	// SignInPath is where unauthenticated requests to protected paths land.
	SignInPath = "/sign-in"

	identityKey    = "identity"
	sessionCartKey = "sessionCartId"

	sessionCartCookieMaxAge = 30 * 24 * 60 * 60
)

// protectedPaths require an authenticated identity.
var protectedPaths = []*regexp.Regexp{
	regexp.MustCompile(`/shipping-address`),
	regexp.MustCompile(`/payment-method`),
	regexp.MustCompile(`/place-order`),
	regexp.MustCompile(`/profile`),
	regexp.MustCompile(`/user/.*`),
	regexp.MustCompile(`/order/.*`),
	regexp.MustCompile(`/admin`),
}

// authGate runs on every request. It projects the session token into the
// current identity, denies anonymous access to protected paths, and lazily
// provisions the anonymous session-cart cookie so every later cart action
// can count on one existing.
func authGate(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionTokenCookie)
		identity := sessions.Identity(token)
		if identity != nil {
			c.Set(identityKey, identity)
		}

		if identity == nil && isProtected(c.Request.URL.Path) {
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
			return
		}

		if _, err := c.Cookie(SessionCartCookie); err != nil {
			id := uuid.NewString()
			c.SetCookie(SessionCartCookie, id, sessionCartCookieMaxAge, "/", "", false, true)
			c.Set(sessionCartKey, id)
		}

		c.Next()
	}
}

func isProtected(path string) bool {
	for _, p := range protectedPaths {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

// currentIdentity returns the identity the gate attached, or nil when
// anonymous.
func currentIdentity(c *gin.Context) *domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*domain.Identity); ok {
			return identity
		}
	}
	return nil
}

// sessionCartID returns the session-cart identifier for this request,
// preferring one the gate just provisioned over the request cookie.
func sessionCartID(c *gin.Context) string {
	if v, ok := c.Get(sessionCartKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	if id, err := c.Cookie(SessionCartCookie); err == nil {
		return id
	}
	return ""
}
