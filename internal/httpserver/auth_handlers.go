package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	"storefront/internal/service/session"
)

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func signInHandler(svc authService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.SignInInput
		// Any sign-in failure, malformed input included, yields the same
		// refusal so the response never reveals which part was wrong.
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusUnauthorized, actionResponse{Success: false, Message: "Invalid email or password"})
			return
		}
		token, err := svc.SignIn(c.Request.Context(), in, sessionCartID(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, actionResponse{Success: false, Message: "Invalid email or password"})
			return
		}
		setSessionCookie(c, sessions, token)
		c.JSON(http.StatusOK, actionResponse{Success: true, Message: "Sign in successfully"})
	}
}

func signUpHandler(svc authService, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.SignUpInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, actionResponse{Success: false, Message: "Invalid input"})
			return
		}
		token, err := svc.SignUp(c.Request.Context(), in, sessionCartID(c))
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, actionResponse{Success: false, Message: "Email is already exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, actionResponse{Success: false, Message: err.Error()})
			return
		}
		setSessionCookie(c, sessions, token)
		c.JSON(http.StatusCreated, actionResponse{Success: true, Message: "User created successfully"})
	}
}

func signOutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(SessionTokenCookie, "", -1, "/", "", false, true)
		c.Status(http.StatusNoContent)
	}
}

func profileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentIdentity(c)
		if identity == nil {
			// The gate redirects anonymous requests before this runs.
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, identity)
	}
}

func setSessionCookie(c *gin.Context, sessions *session.Manager, token string) {
	c.SetCookie(SessionTokenCookie, token, sessions.TTLSeconds(), "/", "", false, true)
}
