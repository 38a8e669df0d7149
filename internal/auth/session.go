package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/ryansh/mediarater/internal/config"
)

const (
	sessionName    = "mediarater_session"
	sessionUserKey = "user_id"
)

// SessionMiddleware returns the cookie-backed session middleware
func SessionMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionName, store)
}

// SignIn records the authenticated user id in the session
func SignIn(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}

// SignOut clears the session
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// CurrentUserID returns the signed-in user id, if any
func CurrentUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	val := session.Get(sessionUserKey)
	if val == nil {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

// IsAuthenticated reports whether the request carries a signed-in session
func IsAuthenticated(c *gin.Context) bool {
	_, ok := CurrentUserID(c)
	return ok
}

// RequireAuth guards write routes; anonymous requests are redirected to the
// login page
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
