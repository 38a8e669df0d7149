package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryansh/mediarater/internal/apperr"
	"github.com/ryansh/mediarater/internal/auth"
)

// LoginPage renders the login form; signed-in users go back to the listing
func (h *Handlers) LoginPage(c *gin.Context) {
	if auth.IsAuthenticated(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.tmpl", gin.H{})
}

// Login checks credentials against the seeded admin account. Failures get
// one generic message; usernames are never confirmed or denied.
func (h *Handlers) Login(c *gin.Context) {
	if err := parseForm(c); err != nil {
		h.renderError(c, err)
		return
	}

	username := c.Request.PostForm.Get("username")
	password := c.Request.PostForm.Get("password")

	user, err := h.store.GetUserByUsername(username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, password) {
		h.log.Info("failed login attempt", "remote", c.ClientIP())
		h.renderError(c, apperr.Auth("invalid username or password"))
		return
	}

	if err := auth.SignIn(c, user.ID); err != nil {
		h.renderError(c, apperr.Wrap(apperr.ErrorTypeInternal, "failed to start session", err))
		return
	}

	h.log.Info("admin signed in", "username", user.Username)
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "signed in"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session
func (h *Handlers) Logout(c *gin.Context) {
	if err := auth.SignOut(c); err != nil {
		h.renderError(c, apperr.Wrap(apperr.ErrorTypeInternal, "failed to clear session", err))
		return
	}
	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}
