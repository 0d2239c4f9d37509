// Package controller provides the HTTP request handlers of the rx-vault
// panel: registration, login, the upload dashboard and the listing page.
package controller

import (
	"net/http"

	"rx-vault/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers, including
// the authentication check.
type BaseController struct{}

// checkLogin is a middleware that redirects unauthenticated requests to the
// login page instead of invoking the handler.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}
