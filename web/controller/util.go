package controller

import (
	"net"
	"net/http"
	"strings"

	"rx-vault/logger"
	"rx-vault/web/session"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote
// address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// html renders an HTML template with the queued flash messages and the
// logged-in user, if any.
func html(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["flashes"] = session.PopFlashes(c)
	if user := session.GetLoginUser(c); user != nil {
		data["user"] = user
	}
	c.HTML(http.StatusOK, name, data)
}

// redirect sends a one-shot message and redirects, the post/redirect/get
// pattern every form handler here follows.
func redirect(c *gin.Context, location, level, message string) {
	if err := session.Flash(c, level, message); err != nil {
		logger.Warning("Unable to save flash message:", err)
	}
	c.Redirect(http.StatusFound, location)
}
