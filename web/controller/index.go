package controller

import (
	"errors"
	"net/http"

	"rx-vault/logger"
	"rx-vault/web/service"
	"rx-vault/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request fields.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// IndexController handles the root, login and logout routes.
type IndexController struct {
	BaseController

	userService *service.UserService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup, userService *service.UserService) *IndexController {
	a := &IndexController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginPage)
	g.POST("/login", a.login)
	g.GET("/logout", a.logout)
}

// index redirects logged-in users to the dashboard and everyone else to the
// login page.
func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (a *IndexController) loginPage(c *gin.Context) {
	html(c, "login.html", nil)
}

// login verifies the submitted credentials and establishes the session.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		redirect(c, "/login", "error", "Email and password are required.")
		return
	}
	if form.Email == "" || form.Password == "" {
		redirect(c, "/login", "error", "Email and password are required.")
		return
	}

	user, err := a.userService.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Warningf("failed login for %q, IP: %s", form.Email, getRemoteIp(c))
			redirect(c, "/login", "error", err.Error())
			return
		}
		redirect(c, "/login", "error", "Login failed: "+err.Error())
		return
	}

	// The cookie only needs the identity fields, never the hash.
	sessionUser := *user
	sessionUser.PasswordHash = ""
	if err := session.SetLoginUser(c, &sessionUser); err != nil {
		logger.Warning("Unable to save session:", err)
		redirect(c, "/login", "error", "Login failed: could not establish session.")
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", sessionUser.Email, getRemoteIp(c))
	c.Redirect(http.StatusFound, "/dashboard")
}

// logout clears the session and returns to the login page.
func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out", user.Email)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/login")
}
