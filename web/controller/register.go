package controller

import (
	"errors"

	"rx-vault/logger"
	"rx-vault/web/service"

	"github.com/gin-gonic/gin"
)

// RegisterForm represents the registration request fields.
type RegisterForm struct {
	Email    string `form:"email"`
	Username string `form:"username"`
	Age      string `form:"age"`
	Password string `form:"password"`
}

// RegisterController handles account creation.
type RegisterController struct {
	BaseController

	userService *service.UserService
}

// NewRegisterController creates a new RegisterController and initializes its
// routes.
func NewRegisterController(g *gin.RouterGroup, userService *service.UserService) *RegisterController {
	a := &RegisterController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *RegisterController) initRouter(g *gin.RouterGroup) {
	g.GET("/register", a.registerPage)
	g.POST("/register", a.register)
}

func (a *RegisterController) registerPage(c *gin.Context) {
	html(c, "register.html", nil)
}

// register validates the form and persists the new user. Validation messages
// are flashed verbatim; remote failures are wrapped.
func (a *RegisterController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		redirect(c, "/register", "error", "All fields are required.")
		return
	}

	err := a.userService.Register(c.Request.Context(), form.Email, form.Username, form.Age, form.Password)
	if err != nil {
		var verr service.ValidationError
		if errors.As(err, &verr) {
			redirect(c, "/register", "error", verr.Error())
			return
		}
		logger.Warning("registration failed:", err)
		redirect(c, "/register", "error", "Registration failed: "+err.Error())
		return
	}

	redirect(c, "/login", "success", "Registration successful. Please login.")
}
