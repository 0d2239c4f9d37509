package session

import (
	"encoding/gob"

	"rx-vault/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginUser = "LOGIN_USER"
	flashKey  = "FLASH"
)

// FlashMessage is a one-shot notification rendered once after a redirect.
// Level is "error" or "success".
type FlashMessage struct {
	Level   string
	Message string
}

func init() {
	gob.Register(model.User{})
	gob.Register(FlashMessage{})
}

func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Set(loginUser, *user)
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie("rx-vault", "", -1, "/", "", false, true)
	return nil
}

// Flash queues a one-shot message to be shown on the next rendered page.
func Flash(c *gin.Context, level string, message string) error {
	s := sessions.Default(c)
	s.AddFlash(FlashMessage{Level: level, Message: message}, flashKey)
	return s.Save()
}

// PopFlashes drains and returns all queued flash messages.
func PopFlashes(c *gin.Context) []FlashMessage {
	s := sessions.Default(c)
	raw := s.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	// Flashes removes the values; persist the removal.
	if err := s.Save(); err != nil {
		return nil
	}
	messages := make([]FlashMessage, 0, len(raw))
	for _, item := range raw {
		if msg, ok := item.(FlashMessage); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
