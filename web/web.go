// Package web provides the web server of the rx-vault panel: routing,
// templates, static assets, sessions and the wiring of controllers to the
// remote database and storage clients.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"

	"rx-vault/config"
	"rx-vault/database"
	"rx-vault/logger"
	"rx-vault/storage"
	"rx-vault/util/common"
	"rx-vault/web/controller"
	"rx-vault/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

//go:embed assets
var assetsFS embed.FS

//go:embed html/*
var htmlFS embed.FS

// Server is the rx-vault web server. All durable state lives in the remote
// provider; the server itself only holds the listener and the wired
// controllers.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	cfg *config.Config

	index    *controller.IndexController
	register *controller.RegisterController
	rx       *controller.RxController

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{cfg: cfg, ctx: ctx, cancel: cancel}
}

// initRouter initializes Gin, registers middleware, templates, static assets
// and controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if s.cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	store := cookie.NewStore([]byte(s.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0, // session cookie, dropped when the browser closes
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions("rx-vault", store))

	tpl, err := template.ParseFS(htmlFS, "html/*.html")
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tpl)

	engine.GET("/style.css", func(c *gin.Context) {
		c.FileFromFS("assets/style.css", http.FS(assetsFS))
	})
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	dbClient := database.NewClient(s.cfg)
	storageClient := storage.NewClient(s.cfg)

	userService := service.NewUserService(dbClient)
	rxService := service.NewPrescriptionService(storageClient, dbClient)

	g := engine.Group("/")
	s.index = controller.NewIndexController(g, userService)
	s.register = controller.NewRegisterController(g, userService)
	s.rx = controller.NewRxController(g, rxService, s.cfg.MaxUploadBytes(), s.cfg.MaxUploadMB)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.cfg.Port))
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	return nil
}

// Stop gracefully shuts down the web server.
func (s *Server) Stop() error {
	s.cancel()
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(context.Background())
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if errors.Is(err2, net.ErrClosed) {
			// Shutdown already closed it.
			err2 = nil
		}
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }
