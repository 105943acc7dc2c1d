package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	mw "site_cms/internal/middleware"
	httprouters "site_cms/internal/transport/http"
)

type Config struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	SessionSecret string
	SessionMaxAge time.Duration
	TokenSecret   string
	CORSOrigins   []string
	// UploadsDir is served under UploadsURL when files are kept on local disk.
	UploadsDir string
	UploadsURL string
}

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

type Server struct {
	m        *http.ServeMux
	log      *slog.Logger
	e        *echo.Echo
	routers  *httprouters.Routers
	recorder mw.ActivityRecorder
	checks   map[string]HealthFunc
	cfg      Config
}

func New(
	log *slog.Logger,
	cfg Config,
	routers *httprouters.Routers,
	recorder mw.ActivityRecorder,
	checks map[string]HealthFunc,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Validator = httprouters.NewValidator()

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{echo.GET, echo.PUT, echo.POST, echo.DELETE, echo.OPTIONS},
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(middleware.Recover())
	e.Use(mw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(mw.Identify(cfg.TokenSecret))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:        mux,
		log:      log,
		e:        e,
		routers:  routers,
		recorder: recorder,
		checks:   checks,
		cfg:      cfg,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("port", s.cfg.Port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(net.JoinHostPort(s.cfg.Host, s.cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) health(c echo.Context) error {
	status := map[string]string{}
	code := http.StatusOK

	for name, check := range s.checks {
		if err := check(c.Request().Context()); err != nil {
			s.log.Warn("health check failed", slog.String("dependency", name), slog.String("error", err.Error()))
			status[name] = "down"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "up"
	}

	return c.JSON(code, map[string]any{"status": http.StatusText(code), "checks": status})
}

func (s *Server) audit(entity string) echo.MiddlewareFunc {
	return mw.Audit(entity, s.log, s.recorder)
}

func (s *Server) BuildRouters() {
	r := s.routers

	s.e.GET("/health", s.health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	if s.cfg.UploadsDir != "" {
		s.e.Static(s.cfg.UploadsURL, s.cfg.UploadsDir)
	}

	api := s.e.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.Login)
			auth.POST("/logout", r.Logout)
			auth.GET("/me", r.Me, mw.RequireAuth)
		}

		pages := api.Group("/pages")
		{
			pages.GET("", r.ListPages)
			pages.GET("/:slug", r.GetPage)
			pages.POST("", r.CreatePage, mw.RequireAdmin, s.audit("page"))
			pages.DELETE("/:slug", r.DeletePage, mw.RequireAdmin, s.audit("page"))
			pages.PUT("/:slug/sections/order", r.ReorderSections, mw.RequireAuth, s.audit("page"))
		}

		sections := api.Group("/sections", mw.RequireAuth)
		{
			sections.POST("", r.CreateSection, s.audit("section"))
			sections.POST("/parse", r.ParseContent)
			sections.PUT("/:id", r.UpdateSection, s.audit("section"))
			sections.DELETE("/:id", r.DeleteSection, s.audit("section"))
			sections.GET("/:id/form", r.SectionForm)
			sections.POST("/:id/array-item", r.NewArrayItem)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", r.ListPosts)
			posts.GET("/feed", r.Feed)
			posts.GET("/:slug", r.GetPost)
			posts.POST("", r.CreatePost, mw.RequireAuth, s.audit("post"))
			posts.PUT("/:slug", r.UpdatePost, mw.RequireAuth, s.audit("post"))
			posts.DELETE("/:slug", r.DeletePost, mw.RequireAuth, s.audit("post"))
		}

		categories := api.Group("/categories")
		{
			categories.GET("", r.ListCategories)
			categories.POST("", r.CreateCategory, mw.RequireAuth, s.audit("category"))
			categories.PUT("/:id", r.UpdateCategory, mw.RequireAuth, s.audit("category"))
			categories.DELETE("/:id", r.DeleteCategory, mw.RequireAuth, s.audit("category"))
		}

		menus := api.Group("/menus")
		{
			menus.GET("", r.ListMenus)
			menus.POST("", r.CreateMenu, mw.RequireAdmin, s.audit("menu"))
			menus.DELETE("/:id", r.DeleteMenu, mw.RequireAdmin, s.audit("menu"))
		}

		items := api.Group("/menu-items")
		{
			items.GET("", r.MenuTree)
			items.POST("", r.CreateMenuItem, mw.RequireAdmin, s.audit("menu_item"))
			items.PUT("/order", r.ReorderMenuItems, mw.RequireAdmin, s.audit("menu_item"))
			items.PUT("/:id", r.UpdateMenuItem, mw.RequireAdmin, s.audit("menu_item"))
			items.DELETE("/:id", r.DeleteMenuItem, mw.RequireAdmin, s.audit("menu_item"))
		}

		api.GET("/settings", r.GetSettings)
		api.PUT("/settings", r.UpdateSettings, mw.RequireAdmin, s.audit("settings"))

		users := api.Group("/users", mw.RequireAdmin)
		{
			users.GET("", r.ListUsers)
			users.POST("", r.CreateUser, s.audit("user"))
			users.PUT("/:id", r.UpdateUser, s.audit("user"))
			users.DELETE("/:id", r.DeleteUser, s.audit("user"))
		}

		images := api.Group("/images", mw.RequireAuth)
		{
			images.GET("", r.ListImages)
			images.POST("", r.UploadImage, s.audit("image"))
			images.DELETE("", r.DeleteImage, s.audit("image"))
		}

		api.POST("/contact", r.SubmitContact)
		api.GET("/activities", r.ListActivities, mw.RequireAdmin)
	}
}
