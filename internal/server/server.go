// Package server exposes questions, study sessions, reviews and explanations
// over a JSON HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/prite-study/pritecards/internal/config"
	"github.com/prite-study/pritecards/internal/explanation"
	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/study"
	"github.com/prite-study/pritecards/internal/user"
)

// Services are the application services the handlers call. Explanations is
// nil when no language model is configured.
type Services struct {
	Questions    *question.Service
	Study        *study.Service
	Users        *user.Service
	Explanations *explanation.Service
}

type Server struct {
	echo     *echo.Echo
	services Services
	now      func() time.Time
}

func New(cfg config.ServerConfig, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, services: services, now: time.Now}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, UserHeader},
		MaxAge:       3600,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", requireUser)

	api.GET("/questions", s.searchQuestions)
	api.POST("/questions", s.createQuestion)
	api.POST("/questions/bulk", s.bulkCreateQuestions)
	api.GET("/questions/due", s.dueQuestions)
	api.GET("/questions/:id", s.getQuestion)
	api.PUT("/questions/:id", s.updateQuestion)
	api.DELETE("/questions/:id", s.deleteQuestion)
	api.POST("/questions/:id/review", s.reviewQuestion)
	api.POST("/questions/:id/explanation", s.generateExplanation)
	api.POST("/explanations/missing", s.generateMissingExplanations)

	api.GET("/study/session", s.startSession)
	api.GET("/stats", s.stats)

	api.POST("/users", s.registerUser)
	api.GET("/users/me", s.currentUser)
	api.PUT("/users/me/settings", s.updateSettings)
	api.DELETE("/users/me", s.deleteUser)
	api.POST("/users/me/reset", s.resetStudyProgress)
	api.GET("/users/me/study-data", s.exportStudyData)

	return s
}

// Handler serves HTTP/1.1 and cleartext HTTP/2.
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.echo, &http2.Server{})
}
