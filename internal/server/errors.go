package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prite-study/pritecards/internal/explanation"
	"github.com/prite-study/pritecards/internal/mastery"
	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/user"
)

type errorResponse struct {
	Message string `json:"message"`
}

var errExplanationsDisabled = errors.New("explanations are not configured")

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, mastery.ErrInvalidQuality),
		errors.Is(err, mastery.ErrInvalidDifficulty),
		errors.Is(err, question.ErrInvalidQuestion),
		errors.Is(err, user.ErrInvalidUser):
		return http.StatusBadRequest
	case errors.Is(err, question.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, question.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, question.ErrConflict),
		errors.Is(err, user.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, explanation.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errExplanationsDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusOf(err)
	message := err.Error()
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError && httpErr == nil {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		if status == http.StatusInternalServerError {
			message = "Server error"
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, errorResponse{Message: message})
	}
	if writeErr != nil {
		slog.Error("failed to write error response", "error", writeErr)
	}
}
