package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type explanationResponse struct {
	QuestionID  string `json:"questionId"`
	Explanation string `json:"explanation"`
}

func (s *Server) generateExplanation(c echo.Context) error {
	if s.services.Explanations == nil {
		return errExplanationsDisabled
	}
	id := c.Param("id")
	text, err := s.services.Explanations.Generate(c.Request().Context(), currentUserID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, explanationResponse{QuestionID: id, Explanation: text})
}

func (s *Server) generateMissingExplanations(c echo.Context) error {
	if s.services.Explanations == nil {
		return errExplanationsDisabled
	}
	summary, err := s.services.Explanations.GenerateMissing(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
