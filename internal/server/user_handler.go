package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/user"
)

type registerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// registerUser creates the profile of the acting user.
func (s *Server) registerUser(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	u, err := s.services.Users.Register(c.Request().Context(), currentUserID(c), req.Username, req.DisplayName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) currentUser(c echo.Context) error {
	u, err := s.services.Users.Get(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) updateSettings(c echo.Context) error {
	var settings user.Settings
	if err := c.Bind(&settings); err != nil {
		return err
	}
	ctx := c.Request().Context()
	userID := currentUserID(c)
	if err := s.services.Users.UpdateSettings(ctx, userID, settings); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

type deleteUserResponse struct {
	Message        string `json:"message"`
	RecordsRemoved int64  `json:"recordsRemoved"`
}

// deleteUser removes the acting user and their mastery records. Questions
// they created are kept.
func (s *Server) deleteUser(c echo.Context) error {
	n, err := s.services.Users.Delete(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{Message: "Account deleted", RecordsRemoved: n})
}

type resetResponse struct {
	Message      string `json:"message"`
	RecordsReset int64  `json:"recordsReset"`
}

func (s *Server) resetStudyProgress(c echo.Context) error {
	n, err := s.services.Study.ResetProgress(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resetResponse{Message: "Study progress reset", RecordsReset: n})
}

type studyDataResponse struct {
	Data []question.StudyRecord `json:"data"`
}

func (s *Server) exportStudyData(c echo.Context) error {
	records, err := s.services.Study.StudyData(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studyDataResponse{Data: records})
}
