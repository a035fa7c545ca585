package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prite-study/pritecards/internal/mastery"
	"github.com/prite-study/pritecards/internal/question"
)

var errNoRating = errors.New("quality or difficulty is required")

// reviewRequest rates one answered question. Quality is the SM-2 grade 0-5;
// difficulty is the hard/medium/easy button 0-2. Quality wins when both are
// set.
type reviewRequest struct {
	Quality    *int `json:"quality"`
	Difficulty *int `json:"difficulty"`
}

func (s *Server) reviewQuestion(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := currentUserID(c)
	id := c.Param("id")
	switch {
	case req.Quality != nil:
		result, err := s.services.Study.Review(ctx, userID, id, *req.Quality)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, result)
	case req.Difficulty != nil:
		result, err := s.services.Study.ReviewDifficulty(ctx, userID, id, mastery.Difficulty(*req.Difficulty))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, result)
	}
	return fmt.Errorf("%w: %w", mastery.ErrInvalidQuality, errNoRating)
}

type sessionResponse struct {
	Questions []questionResponse `json:"questions"`
}

// startSession draws a shuffled, capped set of due questions. Explanations
// are left out when the learner turned them off.
func (s *Server) startSession(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	session, err := s.services.Study.StartSession(ctx, userID)
	if err != nil {
		return err
	}
	settings, err := s.services.Users.Settings(ctx, userID)
	if err != nil {
		return err
	}

	resp := sessionResponse{Questions: make([]questionResponse, 0, len(session.QuestionIDs))}
	for ; !session.Done(); session = session.Advance() {
		id, _ := session.Current()
		q, err := s.services.Questions.Get(ctx, userID, id)
		if err != nil {
			// Deleted or unpublished since the due set was read
			if errors.Is(err, question.ErrNotFound) || errors.Is(err, question.ErrForbidden) {
				continue
			}
			return err
		}
		r := newQuestionResponse(*q, userID)
		if !settings.ShowExplanations {
			r.Explanation = ""
			r.GeneratedExplanation = ""
		}
		resp.Questions = append(resp.Questions, r)
	}
	return c.JSON(http.StatusOK, resp)
}
