package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prite-study/pritecards/internal/importer"
	"github.com/prite-study/pritecards/internal/mastery"
	"github.com/prite-study/pritecards/internal/question"
)

// questionResponse is a question with its answer key spelled out and the
// acting user's mastery record.
type questionResponse struct {
	ID        string `json:"id"`
	CreatorID string `json:"creatorId"`
	importer.Item
	GeneratedExplanation string          `json:"generatedExplanation,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
	Mastery              *mastery.Record `json:"mastery,omitempty"`
}

func newQuestionResponse(q question.Question, userID string) questionResponse {
	resp := questionResponse{
		ID:                   q.ID,
		CreatorID:            q.CreatorID,
		Item:                 importer.FromQuestion(q),
		GeneratedExplanation: q.GeneratedExplanation,
		CreatedAt:            q.CreatedAt,
		UpdatedAt:            q.UpdatedAt,
	}
	if rec, ok := q.Mastery[userID]; ok {
		resp.Mastery = &rec
	}
	return resp
}

func newQuestionResponses(questions []question.Question, userID string) []questionResponse {
	resp := make([]questionResponse, len(questions))
	for i, q := range questions {
		resp[i] = newQuestionResponse(q, userID)
	}
	return resp
}

type searchRequest struct {
	Text       string `query:"text"`
	Part       string `query:"part"`
	Category   string `query:"category"`
	Kind       string `query:"questionType"`
	Visibility string `query:"visibility"`
	Limit      int    `query:"limit"`
}

func (s *Server) searchQuestions(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	filter := question.SearchFilter{
		Visibility: question.Visibility(req.Visibility),
		Text:       req.Text,
		Part:       req.Part,
		Category:   req.Category,
		Limit:      req.Limit,
	}
	if req.Kind != "" {
		kind, err := question.ParseKind(req.Kind)
		if err != nil {
			return err
		}
		filter.Kind = kind
	}

	userID := currentUserID(c)
	questions, err := s.services.Questions.Search(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newQuestionResponses(questions, userID))
}

func (s *Server) createQuestion(c echo.Context) error {
	var item importer.Item
	if err := c.Bind(&item); err != nil {
		return err
	}
	q, err := item.ToQuestion(s.now())
	if err != nil {
		return err
	}

	userID := currentUserID(c)
	created, err := s.services.Questions.Create(c.Request().Context(), userID, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newQuestionResponse(*created, userID))
}

func (s *Server) bulkCreateQuestions(c echo.Context) error {
	var req importer.File
	if err := c.Bind(&req); err != nil {
		return err
	}
	if len(req.Questions) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Questions array is required")
	}
	drafts, err := importer.ToQuestions(req.Questions, s.now())
	if err != nil {
		return err
	}

	userID := currentUserID(c)
	created, err := s.services.Questions.BatchCreate(c.Request().Context(), userID, drafts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newQuestionResponses(created, userID))
}

func (s *Server) getQuestion(c echo.Context) error {
	userID := currentUserID(c)
	q, err := s.services.Questions.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newQuestionResponse(*q, userID))
}

func (s *Server) updateQuestion(c echo.Context) error {
	var item importer.Item
	if err := c.Bind(&item); err != nil {
		return err
	}
	q, err := item.ToQuestion(s.now())
	if err != nil {
		return err
	}

	userID := currentUserID(c)
	updated, err := s.services.Questions.Update(c.Request().Context(), userID, c.Param("id"), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newQuestionResponse(*updated, userID))
}

func (s *Server) deleteQuestion(c echo.Context) error {
	if err := s.services.Questions.Delete(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Question removed"})
}

func (s *Server) dueQuestions(c echo.Context) error {
	userID := currentUserID(c)
	questions, err := s.services.Study.DueQuestions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newQuestionResponses(questions, userID))
}

func (s *Server) stats(c echo.Context) error {
	stats, err := s.services.Questions.Stats(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
