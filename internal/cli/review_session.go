package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prite-study/pritecards/internal/mastery"
	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/study"
)

// QuestionReader loads a question as seen by a user.
type QuestionReader interface {
	Get(ctx context.Context, userID, id string) (*question.Question, error)
}

// Reviewer records a rating for a question.
type Reviewer interface {
	Review(ctx context.Context, userID, questionID string, quality int) (study.ReviewResult, error)
}

// ReviewCLI walks a learner through a study session: show the question, read
// the chosen letters, reveal the key, then ask how hard it was.
type ReviewCLI struct {
	*InteractiveCLI
	userID           string
	questions        QuestionReader
	reviewer         Reviewer
	session          study.Session
	showExplanations bool

	answered int
	correct  int
}

func NewReviewCLI(
	userID string,
	session study.Session,
	questions QuestionReader,
	reviewer Reviewer,
	showExplanations bool,
	in io.Reader,
	out io.Writer,
) *ReviewCLI {
	return &ReviewCLI{
		InteractiveCLI:   newInteractiveCLI(in, out),
		userID:           userID,
		questions:        questions,
		reviewer:         reviewer,
		session:          session,
		showExplanations: showExplanations,
	}
}

// Remaining returns the number of questions not yet reviewed.
func (r *ReviewCLI) Remaining() int {
	return r.session.Remaining()
}

func (r *ReviewCLI) Session(ctx context.Context) error {
	id, ok := r.session.Current()
	if !ok {
		fmt.Fprintf(r.stdoutWriter, "No more questions to review! %d/%d correct.\n", r.correct, r.answered)
		return errEnd
	}

	q, err := r.questions.Get(ctx, r.userID, id)
	if errors.Is(err, question.ErrNotFound) || errors.Is(err, question.ErrForbidden) {
		// Deleted or made private after the session was drawn
		_, _ = r.italic.Fprintf(r.stdoutWriter, "Skipping question %s: %v\n\n", id, err)
		r.session = r.session.Advance()
		return nil
	}
	if err != nil {
		return fmt.Errorf("questions.Get(%s) > %w", id, err)
	}
	r.printQuestion(*q)

	input, err := r.prompt("Answer: ")
	if errors.Is(err, io.EOF) {
		return errEnd
	}
	if err != nil {
		return err
	}
	if isQuit(input) {
		return errEnd
	}

	correct, err := grade(q.Key, input)
	if err != nil {
		fmt.Fprintf(r.stdoutWriter, "%v\n\n", err)
		return nil
	}
	r.answered++
	r.printResult(*q, correct)

	quality, err := r.askQuality(correct)
	if err != nil {
		return err
	}
	result, err := r.reviewer.Review(ctx, r.userID, id, quality)
	if err != nil {
		return fmt.Errorf("reviewer.Review(%s) > %w", id, err)
	}
	fmt.Fprintf(r.stdoutWriter, "Next review in %d day(s), on %s\n\n",
		result.Record.Interval,
		result.Record.NextReviewAt.Local().Format("2006-01-02"),
	)

	r.session = r.session.Advance()
	return nil
}

func (r *ReviewCLI) printQuestion(q question.Question) {
	fmt.Fprintf(r.stdoutWriter, "[%d left] ", r.session.Remaining())
	if q.Category != "" {
		_, _ = r.italic.Fprintf(r.stdoutWriter, "%s, part %s", q.Category, q.Part)
	}
	fmt.Fprintln(r.stdoutWriter)
	fmt.Fprintln(r.stdoutWriter, q.Text)
	if q.Instructions != "" {
		_, _ = r.italic.Fprintln(r.stdoutWriter, q.Instructions)
	}
	for _, l := range q.Options.Present() {
		fmt.Fprintf(r.stdoutWriter, "  %s. %s\n", l, q.Options.Get(l))
	}
}

func (r *ReviewCLI) printResult(q question.Question, correct bool) {
	want := q.Key.CorrectLetters()
	if correct {
		r.correct++
		_, _ = r.green.Fprintf(r.stdoutWriter, "✅ Correct: %s\n", want)
	} else {
		_, _ = r.red.Fprintf(r.stdoutWriter, "❌ Wrong. The answer is %s\n", want)
	}
	if !r.showExplanations {
		return
	}
	if q.Explanation != "" {
		fmt.Fprintf(r.stdoutWriter, "   Explanation: %s\n", q.Explanation)
	}
	if q.GeneratedExplanation != "" {
		fmt.Fprintf(r.stdoutWriter, "   Generated explanation: %s\n", q.GeneratedExplanation)
	}
}

// askQuality reads either a difficulty (h/m/e) or a quality 0-5. An empty
// line means medium after a correct answer and hard after a wrong one.
func (r *ReviewCLI) askQuality(correct bool) (int, error) {
	for {
		input, err := r.prompt("How was it? [h]ard, [m]edium, [e]asy or 0-5: ")
		if errors.Is(err, io.EOF) {
			return 0, errEnd
		}
		if err != nil {
			return 0, err
		}
		quality, err := parseRating(input, correct)
		if err == nil {
			return quality, nil
		}
		fmt.Fprintf(r.stdoutWriter, "%v\n", err)
	}
}

func parseRating(input string, correct bool) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		if correct {
			return mastery.DifficultyMedium.Quality()
		}
		return mastery.DifficultyHard.Quality()
	}
	if n, err := strconv.Atoi(input); err == nil {
		if err := mastery.ValidateQuality(n); err != nil {
			return 0, err
		}
		return n, nil
	}
	d, err := mastery.ParseDifficulty(input)
	if err != nil {
		return 0, err
	}
	return d.Quality()
}

// grade compares the chosen letters with the key. An unanswered key counts
// every answer as wrong.
func grade(key question.AnswerKey, input string) (bool, error) {
	chosen, err := question.ParseLetterSet(input)
	if err != nil {
		return false, err
	}
	if chosen.Len() == 0 {
		return false, fmt.Errorf("choose at least one option")
	}
	if key == nil || !key.Answered() {
		return false, nil
	}
	return chosen == key.CorrectLetters(), nil
}

func isQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "q", "quit", "exit":
		return true
	}
	return false
}
