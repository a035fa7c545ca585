package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prite-study/pritecards/internal/question"
	"github.com/prite-study/pritecards/internal/study"
	"github.com/prite-study/pritecards/internal/testutil"
	"github.com/prite-study/pritecards/internal/user"
)

func noShuffle(int, func(i, j int)) {}

func newQuestion(text string, answer question.Letter) question.Question {
	var o question.Options
	o.Set('A', "Clozapine")
	o.Set('B', "Haloperidol")
	o.Set('C', "Aripiprazole")
	o.Set('E', "Ziprasidone")
	return question.Question{
		Text:        text,
		Options:     o,
		Key:         question.Standard{Answer: answer},
		Metadata:    question.Metadata{Part: "1", Category: "Psychopharmacology"},
		Explanation: "See the package insert.",
	}
}

func TestReviewCLI_Run(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := question.NewDBRepository(db)
	questions := question.NewService(repo)
	studies := study.NewService(repo, user.NewService(user.NewDBRepository(db), user.DefaultSettings()))

	first, err := questions.Create(ctx, "alice", newQuestion("Causes agranulocytosis?", 'A'))
	require.NoError(t, err)
	second, err := questions.Create(ctx, "alice", newQuestion("Partial D2 agonist?", 'C'))
	require.NoError(t, err)
	private, err := questions.Create(ctx, "bob", newQuestion("Bob's private note", 'B'))
	require.NoError(t, err)
	deleted, err := questions.Create(ctx, "alice", newQuestion("Removed later", 'B'))
	require.NoError(t, err)
	require.NoError(t, questions.Delete(ctx, "alice", deleted.ID))

	tests := []struct {
		name             string
		sessionIDs       []string
		input            string
		showExplanations bool
		wantOutput       []string
		wantReps         map[string]int
		wantRemaining    int
	}{
		{
			name:             "answers both questions",
			input:            "a\ne\nB\n\n",
			showExplanations: true,
			wantOutput: []string{
				"Causes agranulocytosis?",
				"  E. Ziprasidone",
				"✅ Correct: A",
				"❌ Wrong. The answer is C",
				"Explanation: See the package insert.",
				"Next review in 1 day(s)",
				"1/2 correct",
			},
			wantReps:      map[string]int{first.ID: 1, second.ID: 0},
			wantRemaining: 0,
		},
		{
			name:  "invalid input is asked again and quit stops",
			input: "Z\nA\n7\n4\nq\n",
			wantOutput: []string{
				"outside A-O",
				"7 is outside 0-5",
			},
			wantReps:      map[string]int{first.ID: 2},
			wantRemaining: 1,
		},
		{
			name:          "end of input stops",
			input:         "",
			wantRemaining: 2,
		},
		{
			name:          "end of input at the rating prompt stops without a review",
			input:         "A\n",
			wantOutput:    []string{"✅ Correct: A"},
			wantReps:      map[string]int{first.ID: 2},
			wantRemaining: 2,
		},
		{
			name:       "questions removed or hidden since the session was drawn are skipped",
			sessionIDs: []string{deleted.ID, private.ID, second.ID},
			input:      "C\ne\n",
			wantOutput: []string{
				"Skipping question " + deleted.ID,
				"Skipping question " + private.ID,
				"Partial D2 agonist?",
				"1/1 correct",
			},
			wantReps:      map[string]int{second.ID: 1},
			wantRemaining: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			ids := tt.sessionIDs
			if ids == nil {
				ids = []string{first.ID, second.ID}
			}
			session := study.NewSession("alice", ids, 10, noShuffle)
			cli := NewReviewCLI("alice", session, questions, studies, tt.showExplanations, strings.NewReader(tt.input), &out)

			require.NoError(t, cli.Run(ctx, cli))
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
			if !tt.showExplanations {
				assert.NotContains(t, out.String(), "Explanation:")
			}
			assert.Equal(t, tt.wantRemaining, cli.Remaining())

			for id, reps := range tt.wantReps {
				q, err := questions.Get(ctx, "alice", id)
				require.NoError(t, err)
				assert.Equal(t, reps, q.Mastery["alice"].Repetitions)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		input   string
		correct bool
		want    int
		wantErr bool
	}{
		{input: "", correct: true, want: 3},
		{input: "\n", correct: false, want: 0},
		{input: "h", want: 0},
		{input: "Medium", want: 3},
		{input: "e", want: 5},
		{input: "4", want: 4},
		{input: "0", want: 0},
		{input: "6", wantErr: true},
		{input: "so-so", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseRating(tt.input, tt.correct)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade(t *testing.T) {
	multi := question.MultipleCorrect{Answers: question.NewLetterSet('A', 'C'), Count: 2}

	tests := []struct {
		name    string
		key     question.AnswerKey
		input   string
		want    bool
		wantErr bool
	}{
		{name: "single correct", key: question.Standard{Answer: 'B'}, input: "b\n", want: true},
		{name: "single wrong", key: question.Standard{Answer: 'B'}, input: "A", want: false},
		{name: "multiple in any order", key: multi, input: "C, A", want: true},
		{name: "multiple partial", key: multi, input: "A", want: false},
		{name: "unanswered key", key: question.Standard{}, input: "A", want: false},
		{name: "empty answer", key: multi, input: " ", wantErr: true},
		{name: "unknown letter", key: multi, input: "Z", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := grade(tt.key, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
