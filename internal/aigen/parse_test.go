package aigen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlashcards_JSONArray(t *testing.T) {
	raw := `[
		{"question": "What is Go?", "answer": "A programming language.", "difficulty": "easy"},
		{"question": "What is a goroutine?", "answer": "A lightweight thread.", "difficulty": "hard"},
		{"question": "What is GOPATH?", "answer": "A workspace path.", "difficulty": "bogus"}
	]`

	cards := ParseFlashcards(raw, 10)
	require.Len(t, cards, 3)
	assert.Equal(t, "What is Go?", cards[0].Question)
	assert.Equal(t, "easy", cards[0].Difficulty)
	assert.Equal(t, "hard", cards[1].Difficulty)
	// Unknown difficulty falls back to medium.
	assert.Equal(t, "medium", cards[2].Difficulty)
}

func TestParseFlashcards_TruncatesToCount(t *testing.T) {
	raw := `[
		{"question": "q1", "answer": "a1"},
		{"question": "q2", "answer": "a2"},
		{"question": "q3", "answer": "a3"}
	]`

	cards := ParseFlashcards(raw, 2)
	require.Len(t, cards, 2)
	assert.Equal(t, "q1", cards[0].Question)
	assert.Equal(t, "q2", cards[1].Question)
}

func TestParseFlashcards_CardsObject(t *testing.T) {
	raw := `{"cards": [{"question": "q1", "answer": "a1", "difficulty": "medium"}]}`

	cards := ParseFlashcards(raw, 5)
	require.Len(t, cards, 1)
	assert.Equal(t, "q1", cards[0].Question)
}

func TestParseFlashcards_SingleCardObject(t *testing.T) {
	raw := `{"question": "q1", "answer": "a1"}`

	cards := ParseFlashcards(raw, 5)
	require.Len(t, cards, 1)
	assert.Equal(t, "q1", cards[0].Question)
	assert.Equal(t, "a1", cards[0].Answer)
	assert.Equal(t, "medium", cards[0].Difficulty)
}

func TestParseFlashcards_PlainText(t *testing.T) {
	raw := "Q: What is X?\nA: X is Y.\nD: easy\n---\n"

	cards := ParseFlashcards(raw, 5)
	require.Len(t, cards, 1)
	assert.Equal(t, Flashcard{Question: "What is X?", Answer: "X is Y.", Difficulty: "easy"}, cards[0])
}

func TestParseFlashcards_PlainTextDropsIncompleteBlocks(t *testing.T) {
	raw := "Q: only a question\n---\nA: only an answer\n---\nQ: full\nA: card\n"

	cards := ParseFlashcards(raw, 5)
	require.Len(t, cards, 1)
	assert.Equal(t, "full", cards[0].Question)
	assert.Equal(t, "medium", cards[0].Difficulty)
}

// Fewer valid cards than requested is not padded.
func TestParseFlashcards_NoPadding(t *testing.T) {
	cards := ParseFlashcards(`[{"question": "q1", "answer": "a1"}]`, 10)
	assert.Len(t, cards, 1)
}

func TestParseFlashcards_ZeroCountAndGarbage(t *testing.T) {
	assert.Empty(t, ParseFlashcards(`[{"question": "q", "answer": "a"}]`, 0))
	assert.Empty(t, ParseFlashcards("complete nonsense with no markers", 5))
	assert.Empty(t, ParseFlashcards(`{"unexpected": "shape"}`, 5))
}

func TestParseFlashcards_CodeFence(t *testing.T) {
	raw := "```json\n[{\"question\": \"q1\", \"answer\": \"a1\", \"difficulty\": \"hard\"}]\n```"

	cards := ParseFlashcards(raw, 3)
	require.Len(t, cards, 1)
	assert.Equal(t, "hard", cards[0].Difficulty)
}

func TestParseFlashcards_DifficultyAlwaysInEnum(t *testing.T) {
	for _, d := range []string{"easy", "medium", "hard", "EASY", "", "extreme", "  hard  "} {
		raw := fmt.Sprintf(`[{"question": "q", "answer": "a", "difficulty": %q}]`, d)
		cards := ParseFlashcards(raw, 1)
		require.Len(t, cards, 1)
		got := cards[0].Difficulty
		if got != "easy" && got != "medium" && got != "hard" {
			t.Fatalf("difficulty %q normalized to %q, outside enum", d, got)
		}
	}
}

func TestParseQuiz_WellFormed(t *testing.T) {
	raw := `{
		"title": "Go Basics",
		"questions": [
			{
				"question": "What keyword declares a function?",
				"options": ["func", "def", "fn", "function"],
				"correctAnswer": "func",
				"explanation": "Go uses func."
			}
		]
	}`

	quiz := ParseQuiz(raw, 1)
	assert.Equal(t, "Go Basics", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	q := quiz.Questions[0]
	assert.Equal(t, []string{"func", "def", "fn", "function"}, q.Options)
	assert.Equal(t, "func", q.CorrectAnswer)
	assert.Equal(t, "Go uses func.", q.Explanation)
}

func TestParseQuiz_BareArray(t *testing.T) {
	raw := `[{"question": "q1", "options": ["a", "b", "c", "d"], "correctAnswer": "a"}]`

	quiz := ParseQuiz(raw, 1)
	assert.Equal(t, "Generated Quiz", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "q1", quiz.Questions[0].Question)
}

func TestParseQuiz_MalformedJSONFallsBackAndPads(t *testing.T) {
	quiz := ParseQuiz("{this is not json", 3)
	assert.Equal(t, "Generated Quiz", quiz.Title)
	require.Len(t, quiz.Questions, 3)
	for i, q := range quiz.Questions {
		assert.Equal(t, fmt.Sprintf("Question %d", i+1), q.Question)
		assert.Equal(t, []string{"Option A", "Option B", "Option C", "Option D"}, q.Options)
		assert.Equal(t, "Option A", q.CorrectAnswer)
	}
}

func TestParseQuiz_ExactCountInvariant(t *testing.T) {
	cases := []struct {
		name      string
		raw       string
		requested int
	}{
		{name: "deficit_padded", raw: `{"questions": [{"question": "q1", "options": ["a","b","c","d"], "correctAnswer": "a"}]}`, requested: 5},
		{name: "excess_truncated", raw: `{"questions": [
			{"question": "q1", "options": ["a","b","c","d"], "correctAnswer": "a"},
			{"question": "q2", "options": ["a","b","c","d"], "correctAnswer": "b"},
			{"question": "q3", "options": ["a","b","c","d"], "correctAnswer": "c"}
		]}`, requested: 2},
		{name: "garbage", raw: "garbage", requested: 4},
		{name: "empty", raw: "", requested: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := ParseQuiz(tc.raw, tc.requested)
			require.Len(t, quiz.Questions, tc.requested)
			for _, q := range quiz.Questions {
				assert.Len(t, q.Options, 4)
				assert.NotEmpty(t, q.CorrectAnswer)
				assert.NotEmpty(t, q.Question)
			}
		})
	}
}

func TestParseQuiz_QuestionValidation(t *testing.T) {
	raw := `{"questions": [
		{"question": "too few options", "options": ["only", "two"], "correctAnswer": "only"},
		{"question": "too many options", "options": ["a", "b", "c", "d", "e"], "correctAnswer": "a"},
		{"question": "no correct answer", "options": ["a", "b", "c", "d"]},
		{"options": ["a", "b", "c", "d"], "correctAnswer": "b"}
	]}`

	quiz := ParseQuiz(raw, 4)
	require.Len(t, quiz.Questions, 4)

	// Fewer than four options: replaced wholesale with the generic set.
	assert.Equal(t, []string{"Option A", "Option B", "Option C", "Option D"}, quiz.Questions[0].Options)
	// More than four: truncated, originals kept.
	assert.Equal(t, []string{"a", "b", "c", "d"}, quiz.Questions[1].Options)
	// Missing correct answer defaults.
	assert.Equal(t, "Option A", quiz.Questions[2].CorrectAnswer)
	// Missing question text gets a positional placeholder.
	assert.Equal(t, "Question 4", quiz.Questions[3].Question)
	assert.Equal(t, "b", quiz.Questions[3].CorrectAnswer)
}

func TestParseQuiz_PlainTextBlocks(t *testing.T) {
	raw := "Q: What is X?\nO1: a\nO2: b\nO3: c\nO4: d\nC: b\nE: because\n---\n"

	quiz := ParseQuiz(raw, 1)
	require.Len(t, quiz.Questions, 1)
	q := quiz.Questions[0]
	assert.Equal(t, "What is X?", q.Question)
	assert.Equal(t, []string{"a", "b", "c", "d"}, q.Options)
	assert.Equal(t, "b", q.CorrectAnswer)
	assert.Equal(t, "because", q.Explanation)
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "json_fence", in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare_fence", in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "no_fence", in: `{"a": 1}`, want: `{"a": 1}`},
		{name: "unterminated", in: "```json\n{\"a\": 1}", want: "```json\n{\"a\": 1}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.in); got != tc.want {
				t.Fatalf("StripCodeFence(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
