package aigen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scholarmate/scholarmate-backend/internal/types"
)

// payloadKind tags the recognized shapes of a model completion. Shape is
// decided once up front and the consumers switch over it exhaustively,
// instead of probing the decoded value type by type.
type payloadKind int

const (
	payloadJSONArray payloadKind = iota
	payloadJSONObject
	payloadPlainText
)

type payload struct {
	kind   payloadKind
	array  []json.RawMessage
	object map[string]json.RawMessage
	text   string
}

// classify strips markdown code fences, then decides whether the completion
// is a JSON array, a JSON object, or plain text.
func classify(raw string) payload {
	clean := StripCodeFence(raw)

	trimmed := strings.TrimSpace(clean)
	if strings.HasPrefix(trimmed, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return payload{kind: payloadJSONArray, array: arr}
		}
	}
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return payload{kind: payloadJSONObject, object: obj}
		}
	}
	return payload{kind: payloadPlainText, text: clean}
}

// StripCodeFence removes a wrapping markdown code block (```json ... ``` or
// ``` ... ```) if present.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```json") {
		if end := strings.LastIndex(s, "```"); end > 7 {
			return strings.TrimSpace(s[7:end])
		}
	} else if strings.HasPrefix(s, "```") {
		if end := strings.LastIndex(s, "```"); end > 3 {
			return strings.TrimSpace(s[3:end])
		}
	}
	return s
}

// ParseFlashcards converts a raw completion into at most n flashcards.
// Recognized JSON shapes: an array of cards, an object with a "cards" array,
// or a single card object. Anything else is treated as "Q:/A:/D:" plain text
// with "---" separators. Fewer than n valid cards is not padded; the caller
// gets what was produced.
func ParseFlashcards(raw string, n int) []Flashcard {
	if n <= 0 {
		return []Flashcard{}
	}

	var cards []Flashcard
	p := classify(raw)
	switch p.kind {
	case payloadJSONArray:
		cards = decodeCardArray(p.array)
	case payloadJSONObject:
		if nested, ok := p.object["cards"]; ok {
			var arr []json.RawMessage
			if err := json.Unmarshal(nested, &arr); err == nil {
				cards = decodeCardArray(arr)
				break
			}
		}
		// A bare card object is accepted as a one-card result.
		if card, ok := decodeCard(mustMarshal(p.object)); ok {
			cards = []Flashcard{card}
		}
	case payloadPlainText:
		cards = parsePlainTextCards(p.text)
	}

	if len(cards) > n {
		cards = cards[:n]
	}
	return cards
}

func decodeCardArray(arr []json.RawMessage) []Flashcard {
	out := make([]Flashcard, 0, len(arr))
	for _, raw := range arr {
		if card, ok := decodeCard(raw); ok {
			out = append(out, card)
		}
	}
	return out
}

func decodeCard(raw json.RawMessage) (Flashcard, bool) {
	var card Flashcard
	if err := json.Unmarshal(raw, &card); err != nil {
		return Flashcard{}, false
	}
	card.Question = strings.TrimSpace(card.Question)
	card.Answer = strings.TrimSpace(card.Answer)
	if card.Question == "" || card.Answer == "" {
		return Flashcard{}, false
	}
	card.Difficulty = normalizeDifficulty(card.Difficulty)
	return card, true
}

// parsePlainTextCards handles the delimited fallback format:
// blocks separated by "---", each carrying "Q:", "A:" and optionally "D:" lines.
// Blocks missing either question or answer are dropped.
func parsePlainTextCards(text string) []Flashcard {
	var out []Flashcard
	for _, block := range strings.Split(text, "---") {
		var question, answer, difficulty string
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case question == "" && strings.HasPrefix(line, "Q:"):
				question = strings.TrimSpace(line[2:])
			case answer == "" && strings.HasPrefix(line, "A:"):
				answer = strings.TrimSpace(line[2:])
			case difficulty == "" && strings.HasPrefix(line, "D:"):
				difficulty = strings.TrimSpace(line[2:])
			}
		}
		if question == "" || answer == "" {
			continue
		}
		out = append(out, Flashcard{
			Question:   question,
			Answer:     answer,
			Difficulty: normalizeDifficulty(difficulty),
		})
	}
	return out
}

func normalizeDifficulty(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if types.ValidDifficulty(d) {
		return d
	}
	return types.DifficultyMedium
}

// ParseQuiz converts a raw completion into a quiz of exactly n questions.
// Recognized JSON shapes: an object with a "questions" array (plus optional
// "title"), or a bare array of questions. Plain text falls back to
// "Q:/O1..O4:/C:/E:" blocks. Unparseable input yields the fallback title and
// zero parsed questions, which padding then fills.
func ParseQuiz(raw string, n int) Quiz {
	if n < 1 {
		n = 1
	}

	quiz := Quiz{Title: fallbackQuizTitle}
	p := classify(raw)
	switch p.kind {
	case payloadJSONArray:
		quiz.Questions = decodeQuestionArray(p.array)
	case payloadJSONObject:
		if rawTitle, ok := p.object["title"]; ok {
			var title string
			if err := json.Unmarshal(rawTitle, &title); err == nil && strings.TrimSpace(title) != "" {
				quiz.Title = strings.TrimSpace(title)
			}
		}
		if nested, ok := p.object["questions"]; ok {
			var arr []json.RawMessage
			if err := json.Unmarshal(nested, &arr); err == nil {
				quiz.Questions = decodeQuestionArray(arr)
			}
		}
	case payloadPlainText:
		quiz.Questions = parsePlainTextQuestions(p.text)
	}

	// Force-normalize to exactly n questions: truncate excess, pad deficit.
	if len(quiz.Questions) > n {
		quiz.Questions = quiz.Questions[:n]
	}
	for len(quiz.Questions) < n {
		quiz.Questions = append(quiz.Questions, placeholderQuestion(len(quiz.Questions)+1))
	}

	// Validate every question, parsed or padded alike.
	for i := range quiz.Questions {
		quiz.Questions[i] = validateQuestion(quiz.Questions[i], i)
	}
	return quiz
}

func decodeQuestionArray(arr []json.RawMessage) []QuizQuestion {
	out := make([]QuizQuestion, 0, len(arr))
	for _, raw := range arr {
		var q QuizQuestion
		if err := json.Unmarshal(raw, &q); err != nil {
			continue
		}
		out = append(out, q)
	}
	return out
}

// parsePlainTextQuestions handles the delimited fallback format for quizzes:
// per block "Q:" question, "O1:".."O4:" options, "C:" correct answer,
// "E:" explanation.
func parsePlainTextQuestions(text string) []QuizQuestion {
	var out []QuizQuestion
	for _, block := range strings.Split(text, "---") {
		var q QuizQuestion
		options := make([]string, 0, 4)
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case q.Question == "" && strings.HasPrefix(line, "Q:"):
				q.Question = strings.TrimSpace(line[2:])
			case strings.HasPrefix(line, "O1:"), strings.HasPrefix(line, "O2:"),
				strings.HasPrefix(line, "O3:"), strings.HasPrefix(line, "O4:"):
				options = append(options, strings.TrimSpace(line[3:]))
			case q.CorrectAnswer == "" && strings.HasPrefix(line, "C:"):
				q.CorrectAnswer = strings.TrimSpace(line[2:])
			case q.Explanation == "" && strings.HasPrefix(line, "E:"):
				q.Explanation = strings.TrimSpace(line[2:])
			}
		}
		if q.Question == "" {
			continue
		}
		q.Options = options
		out = append(out, q)
	}
	return out
}

func placeholderQuestion(n int) QuizQuestion {
	opts := make([]string, len(genericOptions))
	copy(opts, genericOptions)
	return QuizQuestion{
		Question:      fmt.Sprintf("Question %d", n),
		Options:       opts,
		CorrectAnswer: genericOptions[0],
	}
}

// validateQuestion enforces the QuizQuestion invariants on a single question:
// non-empty question text, exactly four options, non-empty correct answer.
func validateQuestion(q QuizQuestion, index int) QuizQuestion {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		q.Question = fmt.Sprintf("Question %d", index+1)
	}
	if len(q.Options) >= 4 {
		q.Options = q.Options[:4]
	} else {
		opts := make([]string, len(genericOptions))
		copy(opts, genericOptions)
		q.Options = opts
	}
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	if q.CorrectAnswer == "" {
		q.CorrectAnswer = genericOptions[0]
	}
	return q
}

func mustMarshal(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}
