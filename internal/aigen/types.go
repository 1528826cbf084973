// Package aigen turns free-text model output into fixed-shape flashcard and
// quiz records. Parsing never fails outright: malformed input degrades to
// deterministic placeholders (quizzes) or to fewer records (flashcards).
package aigen

type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Quiz struct {
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
}

const fallbackQuizTitle = "Generated Quiz"

var genericOptions = []string{"Option A", "Option B", "Option C", "Option D"}
