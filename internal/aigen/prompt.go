package aigen

import (
	"fmt"
	"strings"
)

// FlashcardPrompt asks for a JSON array of cards with question, answer and
// difficulty fields.
func FlashcardPrompt(documentText string, count int) string {
	return fmt.Sprintf(`Generate %d flashcards from the following document as a JSON array.

Each card must be an object with:
- "question": string
- "answer": string
- "difficulty": "easy" | "medium" | "hard"

Output ONLY a JSON array. No other text.

Document:
%s
`, count, documentText)
}

// QuizPrompt asks for a strict-JSON quiz with an exact question count and
// exactly four options per question.
func QuizPrompt(documentText string, numQuestions int) string {
	return fmt.Sprintf(`You are an expert educator. Generate a quiz in STRICT JSON format with exactly %d multiple-choice questions based on the following document.

CRITICAL RULES:
- Output ONLY valid JSON, no explanations, no markdown, no extra text
- Use this exact structure:
{
  "title": "Short descriptive title about the document topic",
  "questions": [
    {
      "question": "Clear question text?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": "Exact text of correct option",
      "explanation": "Why the correct option is correct"
    }
  ]
}
- All fields are required
- Exactly 4 options per question
- Correct answer must match one of the options exactly

Document:
%s
`, numQuestions, documentText)
}

func SummaryPrompt(documentText string) string {
	return fmt.Sprintf("Summarize the following document in 3-5 sentences:\n\n%s", documentText)
}

func ChatPrompt(question string, contextChunks []string) string {
	context := strings.Join(contextChunks, "\n\n")
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s\nAnswer concisely:", context, question)
}

func ExplainPrompt(concept, context string) string {
	return fmt.Sprintf("Explain %q based on this context:\n\n%s", concept, context)
}
