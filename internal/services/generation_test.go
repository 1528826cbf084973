package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/scholarmate/scholarmate-backend/internal/apperrors"
	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/repos/testutil"
	"github.com/scholarmate/scholarmate-backend/internal/types"
	"gorm.io/gorm"
)

// stubAI scripts the generation backend.
type stubAI struct {
	response string
	err      error
	prompts  []string
}

func (s *stubAI) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func (s *stubAI) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func newGenerationEnv(t *testing.T, ai *stubAI) (GenerationService, *gorm.DB, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	documentRepo := repos.NewDocumentRepo(tx, log)
	chunkRepo := repos.NewDocumentChunkRepo(tx, log)
	chatRepo := repos.NewChatMessageRepo(tx, log)
	quizRepo := repos.NewQuizRepo(tx, log)
	questionRepo := repos.NewQuizQuestionRepo(tx, log)
	flashcardRepo := repos.NewFlashcardRepo(tx, log)

	docSvc := NewDocumentService(tx, log, documentRepo, chunkRepo, chatRepo, nil, nil)
	genSvc := NewGenerationService(tx, log, docSvc, chunkRepo, quizRepo, questionRepo, flashcardRepo, chatRepo, ai, nil)
	return genSvc, tx, context.Background()
}

func TestGenerateQuizPersistsNormalizedQuestions(t *testing.T) {
	ai := &stubAI{response: `{
		"title": "Photosynthesis Quiz",
		"questions": [
			{"question": "What gas do plants absorb?", "options": ["CO2", "O2", "N2", "H2"], "correctAnswer": "CO2", "explanation": "Plants take in carbon dioxide."},
			{"question": "Where does photosynthesis occur?", "options": ["Chloroplast", "Nucleus"], "correctAnswer": "Chloroplast"}
		]
	}`}
	svc, tx, ctx := newGenerationEnv(t, ai)

	user := testutil.SeedUser(t, ctx, tx, "genquiz@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)

	quiz, err := svc.GenerateQuiz(ctx, user.ID, doc.ID, 3)
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if quiz.Title != "Photosynthesis Quiz" {
		t.Fatalf("GenerateQuiz: unexpected title %q", quiz.Title)
	}
	if quiz.TotalQuestions != 3 || len(quiz.Questions) != 3 {
		t.Fatalf("GenerateQuiz: expected exactly 3 questions, got total=%d len=%d", quiz.TotalQuestions, len(quiz.Questions))
	}

	stored, err := repos.NewQuizRepo(tx, testutil.Logger(t)).GetByIDs(ctx, nil, []uuid.UUID{quiz.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(stored) != 1 || len(stored[0].Questions) != 3 {
		t.Fatalf("GetByIDs: persisted quiz wrong: %+v", stored)
	}
}

func TestGenerateQuizRequiresReadyDocument(t *testing.T) {
	ai := &stubAI{response: `{}`}
	svc, tx, ctx := newGenerationEnv(t, ai)

	user := testutil.SeedUser(t, ctx, tx, "genquiz-notready@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusProcessing)

	if _, err := svc.GenerateQuiz(ctx, user.ID, doc.ID, 3); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("GenerateQuiz: expected conflict for non-ready document, got %v", err)
	}
}

func TestGenerateQuizPropagatesBackendFailure(t *testing.T) {
	ai := &stubAI{err: errors.New("connection refused")}
	svc, tx, ctx := newGenerationEnv(t, ai)

	user := testutil.SeedUser(t, ctx, tx, "genquiz-down@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)

	if _, err := svc.GenerateQuiz(ctx, user.ID, doc.ID, 3); !errors.Is(err, apperrors.ErrUpstream) {
		t.Fatalf("GenerateQuiz: expected upstream error, got %v", err)
	}
}

func TestGenerateFlashcards(t *testing.T) {
	ai := &stubAI{response: `[
		{"question": "Q1", "answer": "A1", "difficulty": "easy"},
		{"question": "Q2", "answer": "A2", "difficulty": "weird"}
	]`}
	svc, tx, ctx := newGenerationEnv(t, ai)

	user := testutil.SeedUser(t, ctx, tx, "gencards@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)

	set, cards, err := svc.GenerateFlashcards(ctx, user.ID, doc.ID, 5)
	if err != nil {
		t.Fatalf("GenerateFlashcards: %v", err)
	}
	if set.CardCount != 2 || len(cards) != 2 {
		t.Fatalf("GenerateFlashcards: expected 2 cards (no padding), got count=%d len=%d", set.CardCount, len(cards))
	}
	if cards[1].Difficulty != types.DifficultyMedium {
		t.Fatalf("GenerateFlashcards: unknown difficulty should normalize to medium, got %q", cards[1].Difficulty)
	}
}

func TestGenerateSummaryDegrades(t *testing.T) {
	ai := &stubAI{err: errors.New("timeout")}
	svc, tx, ctx := newGenerationEnv(t, ai)

	user := testutil.SeedUser(t, ctx, tx, "gensummary@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)

	summary, err := svc.GenerateSummary(ctx, user.ID, doc.ID)
	if err != nil {
		t.Fatalf("GenerateSummary: expected degraded response, got error %v", err)
	}
	if summary != summaryFallback {
		t.Fatalf("GenerateSummary: expected fallback string, got %q", summary)
	}
}

func TestChatStoresBothMessages(t *testing.T) {
	ai := &stubAI{response: "Mitochondria produce ATP."}
	svc, tx, ctx := newGenerationEnv(t, ai)

	user := testutil.SeedUser(t, ctx, tx, "genchat@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	testutil.SeedChunk(t, ctx, tx, doc.ID, 0, "The mitochondria is the powerhouse of the cell.")

	reply, err := svc.Chat(ctx, user.ID, doc.ID, "What do mitochondria do?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Role != types.ChatRoleAssistant || reply.Content != "Mitochondria produce ATP." {
		t.Fatalf("Chat: unexpected reply: %+v", reply)
	}

	history, err := svc.ChatHistory(ctx, user.ID, doc.ID)
	if err != nil {
		t.Fatalf("ChatHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("ChatHistory: expected 2 messages, got %d", len(history))
	}
	if history[0].Role != types.ChatRoleUser || history[1].Role != types.ChatRoleAssistant {
		t.Fatalf("ChatHistory: roles wrong: %+v", history)
	}
}

func TestChatDegradesOnBackendFailure(t *testing.T) {
	ai := &stubAI{err: errors.New("connection refused")}
	svc, tx, ctx := newGenerationEnv(t, ai)

	user := testutil.SeedUser(t, ctx, tx, "genchat-down@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)

	reply, err := svc.Chat(ctx, user.ID, doc.ID, "Anyone home?")
	if err != nil {
		t.Fatalf("Chat: expected degraded response, got error %v", err)
	}
	if reply.Content != chatFallback {
		t.Fatalf("Chat: expected fallback string, got %q", reply.Content)
	}
}
