package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/aigen"
	"github.com/scholarmate/scholarmate-backend/internal/apperrors"
	"github.com/scholarmate/scholarmate-backend/internal/clients/ollama"
	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/sse"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

const (
	// maxPromptChars caps how much extracted text goes into a prompt; small
	// local models choke on whole books.
	maxPromptChars = 12000

	chatContextChunks = 5

	summaryFallback = "Summary could not be generated."
	chatFallback    = "Sorry, I couldn't generate a response."
	explainFallback = "Sorry, I couldn't generate an explanation."
)

type GenerationService interface {
	GenerateQuiz(ctx context.Context, userID, docID uuid.UUID, numQuestions int) (*types.Quiz, error)
	GenerateFlashcards(ctx context.Context, userID, docID uuid.UUID, count int) (*types.FlashcardSet, []*types.Flashcard, error)
	GenerateSummary(ctx context.Context, userID, docID uuid.UUID) (string, error)
	Chat(ctx context.Context, userID, docID uuid.UUID, question string) (*types.ChatMessage, error)
	ExplainConcept(ctx context.Context, userID, docID uuid.UUID, concept string) (string, error)
	ChatHistory(ctx context.Context, userID, docID uuid.UUID) ([]*types.ChatMessage, error)
}

type generationService struct {
	db              *gorm.DB
	log             *logger.Logger
	documentService DocumentService
	chunkRepo       repos.DocumentChunkRepo
	quizRepo        repos.QuizRepo
	questionRepo    repos.QuizQuestionRepo
	flashcardRepo   repos.FlashcardRepo
	chatRepo        repos.ChatMessageRepo
	ai              ollama.Client
	events          EventPublisher
}

func NewGenerationService(
	db *gorm.DB,
	log *logger.Logger,
	documentService DocumentService,
	chunkRepo repos.DocumentChunkRepo,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuizQuestionRepo,
	flashcardRepo repos.FlashcardRepo,
	chatRepo repos.ChatMessageRepo,
	ai ollama.Client,
	events EventPublisher,
) GenerationService {
	return &generationService{
		db:              db,
		log:             log.With("service", "GenerationService"),
		documentService: documentService,
		chunkRepo:       chunkRepo,
		quizRepo:        quizRepo,
		questionRepo:    questionRepo,
		flashcardRepo:   flashcardRepo,
		chatRepo:        chatRepo,
		ai:              ai,
		events:          events,
	}
}

func (gs *generationService) GenerateQuiz(ctx context.Context, userID, docID uuid.UUID, numQuestions int) (*types.Quiz, error) {
	if numQuestions < 1 {
		numQuestions = 5
	}
	doc, err := gs.documentService.GetOwnedReady(ctx, nil, userID, docID)
	if err != nil {
		return nil, err
	}

	prompt := aigen.QuizPrompt(capText(doc.ExtractedText, maxPromptChars), numQuestions)
	raw, aiErr := gs.ai.GenerateJSON(ctx, prompt)
	if aiErr != nil {
		// Quiz generation has no degraded mode; the caller gets the failure.
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUpstream, aiErr.Error())
	}
	parsed := aigen.ParseQuiz(raw, numQuestions)

	quiz := &types.Quiz{
		ID:             uuid.New(),
		UserID:         userID,
		DocumentID:     doc.ID,
		Title:          parsed.Title,
		TotalQuestions: len(parsed.Questions),
	}
	questions := make([]*types.QuizQuestion, 0, len(parsed.Questions))
	for i, q := range parsed.Questions {
		questions = append(questions, &types.QuizQuestion{
			ID:            uuid.New(),
			QuizID:        quiz.ID,
			Index:         i,
			Question:      q.Question,
			Options:       mustJSON(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	if err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, qErr := gs.quizRepo.Create(ctx, tx, []*types.Quiz{quiz}); qErr != nil {
			return fmt.Errorf("Failed to create quiz: %w", qErr)
		}
		if _, cErr := gs.questionRepo.Create(ctx, tx, questions); cErr != nil {
			return fmt.Errorf("Failed to create quiz questions: %w", cErr)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	for _, q := range questions {
		quiz.Questions = append(quiz.Questions, *q)
	}
	gs.publish(ctx, userID, sse.SSEEventQuizGenerated, map[string]any{
		"quizId":     quiz.ID,
		"documentId": doc.ID,
	})
	return quiz, nil
}

func (gs *generationService) GenerateFlashcards(ctx context.Context, userID, docID uuid.UUID, count int) (*types.FlashcardSet, []*types.Flashcard, error) {
	if count < 1 {
		count = 10
	}
	doc, err := gs.documentService.GetOwnedReady(ctx, nil, userID, docID)
	if err != nil {
		return nil, nil, err
	}

	prompt := aigen.FlashcardPrompt(capText(doc.ExtractedText, maxPromptChars), count)
	raw, aiErr := gs.ai.GenerateJSON(ctx, prompt)
	if aiErr != nil {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrUpstream, aiErr.Error())
	}
	parsed := aigen.ParseFlashcards(raw, count)
	if len(parsed) == 0 {
		return nil, nil, fmt.Errorf("%w: model returned no usable flashcards", apperrors.ErrUpstream)
	}

	set := &types.FlashcardSet{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: doc.ID,
		Title:      fmt.Sprintf("Flashcards: %s", doc.Title),
		CardCount:  len(parsed),
	}
	cards := make([]*types.Flashcard, 0, len(parsed))
	for i, c := range parsed {
		cards = append(cards, &types.Flashcard{
			ID:         uuid.New(),
			SetID:      set.ID,
			Index:      i,
			Question:   c.Question,
			Answer:     c.Answer,
			Difficulty: c.Difficulty,
		})
	}

	if err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, sErr := gs.flashcardRepo.CreateSets(ctx, tx, []*types.FlashcardSet{set}); sErr != nil {
			return fmt.Errorf("Failed to create flashcard set: %w", sErr)
		}
		if _, cErr := gs.flashcardRepo.CreateCards(ctx, tx, cards); cErr != nil {
			return fmt.Errorf("Failed to create flashcards: %w", cErr)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	gs.publish(ctx, userID, sse.SSEEventFlashcardsGenerated, map[string]any{
		"setId":      set.ID,
		"documentId": doc.ID,
		"cardCount":  len(cards),
	})
	return set, cards, nil
}

func (gs *generationService) GenerateSummary(ctx context.Context, userID, docID uuid.UUID) (string, error) {
	doc, err := gs.documentService.GetOwnedReady(ctx, nil, userID, docID)
	if err != nil {
		return "", err
	}
	raw, aiErr := gs.ai.Generate(ctx, aigen.SummaryPrompt(capText(doc.ExtractedText, maxPromptChars)))
	if aiErr != nil {
		gs.log.Error("Summary generation error", "documentID", docID, "error", aiErr)
		return summaryFallback, nil
	}
	return strings.TrimSpace(raw), nil
}

func (gs *generationService) Chat(ctx context.Context, userID, docID uuid.UUID, question string) (*types.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", apperrors.ErrInvalidArgument)
	}
	doc, err := gs.documentService.GetOwnedReady(ctx, nil, userID, docID)
	if err != nil {
		return nil, err
	}

	chunks, cErr := gs.chunkRepo.GetTopByDocumentID(ctx, nil, doc.ID, chatContextChunks)
	if cErr != nil {
		return nil, fmt.Errorf("Failed to load document chunks: %w", cErr)
	}
	contextChunks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		contextChunks = append(contextChunks, c.Content)
	}

	answer := chatFallback
	raw, aiErr := gs.ai.Generate(ctx, aigen.ChatPrompt(question, contextChunks))
	if aiErr != nil {
		gs.log.Error("Chat generation error", "documentID", docID, "error", aiErr)
	} else {
		answer = strings.TrimSpace(raw)
	}

	userMsg := &types.ChatMessage{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: doc.ID,
		Role:       types.ChatRoleUser,
		Content:    question,
	}
	assistantMsg := &types.ChatMessage{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: doc.ID,
		Role:       types.ChatRoleAssistant,
		Content:    answer,
	}
	if err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, mErr := gs.chatRepo.Create(ctx, tx, []*types.ChatMessage{userMsg, assistantMsg})
		return mErr
	}); err != nil {
		return nil, fmt.Errorf("Failed to persist chat messages: %w", err)
	}
	return assistantMsg, nil
}

func (gs *generationService) ExplainConcept(ctx context.Context, userID, docID uuid.UUID, concept string) (string, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", fmt.Errorf("%w: concept is required", apperrors.ErrInvalidArgument)
	}
	doc, err := gs.documentService.GetOwnedReady(ctx, nil, userID, docID)
	if err != nil {
		return "", err
	}
	raw, aiErr := gs.ai.Generate(ctx, aigen.ExplainPrompt(concept, capText(doc.ExtractedText, maxPromptChars)))
	if aiErr != nil {
		gs.log.Error("Explanation generation error", "documentID", docID, "error", aiErr)
		return explainFallback, nil
	}
	return strings.TrimSpace(raw), nil
}

func (gs *generationService) ChatHistory(ctx context.Context, userID, docID uuid.UUID) ([]*types.ChatMessage, error) {
	if _, err := gs.documentService.Get(ctx, userID, docID); err != nil {
		return nil, err
	}
	return gs.chatRepo.ListByDocumentID(ctx, nil, userID, docID)
}

func (gs *generationService) publish(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any) {
	if gs.events == nil {
		return
	}
	msg := sse.SSEMessage{Channel: sse.UserChannel(userID), Event: event, Data: data}
	if err := gs.events.Publish(ctx, msg); err != nil {
		gs.log.Warn("Failed to publish event", "event", event, "error", err)
	}
}

func capText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
