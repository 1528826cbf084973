package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scholarmate/scholarmate-backend/internal/requestdata"
	"github.com/scholarmate/scholarmate-backend/internal/services"
)

type AIHandler struct {
	generationService services.GenerationService
}

func NewAIHandler(generationService services.GenerationService) *AIHandler {
	return &AIHandler{generationService: generationService}
}

func (ah *AIHandler) GenerateQuiz(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		DocumentID   string `json:"documentId"`
		NumQuestions int    `json:"numQuestions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	quiz, err := ah.generationService.GenerateQuiz(c.Request.Context(), rd.UserID, docID, req.NumQuestions)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, quiz)
}

func (ah *AIHandler) GenerateFlashcards(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		DocumentID string `json:"documentId"`
		Count      int    `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	set, cards, err := ah.generationService.GenerateFlashcards(c.Request.Context(), rd.UserID, docID, req.Count)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"set": set, "cards": cards})
}

func (ah *AIHandler) GenerateSummary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		DocumentID string `json:"documentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	summary, err := ah.generationService.GenerateSummary(c.Request.Context(), rd.UserID, docID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

func (ah *AIHandler) Chat(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		DocumentID string `json:"documentId"`
		Question   string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	reply, err := ah.generationService.Chat(c.Request.Context(), rd.UserID, docID, req.Question)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, reply)
}

func (ah *AIHandler) ExplainConcept(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		DocumentID string `json:"documentId"`
		Concept    string `json:"concept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	explanation, err := ah.generationService.ExplainConcept(c.Request.Context(), rd.UserID, docID, req.Concept)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"explanation": explanation})
}

func (ah *AIHandler) ChatHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	docID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	history, err := ah.generationService.ChatHistory(c.Request.Context(), rd.UserID, docID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, len(history), history)
}
