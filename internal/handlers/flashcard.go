package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scholarmate/scholarmate-backend/internal/requestdata"
	"github.com/scholarmate/scholarmate-backend/internal/services"
)

type FlashcardHandler struct {
	flashcardService services.FlashcardService
}

func NewFlashcardHandler(flashcardService services.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcardService: flashcardService}
}

func (fh *FlashcardHandler) ListSets(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	sets, err := fh.flashcardService.ListSets(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, len(sets), sets)
}

func (fh *FlashcardHandler) ListSetsByDocument(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	docID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	views, err := fh.flashcardService.ListSetsByDocument(c.Request.Context(), rd.UserID, docID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, len(views), views)
}

func (fh *FlashcardHandler) Review(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	cardID, err := uuid.Parse(c.Param("cardId"))
	if err != nil {
		RespondBadRequest(c, "invalid flashcard ID")
		return
	}
	var req struct {
		Correct bool `json:"correct"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid request body")
		return
	}
	card, err := fh.flashcardService.Review(c.Request.Context(), rd.UserID, cardID, req.Correct)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, card)
}

func (fh *FlashcardHandler) ToggleStar(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	cardID, err := uuid.Parse(c.Param("cardId"))
	if err != nil {
		RespondBadRequest(c, "invalid flashcard ID")
		return
	}
	card, err := fh.flashcardService.ToggleStar(c.Request.Context(), rd.UserID, cardID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, card)
}

func (fh *FlashcardHandler) DeleteSet(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	setID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid flashcard set ID")
		return
	}
	if err := fh.flashcardService.DeleteSet(c.Request.Context(), rd.UserID, setID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, nil, "Flashcard set deleted successfully")
}
