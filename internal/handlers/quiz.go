package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scholarmate/scholarmate-backend/internal/requestdata"
	"github.com/scholarmate/scholarmate-backend/internal/services"
)

type QuizHandler struct {
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (qh *QuizHandler) ListByDocument(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	docID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	quizzes, err := qh.quizService.ListByDocument(c.Request.Context(), rd.UserID, docID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, len(quizzes), quizzes)
}

func (qh *QuizHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid quiz ID")
		return
	}
	quiz, err := qh.quizService.Get(c.Request.Context(), rd.UserID, quizID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, quiz)
}

func (qh *QuizHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid quiz ID")
		return
	}
	var req struct {
		Answers []services.SubmittedAnswer `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "please provide answers array")
		return
	}
	if req.Answers == nil {
		RespondBadRequest(c, "please provide answers array")
		return
	}
	result, err := qh.quizService.Submit(c.Request.Context(), rd.UserID, quizID, req.Answers)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, result, "Quiz submitted successfully")
}

func (qh *QuizHandler) Results(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid quiz ID")
		return
	}
	results, err := qh.quizService.Results(c.Request.Context(), rd.UserID, quizID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, results)
}

func (qh *QuizHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid quiz ID")
		return
	}
	if err := qh.quizService.Delete(c.Request.Context(), rd.UserID, quizID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, nil, "Quiz deleted successfully")
}
