package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scholarmate/scholarmate-backend/internal/requestdata"
	"github.com/scholarmate/scholarmate-backend/internal/services"
)

// maxUploadBytes caps PDF uploads at 20 MiB.
const maxUploadBytes = 20 << 20

type DocumentHandler struct {
	documentService services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (dh *DocumentHandler) Upload(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondBadRequest(c, "please provide a file")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		RespondBadRequest(c, "file too large")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		RespondError(c, err)
		return
	}
	if len(data) > maxUploadBytes {
		RespondBadRequest(c, "file too large")
		return
	}

	doc, err := dh.documentService.Upload(c.Request.Context(), rd.UserID, services.DocumentUpload{
		Title:        c.PostForm("title"),
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, doc)
}

func (dh *DocumentHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	docs, err := dh.documentService.List(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondList(c, len(docs), docs)
}

func (dh *DocumentHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	doc, err := dh.documentService.Get(c.Request.Context(), rd.UserID, docID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, doc)
}

func (dh *DocumentHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "invalid document ID")
		return
	}
	if err := dh.documentService.Delete(c.Request.Context(), rd.UserID, docID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, nil, "Document deleted successfully")
}
