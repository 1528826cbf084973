package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/apperrors"
	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/pdfextract"
	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/sse"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

// EventPublisher is the sliver of the redis event bus the services need.
type EventPublisher interface {
	Publish(ctx context.Context, msg sse.SSEMessage) error
}

type DocumentUpload struct {
	Title        string
	OriginalName string
	MimeType     string
	Data         []byte
}

type DocumentService interface {
	Upload(ctx context.Context, userID uuid.UUID, upload DocumentUpload) (*types.Document, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Document, error)
	Get(ctx context.Context, userID, docID uuid.UUID) (*types.Document, error)
	Delete(ctx context.Context, userID, docID uuid.UUID) error
	GetOwnedReady(ctx context.Context, tx *gorm.DB, userID, docID uuid.UUID) (*types.Document, error)
}

type documentService struct {
	db            *gorm.DB
	log           *logger.Logger
	documentRepo  repos.DocumentRepo
	chunkRepo     repos.DocumentChunkRepo
	chatRepo      repos.ChatMessageRepo
	bucketService BucketService
	events        EventPublisher
	chunkSize     int
}

func NewDocumentService(
	db *gorm.DB,
	log *logger.Logger,
	documentRepo repos.DocumentRepo,
	chunkRepo repos.DocumentChunkRepo,
	chatRepo repos.ChatMessageRepo,
	bucketService BucketService,
	events EventPublisher,
) DocumentService {
	return &documentService{
		db:            db,
		log:           log.With("service", "DocumentService"),
		documentRepo:  documentRepo,
		chunkRepo:     chunkRepo,
		chatRepo:      chatRepo,
		bucketService: bucketService,
		events:        events,
		chunkSize:     pdfextract.DefaultChunkSize,
	}
}

func (ds *documentService) Upload(ctx context.Context, userID uuid.UUID, upload DocumentUpload) (*types.Document, error) {
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", apperrors.ErrInvalidArgument)
	}
	if !isPDF(upload.OriginalName, upload.MimeType) {
		return nil, fmt.Errorf("%w: only PDF files are supported", apperrors.ErrInvalidArgument)
	}

	title := strings.TrimSpace(upload.Title)
	if title == "" {
		title = strings.TrimSuffix(upload.OriginalName, filepath.Ext(upload.OriginalName))
	}

	doc := &types.Document{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		OriginalName: upload.OriginalName,
		MimeType:     "application/pdf",
		SizeBytes:    int64(len(upload.Data)),
		Status:       types.DocumentStatusProcessing,
	}
	doc.StorageKey = fmt.Sprintf("documents/%s/%s.pdf", userID.String(), doc.ID.String())

	if ds.bucketService != nil {
		if err := ds.bucketService.UploadFile(ctx, nil, doc.StorageKey, bytes.NewReader(upload.Data)); err != nil {
			return nil, fmt.Errorf("Failed to upload document to bucket: %w", err)
		}
		doc.FileURL = ds.bucketService.GetPublicURL(doc.StorageKey)
	}

	if _, err := ds.documentRepo.Create(ctx, nil, []*types.Document{doc}); err != nil {
		return nil, fmt.Errorf("Failed to create document: %w", err)
	}

	// Extraction runs off the request path; clients watch the SSE stream
	// for DocumentReady/DocumentFailed.
	go ds.ingest(context.WithoutCancel(ctx), doc, upload.Data)

	return doc, nil
}

func (ds *documentService) ingest(ctx context.Context, doc *types.Document, data []byte) {
	ingestLog := ds.log.With("documentID", doc.ID, "userID", doc.UserID)

	result, err := pdfextract.Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		ingestLog.Error("PDF extraction failed", "error", err)
		ds.markFailed(ctx, doc)
		return
	}

	chunks := pdfextract.ChunkPages(result.Pages, ds.chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ds.documentRepo.SetExtraction(gctx, nil, doc.ID, result.Text, len(result.Pages))
	})
	g.Go(func() error {
		if len(chunks) == 0 {
			return nil
		}
		rows := make([]*types.DocumentChunk, 0, len(chunks))
		for _, c := range chunks {
			rows = append(rows, &types.DocumentChunk{
				ID:         uuid.New(),
				DocumentID: doc.ID,
				ChunkIndex: c.Index,
				PageNumber: c.PageNumber,
				Content:    c.Content,
			})
		}
		_, cErr := ds.chunkRepo.Create(gctx, nil, rows)
		return cErr
	})
	if err := g.Wait(); err != nil {
		ingestLog.Error("Failed to persist extraction", "error", err)
		ds.markFailed(ctx, doc)
		return
	}

	if err := ds.documentRepo.SetStatus(ctx, nil, doc.ID, types.DocumentStatusReady); err != nil {
		ingestLog.Error("Failed to mark document ready", "error", err)
		return
	}
	ingestLog.Info("Document ingested", "pages", len(result.Pages), "chunks", len(chunks))
	ds.publish(ctx, doc.UserID, sse.SSEEventDocumentReady, map[string]any{
		"documentId": doc.ID,
		"pageCount":  len(result.Pages),
	})
}

func (ds *documentService) markFailed(ctx context.Context, doc *types.Document) {
	if err := ds.documentRepo.SetStatus(ctx, nil, doc.ID, types.DocumentStatusFailed); err != nil {
		ds.log.Error("Failed to mark document failed", "documentID", doc.ID, "error", err)
	}
	ds.publish(ctx, doc.UserID, sse.SSEEventDocumentFailed, map[string]any{
		"documentId": doc.ID,
	})
}

func (ds *documentService) publish(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any) {
	if ds.events == nil {
		return
	}
	msg := sse.SSEMessage{
		Channel: sse.UserChannel(userID),
		Event:   event,
		Data:    data,
	}
	if err := ds.events.Publish(ctx, msg); err != nil {
		ds.log.Warn("Failed to publish event", "event", event, "error", err)
	}
}

func (ds *documentService) List(ctx context.Context, userID uuid.UUID) ([]*types.Document, error) {
	return ds.documentRepo.ListByUserID(ctx, nil, userID)
}

func (ds *documentService) Get(ctx context.Context, userID, docID uuid.UUID) (*types.Document, error) {
	doc, err := ds.getOwned(ctx, nil, userID, docID)
	if err != nil {
		return nil, err
	}
	if err := ds.documentRepo.TouchLastAccessed(ctx, nil, docID, time.Now()); err != nil {
		ds.log.Warn("Failed to touch last accessed (ignored)", "documentID", docID, "error", err)
	}
	return doc, nil
}

func (ds *documentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	doc, err := ds.getOwned(ctx, nil, userID, docID)
	if err != nil {
		return err
	}
	if err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cErr := ds.chunkRepo.FullDeleteByDocumentIDs(ctx, tx, []uuid.UUID{docID}); cErr != nil {
			return fmt.Errorf("Failed to delete document chunks: %w", cErr)
		}
		if mErr := ds.chatRepo.FullDeleteByDocumentIDs(ctx, tx, []uuid.UUID{docID}); mErr != nil {
			return fmt.Errorf("Failed to delete chat messages: %w", mErr)
		}
		if dErr := ds.documentRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{docID}); dErr != nil {
			return fmt.Errorf("Failed to delete document: %w", dErr)
		}
		return nil
	}); err != nil {
		return err
	}
	if ds.bucketService != nil && doc.StorageKey != "" {
		if bErr := ds.bucketService.DeleteFile(ctx, nil, doc.StorageKey); bErr != nil {
			ds.log.Warn("Failed to delete document object (ignored)", "key", doc.StorageKey, "error", bErr)
		}
	}
	return nil
}

// GetOwnedReady loads a document, enforces ownership, and requires that
// extraction finished. Generation call sites go through this.
func (ds *documentService) GetOwnedReady(ctx context.Context, tx *gorm.DB, userID, docID uuid.UUID) (*types.Document, error) {
	doc, err := ds.getOwned(ctx, tx, userID, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status != types.DocumentStatusReady {
		return nil, fmt.Errorf("%w: document is not ready (status %q)", apperrors.ErrConflict, doc.Status)
	}
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return nil, fmt.Errorf("%w: document has no extracted text", apperrors.ErrConflict)
	}
	return doc, nil
}

func (ds *documentService) getOwned(ctx context.Context, tx *gorm.DB, userID, docID uuid.UUID) (*types.Document, error) {
	docs, err := ds.documentRepo.GetByIDs(ctx, tx, []uuid.UUID{docID})
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch document: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: document not found", apperrors.ErrNotFound)
	}
	doc := docs[0]
	if doc.UserID != userID {
		return nil, fmt.Errorf("%w: document belongs to another user", apperrors.ErrUnauthorized)
	}
	return doc, nil
}

func isPDF(name, mimeType string) bool {
	if strings.EqualFold(strings.TrimSpace(mimeType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
