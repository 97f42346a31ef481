package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

// DocumentService defines document operations used by the HTTP API.
type DocumentService interface {
	ListDocuments(ctx context.Context, userID string) ([]model.Document, error)
	UploadDocument(ctx context.Context, params model.UploadDocumentParams, content io.Reader) (model.Document, error)
	OpenDocument(ctx context.Context, userID, documentID string) (model.Document, io.ReadCloser, error)
}

// Document handles document endpoints.
type Document struct {
	principalResolver
	documentService DocumentService
	maxUploadBytes  int64
	logger          *logger.Logger
}

// NewDocument creates a new Document handler. Uploads larger than
// maxUploadBytes are rejected.
func NewDocument(documentService DocumentService, contextManager model.ContextManager, maxUploadBytes int64, logger *logger.Logger) *Document {
	return &Document{
		principalResolver: principalResolver{contextManager: contextManager},
		documentService:   documentService,
		maxUploadBytes:    maxUploadBytes,
		logger:            logger,
	}
}

func (h *Document) ListDocuments(c *gin.Context) {
	userID := c.Param("userId")
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, newDocumentResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "documents": out})
}

// UploadDocument accepts a multipart form with userId, type and a file part
// named document.
func (h *Document) UploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, failure("upload is too large"))
			return
		}
		badRequest(c, "document file is required")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
			failure(fmt.Sprintf("document exceeds %d bytes", h.maxUploadBytes)))
		return
	}

	userID := c.PostForm("userId")
	if userID == "" {
		badRequest(c, "userId is required")
		return
	}
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	doc, err := h.documentService.UploadDocument(c.Request.Context(), model.UploadDocumentParams{
		UserID:      userID,
		Name:        fileHeader.Filename,
		Type:        model.DocumentType(c.PostForm("type")),
		ContentType: contentType,
		Size:        fileHeader.Size,
	}, file)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "document": newDocumentResponse(doc)})
}

// DownloadDocument streams the stored content of a document.
func (h *Document) DownloadDocument(c *gin.Context) {
	userID := c.Param("userId")
	if _, ok := h.authorize(c, userID); !ok {
		return
	}

	doc, content, err := h.documentService.OpenDocument(c.Request.Context(), userID, c.Param("documentId"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer content.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.ContentType, content, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}),
	})
}
