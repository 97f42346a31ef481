package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
)

type Document struct {
	documentStore model.DocumentStore
	userStore     model.UserStore
	storage       model.Storage
	logger        *logger.Logger
	now           func() time.Time
}

func NewDocument(
	documentStore model.DocumentStore,
	userStore model.UserStore,
	storage model.Storage,
	logger *logger.Logger,
) *Document {
	return &Document{
		documentStore: documentStore,
		userStore:     userStore,
		storage:       storage,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Document) ListDocuments(ctx context.Context, userID string) ([]model.Document, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	docs, err := s.documentStore.GetByUserID(ctx, userID)
	if err != nil {
		logFailure(s.logger, "Document service: failed to list documents", err, "op", "list_documents", "user_id", userID)
		return nil, fmt.Errorf("failed to get documents by user id: %w", err)
	}
	return docs, nil
}

// UploadDocument streams content to object storage and records its metadata.
// The object is removed again if the metadata cannot be saved.
func (s *Document) UploadDocument(ctx context.Context, params model.UploadDocumentParams, content io.Reader) (model.Document, error) {
	if params.Type == "" {
		params.Type = model.DocumentOther
	}
	if !params.Type.Valid() {
		return model.Document{}, fmt.Errorf("%w: unknown document type %q", model.ErrInvalidArgument, params.Type)
	}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(params.Name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return model.Document{}, fmt.Errorf("%w: file name is required", model.ErrInvalidArgument)
	}
	if params.ContentType == "" {
		params.ContentType = "application/octet-stream"
	}

	if err := s.ensureUser(ctx, params.UserID); err != nil {
		return model.Document{}, err
	}

	id := uuid.NewString()
	key := fmt.Sprintf("documents/%s/%s", params.UserID, id)

	if err := s.storage.Upload(ctx, key, content, params.Size, params.ContentType); err != nil {
		logFailure(s.logger, "Document service: failed to upload content", err,
			"op", "upload_document", "user_id", params.UserID, "key", key)
		return model.Document{}, fmt.Errorf("failed to upload document: %w", err)
	}

	doc, err := s.documentStore.Create(ctx, model.Document{
		ID:          id,
		UserID:      params.UserID,
		Name:        name,
		Type:        params.Type,
		ContentType: params.ContentType,
		Size:        params.Size,
		ObjectKey:   key,
		Status:      model.DocumentUploaded,
		UploadedAt:  s.now(),
	})
	if err != nil {
		logFailure(s.logger, "Document service: failed to save metadata", err,
			"op", "upload_document", "user_id", params.UserID, "key", key)
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Error("Document service: failed to remove orphaned object", "key", key, "error", delErr.Error())
		}
		return model.Document{}, fmt.Errorf("failed to save document: %w", err)
	}

	s.logger.Info("Document service: document uploaded", "user_id", doc.UserID, "document_id", doc.ID, "type", doc.Type)
	return doc, nil
}

// OpenDocument returns the metadata and content of a document owned by userID.
// The caller must close the returned reader.
func (s *Document) OpenDocument(ctx context.Context, userID, documentID string) (model.Document, io.ReadCloser, error) {
	doc, err := s.documentStore.GetByID(ctx, documentID)
	if err != nil {
		logFailure(s.logger, "Document service: failed to get document", err,
			"op", "open_document", "user_id", userID, "document_id", documentID)
		return model.Document{}, nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc.UserID != userID {
		return model.Document{}, nil, fmt.Errorf("document %s: %w", documentID, model.ErrNotFound)
	}

	rc, err := s.storage.Download(ctx, doc.ObjectKey)
	if err != nil {
		logFailure(s.logger, "Document service: failed to download content", err,
			"op", "open_document", "user_id", userID, "document_id", documentID)
		return model.Document{}, nil, fmt.Errorf("failed to download document: %w", err)
	}
	return doc, rc, nil
}

func (s *Document) ensureUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is empty", model.ErrInvalidArgument)
	}
	_, err := s.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	if err != nil {
		logFailure(s.logger, "Document service: failed to get user", err, "user_id", userID)
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	return nil
}
