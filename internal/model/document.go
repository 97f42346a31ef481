package model

import (
	"context"
	"time"
)

// DocumentStore defines persistence operations for uploaded document metadata.
type DocumentStore interface {
	Create(ctx context.Context, doc Document) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	GetByUserID(ctx context.Context, userID string) ([]Document, error)
}

// Document describes a file a user uploaded, e.g. for KYC.
type Document struct {
	ID          string
	UserID      string
	Name        string
	Type        DocumentType
	ContentType string
	Size        int64
	ObjectKey   string
	Status      DocumentStatus
	UploadedAt  time.Time
}

type DocumentType string

const (
	DocumentIdentity       DocumentType = "identity"
	DocumentProofOfAddress DocumentType = "proof_of_address"
	DocumentBankStatement  DocumentType = "bank_statement"
	DocumentOther          DocumentType = "other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentIdentity, DocumentProofOfAddress, DocumentBankStatement, DocumentOther:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocumentUploaded DocumentStatus = "uploaded"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// UploadDocumentParams contains parameters to upload a document.
type UploadDocumentParams struct {
	UserID      string
	Name        string
	Type        DocumentType
	ContentType string
	Size        int64
}
