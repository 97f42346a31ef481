package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/repository/memory"
	"github.com/dtroode/amcbunq-server/internal/testutil"
)

func seedUser(t *testing.T, store *memory.Store, id string) {
	t.Helper()
	_, err := store.Users().Create(context.Background(), model.User{ID: id, Email: id + "@example.com"})
	require.NoError(t, err)
}

func TestDocument_UploadAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1")

	storage := &MockStorage{}
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/u1/")
	}), mock.Anything, int64(3), "application/pdf").Return(nil)

	svc := NewDocument(store.Documents(), store.Users(), storage, testutil.MakeNoopLogger())

	doc, err := svc.UploadDocument(ctx, model.UploadDocumentParams{
		UserID:      "u1",
		Name:        "../../etc/passport.pdf",
		Type:        model.DocumentIdentity,
		ContentType: "application/pdf",
		Size:        3,
	}, bytes.NewReader([]byte("pdf")))
	require.NoError(t, err)
	assert.Equal(t, "passport.pdf", doc.Name)
	assert.Equal(t, model.DocumentUploaded, doc.Status)
	assert.Equal(t, "documents/u1/"+doc.ID, doc.ObjectKey)

	docs, err := svc.ListDocuments(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	storage.AssertExpectations(t)
}

func TestDocument_Upload_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	storage := &MockStorage{}
	svc := NewDocument(store.Documents(), store.Users(), storage, testutil.MakeNoopLogger())

	_, err := svc.UploadDocument(ctx, model.UploadDocumentParams{UserID: "u1", Name: "a.pdf", Type: "selfie"}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = svc.UploadDocument(ctx, model.UploadDocumentParams{UserID: "u1", Name: " "}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = svc.UploadDocument(ctx, model.UploadDocumentParams{UserID: "ghost", Name: "a.pdf"}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, model.ErrNotFound)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocument_Upload_RemovesOrphanOnMetadataFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1")

	storage := &MockStorage{}
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	storage.On("Delete", mock.Anything, mock.Anything).Return(nil)

	docs := &MockDocumentStore{}
	docs.On("Create", mock.Anything, mock.Anything).Return(model.Document{}, model.ErrStoreUnavailable)

	svc := NewDocument(docs, store.Users(), storage, testutil.MakeNoopLogger())

	_, err := svc.UploadDocument(ctx, model.UploadDocumentParams{UserID: "u1", Name: "a.pdf"}, bytes.NewReader([]byte("x")))
	require.ErrorIs(t, err, model.ErrStoreUnavailable)
	storage.AssertCalled(t, "Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/u1/")
	}))
}

func TestDocument_OpenDocument(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := store.Documents().Create(ctx, model.Document{ID: "d1", UserID: "u1", ObjectKey: "documents/u1/d1"})
	require.NoError(t, err)

	storage := &MockStorage{}
	storage.On("Download", mock.Anything, "documents/u1/d1").Return(io.NopCloser(bytes.NewReader([]byte("content"))), nil)
	svc := NewDocument(store.Documents(), store.Users(), storage, testutil.MakeNoopLogger())

	doc, rc, err := svc.OpenDocument(ctx, "u1", "d1")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, "content", string(data))

	_, _, err = svc.OpenDocument(ctx, "u2", "d1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDocument_ListDocuments_MissingUser(t *testing.T) {
	store := memory.NewStore()
	svc := NewDocument(store.Documents(), store.Users(), &MockStorage{}, testutil.MakeNoopLogger())

	_, err := svc.ListDocuments(context.Background(), "ghost")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBudget_ListBudgets(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedUser(t, store, "u1")
	store.Budgets().Put(model.Budget{ID: "b2", UserID: "u1", Category: "travel", Limit: 100})
	store.Budgets().Put(model.Budget{ID: "b1", UserID: "u1", Category: "groceries", Limit: 200, Spent: 50})
	store.Budgets().Put(model.Budget{ID: "b3", UserID: "u2", Category: "rent"})

	svc := NewBudget(store.Budgets(), store.Users(), testutil.MakeNoopLogger())

	budgets, err := svc.ListBudgets(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "groceries", budgets[0].Category)
	assert.Equal(t, int64(150), budgets[0].Remaining())

	_, err = svc.ListBudgets(ctx, "ghost")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBudget_ListBudgets_StoreError(t *testing.T) {
	users := &MockUserStore{}
	users.On("GetByID", mock.Anything, "u1").Return(model.User{}, errors.Join(model.ErrStoreUnavailable, errors.New("timeout")))

	svc := NewBudget(memory.NewStore().Budgets(), users, testutil.MakeNoopLogger())

	_, err := svc.ListBudgets(context.Background(), "u1")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}
