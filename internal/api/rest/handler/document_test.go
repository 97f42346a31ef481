package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/amcbunq-server/internal/model"
)

func uploadRequest(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="document"; filename="`+fileName+`"`)
		h.Set("Content-Type", "application/pdf")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocument_UploadListDownload(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "u1", "u1@example.com")

	req := uploadRequest(t, map[string]string{"userId": "u1", "type": "identity"}, "passport.pdf", []byte("%PDF-1.4"))
	w := env.send(req, as("u1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	doc := decode(t, w)["document"].(map[string]any)
	assert.Equal(t, "passport.pdf", doc["name"])
	assert.Equal(t, "identity", doc["type"])
	assert.Equal(t, "application/pdf", doc["contentType"])
	assert.Equal(t, float64(8), doc["size"])
	assert.Equal(t, "uploaded", doc["status"])
	docID := doc["id"].(string)

	w = env.do(t, as("u1"), http.MethodGet, "/api/documents/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	docs := decode(t, w)["documents"].([]any)
	require.Len(t, docs, 1)
	assert.Equal(t, docID, docs[0].(map[string]any)["id"])
	assert.NotContains(t, w.Body.String(), "objectKey")

	w = env.do(t, as("u1"), http.MethodGet, "/api/documents/u1/"+docID+"/content", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "passport.pdf")

	w = env.do(t, as("u2"), http.MethodGet, "/api/documents/u1/"+docID+"/content", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, admin, http.MethodGet, "/api/documents/u1/missing/content", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocument_UploadRejected(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "u1", "u1@example.com")

	tests := []struct {
		name       string
		who        caller
		fields     map[string]string
		fileName   string
		content    []byte
		wantStatus int
	}{
		{name: "no file", who: as("u1"), fields: map[string]string{"userId": "u1"}, wantStatus: http.StatusBadRequest},
		{name: "no user id", who: as("u1"), fileName: "a.pdf", content: []byte("x"), wantStatus: http.StatusBadRequest},
		{name: "foreign user", who: as("u2"), fields: map[string]string{"userId": "u1"}, fileName: "a.pdf", content: []byte("x"), wantStatus: http.StatusForbidden},
		{name: "unknown type", who: as("u1"), fields: map[string]string{"userId": "u1", "type": "selfie"}, fileName: "a.pdf", content: []byte("x"), wantStatus: http.StatusBadRequest},
		{name: "too large", who: as("u1"), fields: map[string]string{"userId": "u1"}, fileName: "big.pdf", content: []byte(strings.Repeat("x", 2048)), wantStatus: http.StatusRequestEntityTooLarge},
		{name: "unknown user", who: admin, fields: map[string]string{"userId": "ghost"}, fileName: "a.pdf", content: []byte("x"), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.send(uploadRequest(t, tt.fields, tt.fileName, tt.content), tt.who)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	assert.Empty(t, env.storage.objects)
}

func TestBudget_ListBudgets(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "u1", "u1@example.com")
	env.store.Budgets().Put(model.Budget{
		ID: "b1", UserID: "u1", Category: "groceries",
		Limit: 30000, Spent: 12550, Currency: "EUR", Period: model.BudgetMonthly,
	})

	w := env.do(t, as("u1"), http.MethodGet, "/api/budgets/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	budgets := decode(t, w)["budgets"].([]any)
	require.Len(t, budgets, 1)
	b := budgets[0].(map[string]any)
	assert.Equal(t, "300", b["limit"])
	assert.Equal(t, "125.5", b["spent"])
	assert.Equal(t, "174.5", b["remaining"])
	assert.Equal(t, "monthly", b["period"])

	w = env.do(t, as("u2"), http.MethodGet, "/api/budgets/u1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, admin, http.MethodGet, "/api/budgets/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth_Check(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, anonymous, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
