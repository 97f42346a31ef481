package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	restctx "github.com/dtroode/amcbunq-server/internal/api/rest/context"
	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/repository/memory"
	"github.com/dtroode/amcbunq-server/internal/service"
	"github.com/dtroode/amcbunq-server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStorage keeps objects in memory.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// capturingMailer records the last mail body per recipient.
type capturingMailer struct {
	mu   sync.Mutex
	sent map[string]string
}

func (m *capturingMailer) Send(_ context.Context, to, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = map[string]string{}
	}
	m.sent[to] = body
	return nil
}

type testEnv struct {
	store   *memory.Store
	users   *service.UserGateway
	storage *fakeStorage
	mailer  *capturingMailer
	engine  *gin.Engine
}

// newTestEnv wires handlers over in-memory stores. Requests authenticate
// through the X-Test-User and X-Test-Admin headers.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	store := memory.NewStore()
	storage := newFakeStorage()
	mailer := &capturingMailer{}
	cm := restctx.NewManager()

	users := service.NewUserGateway(store.Users(), lg)
	documents := service.NewDocument(store.Documents(), store.Users(), storage, lg)
	budgets := service.NewBudget(store.Budgets(), store.Users(), lg)
	tickets := service.NewSupportTicket(store.Tickets(), store.Users(), lg)
	verification := service.NewEmailVerification(store.VerificationCodes(), users, mailer, lg, 10*time.Minute, 3)

	engine := gin.New()
	engine.GET("/health", NewHealth(store, lg).Check)

	api := engine.Group("/api", func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			p := model.Principal{UserID: id, Admin: c.GetHeader("X-Test-Admin") == "true"}
			c.Request = c.Request.WithContext(cm.SetPrincipalToContext(c.Request.Context(), p))
		}
		c.Next()
	})

	uh := NewUser(users, cm, lg)
	api.GET("/users", uh.FindUser)
	api.GET("/users/:userId", uh.GetUser)
	api.PUT("/users/:userId/verification-status", uh.UpdateVerificationStatus)
	api.POST("/users/:userId/email-verified", uh.MarkEmailVerified)
	api.POST("/users/:userId/accounts", uh.AppendAccount)

	nh := NewNotification(users, cm, lg)
	api.GET("/notifications/:userId", nh.ListNotifications)
	api.POST("/notifications", nh.AppendNotifications)

	dh := NewDocument(documents, cm, 1024, lg)
	api.GET("/documents/:userId", dh.ListDocuments)
	api.GET("/documents/:userId/:documentId/content", dh.DownloadDocument)
	api.POST("/documents/upload/", dh.UploadDocument)

	api.GET("/budgets/:userId", NewBudget(budgets, cm).ListBudgets)

	th := NewTicket(tickets, cm, lg)
	api.GET("/support/tickets", th.ListTickets)
	api.GET("/support/tickets/:ticketId", th.GetTicket)
	api.POST("/support/tickets", th.CreateTicket)
	api.POST("/support/tickets/:ticketId/replies", th.AddReply)

	eh := NewEmailVerification(verification, cm)
	api.POST("/email-verification/send", eh.SendCode)
	api.POST("/email-verification/verify", eh.VerifyCode)

	return &testEnv{store: store, users: users, storage: storage, mailer: mailer, engine: engine}
}

func (e *testEnv) createUser(t *testing.T, id, email string) {
	t.Helper()
	_, err := e.users.CreateUser(context.Background(), service.CreateUserParams{ID: id, Email: email})
	require.NoError(t, err)
}

type caller struct {
	userID string
	admin  bool
}

var (
	anonymous = caller{}
	admin     = caller{userID: "admin-1", admin: true}
)

func as(userID string) caller { return caller{userID: userID} }

func (e *testEnv) do(t *testing.T, who caller, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, who)
}

func (e *testEnv) send(req *http.Request, who caller) *httptest.ResponseRecorder {
	if who.userID != "" {
		req.Header.Set("X-Test-User", who.userID)
	}
	if who.admin {
		req.Header.Set("X-Test-Admin", "true")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
