package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	restctx "github.com/dtroode/amcbunq-server/internal/api/rest/context"
	"github.com/dtroode/amcbunq-server/internal/mailer"
	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/repository/memory"
	"github.com/dtroode/amcbunq-server/internal/service"
	"github.com/dtroode/amcbunq-server/internal/testutil"
	"github.com/dtroode/amcbunq-server/internal/token"
)

func TestRouter_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lg := testutil.MakeNoopLogger()
	store := memory.NewStore()
	users := service.NewUserGateway(store.Users(), lg)
	_, err := users.CreateUser(context.Background(), service.CreateUserParams{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	tokens := token.NewJWT("test-secret")
	services := Services{
		Users:             users,
		Documents:         service.NewDocument(store.Documents(), store.Users(), nil, lg),
		Budgets:           service.NewBudget(store.Budgets(), store.Users(), lg),
		Tickets:           service.NewSupportTicket(store.Tickets(), store.Users(), lg),
		EmailVerification: service.NewEmailVerification(store.VerificationCodes(), users, mailer.NewLog(lg), lg, time.Minute, 3),
	}
	engine := New(services, tokens, store, restctx.NewManager(), 1<<20, lg).Register()

	userToken, err := tokens.GenerateAccessToken(model.Principal{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateAccessToken(model.Principal{UserID: "ops", Admin: true}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "api requires token", method: http.MethodGet, path: "/api/users/u1", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/users/u1", token: "garbage", wantStatus: http.StatusUnauthorized},
		{name: "own record", method: http.MethodGet, path: "/api/users/u1", token: userToken, wantStatus: http.StatusOK},
		{name: "foreign record", method: http.MethodGet, path: "/api/users/u2", token: userToken, wantStatus: http.StatusForbidden},
		{name: "admin lookup by email", method: http.MethodGet, path: "/api/users?email=u1@example.com", token: adminToken, wantStatus: http.StatusOK},
		{name: "notifications", method: http.MethodGet, path: "/api/notifications/u1?sinceMinutes=5", token: userToken, wantStatus: http.StatusOK},
		{name: "budgets", method: http.MethodGet, path: "/api/budgets/u1", token: userToken, wantStatus: http.StatusOK},
		{name: "documents", method: http.MethodGet, path: "/api/documents/u1", token: userToken, wantStatus: http.StatusOK},
		{name: "tickets", method: http.MethodGet, path: "/api/support/tickets", token: userToken, wantStatus: http.StatusOK},
		{name: "send code", method: http.MethodPost, path: "/api/email-verification/send", token: userToken, wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", token: userToken, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}
