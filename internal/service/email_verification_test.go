package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/repository/memory"
	"github.com/dtroode/amcbunq-server/internal/testutil"
)

func newEmailVerification(t *testing.T, mailer model.Mailer) (*EmailVerification, *memory.Store, *testClock) {
	t.Helper()
	store := memory.NewStore()
	clock := newTestClock()
	users := NewUserGateway(store.Users(), testutil.MakeNoopLogger())
	users.now = clock.Now
	_, err := users.CreateUser(context.Background(), CreateUserParams{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	svc := NewEmailVerification(store.VerificationCodes(), users, mailer, testutil.MakeNoopLogger(), 10*time.Minute, 3)
	svc.now = clock.Now
	svc.generate = func() (string, error) { return "123456", nil }
	return svc, store, clock
}

func TestEmailVerification_SendAndVerify(t *testing.T) {
	ctx := context.Background()
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, "u1@example.com", "Verify your email", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "123456")
	})).Return(nil)

	svc, store, clock := newEmailVerification(t, mailer)

	require.NoError(t, svc.SendCode(ctx, "u1"))
	code, err := store.VerificationCodes().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(10*time.Minute), code.Expires)
	assert.Equal(t, "u1@example.com", code.Email)

	clock.Advance(time.Minute)
	require.NoError(t, svc.VerifyCode(ctx, "u1", "123456"))

	u, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	require.NotNil(t, u.EmailVerifiedAt)
	assert.Equal(t, clock.Now(), *u.EmailVerifiedAt)

	_, err = store.VerificationCodes().Get(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrNotFound)
	mailer.AssertExpectations(t)
}

func TestEmailVerification_VerifyFailures(t *testing.T) {
	ctx := context.Background()
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	t.Run("no pending code", func(t *testing.T) {
		svc, _, _ := newEmailVerification(t, mailer)
		assert.ErrorIs(t, svc.VerifyCode(ctx, "u1", "123456"), model.ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		svc, _, clock := newEmailVerification(t, mailer)
		require.NoError(t, svc.SendCode(ctx, "u1"))
		clock.Advance(10 * time.Minute)
		assert.ErrorIs(t, svc.VerifyCode(ctx, "u1", "123456"), model.ErrCodeExpired)
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		svc, store, _ := newEmailVerification(t, mailer)
		require.NoError(t, svc.SendCode(ctx, "u1"))

		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, svc.VerifyCode(ctx, "u1", "000000"), model.ErrInvalidCode)
		}
		assert.ErrorIs(t, svc.VerifyCode(ctx, "u1", "123456"), model.ErrTooManyAttempts)

		u, err := store.Users().GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, u.EmailVerified)
	})

	t.Run("resend resets attempts", func(t *testing.T) {
		svc, _, _ := newEmailVerification(t, mailer)
		require.NoError(t, svc.SendCode(ctx, "u1"))
		assert.ErrorIs(t, svc.VerifyCode(ctx, "u1", "000000"), model.ErrInvalidCode)
		require.NoError(t, svc.SendCode(ctx, "u1"))
		assert.NoError(t, svc.VerifyCode(ctx, "u1", "123456"))
	})
}

func TestEmailVerification_ConcurrentGuessesStayWithinLimit(t *testing.T) {
	ctx := context.Background()
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc, store, _ := newEmailVerification(t, mailer)
	require.NoError(t, svc.SendCode(ctx, "u1"))

	const guesses = 20
	results := make(chan error, guesses)
	var wg sync.WaitGroup
	for i := 0; i < guesses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.VerifyCode(ctx, "u1", "000000")
		}()
	}
	wg.Wait()
	close(results)

	invalid, exhausted := 0, 0
	for err := range results {
		switch {
		case errors.Is(err, model.ErrInvalidCode):
			invalid++
		case errors.Is(err, model.ErrTooManyAttempts):
			exhausted++
		}
	}
	assert.Equal(t, 3, invalid)
	assert.Equal(t, guesses-3, exhausted)

	code, err := store.VerificationCodes().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, code.Attempts)
}

func TestEmailVerification_SendCode_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newEmailVerification(t, &MockMailer{})
		assert.ErrorIs(t, svc.SendCode(ctx, "ghost"), model.ErrNotFound)
	})

	t.Run("mailer failure", func(t *testing.T) {
		mailer := &MockMailer{}
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("relay down"))
		svc, _, _ := newEmailVerification(t, mailer)
		assert.ErrorContains(t, svc.SendCode(ctx, "u1"), "failed to send code")
	})
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
	}
}
