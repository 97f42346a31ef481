package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/testutil"
)

type fakeDialer struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeDialer) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func TestNewSMTP(t *testing.T) {
	s, err := NewSMTP("smtp.example.com", 587, "user", "pass", "no-reply@amcbunq.dev")
	require.NoError(t, err)
	assert.NotNil(t, s.client)

	_, err = NewSMTP("", 587, "", "", "no-reply@amcbunq.dev")
	assert.Error(t, err)
}

func TestSMTP_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTP{client: d, from: "AmCbunq <no-reply@amcbunq.dev>"}

	err := s.Send(context.Background(), "a@example.com", "Your code", "Code: 123456")
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"<a@example.com>"}, msg.GetToString())
	assert.Equal(t, []string{"Your code"}, msg.GetGenHeader(mail.HeaderSubject))

	var raw bytes.Buffer
	_, err = msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "no-reply@amcbunq.dev")
	assert.Contains(t, raw.String(), "123456")
}

func TestSMTP_Send_Errors(t *testing.T) {
	s := &SMTP{client: &fakeDialer{err: errors.New("relay down")}, from: "no-reply@amcbunq.dev"}

	err := s.Send(context.Background(), "a@example.com", "s", "b")
	assert.ErrorContains(t, err, "failed to send mail")

	err = s.Send(context.Background(), "not an address", "s", "b")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	err = s.Send(context.Background(), "a@example.com", "s\r\nBcc: x@example.com", "b")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	s = &SMTP{client: &fakeDialer{}, from: "broken"}
	assert.ErrorContains(t, s.Send(context.Background(), "a@example.com", "s", "b"), "invalid sender address")
}

func TestLog_Send(t *testing.T) {
	lg, buf := testutil.MakeBufferLogger()

	require.NoError(t, NewLog(lg).Send(context.Background(), "a@example.com", "Your code", "123456"))
	assert.Contains(t, buf.String(), "a@example.com")
}
