package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blog-engagement/internal/domain/entity"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
	"github.com/oksasatya/blog-engagement/pkg/mailer"
)

type recordingNotifier struct {
	jobs []mailer.EmailJob
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, job mailer.EmailJob) error {
	if n.err != nil {
		return n.err
	}
	n.jobs = append(n.jobs, job)
	return nil
}

// capturingLinks remembers the last token put into a link.
type capturingLinks struct{ token string }

func (l *capturingLinks) ResetPasswordURL(token string) string {
	l.token = token
	return "https://blog.test/reset-password/" + token
}

func (l *capturingLinks) VerifyAccountURL(token string) string {
	l.token = token
	return "https://blog.test/verify-account/" + token
}

type accountFixture struct {
	*fixture
	accounts *AccountService
	sessions *SessionService
	notifier *recordingNotifier
	links    *capturingLinks
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	f := newFixture(t)
	logger := helpers.NewNopLogger()
	reset, verify := newVaults(f)
	n, links := &recordingNotifier{}, &capturingLinks{}
	return &accountFixture{
		fixture:  f,
		accounts: NewAccountService(f.users, reset, verify, n, links, logger),
		sessions: NewSessionService(f.users, helpers.NewJWTManager("test-secret", time.Hour), nil, logger),
		notifier: n,
		links:    links,
	}
}

func (f *accountFixture) register(t *testing.T, name, password string) *entity.User {
	t.Helper()
	u, err := f.sessions.Register(context.Background(), RegisterInput{
		Username: name, Email: name + "@example.com", Password: password, FirstName: name,
	})
	require.NoError(t, err)
	return u
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAccountFixture(t)
	u := f.register(t, "alice", "old-password")
	ctx := context.Background()

	require.NoError(t, f.accounts.ForgotPassword(ctx, "ALICE@example.com"))
	require.Len(t, f.notifier.jobs, 1)
	job := f.notifier.jobs[0]
	assert.Equal(t, u.Email, job.To)
	assert.Equal(t, "password_reset", job.Kind)
	assert.Contains(t, job.Text, "https://blog.test/reset-password/"+f.links.token)
	assert.Contains(t, job.Text, "30 minutes")

	require.NoError(t, f.accounts.ResetPassword(ctx, f.links.token, "new-password"))

	_, err := f.sessions.Login(ctx, u.Email, "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.sessions.Login(ctx, u.Email, "new-password")
	assert.NoError(t, err)

	// the link works once
	assert.ErrorIs(t, f.accounts.ResetPassword(ctx, f.links.token, "third-password"), ErrTokenInvalid)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newAccountFixture(t)
	err := f.accounts.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.notifier.jobs)
}

func TestResetPasswordRejectsMalformedToken(t *testing.T) {
	f := newAccountFixture(t)
	err := f.accounts.ResetPassword(context.Background(), "not-a-token", "new-password")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestFailedDeliveryWithdrawsToken(t *testing.T) {
	f := newAccountFixture(t)
	u := f.register(t, "alice", "old-password")
	f.notifier.err = errors.New("broker down")
	ctx := context.Background()

	err := f.accounts.ForgotPassword(ctx, u.Email)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Nil(t, f.reload(t, u.ID).ResetToken)

	sent, err := f.accounts.RequestVerification(ctx, u.ID)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.False(t, sent)
	assert.Nil(t, f.reload(t, u.ID).VerificationToken)
}

func TestVerifyAccount(t *testing.T) {
	f := newAccountFixture(t)
	alice := f.register(t, "alice", "password-a")
	bob := f.register(t, "bob", "password-b")
	ctx := context.Background()

	sent, err := f.accounts.RequestVerification(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, f.notifier.jobs, 1)
	assert.Equal(t, "account_verification", f.notifier.jobs[0].Kind)
	assert.Contains(t, f.notifier.jobs[0].Text, "1 hour")
	token := f.links.token

	// someone else's session cannot spend the token
	assert.ErrorIs(t, f.accounts.Verify(ctx, token, bob.ID), ErrTokenInvalid)
	assert.False(t, f.reload(t, bob.ID).IsVerified)

	require.NoError(t, f.accounts.Verify(ctx, token, alice.ID))
	assert.True(t, f.reload(t, alice.ID).IsVerified)

	sent, err = f.accounts.RequestVerification(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, f.notifier.jobs, 1)
}
