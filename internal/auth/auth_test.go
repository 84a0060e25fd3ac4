package auth

import (
	"context"
	"strings"
	"testing"

	"bitwise74/social-api/internal/model"
	"bitwise74/social-api/internal/service"
	"bitwise74/social-api/internal/store"
	"bitwise74/social-api/pkg/security"

	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) FindUserByEmail(email string) (*model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}

	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) InsertUser(u *model.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserStore) SetConfirmed(email string) error {
	if u, ok := f.users[email]; ok {
		u.Confirmed = true
	}
	return nil
}

type fakeDispatcher struct {
	jobs []*service.Job
	err  error
}

func (f *fakeDispatcher) Submit(j *service.Job) error {
	if f.err != nil {
		return f.err
	}

	f.jobs = append(f.jobs, j)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func newAuthenticator(t *testing.T) (*Authenticator, *fakeUserStore, *fakeDispatcher, *fakeMailer) {
	t.Helper()

	users := newFakeUserStore()
	jobs := &fakeDispatcher{}
	mailer := &fakeMailer{}

	a := &Authenticator{
		Users:          users,
		Argon:          security.NewArgon(),
		Tokens:         security.NewTokenCodec("test-secret"),
		Jobs:           jobs,
		Mailer:         mailer,
		ConfirmURLBase: "http://localhost/api/users/confirm?token=",
	}

	return a, users, jobs, mailer
}

// --- tests ---

func TestRegisterCreatesUnconfirmedUser(t *testing.T) {
	t.Parallel()

	a, users, jobs, _ := newAuthenticator(t)

	u, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.False(t, u.Confirmed)

	stored, ok := users.users["a@x.com"]
	require.True(t, ok)
	require.False(t, stored.Confirmed)
	require.NotEqual(t, "password1", stored.PasswordHash)

	// The welcome email is queued, not sent inline
	require.Len(t, jobs.jobs, 1)
	require.Equal(t, "registration_email", jobs.jobs[0].Kind)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)

	_, err = a.Register("a@x.com", "other-password")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterSucceedsWhenQueueFull(t *testing.T) {
	t.Parallel()

	a, users, jobs, _ := newAuthenticator(t)
	jobs.err = service.ErrQueueFull

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)
	require.Contains(t, users.users, "a@x.com")
}

func TestLoginBeforeConfirmation(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)

	_, err = a.Login("a@x.com", "password1")
	require.ErrorIs(t, err, ErrEmailNotConfirmed)
}

func TestLoginInvalidCredentialsIndistinguishable(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)

	_, missingErr := a.Login("nobody@x.com", "password1")
	_, wrongPwErr := a.Login("a@x.com", "wrong-password")

	require.ErrorIs(t, missingErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
	require.Equal(t, missingErr.Error(), wrongPwErr.Error())
}

func TestConfirmWrongTokenKind(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)

	access, err := a.Tokens.Issue("a@x.com", security.TokenAccess, security.AccessTokenTTL)
	require.NoError(t, err)

	_, err = a.Confirm(access)
	require.ErrorIs(t, err, security.ErrTokenWrongKind)
}

func TestConfirmIsIdempotent(t *testing.T) {
	t.Parallel()

	a, users, _, _ := newAuthenticator(t)

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)

	tok, err := a.Tokens.Issue("a@x.com", security.TokenConfirm, security.ConfirmTokenTTL)
	require.NoError(t, err)

	for range 2 {
		email, err := a.Confirm(tok)
		require.NoError(t, err)
		require.Equal(t, "a@x.com", email)
	}

	require.True(t, users.users["a@x.com"].Confirmed)
}

func TestConfirmUnknownUser(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)

	tok, err := a.Tokens.Issue("ghost@x.com", security.TokenConfirm, security.ConfirmTokenTTL)
	require.NoError(t, err)

	_, err = a.Confirm(tok)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticateRequestUserGone(t *testing.T) {
	t.Parallel()

	a, users, _, _ := newAuthenticator(t)

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)

	tok, err := a.Tokens.Issue("a@x.com", security.TokenAccess, security.AccessTokenTTL)
	require.NoError(t, err)

	// Token is still valid but the account vanished in between
	delete(users.users, "a@x.com")

	_, err = a.AuthenticateRequest(tok)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestFullRegistrationFlow(t *testing.T) {
	t.Parallel()

	a, _, jobs, mailer := newAuthenticator(t)

	_, err := a.Register("a@x.com", "pw-for-flow")
	require.NoError(t, err)

	// Run the deferred registration email and pull the confirmation
	// token out of the mail body, like a user clicking the link
	require.Len(t, jobs.jobs, 1)
	require.NoError(t, jobs.jobs[0].Run(context.Background()))
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "a@x.com", mailer.sent[0].to)

	parts := strings.Split(mailer.sent[0].body, "token=")
	require.Len(t, parts, 2)
	confirmToken := parts[1]

	email, err := a.Confirm(confirmToken)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)

	accessToken, err := a.Login("a@x.com", "pw-for-flow")
	require.NoError(t, err)

	u, err := a.AuthenticateRequest(accessToken)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", u.Email)
	require.True(t, u.Confirmed)
}

func TestAuthenticateRequestRejectsConfirmationToken(t *testing.T) {
	t.Parallel()

	a, _, _, _ := newAuthenticator(t)

	_, err := a.Register("a@x.com", "password1")
	require.NoError(t, err)

	tok, err := a.Tokens.Issue("a@x.com", security.TokenConfirm, security.ConfirmTokenTTL)
	require.NoError(t, err)

	_, err = a.AuthenticateRequest(tok)
	require.ErrorIs(t, err, security.ErrTokenWrongKind)
}
