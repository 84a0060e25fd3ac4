// Package auth owns the registration -> confirmation -> login state
// machine. Handlers translate its typed errors into HTTP responses.
package auth

import (
	"errors"
	"fmt"

	"bitwise74/social-api/internal/model"
	"bitwise74/social-api/internal/service"
	"bitwise74/social-api/internal/store"
	"bitwise74/social-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	ErrEmailTaken = errors.New("a user with that email already exists")

	// One error for both "no such user" and "wrong password" so responses
	// don't reveal which half failed
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailNotConfirmed = errors.New("email not confirmed")
	ErrUserNotFound      = errors.New("user not found")
)

// UserStore is the slice of the store the authenticator needs.
type UserStore interface {
	FindUserByEmail(email string) (*model.User, error)
	InsertUser(u *model.User) error
	SetConfirmed(email string) error
}

// Dispatcher accepts deferred work. Ownership of the job transfers on
// submit; the caller must not touch its arguments afterwards.
type Dispatcher interface {
	Submit(j *service.Job) error
}

type Authenticator struct {
	Users  UserStore
	Argon  *security.ArgonHash
	Tokens *security.TokenCodec
	Jobs   Dispatcher
	Mailer service.Mailer

	// ConfirmURLBase is the prefix the emailed confirmation token is
	// appended to, e.g. "https://example.com/api/users/confirm?token="
	ConfirmURLBase string
}

// Register creates an unconfirmed user and hands the confirmation email
// off to the dispatcher. It returns as soon as the user row exists; the
// email goes out after the response, or not at all if delivery fails.
func (a *Authenticator) Register(email, password string) (*model.User, error) {
	_, err := a.Users.FindUserByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user, %w", err)
	}

	hash, err := a.Argon.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID, %w", err)
	}

	user := &model.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		Confirmed:    false,
	}

	if err := a.Users.InsertUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	confirmToken, err := a.Tokens.Issue(email, security.TokenConfirm, security.ConfirmTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue confirmation token, %w", err)
	}

	job := service.NewRegistrationEmailJob(a.Mailer, email, a.ConfirmURLBase+confirmToken)
	if err := a.Jobs.Submit(job); err != nil {
		// The account exists either way. Losing the mail here is the same
		// terminal case as a delivery failure inside the job.
		zap.L().Error("Failed to submit registration email job",
			zap.Error(err),
			zap.String("userID", userID),
		)
	}

	return user, nil
}

// Confirm redeems a confirmation token and marks its subject confirmed.
// Confirming an already-confirmed user is a no-op.
func (a *Authenticator) Confirm(token string) (string, error) {
	email, err := a.Tokens.Verify(token, security.TokenConfirm)
	if err != nil {
		return "", err
	}

	if _, err := a.Users.FindUserByEmail(email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}

		return "", fmt.Errorf("failed to look up user, %w", err)
	}

	if err := a.Users.SetConfirmed(email); err != nil {
		return "", fmt.Errorf("failed to confirm user, %w", err)
	}

	return email, nil
}

// Login checks credentials and returns a fresh access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (a *Authenticator) Login(email, password string) (string, error) {
	user, err := a.Users.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := a.Argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return "", ErrInvalidCredentials
	}

	if !user.Confirmed {
		return "", ErrEmailNotConfirmed
	}

	return a.Tokens.Issue(email, security.TokenAccess, security.AccessTokenTTL)
}

// AuthenticateRequest resolves an access token to a live user. Tokens are
// stateless and carry no revocation, so the store lookup happens on every
// call; a valid token for a vanished user fails with ErrUserNotFound.
func (a *Authenticator) AuthenticateRequest(token string) (*model.User, error) {
	email, err := a.Tokens.Verify(token, security.TokenAccess)
	if err != nil {
		return nil, err
	}

	user, err := a.Users.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return user, nil
}
