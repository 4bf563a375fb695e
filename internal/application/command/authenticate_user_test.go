package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymind/studymind-server/internal/domain/shared"
)

func newAuthFixture() (*RegisterUserHandler, *AuthenticateUserHandler, *LogoutHandler, *fakeTokens, *fakeNotifRepo) {
	userRepo := newFakeUserRepo()
	notifRepo := newFakeNotifRepo()
	tokens := newFakeTokens()
	notifier := NewNotifier(notifRepo, &fakeUnreadCounter{}, nil)

	register := NewRegisterUserHandler(userRepo, tokens, notifier, nil)
	login := NewAuthenticateUserHandler(userRepo, tokens, nil)
	logout := NewLogoutHandler(tokens)
	return register, login, logout, tokens, notifRepo
}

func TestRegisterUser(t *testing.T) {
	register, _, _, tokens, notifRepo := newAuthFixture()

	res, err := register.Handle(context.Background(), RegisterUserCommand{
		Email:     " New.Student@Example.COM ",
		Password:  "secret1",
		FirstName: "Dana",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.student@example.com", res.User.Email.String())
	assert.NotEmpty(t, res.Token)

	// The token is immediately usable.
	id, err := tokens.Resolve(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)

	// Registration drops a welcome notification.
	assert.Len(t, notifRepo.byTitle("Welcome to StudyMind!"), 1)
}

func TestRegisterUser_Validation(t *testing.T) {
	register, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := register.Handle(ctx, RegisterUserCommand{Email: "a@b.co", Password: "short", FirstName: "D"})
	assert.ErrorIs(t, err, shared.ErrPasswordTooShort)

	_, err = register.Handle(ctx, RegisterUserCommand{Email: "a@b.co", Password: "secret1", FirstName: "  "})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = register.Handle(ctx, RegisterUserCommand{Email: "not-an-email", Password: "secret1", FirstName: "D"})
	assert.ErrorIs(t, err, shared.ErrInvalidEmail)
}

func TestRegisterUser_EmailTaken(t *testing.T) {
	register, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	cmd := RegisterUserCommand{Email: "a@b.co", Password: "secret1", FirstName: "D"}
	_, err := register.Handle(ctx, cmd)
	require.NoError(t, err)

	_, err = register.Handle(ctx, cmd)
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestAuthenticateUser(t *testing.T) {
	register, login, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := register.Handle(ctx, RegisterUserCommand{Email: "a@b.co", Password: "secret1", FirstName: "D"})
	require.NoError(t, err)

	res, err := login.Handle(ctx, AuthenticateUserCommand{Email: "A@B.CO", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestAuthenticateUser_WrongCredentials(t *testing.T) {
	register, login, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := register.Handle(ctx, RegisterUserCommand{Email: "a@b.co", Password: "secret1", FirstName: "D"})
	require.NoError(t, err)

	// Unknown account and wrong password are indistinguishable.
	_, err = login.Handle(ctx, AuthenticateUserCommand{Email: "ghost@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, shared.ErrWrongCredentials)

	_, err = login.Handle(ctx, AuthenticateUserCommand{Email: "a@b.co", Password: "wrong"})
	assert.ErrorIs(t, err, shared.ErrWrongCredentials)

	_, err = login.Handle(ctx, AuthenticateUserCommand{Email: "garbage", Password: "secret1"})
	assert.ErrorIs(t, err, shared.ErrWrongCredentials)
}

func TestLogout(t *testing.T) {
	register, _, logout, tokens, _ := newAuthFixture()
	ctx := context.Background()

	res, err := register.Handle(ctx, RegisterUserCommand{Email: "a@b.co", Password: "secret1", FirstName: "D"})
	require.NoError(t, err)

	require.NoError(t, logout.Handle(ctx, res.Token))

	_, err = tokens.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	// Revoking an already-revoked token is not an error.
	assert.NoError(t, logout.Handle(ctx, res.Token))
}
