package command

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE USER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateUserCommand contains login credentials.
type AuthenticateUserCommand struct {
	Email    string
	Password string
}

// AuthenticateUserResult contains the user and a fresh session token.
type AuthenticateUserResult struct {
	User  *user.User
	Token string
}

// AuthenticateUserHandler handles the AuthenticateUserCommand.
type AuthenticateUserHandler struct {
	userRepo user.Repository
	tokens   SessionTokens
	log      *logger.Logger
}

// NewAuthenticateUserHandler creates a new AuthenticateUserHandler.
func NewAuthenticateUserHandler(userRepo user.Repository, tokens SessionTokens, log *logger.Logger) *AuthenticateUserHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AuthenticateUserHandler{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log.With(logger.Component("authenticate_user")),
	}
}

// Handle verifies credentials and issues a session token. Unknown email
// and wrong password collapse into the same error so the response does
// not leak which accounts exist.
func (h *AuthenticateUserHandler) Handle(ctx context.Context, cmd AuthenticateUserCommand) (*AuthenticateUserResult, error) {
	email, err := user.NewEmail(cmd.Email)
	if err != nil {
		return nil, shared.ErrWrongCredentials
	}

	u, err := h.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrWrongCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, shared.ErrWrongCredentials
	}

	u.Touch()
	if err := h.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("authenticate: update last active: %w", err)
	}

	token, err := h.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: issue session token: %w", err)
	}

	h.log.Info("user authenticated", logger.UserID(u.ID.String()))

	return &AuthenticateUserResult{User: u, Token: token}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGOUT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// LogoutHandler revokes session tokens.
type LogoutHandler struct {
	tokens SessionTokens
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(tokens SessionTokens) *LogoutHandler {
	return &LogoutHandler{tokens: tokens}
}

// Handle revokes the given token.
func (h *LogoutHandler) Handle(ctx context.Context, token string) error {
	return h.tokens.Revoke(ctx, token)
}
