package command

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserCommand contains the registration payload.
type RegisterUserCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
	if len(c.Password) < user.MinPasswordLength {
		return shared.ErrPasswordTooShort
	}
	if strings.TrimSpace(c.FirstName) == "" {
		return shared.NewDomainError("user", "Register", shared.ErrEmptyValue, "first name is required")
	}
	return nil
}

// RegisterUserResult contains the created user and their session token.
type RegisterUserResult struct {
	User  *user.User
	Token string
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	userRepo user.Repository
	tokens   SessionTokens
	notifier *Notifier
	log      *logger.Logger
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(
	userRepo user.Repository,
	tokens SessionTokens,
	notifier *Notifier,
	log *logger.Logger,
) *RegisterUserHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RegisterUserHandler{
		userRepo: userRepo,
		tokens:   tokens,
		notifier: notifier,
		log:      log.With(logger.Component("register_user")),
	}
}

// Handle executes the registration command.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	email, err := user.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	u, err := user.NewUser(user.NewUserParams{
		ID:           user.ID(newID()),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
	})
	if err != nil {
		return nil, err
	}

	if err := h.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	// Every account starts with the default settings row so the daily
	// goal check works from day one.
	if err := h.userRepo.SaveSettings(ctx, user.DefaultSettings(u.ID)); err != nil {
		return nil, fmt.Errorf("register: save default settings: %w", err)
	}

	if h.notifier != nil {
		if err := h.notifier.Welcome(ctx, u.ID, u.FirstName); err != nil {
			h.log.Warn("failed to emit welcome notification",
				logger.UserID(u.ID.String()), logger.Err(err))
		}
	}

	token, err := h.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("register: issue session token: %w", err)
	}

	h.log.Info("user registered", logger.UserID(u.ID.String()), logger.Email(u.Email.String()))

	return &RegisterUserResult{User: u, Token: token}, nil
}
