package rentlens

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.DisplayName, validation.Required, validation.Length(1, 120)),
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(MinPasswordLength, 0)),
	)
}

// Registrar creates accounts inside a single transaction. It never signs the
// new user in; the caller authenticates explicitly once the account exists.
type Registrar struct {
	repo   RepositoryManager
	logger Logger
}

var _ AccountRegistrerer = (*Registrar)(nil)

func NewRegistrar(repo RepositoryManager) *Registrar {
	return &Registrar{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *Registrar) WithLogger(logger Logger) *Registrar {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *Registrar) RegisterUser(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.registerUser(ctx, msg)
	}
}

func (h *Registrar) registerUser(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(msg.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = msg.Email
		user.DisplayName = msg.DisplayName
		user.Username = msg.Username
		if role, ok := ParseRole(msg.Role); ok {
			user.Role = role
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	h.logger.Info("registered user %s", user.Email)

	return user, nil
}
