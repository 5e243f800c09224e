package service

import (
	"context"
	"fmt"

	"github.com/mkhiriev/go-todo-vault/internal/config"
	"github.com/mkhiriev/go-todo-vault/internal/logger"
	"github.com/mkhiriev/go-todo-vault/internal/store"
	"github.com/mkhiriev/go-todo-vault/internal/utils"
	"github.com/mkhiriev/go-todo-vault/models"
)

// userService implements UserService on top of the UserRepository.
// A submitted password replacement is hashed here, and a submitted email is
// normalized and validated here, so the store only ever sees canonical data.
type userService struct {
	userRepository store.UserRepository

	bcryptCost int

	logger *logger.Logger
}

// NewUserService constructs a UserService wired to the given UserRepository.
func NewUserService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		bcryptCost:     cfg.BcryptCost,
		logger:         logger,
	}
}

func (u *userService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	return u.userRepository.GetUser(ctx, userID)
}

// UpdateProfile applies a partial profile change.
//
// Validation mirrors registration: a present name must be non-empty, a
// present email must be syntactically valid (and is normalized before
// storage), a present password must be non-empty and is hashed before it
// reaches the store.
func (u *userService) UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if update.Name != nil && *update.Name == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	if update.Email != nil {
		normalized, err := normalizeEmail(*update.Email)
		if err != nil {
			return models.User{}, ErrInvalidDataProvided
		}
		update.Email = &normalized
	}

	if update.Password != nil {
		if *update.Password == "" {
			return models.User{}, ErrInvalidDataProvided
		}

		passwordHash, err := utils.HashPassword(*update.Password, u.bcryptCost)
		if err != nil {
			log.Err(err).Int64("id", userID).Msg("password hashing failed")
			return models.User{}, fmt.Errorf("password hashing failed: %w", err)
		}
		update.Password = &passwordHash
	}

	updatedUser, err := u.userRepository.UpdateUser(ctx, userID, update)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("profile update ended with error")
		return models.User{}, fmt.Errorf("profile update ended with error: %w", err)
	}

	return updatedUser, nil
}

// DeleteAccount removes the user together with owned todos and active
// sessions. The cascade is a single logical operation at the store layer,
// so a half-deleted account is never observable.
func (u *userService) DeleteAccount(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if err := u.userRepository.DeleteUser(ctx, userID); err != nil {
		log.Err(err).Int64("id", userID).Msg("account deletion ended with error")
		return fmt.Errorf("account deletion ended with error: %w", err)
	}

	return nil
}

// SetAvatar stores the raw avatar bytes for the user. Empty input is
// rejected; size limits are the transport layer's concern.
func (u *userService) SetAvatar(ctx context.Context, userID int64, avatar []byte) error {
	if len(avatar) == 0 {
		return ErrInvalidDataProvided
	}

	return u.userRepository.SetAvatar(ctx, userID, avatar)
}

func (u *userService) GetAvatar(ctx context.Context, userID int64) ([]byte, error) {
	return u.userRepository.GetAvatar(ctx, userID)
}

func (u *userService) DeleteAvatar(ctx context.Context, userID int64) error {
	return u.userRepository.DeleteAvatar(ctx, userID)
}
