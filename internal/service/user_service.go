package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tomlord1122/todo-tracker/internal/auth"
	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// UserService defines the account operations: registration, login,
// password changes and profile CRUD.
type UserService interface {
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*UserResponse, error)
	// GetAllUsers returns every user with their todos, in id order.
	GetAllUsers(ctx context.Context) ([]UserResponse, error)

	RegisterUser(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	// UpdateUser replaces username, email and avatar. The password hash is
	// left alone.
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error)
	// DeleteUser removes the user and all of their todos atomically.
	DeleteUser(ctx context.Context, id uint) error

	ChangePassword(ctx context.Context, id uint, req ChangePasswordRequest) error
	LoginUser(ctx context.Context, req LoginRequest) (*UserResponse, error)
}

type userService struct {
	store  repository.Store
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a UserService on top of store.
func NewUserService(store repository.Store, hasher auth.PasswordHasher, logger *slog.Logger) UserService {
	return &userService{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

func userNotFound(id uint) error {
	return domain.NotFoundf("User not found with id %d", id)
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return s.view(ctx, user)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("User not found with email %s", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return s.view(ctx, user)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.store.Users().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	todos, err := s.store.Todos().FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list todos of users: %w", err)
	}

	byOwner := make(map[uint][]domain.Todo, len(users))
	for _, todo := range todos {
		byOwner[todo.UserID] = append(byOwner[todo.UserID], todo)
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user, byOwner[user.ID]))
	}
	return responses, nil
}

func (s *userService) RegisterUser(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if err := s.checkUnique(ctx, req.Email, req.Username, 0); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password, "Password must be at most 72 characters long")
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    req.AvatarURL,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// lost a race with a concurrent registration
			return nil, s.duplicateError(ctx, req.Email, req.Username, 0, err)
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Todos:     []TodoResponse{},
	}, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(id)
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if err := s.checkUnique(ctx, req.Email, req.Username, id); err != nil {
		return nil, err
	}

	user.Username = req.Username
	user.Email = req.Email
	user.AvatarURL = req.AvatarURL
	if err := s.store.Users().Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, userNotFound(id)
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, s.duplicateError(ctx, req.Email, req.Username, id, err)
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	return s.view(ctx, user)
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	var removed int64
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		// FOR UPDATE blocks todo creation for this user until we commit
		if _, err := tx.Users().LockByID(ctx, id, repository.LockForUpdate); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(id)
			}
			return fmt.Errorf("lock user %d: %w", id, err)
		}

		n, err := tx.Todos().DeleteByUserID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete todos of user %d: %w", id, err)
		}
		removed = n

		if err := tx.Users().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", id, "todos_removed", removed)
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, id uint, req ChangePasswordRequest) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := tx.Users().LockByID(ctx, id, repository.LockForUpdate)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(id)
			}
			return fmt.Errorf("lock user %d: %w", id, err)
		}

		if !s.hasher.Verify(user.PasswordHash, req.OldPassword) {
			return domain.InvalidCredentialf("Old password is incorrect")
		}

		hash, err := s.hashPassword(req.NewPassword, "New password must be at most 72 characters long")
		if err != nil {
			return err
		}
		user.PasswordHash = hash

		if err := tx.Users().Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(id)
			}
			return fmt.Errorf("store new password of user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", id)
	return nil
}

func (s *userService) LoginUser(ctx context.Context, req LoginRequest) (*UserResponse, error) {
	user, err := s.store.Users().FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("User not found with email %s", req.Email)
		}
		return nil, fmt.Errorf("find user for login: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.logger.WarnContext(ctx, "login rejected", "user_id", user.ID)
		return nil, domain.InvalidCredentialf("Invalid password")
	}

	return s.view(ctx, user)
}

// view loads the user's todos and maps both to the public representation.
func (s *userService) view(ctx context.Context, user *domain.User) (*UserResponse, error) {
	todos, err := s.store.Todos().FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list todos of user %d: %w", user.ID, err)
	}
	resp := toUserResponse(*user, todos)
	return &resp, nil
}

func (s *userService) hashPassword(password, tooLong string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", domain.Validationf("%s", tooLong)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// checkUnique returns a Conflict when email or username belongs to a user
// other than self. Pass self == 0 for a new user.
func (s *userService) checkUnique(ctx context.Context, email, username string, self uint) error {
	other, err := s.store.Users().FindByEmail(ctx, email)
	switch {
	case err == nil && other.ID != self:
		return domain.Conflictf("Email already exists")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("check email uniqueness: %w", err)
	}

	other, err = s.store.Users().FindByUsername(ctx, username)
	switch {
	case err == nil && other.ID != self:
		return domain.Conflictf("Username already exists")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("check username uniqueness: %w", err)
	}
	return nil
}

// duplicateError turns a unique-index violation into the Conflict the
// pre-check would have reported had it run after the competing write.
func (s *userService) duplicateError(ctx context.Context, email, username string, self uint, cause error) error {
	if err := s.checkUnique(ctx, email, username, self); err != nil {
		return err
	}
	// the competing row is gone again; still report the conflict we hit
	s.logger.WarnContext(ctx, "unique violation without a visible owner", "error", cause)
	return domain.Conflictf("Username or email already exists")
}
