package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// TodoService defines the operations for managing todos. Every call is
// scoped to the owner named in the request path.
type TodoService interface {
	// GetTodosByUserID lists the owner's todos in creation order. An unknown
	// owner simply has none.
	GetTodosByUserID(ctx context.Context, userID uint) ([]TodoResponse, error)

	// CreateTodo adds a todo for an existing user.
	CreateTodo(ctx context.Context, userID uint, req TodoRequest) (*TodoResponse, error)

	// UpdateTodo overwrites the text and done flag of a todo the user owns.
	UpdateTodo(ctx context.Context, userID, todoID uint, req TodoRequest) (*TodoResponse, error)

	// DeleteTodo removes a todo the user owns.
	DeleteTodo(ctx context.Context, userID, todoID uint) error
}

type todoService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewTodoService creates a TodoService on top of store.
func NewTodoService(store repository.Store, logger *slog.Logger) TodoService {
	return &todoService{
		store:  store,
		logger: logger,
	}
}

func todoNotFound(id uint) error {
	return domain.NotFoundf("Todo not found with id %d", id)
}

var errNotOwner = domain.Forbiddenf("Todo does not belong to user")

func (s *todoService) GetTodosByUserID(ctx context.Context, userID uint) ([]TodoResponse, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []TodoResponse{}, nil
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	todos, err := s.store.Todos().FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos of user %d: %w", userID, err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toTodoResponse(todo, user.Username))
	}
	return responses, nil
}

func (s *todoService) CreateTodo(ctx context.Context, userID uint, req TodoRequest) (*TodoResponse, error) {
	var response TodoResponse
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		// the share lock keeps a concurrent DeleteUser from orphaning the todo
		owner, err := tx.Users().LockByID(ctx, userID, repository.LockForShare)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return userNotFound(userID)
			}
			return fmt.Errorf("lock user %d: %w", userID, err)
		}

		todo := &domain.Todo{
			TaskText: req.TaskText,
			Done:     req.Done,
			UserID:   owner.ID,
		}
		if err := tx.Todos().Create(ctx, todo); err != nil {
			return fmt.Errorf("create todo for user %d: %w", userID, err)
		}
		response = toTodoResponse(*todo, owner.Username)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "todo created", "user_id", userID, "todo_id", response.ID)
	return &response, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, userID, todoID uint, req TodoRequest) (*TodoResponse, error) {
	var response TodoResponse
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		todo, err := s.lockOwned(ctx, tx, userID, todoID)
		if err != nil {
			return err
		}

		todo.TaskText = req.TaskText
		todo.Done = req.Done
		if err := tx.Todos().Update(ctx, todo); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return todoNotFound(todoID)
			}
			return fmt.Errorf("update todo %d: %w", todoID, err)
		}

		owner, err := tx.Users().FindByID(ctx, todo.UserID)
		if err != nil {
			return fmt.Errorf("get owner of todo %d: %w", todoID, err)
		}
		response = toTodoResponse(*todo, owner.Username)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, userID, todoID uint) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := s.lockOwned(ctx, tx, userID, todoID); err != nil {
			return err
		}
		if err := tx.Todos().Delete(ctx, todoID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return todoNotFound(todoID)
			}
			return fmt.Errorf("delete todo %d: %w", todoID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "todo deleted", "user_id", userID, "todo_id", todoID)
	return nil
}

// lockOwned loads and locks a todo, checking existence before ownership.
func (s *todoService) lockOwned(ctx context.Context, tx repository.Store, userID, todoID uint) (*domain.Todo, error) {
	todo, err := tx.Todos().LockByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, todoNotFound(todoID)
		}
		return nil, fmt.Errorf("lock todo %d: %w", todoID, err)
	}
	if !todo.OwnedBy(userID) {
		s.logger.WarnContext(ctx, "todo access denied", "user_id", userID, "todo_id", todoID, "owner_id", todo.UserID)
		return nil, errNotOwner
	}
	return todo, nil
}
