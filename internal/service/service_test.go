package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tomlord1122/todo-tracker/internal/auth"
	"github.com/Tomlord1122/todo-tracker/internal/logging"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

type testEnv struct {
	store  *repository.MemoryStore
	users  UserService
	todos  TodoService
	hasher *auth.BcryptHasher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	return &testEnv{
		store:  store,
		users:  NewUserService(store, hasher, logging.Discard()),
		todos:  NewTodoService(store, logging.Discard()),
		hasher: hasher,
	}
}

func (e *testEnv) register(t *testing.T, username, email, password string) *UserResponse {
	t.Helper()
	user, err := e.users.RegisterUser(context.Background(), RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createTodo(t *testing.T, userID uint, text string) *TodoResponse {
	t.Helper()
	todo, err := e.todos.CreateTodo(context.Background(), userID, TodoRequest{TaskText: text})
	require.NoError(t, err)
	return todo
}
