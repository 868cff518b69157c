package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// memoryState is shared by a memory store and every transaction opened on it.
type memoryState struct {
	mu         sync.Mutex
	users      map[uint]domain.User
	todos      map[uint]domain.Todo
	nextUserID uint
	nextTodoID uint
}

// MemoryStore keeps users and todos in process memory. A single mutex
// serialises all access; a transaction holds it for its whole duration and
// restores a snapshot on rollback.
type MemoryStore struct {
	state *memoryState
	inTx  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memoryState{
			users: make(map[uint]domain.User),
			todos: make(map[uint]domain.Todo),
		},
	}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.state.mu.Lock()
	return s.state.mu.Unlock
}

func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{s} }

func (s *MemoryStore) Todos() TodoRepository { return &memoryTodoRepository{s} }

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx {
		return fn(s)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	users := maps.Clone(s.state.users)
	todos := maps.Clone(s.state.todos)
	nextUserID, nextTodoID := s.state.nextUserID, s.state.nextTodoID

	if err := fn(&MemoryStore{state: s.state, inTx: true}); err != nil {
		s.state.users = users
		s.state.todos = todos
		s.state.nextUserID, s.state.nextTodoID = nextUserID, nextTodoID
		return err
	}
	return nil
}

// Health reports the store as up along with its row counts.
func (s *MemoryStore) Health() map[string]string {
	defer s.lock()()
	return map[string]string{
		"status":  "up",
		"message": "in-memory store",
		"users":   strconv.Itoa(len(s.state.users)),
		"todos":   strconv.Itoa(len(s.state.todos)),
	}
}

func copyUser(u domain.User) *domain.User {
	if u.AvatarURL != nil {
		avatar := *u.AvatarURL
		u.AvatarURL = &avatar
	}
	return &u
}

type memoryUserRepository struct {
	s *MemoryStore
}

// conflict reports a unique-index violation by user against another row.
func (r *memoryUserRepository) conflict(user *domain.User) error {
	for _, other := range r.s.state.users {
		if other.ID == user.ID {
			continue
		}
		if other.Email == user.Email {
			return fmt.Errorf("%w: users email", ErrDuplicateKey)
		}
		if other.Username == user.Username {
			return fmt.Errorf("%w: users username", ErrDuplicateKey)
		}
	}
	return nil
}

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	defer r.s.lock()()
	if err := r.conflict(user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	r.s.state.nextUserID++
	now := time.Now()
	user.ID = r.s.state.nextUserID
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.state.users[user.ID] = *copyUser(*user)
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	defer r.s.lock()()
	user, ok := r.s.state.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

func (r *memoryUserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	defer r.s.lock()()
	for _, user := range r.s.state.users {
		if match(user) {
			return copyUser(user), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	defer r.s.lock()()
	users := make([]domain.User, 0, len(r.s.state.users))
	for _, id := range slices.Sorted(maps.Keys(r.s.state.users)) {
		users = append(users, *copyUser(r.s.state.users[id]))
	}
	return users, nil
}

func (r *memoryUserRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	defer r.s.lock()()
	_, ok := r.s.state.users[id]
	return ok, nil
}

// LockByID needs no extra locking: a transaction already holds the store mutex.
func (r *memoryUserRepository) LockByID(ctx context.Context, id uint, _ LockStrength) (*domain.User, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	defer r.s.lock()()
	existing, ok := r.s.state.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if err := r.conflict(user); err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	updated := *copyUser(*user)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	r.s.state.users[user.ID] = updated
	user.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *memoryUserRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.state.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.state.users, id)
	return nil
}

type memoryTodoRepository struct {
	s *MemoryStore
}

func (r *memoryTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	defer r.s.lock()()
	r.s.state.nextTodoID++
	now := time.Now()
	todo.ID = r.s.state.nextTodoID
	todo.CreatedAt, todo.UpdatedAt = now, now
	r.s.state.todos[todo.ID] = *todo
	return nil
}

func (r *memoryTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	defer r.s.lock()()
	todo, ok := r.s.state.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &todo, nil
}

func (r *memoryTodoRepository) LockByID(ctx context.Context, id uint) (*domain.Todo, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryTodoRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Todo, error) {
	return r.FindByUserIDs(ctx, []uint{userID})
}

func (r *memoryTodoRepository) FindByUserIDs(ctx context.Context, userIDs []uint) ([]domain.Todo, error) {
	defer r.s.lock()()
	todos := []domain.Todo{}
	for _, id := range slices.Sorted(maps.Keys(r.s.state.todos)) {
		todo := r.s.state.todos[id]
		if slices.Contains(userIDs, todo.UserID) {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (r *memoryTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	defer r.s.lock()()
	existing, ok := r.s.state.todos[todo.ID]
	if !ok {
		return ErrNotFound
	}
	existing.TaskText = todo.TaskText
	existing.Done = todo.Done
	existing.UpdatedAt = time.Now()
	r.s.state.todos[todo.ID] = existing
	todo.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *memoryTodoRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.state.todos[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.state.todos, id)
	return nil
}

func (r *memoryTodoRepository) DeleteByUserID(ctx context.Context, userID uint) (int64, error) {
	defer r.s.lock()()
	var n int64
	for id, todo := range r.s.state.todos {
		if todo.UserID == userID {
			delete(r.s.state.todos, id)
			n++
		}
	}
	return n, nil
}
