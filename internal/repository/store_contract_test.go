package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// runStoreContract exercises behaviour every Store implementation must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("UserCreateAndFind", func(t *testing.T) { testUserCreateAndFind(t, newStore(t)) })
	t.Run("UserUniqueness", func(t *testing.T) { testUserUniqueness(t, newStore(t)) })
	t.Run("UserUpdate", func(t *testing.T) { testUserUpdate(t, newStore(t)) })
	t.Run("UserDelete", func(t *testing.T) { testUserDelete(t, newStore(t)) })
	t.Run("TodoLifecycle", func(t *testing.T) { testTodoLifecycle(t, newStore(t)) })
	t.Run("TodoUpdateKeepsOwner", func(t *testing.T) { testTodoUpdateKeepsOwner(t, newStore(t)) })
	t.Run("TodoMissingRows", func(t *testing.T) { testTodoMissingRows(t, newStore(t)) })
	t.Run("TransactionCommit", func(t *testing.T) { testTransactionCommit(t, newStore(t)) })
	t.Run("TransactionRollback", func(t *testing.T) { testTransactionRollback(t, newStore(t)) })
}

func newTestUser(username, email string) *domain.User {
	return &domain.User{Username: username, Email: email, PasswordHash: "hash-" + username}
}

func mustCreateUser(t *testing.T, s Store, username, email string) *domain.User {
	t.Helper()
	user := newTestUser(username, email)
	require.NoError(t, s.Users().Create(context.Background(), user))
	return user
}

func mustCreateTodo(t *testing.T, s Store, userID uint, text string) *domain.Todo {
	t.Helper()
	todo := &domain.Todo{TaskText: text, UserID: userID}
	require.NoError(t, s.Todos().Create(context.Background(), todo))
	return todo
}

func testUserCreateAndFind(t *testing.T, s Store) {
	ctx := context.Background()
	avatar := "https://cdn.example.com/a.png"
	alice := newTestUser("alice", "a@x.com")
	alice.AvatarURL = &avatar
	require.NoError(t, s.Users().Create(ctx, alice))
	bob := mustCreateUser(t, s, "bob", "b@x.com")

	require.NotZero(t, alice.ID)
	assert.Greater(t, bob.ID, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	byID, err := s.Users().FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "hash-alice", byID.PasswordHash)
	require.NotNil(t, byID.AvatarURL)
	assert.Equal(t, avatar, *byID.AvatarURL)

	byEmail, err := s.Users().FindByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, byEmail.ID)
	assert.Nil(t, byEmail.AvatarURL)

	byName, err := s.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = s.Users().FindByID(ctx, bob.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users().FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users().FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := s.Users().ExistsByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.Users().ExistsByID(ctx, bob.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)

	all, err := s.Users().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []uint{alice.ID, bob.ID}, []uint{all[0].ID, all[1].ID})
}

func testUserUniqueness(t *testing.T, s Store) {
	ctx := context.Background()
	mustCreateUser(t, s, "alice", "a@x.com")

	err := s.Users().Create(ctx, newTestUser("alice2", "a@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	err = s.Users().Create(ctx, newTestUser("alice", "other@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	all, err := s.Users().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testUserUpdate(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice", "a@x.com")
	mustCreateUser(t, s, "bob", "b@x.com")

	avatar := "me.png"
	alice.Username = "alicia"
	alice.Email = "alicia@x.com"
	alice.AvatarURL = &avatar
	require.NoError(t, s.Users().Update(ctx, alice))

	got, err := s.Users().FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
	assert.Equal(t, "alicia@x.com", got.Email)
	assert.Equal(t, "hash-alice", got.PasswordHash)
	require.NotNil(t, got.AvatarURL)
	assert.Equal(t, "me.png", *got.AvatarURL)

	// clearing the avatar must be written too
	got.AvatarURL = nil
	require.NoError(t, s.Users().Update(ctx, got))
	got, err = s.Users().FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AvatarURL)

	got.Email = "b@x.com"
	assert.ErrorIs(t, s.Users().Update(ctx, got), ErrDuplicateKey)

	ghost := newTestUser("ghost", "ghost@x.com")
	ghost.ID = alice.ID + 100
	assert.ErrorIs(t, s.Users().Update(ctx, ghost), ErrNotFound)
}

func testUserDelete(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice", "a@x.com")

	require.NoError(t, s.Users().Delete(ctx, alice.ID))
	_, err := s.Users().FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Users().Delete(ctx, alice.ID), ErrNotFound)

	// the email and username are free again
	mustCreateUser(t, s, "alice", "a@x.com")
}

func testTodoLifecycle(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice", "a@x.com")
	bob := mustCreateUser(t, s, "bob", "b@x.com")

	first := mustCreateTodo(t, s, alice.ID, "buy milk")
	mustCreateTodo(t, s, bob.ID, "walk dog")
	second := mustCreateTodo(t, s, alice.ID, "pay rent")
	require.NotZero(t, first.ID)
	assert.False(t, first.Done)

	todos, err := s.Todos().FindByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, first.ID, todos[0].ID)
	assert.Equal(t, second.ID, todos[1].ID)
	assert.Equal(t, "buy milk", todos[0].TaskText)

	both, err := s.Todos().FindByUserIDs(ctx, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Len(t, both, 3)

	none, err := s.Todos().FindByUserID(ctx, bob.ID+100)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	first.TaskText = "buy oat milk"
	first.Done = true
	require.NoError(t, s.Todos().Update(ctx, first))
	got, err := s.Todos().FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", got.TaskText)
	assert.True(t, got.Done)

	locked, err := s.Todos().LockByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, locked.ID)

	require.NoError(t, s.Todos().Delete(ctx, second.ID))
	_, err = s.Todos().FindByID(ctx, second.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Todos().DeleteByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := s.Todos().FindByUserIDs(ctx, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, bob.ID, left[0].UserID)
}

func testTodoUpdateKeepsOwner(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice", "a@x.com")
	bob := mustCreateUser(t, s, "bob", "b@x.com")
	todo := mustCreateTodo(t, s, alice.ID, "buy milk")

	todo.UserID = bob.ID
	todo.TaskText = "changed"
	require.NoError(t, s.Todos().Update(ctx, todo))

	got, err := s.Todos().FindByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.UserID)
	assert.Equal(t, "changed", got.TaskText)
}

func testTodoMissingRows(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Todos().FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Todos().LockByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Todos().Update(ctx, &domain.Todo{ID: 999, TaskText: "x"}), ErrNotFound)
	assert.ErrorIs(t, s.Todos().Delete(ctx, 999), ErrNotFound)

	n, err := s.Todos().DeleteByUserID(ctx, 999)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testTransactionCommit(t *testing.T, s Store) {
	ctx := context.Background()
	var created *domain.User

	err := s.Transaction(ctx, func(tx Store) error {
		created = newTestUser("alice", "a@x.com")
		if err := tx.Users().Create(ctx, created); err != nil {
			return err
		}
		locked, err := tx.Users().LockByID(ctx, created.ID, LockForShare)
		if err != nil {
			return err
		}
		return tx.Todos().Create(ctx, &domain.Todo{TaskText: "inside tx", UserID: locked.ID})
	})
	require.NoError(t, err)

	todos, err := s.Todos().FindByUserID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "inside tx", todos[0].TaskText)
}

func testTransactionRollback(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice", "a@x.com")
	mustCreateTodo(t, s, alice.ID, "keep me")
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Store) error {
		if _, err := tx.Users().LockByID(ctx, alice.ID, LockForUpdate); err != nil {
			return err
		}
		if _, err := tx.Todos().DeleteByUserID(ctx, alice.ID); err != nil {
			return err
		}
		if err := tx.Users().Delete(ctx, alice.ID); err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, newTestUser("bob", "b@x.com")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().FindByID(ctx, alice.ID)
	require.NoError(t, err)
	_, err = s.Users().FindByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	todos, err := s.Todos().FindByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}
