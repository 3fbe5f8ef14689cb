package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	storage, err := Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestOpenCreatesTables(t *testing.T) {
	storage := openTestDB(t)

	for _, table := range []string{"users", "files", "orders"} {
		var name string
		err := storage.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	require.NoError(t, CheckAllTables(storage))
}

func TestStoreUserKeepsIdAndLang(t *testing.T) {
	ctx := context.Background()
	storage := openTestDB(t)

	u := &User{ChatId: 42, Name: "Jan", TgTag: "jan_k", Lang: "de"}
	require.NoError(t, u.StoreUser(ctx, storage))
	id := u.Id

	again := &User{ChatId: 42, Name: "Jan Kowalski", Lang: "en"}
	require.NoError(t, again.StoreUser(ctx, storage))
	assert.Equal(t, id, again.Id)
	assert.Equal(t, "de", again.Lang)

	stored, err := GetUserByChatId(ctx, storage, 42)
	require.NoError(t, err)
	assert.Equal(t, "Jan Kowalski", stored.Name)
	assert.Empty(t, stored.TgTag)
	assert.Equal(t, "de", stored.Lang)
}

func TestStoreUserDefaultLang(t *testing.T) {
	ctx := context.Background()
	storage := openTestDB(t)

	u := &User{ChatId: 7, Name: "Anna"}
	require.NoError(t, u.StoreUser(ctx, storage))
	assert.Equal(t, DefaultLang, u.Lang)

	require.NoError(t, u.SetLang(ctx, storage, "en"))
	stored, err := GetUserByChatId(ctx, storage, 7)
	require.NoError(t, err)
	assert.Equal(t, "en", stored.Lang)

	assert.Error(t, u.SetLang(ctx, storage, "fr"))
}

func TestGetUsers(t *testing.T) {
	ctx := context.Background()
	storage := openTestDB(t)

	_, err := GetUserByChatId(ctx, storage, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	for _, chatId := range []int64{1, 2, 3} {
		require.NoError(t, (&User{ChatId: chatId, Name: "user"}).StoreUser(ctx, storage))
	}

	users, err := GetAllUsers(ctx, storage)
	require.NoError(t, err)
	chats := make([]int64, 0, len(users))
	for _, u := range users {
		chats = append(chats, u.ChatId)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3}, chats)
}
