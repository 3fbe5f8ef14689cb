package docs

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"ordersbot/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, chats ...int64) *sql.DB {
	t.Helper()
	storage, err := db.Open(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	for _, chatId := range chats {
		require.NoError(t, (&db.User{ChatId: chatId, Name: "user"}).StoreUser(context.Background(), storage))
	}
	return storage
}

func TestStoreAndGetFile(t *testing.T) {
	ctx := context.Background()
	storage := openTestDB(t, 42)

	f := &File{
		TgFileId:     "BQACAgIAAxkBAAI",
		From:         42,
		Name:         "1b4e28ba.pdf",
		OriginalName: "zlecenie 12.pdf",
		Path:         "storage/1b4e28ba.pdf",
		Mimetype:     MimeAppPDF,
	}
	require.NoError(t, f.StoreFile(ctx, storage))
	require.NotZero(t, f.Id)
	assert.Equal(t, Document, f.Filetype)

	lookups := []*File{{Id: f.Id}, {TgFileId: f.TgFileId}, {Name: f.Name}}
	for _, lookup := range lookups {
		require.NoError(t, lookup.GetFile(ctx, storage))
		assert.Equal(t, f.Id, lookup.Id)
		assert.Equal(t, "zlecenie 12.pdf", lookup.OriginalName)
		assert.Equal(t, int64(42), lookup.From)
		assert.Equal(t, MimeAppPDF, lookup.Mimetype)
		assert.False(t, lookup.CreatedAt.IsZero())
	}

	assert.ErrorIs(t, (&File{Id: f.Id + 100}).GetFile(ctx, storage), ErrFileNotFound)
	assert.Error(t, (&File{}).GetFile(ctx, storage))
}

func TestGetAllFilesFromUser(t *testing.T) {
	ctx := context.Background()
	storage := openTestDB(t, 1, 2)

	for _, name := range []string{"a.pdf", "b.pdf"} {
		require.NoError(t, (&File{From: 1, Name: name, OriginalName: name, Path: name, Mimetype: MimeAppPDF}).StoreFile(ctx, storage))
	}
	require.NoError(t, (&File{From: 2, Name: "c.xlsx", OriginalName: "c.xlsx", Path: "c.xlsx", Mimetype: MimeAppXlsx}).StoreFile(ctx, storage))

	files, err := GetAllFilesFromUser(ctx, storage, 1, 1)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.pdf", files[0].Name)

	files, err = GetAllFilesFromUser(ctx, storage, 2, 2)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, Spreadsheet, files[0].Filetype)

	_, err = GetAllFilesFromUser(ctx, storage, 2, 1)
	assert.ErrorIs(t, err, ErrNoPermission)
}

func TestDetectMimetype(t *testing.T) {
	tests := []struct {
		reported string
		name     string
		want     Mimetype
	}{
		{"application/pdf", "order", MimeAppPDF},
		{"application/octet-stream", "Zlecenie.PDF", MimeAppPDF},
		{"", "orders.xlsx", MimeAppXlsx},
		{"image/png", "scan.png", MimeAppOctetStream},
		{"text/plain", "notes.pdf", MimeTextPlain},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMimetype(tt.reported, tt.name), tt.name)
	}
	assert.Equal(t, Other, GetFileCategory(MimeAppJSON))
}
