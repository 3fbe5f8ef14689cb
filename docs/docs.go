package docs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ordersbot/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	ErrNoPermission error = errors.New("you do not have permission to access these files")
	ErrFileNotFound error = errors.New("file not found")
)

type File struct {
	Id           int       `db:"id"`
	TgFileId     string    `db:"telegram_file_id"`
	From         int64     `db:"from_chat_id"`
	Name         string    `db:"name"`
	OriginalName string    `db:"original_name"`
	Path         string    `db:"path"` // relative to the bot's working directory
	Mimetype     Mimetype  `db:"mimetype"`
	Filetype     Filetype  `db:"filetype"`
	CreatedAt    time.Time `db:"created_at"`
}

const fileColumns = `id, telegram_file_id, from_chat_id, name, original_name, path, filetype, mimetype, created_at`

func (f *File) StoreFile(ctx context.Context, dbx db.DBExecutor) error {
	if f.Filetype == "" {
		f.Filetype = GetFileCategory(f.Mimetype)
	}
	f.CreatedAt = time.Now()

	query := `
	INSERT INTO files
		(
		telegram_file_id,
		from_chat_id,
		name,
		original_name,
		path,
		filetype,
		mimetype,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := dbx.ExecContext(ctx,
		query,
		sql.NullString{String: f.TgFileId, Valid: f.TgFileId != ""},
		sql.NullInt64{Int64: f.From, Valid: f.From != 0},
		f.Name,
		f.OriginalName,
		f.Path,
		string(f.Filetype),
		string(f.Mimetype),
		f.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	f.Id = int(id)
	return nil
}

func scanFile(row interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	var (
		tgFileId     sql.NullString
		from         sql.NullInt64
		filetypeStr  string
		mimetypeStr  string
		createdAtStr sql.NullString
	)

	if err := row.Scan(
		&f.Id,
		&tgFileId,
		&from,
		&f.Name,
		&f.OriginalName,
		&f.Path,
		&filetypeStr,
		&mimetypeStr,
		&createdAtStr,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("scan file: %w", err)
	}

	f.TgFileId = tgFileId.String
	f.From = from.Int64
	f.Filetype = Filetype(filetypeStr)
	f.Mimetype = Mimetype(mimetypeStr)

	if createdAtStr.Valid {
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, createdAtStr.String); err == nil {
				f.CreatedAt = t
				break
			}
		}
	}
	return f, nil
}

// GetFile fills in any missing details from the db. Gotta have either Id,
// TgFileId or Name.
func (f *File) GetFile(ctx context.Context, dbx db.DBExecutor) error {
	var query string
	var arg any

	switch {
	case f.Id != 0:
		query = "SELECT " + fileColumns + " FROM files WHERE id = ?"
		arg = f.Id
	case f.TgFileId != "":
		query = "SELECT " + fileColumns + " FROM files WHERE telegram_file_id = ?"
		arg = f.TgFileId
	case f.Name != "":
		query = "SELECT " + fileColumns + " FROM files WHERE name = ?"
		arg = f.Name
	default:
		return fmt.Errorf("must provide either Id, TgFileId, or Name")
	}

	stored, err := scanFile(dbx.QueryRowContext(ctx, query, arg))
	if err != nil {
		return err
	}
	*f = *stored
	return nil
}

// GetAllFilesFromUser lists the files a chat uploaded. A chat may only list
// its own files.
func GetAllFilesFromUser(ctx context.Context, dbx db.DBExecutor, requester, chatId int64) ([]*File, error) {
	if requester != chatId {
		return nil, ErrNoPermission
	}

	rows, err := dbx.QueryContext(ctx, "SELECT "+fileColumns+" FROM files WHERE from_chat_id = ? ORDER BY id", chatId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]*File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		files = append(files, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return files, nil
}

// SendFileTo sends the file by Telegram id when it has one, otherwise
// uploads it from Path.
func (f *File) SendFileTo(caption string, to int64, bot *tgbotapi.BotAPI) (tgbotapi.Message, error) {
	var file tgbotapi.RequestFileData = tgbotapi.FilePath(f.Path)
	if f.TgFileId != "" {
		file = tgbotapi.FileID(f.TgFileId)
	}

	doc := tgbotapi.NewDocument(to, file)
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML

	return bot.Send(doc)
}
